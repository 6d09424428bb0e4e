package memory

import (
	"context"
	"sync"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
)

// AttemptStore is the in-memory append-only attempt log.
type AttemptStore struct {
	clock func() time.Time

	mu       sync.RWMutex
	attempts []domain.QuizAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{clock: time.Now}
}

// Add stamps the attempt with a fresh id and timestamp and appends it.
// Never updates or deduplicates.
func (s *AttemptStore) Add(_ context.Context, attempt domain.QuizAttempt) (domain.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.ID = uuid.NewString()
	attempt.AttemptedAt = s.clock()
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

func (s *AttemptStore) List(_ context.Context, videoID, studentID string) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.QuizAttempt, 0)
	for _, attempt := range s.attempts {
		if attempt.VideoID == videoID && attempt.StudentID == studentID {
			matched = append(matched, attempt)
		}
	}
	return matched, nil
}
