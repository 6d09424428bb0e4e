package memory

import (
	"context"
	"sync"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
)

type progressKey struct {
	studentID string
	videoID   string
}

// ProgressStore is an in-memory implementation of app.ProgressRepository.
// The single mutex serializes mutations, so updates for a pair land in
// arrival order.
type ProgressStore struct {
	clock func() time.Time

	mu      sync.RWMutex
	records map[progressKey]*domain.VideoProgress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		clock:   time.Now,
		records: make(map[progressKey]*domain.VideoProgress),
	}
}

func (s *ProgressStore) Get(_ context.Context, videoID, studentID string) (domain.VideoProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[progressKey{studentID: studentID, videoID: videoID}]; ok {
		return *record, true, nil
	}
	return domain.VideoProgress{}, false, nil
}

// Upsert creates the pair's record on first contact (numeric fields zero,
// startedAt now) and merges the patch into it. Merge rules live on the
// record itself: monotonic watch time, sticky completion.
func (s *ProgressStore) Upsert(_ context.Context, studentID, videoID string, patch domain.ProgressPatch) (domain.VideoProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{studentID: studentID, videoID: videoID}
	record, ok := s.records[key]
	if !ok {
		record = &domain.VideoProgress{
			ID:        uuid.NewString(),
			StudentID: studentID,
			VideoID:   videoID,
			StartedAt: s.clock(),
		}
		s.records[key] = record
	}
	record.Apply(patch)
	return *record, nil
}
