package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AttemptLog stores the append-only attempt log as a Redis list per
// (studentId, videoId) pair: RPUSH attempts:{studentID}:{videoID} {json}.
// Insertion order is the list order, so reads come back in submission order.
type AttemptLog struct {
	client *redis.Client
	ttl    time.Duration
	clock  func() time.Time
}

func NewAttemptLog(client *redis.Client, ttl time.Duration) *AttemptLog {
	return &AttemptLog{client: client, ttl: ttl, clock: time.Now}
}

func (l *AttemptLog) Add(ctx context.Context, attempt domain.QuizAttempt) (domain.QuizAttempt, error) {
	attempt.ID = uuid.NewString()
	attempt.AttemptedAt = l.clock()

	data, err := json.Marshal(attempt)
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("marshal attempt: %w", err)
	}

	key := l.key(attempt.StudentID, attempt.VideoID)
	pipe := l.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.QuizAttempt{}, err
	}
	return attempt, nil
}

func (l *AttemptLog) List(ctx context.Context, videoID, studentID string) ([]domain.QuizAttempt, error) {
	raw, err := l.client.LRange(ctx, l.key(studentID, videoID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	attempts := make([]domain.QuizAttempt, 0, len(raw))
	for _, item := range raw {
		var attempt domain.QuizAttempt
		if err := json.Unmarshal([]byte(item), &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func (l *AttemptLog) key(studentID, videoID string) string {
	return "attempts:" + studentID + ":" + videoID
}
