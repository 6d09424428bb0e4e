package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProgressStore keeps progress records as one Redis hash per
// (studentId, videoId) pair:
//
//	HSET progress:{studentID}:{videoID} watchTime lastPosition completed ...
//
// A local mutex serializes read-modify-write cycles, so within one instance
// updates for a pair land in arrival order and the sticky-completed merge in
// domain.VideoProgress.Apply is never raced.
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
	clock  func() time.Time
	mu     sync.Mutex
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl, clock: time.Now}
}

func (s *ProgressStore) Get(ctx context.Context, videoID, studentID string) (domain.VideoProgress, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(studentID, videoID)).Result()
	if err != nil {
		return domain.VideoProgress{}, false, err
	}
	if len(fields) == 0 {
		return domain.VideoProgress{}, false, nil
	}
	return recordFromFields(studentID, videoID, fields), true, nil
}

func (s *ProgressStore) Upsert(ctx context.Context, studentID, videoID string, patch domain.ProgressPatch) (domain.VideoProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok, err := s.Get(ctx, videoID, studentID)
	if err != nil {
		return domain.VideoProgress{}, err
	}
	if !ok {
		record = domain.VideoProgress{
			ID:        uuid.NewString(),
			StudentID: studentID,
			VideoID:   videoID,
			StartedAt: s.clock(),
		}
	}
	record.Apply(patch)

	key := s.key(studentID, videoID)
	fields := map[string]interface{}{
		"id":           record.ID,
		"watchTime":    record.WatchTime,
		"lastPosition": record.LastPosition,
		"completed":    boolField(record.Completed),
		"startedAt":    record.StartedAt.Format(time.RFC3339Nano),
	}
	if record.CompletedAt != nil {
		fields["completedAt"] = record.CompletedAt.Format(time.RFC3339Nano)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.VideoProgress{}, err
	}
	return record, nil
}

func (s *ProgressStore) key(studentID, videoID string) string {
	return "progress:" + studentID + ":" + videoID
}

func recordFromFields(studentID, videoID string, fields map[string]string) domain.VideoProgress {
	record := domain.VideoProgress{
		ID:        fields["id"],
		StudentID: studentID,
		VideoID:   videoID,
		Completed: fields["completed"] == "1",
	}
	if v, err := strconv.Atoi(fields["watchTime"]); err == nil {
		record.WatchTime = v
	}
	if v, err := strconv.Atoi(fields["lastPosition"]); err == nil {
		record.LastPosition = v
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["startedAt"]); err == nil {
		record.StartedAt = t
	}
	if raw, ok := fields["completedAt"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			record.CompletedAt = &t
		}
	}
	return record
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
