package memory

import (
	"context"
	"sync"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
)

// VideoStore is the authoritative in-memory video catalog.
type VideoStore struct {
	clock func() time.Time

	mu     sync.RWMutex
	videos map[string]domain.Video
	order  []string // creation order for listing
}

func NewVideoStore() *VideoStore {
	return &VideoStore{
		clock:  time.Now,
		videos: make(map[string]domain.Video),
	}
}

// AddVideo assigns a fresh id and creation timestamp, stamps every question
// with its own fresh id, the new video id and its input-order index, and
// appends the video to the catalog. It never fails: validation is the
// uploader's contract, not the store's.
func (s *VideoStore) AddVideo(_ context.Context, draft domain.VideoDraft) (domain.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	video := domain.Video{
		ID:          uuid.NewString(),
		TeacherID:   draft.TeacherID,
		Title:       draft.Title,
		Description: draft.Description,
		MediaURL:    draft.MediaURL,
		Duration:    draft.Duration,
		CreatedAt:   s.clock(),
		Questions:   make([]domain.Question, 0, len(draft.Questions)),
	}
	for i, q := range draft.Questions {
		video.Questions = append(video.Questions, domain.Question{
			ID:            uuid.NewString(),
			VideoID:       video.ID,
			Text:          q.Text,
			CorrectAnswer: q.CorrectAnswer,
			Options:       append([]string(nil), q.Options...),
			Timestamp:     q.Timestamp,
			Explanation:   q.Explanation,
			OrderIndex:    i + 1,
		})
	}

	s.videos[video.ID] = video
	s.order = append(s.order, video.ID)
	return video, nil
}

func (s *VideoStore) GetVideo(_ context.Context, videoID string) (domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if video, ok := s.videos[videoID]; ok {
		return video, nil
	}
	return domain.Video{}, domain.ErrVideoNotFound
}

// LoadVideo lets the store double as a VideoLoader behind a cache.
func (s *VideoStore) LoadVideo(ctx context.Context, videoID string) (domain.Video, error) {
	return s.GetVideo(ctx, videoID)
}

func (s *VideoStore) ListVideos(_ context.Context) ([]domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	videos := make([]domain.Video, 0, len(s.order))
	for _, id := range s.order {
		videos = append(videos, s.videos[id])
	}
	return videos, nil
}
