package app

import (
	"context"
	"math"
	"time"

	"eduflex-video-service/internal/domain"
)

// TrackingService converts raw playback events into progress updates.
type TrackingService struct {
	videos   VideoRepository
	progress ProgressRepository
	now      func() time.Time
}

func NewTrackingService(videos VideoRepository, progress ProgressRepository) *TrackingService {
	return NewTrackingServiceWithClock(videos, progress, time.Now)
}

// NewTrackingServiceWithClock is test-only for deterministic timestamps.
func NewTrackingServiceWithClock(videos VideoRepository, progress ProgressRepository, now func() time.Time) *TrackingService {
	return &TrackingService{videos: videos, progress: progress, now: now}
}

// RecordSample applies one periodic playback reading. Watch time only moves
// forward: the store merges via max(new, old), so seeking backward never
// regresses it, and a sample arriving after completion is dropped entirely.
func (s *TrackingService) RecordSample(ctx context.Context, studentID, videoID string, sample domain.PlaybackSample) (domain.VideoProgress, error) {
	if _, err := s.videos.GetVideo(ctx, videoID); err != nil {
		return domain.VideoProgress{}, err
	}

	position := int(math.Floor(sample.Position))
	if position < 0 {
		position = 0
	}
	completed := false
	return s.progress.Upsert(ctx, studentID, videoID, domain.ProgressPatch{
		WatchTime:    &position,
		LastPosition: &position,
		Completed:    &completed,
	})
}

// CompleteVideo handles the terminal end-of-media event. This is the only
// path that sets the completed flag; once set it never reverts.
func (s *TrackingService) CompleteVideo(ctx context.Context, studentID, videoID string) (domain.VideoProgress, error) {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return domain.VideoProgress{}, err
	}

	duration := video.Duration
	completed := true
	completedAt := s.now()
	return s.progress.Upsert(ctx, studentID, videoID, domain.ProgressPatch{
		WatchTime:    &duration,
		LastPosition: &duration,
		Completed:    &completed,
		CompletedAt:  &completedAt,
	})
}

// Progress returns the stored record for the pair, if any.
func (s *TrackingService) Progress(ctx context.Context, videoID, studentID string) (domain.VideoProgress, bool, error) {
	return s.progress.Get(ctx, videoID, studentID)
}

// ResumePosition is where playback should seek to when a student revisits an
// in-progress video. Zero when there is no record yet.
func (s *TrackingService) ResumePosition(ctx context.Context, videoID, studentID string) (int, error) {
	record, ok, err := s.progress.Get(ctx, videoID, studentID)
	if err != nil || !ok {
		return 0, err
	}
	return record.LastPosition, nil
}
