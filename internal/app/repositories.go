package app

import (
	"context"

	"eduflex-video-service/internal/domain"
)

// VideoRepository serves video content on the hot read path (cache/backing store).
type VideoRepository interface {
	GetVideo(ctx context.Context, videoID string) (domain.Video, error)
}

// VideoCatalog owns the video collection: authoring plus lookups and listing.
type VideoCatalog interface {
	AddVideo(ctx context.Context, draft domain.VideoDraft) (domain.Video, error)
	GetVideo(ctx context.Context, videoID string) (domain.Video, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
}

// ProgressRepository holds at most one progress record per (studentId, videoId).
// Get reports absence via the bool; absence is "no data yet", not an error.
type ProgressRepository interface {
	Get(ctx context.Context, videoID, studentID string) (domain.VideoProgress, bool, error)
	Upsert(ctx context.Context, studentID, videoID string, patch domain.ProgressPatch) (domain.VideoProgress, error)
}

// AttemptRepository is the append-only quiz attempt log.
// Add assigns the id and timestamp; List returns records in insertion order.
type AttemptRepository interface {
	Add(ctx context.Context, attempt domain.QuizAttempt) (domain.QuizAttempt, error)
	List(ctx context.Context, videoID, studentID string) ([]domain.QuizAttempt, error)
}

// QuizSessionRepository abstracts how open quiz sessions are tracked
// (in-memory, Redis-marked, etc). Sessions are transient UI-lifetime state.
type QuizSessionRepository interface {
	GetOrCreate(studentID, videoID string, totalQuestions int) *QuizSession
	Get(studentID, videoID string) (*QuizSession, bool)
	Delete(studentID, videoID string)
}
