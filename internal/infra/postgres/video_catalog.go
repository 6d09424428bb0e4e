package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// VideoCatalog stores each video (with its questions) as a JSONB row.
type VideoCatalog struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewVideoCatalog(pool *pgxpool.Pool) *VideoCatalog {
	return &VideoCatalog{pool: pool, clock: time.Now}
}

// AddVideo assigns fresh ids to the video and every question, stamps the
// question back-references and order indexes, and inserts the row.
func (c *VideoCatalog) AddVideo(ctx context.Context, draft domain.VideoDraft) (domain.Video, error) {
	video := domain.Video{
		ID:          uuid.NewString(),
		TeacherID:   draft.TeacherID,
		Title:       draft.Title,
		Description: draft.Description,
		MediaURL:    draft.MediaURL,
		Duration:    draft.Duration,
		CreatedAt:   c.clock(),
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

	data, err := json.Marshal(video)
	if err != nil {
		return domain.Video{}, fmt.Errorf("marshal video: %w", err)
	}
	if _, err := c.pool.Exec(ctx, `INSERT INTO videos (id, data, created_at) VALUES ($1, $2, $3)`, video.ID, data, video.CreatedAt); err != nil {
		return domain.Video{}, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

func (c *VideoCatalog) GetVideo(ctx context.Context, videoID string) (domain.Video, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx, `SELECT data FROM videos WHERE id=$1`, videoID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return domain.Video{}, domain.ErrVideoNotFound
	}
	if err != nil {
		return domain.Video{}, fmt.Errorf("load video: %w", err)
	}
	var video domain.Video
	if err := json.Unmarshal(raw, &video); err != nil {
		return domain.Video{}, fmt.Errorf("unmarshal video: %w", err)
	}
	return video, nil
}

// LoadVideo lets the catalog sit behind a cache as a VideoLoader.
func (c *VideoCatalog) LoadVideo(ctx context.Context, videoID string) (domain.Video, error) {
	return c.GetVideo(ctx, videoID)
}

func (c *VideoCatalog) ListVideos(ctx context.Context) ([]domain.Video, error) {
	rows, err := c.pool.Query(ctx, `SELECT data FROM videos ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		var video domain.Video
		if err := json.Unmarshal(raw, &video); err != nil {
			return nil, fmt.Errorf("unmarshal video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
