package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"eduflex-video-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// VideoLoader fetches video content from a backing store (catalog, Postgres).
type VideoLoader interface {
	LoadVideo(ctx context.Context, videoID string) (domain.Video, error)
}

// VideoCache caches videos in Redis and falls back to a loader on cache miss.
// Questions are stored as: HSET video:{videoID}:questions {questionID} {json}
// Metadata is stored as:   HSET video:{videoID}:meta {field} {value}
type VideoCache struct {
	client *redis.Client
	loader VideoLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewVideoCache(client *redis.Client, loader VideoLoader, ttl time.Duration) *VideoCache {
	return &VideoCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *VideoCache) GetVideo(ctx context.Context, videoID string) (domain.Video, error) {
	meta, err := c.client.HGetAll(ctx, c.metaKey(videoID)).Result()
	if err == nil && len(meta) > 0 {
		questions, _ := c.client.HGetAll(ctx, c.questionsKey(videoID)).Result()
		return buildVideoFromCache(videoID, meta, questions)
	}

	result, err, _ := c.sf.Do(videoID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		meta, err := c.client.HGetAll(ctx, c.metaKey(videoID)).Result()
		if err == nil && len(meta) > 0 {
			questions, _ := c.client.HGetAll(ctx, c.questionsKey(videoID)).Result()
			return buildVideoFromCache(videoID, meta, questions)
		}

		video, err := c.loader.LoadVideo(ctx, videoID)
		if err != nil {
			return domain.Video{}, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		pipe.HSet(ctx, c.metaKey(videoID), map[string]interface{}{
			"teacherId":   video.TeacherID,
			"title":       video.Title,
			"description": video.Description,
			"mediaUrl":    video.MediaURL,
			"duration":    video.Duration,
			"createdAt":   video.CreatedAt.Format(time.RFC3339Nano),
		})
		for _, q := range video.Questions {
			data, err := json.Marshal(q)
			if err != nil {
				continue
			}
			pipe.HSet(ctx, c.questionsKey(videoID), q.ID, data)
		}
		if ttl > 0 {
			pipe.Expire(ctx, c.metaKey(videoID), ttl)
			pipe.Expire(ctx, c.questionsKey(videoID), ttl)
		}
		_, _ = pipe.Exec(ctx)

		return video, nil
	})
	if err != nil {
		return domain.Video{}, err
	}
	return result.(domain.Video), nil
}

func (c *VideoCache) metaKey(videoID string) string {
	return "video:" + videoID + ":meta"
}

func (c *VideoCache) questionsKey(videoID string) string {
	return "video:" + videoID + ":questions"
}

func buildVideoFromCache(videoID string, meta map[string]string, rawQuestions map[string]string) (domain.Video, error) {
	video := domain.Video{
		ID:          videoID,
		TeacherID:   meta["teacherId"],
		Title:       meta["title"],
		Description: meta["description"],
		MediaURL:    meta["mediaUrl"],
	}
	if v, err := strconv.Atoi(meta["duration"]); err == nil {
		video.Duration = v
	}
	if t, err := time.Parse(time.RFC3339Nano, meta["createdAt"]); err == nil {
		video.CreatedAt = t
	}

	video.Questions = make([]domain.Question, 0, len(rawQuestions))
	for _, raw := range rawQuestions {
		var question domain.Question
		if err := json.Unmarshal([]byte(raw), &question); err != nil {
			continue
		}
		video.Questions = append(video.Questions, question)
	}
	// Hash iteration is unordered; restore the authoring order.
	sort.Slice(video.Questions, func(i, j int) bool {
		return video.Questions[i].OrderIndex < video.Questions[j].OrderIndex
	})
	return video, nil
}

func (c *VideoCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
