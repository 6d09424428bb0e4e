package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"eduflex-video-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// VideoLoader fetches video content from a backing store (catalog, Postgres).
type VideoLoader interface {
	LoadVideo(ctx context.Context, videoID string) (domain.Video, error)
}

// VideoCache memoizes video lookups for the per-sample read path. Concurrent
// misses for the same id collapse into one loader call, and ids the catalog
// does not know are remembered for a short window so repeated joins with a
// stale or mistyped id stop hitting the backing store.
type VideoCache struct {
	loader  VideoLoader
	ttl     time.Duration
	missTTL time.Duration
	clock   func() time.Time
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]videoEntry
}

type videoEntry struct {
	video   domain.Video
	missing bool
	staleAt time.Time
}

func NewVideoCache(loader VideoLoader, ttl time.Duration) *VideoCache {
	missTTL := ttl / 10
	if missTTL <= 0 {
		missTTL = time.Second
	}
	return &VideoCache{
		loader:  loader,
		ttl:     ttl,
		missTTL: missTTL,
		clock:   time.Now,
		entries: make(map[string]videoEntry),
	}
}

func (c *VideoCache) GetVideo(ctx context.Context, videoID string) (domain.Video, error) {
	if video, ok, err := c.lookup(videoID); ok {
		return video, err
	}

	result, err, _ := c.group.Do(videoID, func() (interface{}, error) {
		if video, ok, err := c.lookup(videoID); ok {
			return video, err
		}

		video, err := c.loader.LoadVideo(ctx, videoID)
		if errors.Is(err, domain.ErrVideoNotFound) {
			c.store(videoID, videoEntry{missing: true, staleAt: c.clock().Add(c.missTTL)})
			return domain.Video{}, err
		}
		if err != nil {
			return domain.Video{}, err
		}

		c.store(videoID, videoEntry{video: video, staleAt: c.clock().Add(c.hitTTL())})
		return video, nil
	})
	if err != nil {
		return domain.Video{}, err
	}
	return result.(domain.Video), nil
}

// lookup answers from the entry map when it holds a fresh hit or a fresh
// negative entry; ok=false sends the caller to the loader.
func (c *VideoCache) lookup(videoID string) (domain.Video, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[videoID]
	c.mu.RUnlock()
	if !ok || !entry.staleAt.After(c.clock()) {
		return domain.Video{}, false, nil
	}
	if entry.missing {
		return domain.Video{}, true, domain.ErrVideoNotFound
	}
	return entry.video, true, nil
}

func (c *VideoCache) store(videoID string, entry videoEntry) {
	c.mu.Lock()
	c.entries[videoID] = entry
	c.mu.Unlock()
}

// hitTTL spreads expirations by up to 10% so a catalog loaded in one burst
// does not fall out of cache all at once.
func (c *VideoCache) hitTTL() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	return c.ttl + time.Duration(rand.Int63n(int64(c.ttl)/10+1))
}
