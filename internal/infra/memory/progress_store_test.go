package memory

import (
	"context"
	"testing"
	"time"

	"eduflex-video-service/internal/domain"
)

func TestUpsertCreatesThenMerges(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	_, ok, err := store.Get(ctx, "v1", "s1")
	if err != nil || ok {
		t.Fatalf("expected no record yet, got ok=%v err=%v", ok, err)
	}

	first, err := store.Upsert(ctx, "s1", "v1", patch(10, 10, false))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID == "" || first.StartedAt.IsZero() {
		t.Fatalf("expected id and startedAt on creation, got %+v", first)
	}
	if first.WatchTime != 10 || first.Completed {
		t.Fatalf("unexpected initial record: %+v", first)
	}

	second, err := store.Upsert(ctx, "s1", "v1", patch(20, 20, false))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID || second.StartedAt != first.StartedAt {
		t.Fatalf("expected merge into the same record, got %+v vs %+v", second, first)
	}
	if second.WatchTime != 20 {
		t.Fatalf("expected watchTime 20, got %d", second.WatchTime)
	}
}

func TestWatchTimeNeverRegresses(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	if _, err := store.Upsert(ctx, "s1", "v1", patch(50, 50, false)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	record, err := store.Upsert(ctx, "s1", "v1", patch(5, 5, false))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if record.WatchTime != 50 {
		t.Fatalf("watch time regressed to %d", record.WatchTime)
	}
	if record.LastPosition != 5 {
		t.Fatalf("expected lastPosition to follow the seek, got %d", record.LastPosition)
	}
}

func TestCompletedIsSticky(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	now := time.Now()
	completed := true
	duration := 300
	record, err := store.Upsert(ctx, "s1", "v1", domain.ProgressPatch{
		WatchTime:    &duration,
		LastPosition: &duration,
		Completed:    &completed,
		CompletedAt:  &now,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !record.Completed || record.CompletedAt == nil {
		t.Fatalf("expected completed record, got %+v", record)
	}

	// A late tick carrying completed=false is dropped wholesale.
	record, err = store.Upsert(ctx, "s1", "v1", patch(100, 100, false))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !record.Completed || record.WatchTime != duration || record.LastPosition != duration {
		t.Fatalf("late tick corrupted completed record: %+v", record)
	}
}

func TestRecordsKeyedPerPair(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	a, _ := store.Upsert(ctx, "s1", "v1", patch(10, 10, false))
	b, _ := store.Upsert(ctx, "s2", "v1", patch(20, 20, false))
	c, _ := store.Upsert(ctx, "s1", "v2", patch(30, 30, false))

	if a.ID == b.ID || a.ID == c.ID || b.ID == c.ID {
		t.Fatalf("expected distinct records per pair")
	}
	got, ok, _ := store.Get(ctx, "v1", "s1")
	if !ok || got.WatchTime != 10 {
		t.Fatalf("wrong record for (s1, v1): %+v", got)
	}
}

func patch(watchTime, lastPosition int, completed bool) domain.ProgressPatch {
	return domain.ProgressPatch{
		WatchTime:    &watchTime,
		LastPosition: &lastPosition,
		Completed:    &completed,
	}
}
