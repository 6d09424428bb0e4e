package memory

import (
	"context"
	"errors"
	"testing"

	"eduflex-video-service/internal/domain"
)

func TestAddVideoAssignsFreshIDs(t *testing.T) {
	ctx := context.Background()
	store := NewVideoStore()

	video, err := store.AddVideo(ctx, sampleDraft())
	if err != nil {
		t.Fatalf("add video: %v", err)
	}
	if video.ID == "" || video.CreatedAt.IsZero() {
		t.Fatalf("expected id and creation timestamp, got %+v", video)
	}

	seen := map[string]bool{video.ID: true}
	for i, q := range video.Questions {
		if q.ID == "" || seen[q.ID] {
			t.Fatalf("question %d id not fresh: %q", i, q.ID)
		}
		seen[q.ID] = true
		if q.VideoID != video.ID {
			t.Fatalf("question %d videoId %q, want %q", i, q.VideoID, video.ID)
		}
		if q.OrderIndex != i+1 {
			t.Fatalf("question %d orderIndex %d, want %d", i, q.OrderIndex, i+1)
		}
	}

	other, err := store.AddVideo(ctx, sampleDraft())
	if err != nil {
		t.Fatalf("add second video: %v", err)
	}
	if other.ID == video.ID {
		t.Fatalf("expected unique video ids")
	}
}

func TestGetVideoMissing(t *testing.T) {
	store := NewVideoStore()
	_, err := store.GetVideo(context.Background(), "missing")
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListVideosCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := NewVideoStore()

	first, _ := store.AddVideo(ctx, sampleDraft())
	second, _ := store.AddVideo(ctx, sampleDraft())

	videos, err := store.ListVideos(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != first.ID || videos[1].ID != second.ID {
		t.Fatalf("expected creation order [%s %s], got %+v", first.ID, second.ID, videos)
	}
}

func sampleDraft() domain.VideoDraft {
	return domain.VideoDraft{
		TeacherID:   "t1",
		Title:       "Cell Biology Basics",
		Description: "A quick tour of the cell.",
		MediaURL:    "https://example.com/cells.mp4",
		Duration:    300,
		Questions: []domain.QuestionDraft{
			{
				Text:          "What is the powerhouse of the cell?",
				CorrectAnswer: "Mitochondria",
				Options:       []string{"Nucleus", "Mitochondria", "Ribosome"},
				Timestamp:     60,
				Explanation:   "Mitochondria produce most of the cell's ATP.",
			},
			{
				Text:          "Where is DNA stored?",
				CorrectAnswer: "Nucleus",
				Options:       []string{"Nucleus", "Cytoplasm", "Membrane"},
				Timestamp:     120,
				Explanation:   "The nucleus holds the cell's genetic material.",
			},
		},
	}
}
