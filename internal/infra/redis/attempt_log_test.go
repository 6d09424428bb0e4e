package redis

import (
	"context"
	"testing"
	"time"

	"eduflex-video-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestAttemptLogAppendsInOrder(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	log := NewAttemptLog(newClient(mr), time.Minute)

	first, err := log.Add(ctx, domain.QuizAttempt{StudentID: "s1", VideoID: "v1", QuestionID: "q1", StudentAnswer: "Water"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := log.Add(ctx, domain.QuizAttempt{StudentID: "s1", VideoID: "v1", QuestionID: "q1", StudentAnswer: "Sunlight", IsCorrect: true})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == second.ID || first.ID == "" {
		t.Fatalf("expected fresh unique ids, got %q and %q", first.ID, second.ID)
	}

	attempts, err := log.List(ctx, "v1", "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].StudentAnswer != "Water" || attempts[1].StudentAnswer != "Sunlight" {
		t.Fatalf("expected insertion order, got %+v", attempts)
	}
	if !attempts[1].IsCorrect {
		t.Fatalf("correctness flag lost in round trip")
	}
}

func TestAttemptLogScopedPerPair(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	log := NewAttemptLog(newClient(mr), time.Minute)

	_, _ = log.Add(ctx, domain.QuizAttempt{StudentID: "s1", VideoID: "v1", QuestionID: "q1"})
	_, _ = log.Add(ctx, domain.QuizAttempt{StudentID: "s2", VideoID: "v1", QuestionID: "q1"})

	attempts, err := log.List(ctx, "v1", "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 1 || attempts[0].StudentID != "s1" {
		t.Fatalf("expected only s1's attempts, got %+v", attempts)
	}
}
