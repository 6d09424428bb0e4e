package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduflex-video-service/internal/app"
	"eduflex-video-service/internal/domain"
	"eduflex-video-service/internal/infra/memory"
)

func TestCreateVideoRequiresTeacherRole(t *testing.T) {
	_, mux := newRESTFixture(t)

	status, _ := postVideo(t, mux, "student", sampleDraft())
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for student upload, got %d", status)
	}

	status, body := postVideo(t, mux, "teacher", sampleDraft())
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var created domain.Video
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created video: %v", err)
	}
	if created.ID == "" || len(created.Questions) != 3 {
		t.Fatalf("unexpected created video: %+v", created)
	}
}

func TestCreateVideoRejectsInvalidDraft(t *testing.T) {
	_, mux := newRESTFixture(t)

	draft := sampleDraft()
	draft.Questions[0].CorrectAnswer = "not an option"
	status, _ := postVideo(t, mux, "teacher", draft)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad draft, got %d", status)
	}
}

func TestGetProgressReportsMissingAsNull(t *testing.T) {
	fixture, mux := newRESTFixture(t)

	status, body := postVideo(t, mux, "teacher", sampleDraft())
	if status != http.StatusCreated {
		t.Fatalf("upload: %d", status)
	}
	var video domain.Video
	if err := json.Unmarshal(body, &video); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/videos/"+video.ID+"/progress?studentId=s1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Progress      *domain.VideoProgress `json:"progress"`
		CanAccessQuiz bool                  `json:"canAccessQuiz"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Progress != nil || payload.CanAccessQuiz {
		t.Fatalf("expected null progress and locked quiz, got %+v", payload)
	}

	if _, err := fixture.tracking.CompleteVideo(context.Background(), "s1", video.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/videos/"+video.ID+"/progress?studentId=s1", nil))
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Progress == nil || !payload.Progress.Completed || !payload.CanAccessQuiz {
		t.Fatalf("expected completed record unlocking the quiz, got %+v", payload)
	}
}

func TestListVideosFiltersByTeacher(t *testing.T) {
	_, mux := newRESTFixture(t)

	first := sampleDraft()
	second := sampleDraft()
	second.TeacherID = "t2"
	for _, draft := range []domain.VideoDraft{first, second} {
		if status, _ := postVideo(t, mux, "teacher", draft); status != http.StatusCreated {
			t.Fatalf("upload: %d", status)
		}
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/videos?teacherId=t2", nil))
	var payload struct {
		Videos []domain.Video `json:"videos"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Videos) != 1 || payload.Videos[0].TeacherID != "t2" {
		t.Fatalf("expected only t2's video, got %+v", payload.Videos)
	}
}

func TestListVideosIncludesStudentProgress(t *testing.T) {
	fixture, mux := newRESTFixture(t)

	status, body := postVideo(t, mux, "teacher", sampleDraft())
	if status != http.StatusCreated {
		t.Fatalf("upload: %d", status)
	}
	var video domain.Video
	if err := json.Unmarshal(body, &video); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := fixture.tracking.CompleteVideo(context.Background(), "s1", video.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/videos?studentId=s1", nil))
	var payload struct {
		Videos []struct {
			domain.Video
			Progress      *domain.VideoProgress `json:"progress"`
			CanAccessQuiz *bool                 `json:"canAccessQuiz"`
		} `json:"videos"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(payload.Videos))
	}
	entry := payload.Videos[0]
	if entry.Progress == nil || !entry.Progress.Completed {
		t.Fatalf("expected completed progress in the catalog entry, got %+v", entry.Progress)
	}
	if entry.CanAccessQuiz == nil || !*entry.CanAccessQuiz {
		t.Fatalf("expected quiz unlocked in the catalog entry")
	}
}

type restFixture struct {
	tracking *app.TrackingService
}

func newRESTFixture(t *testing.T) (*restFixture, *http.ServeMux) {
	t.Helper()
	store := memory.NewVideoStore()
	progress := memory.NewProgressStore()
	tracking := app.NewTrackingService(store, progress)
	quiz := app.NewQuizService(store, progress, memory.NewAttemptStore(), memory.NewQuizSessionStore())
	handler := NewRESTHandler(app.NewCatalogService(store), tracking, quiz)

	mux := http.NewServeMux()
	handler.Register(mux)
	return &restFixture{tracking: tracking}, mux
}

func postVideo(t *testing.T, mux *http.ServeMux, role string, draft domain.VideoDraft) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"role":        role,
		"teacherId":   draft.TeacherID,
		"title":       draft.Title,
		"description": draft.Description,
		"mediaUrl":    draft.MediaURL,
		"duration":    draft.Duration,
		"questions":   draft.Questions,
	})
	if err != nil {
		t.Fatalf("marshal draft: %v", err)
	}
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/videos", bytes.NewReader(body)))
	return resp.Code, resp.Body.Bytes()
}
