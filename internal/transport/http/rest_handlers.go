package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"eduflex-video-service/internal/app"
	"eduflex-video-service/internal/domain"
)

// RESTHandler serves the dashboard flows: teachers upload and review,
// students browse the catalog and check their progress.
type RESTHandler struct {
	catalog  *app.CatalogService
	tracking *app.TrackingService
	quiz     *app.QuizService
}

func NewRESTHandler(catalog *app.CatalogService, tracking *app.TrackingService, quiz *app.QuizService) *RESTHandler {
	return &RESTHandler{catalog: catalog, tracking: tracking, quiz: quiz}
}

// Register wires the REST routes onto the mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /videos", h.createVideo)
	mux.HandleFunc("GET /videos", h.listVideos)
	mux.HandleFunc("GET /videos/{id}", h.getVideo)
	mux.HandleFunc("GET /videos/{id}/progress", h.getProgress)
	mux.HandleFunc("GET /videos/{id}/attempts", h.listAttempts)
}

type createVideoRequest struct {
	Role string `json:"role"`
	domain.VideoDraft
}

func (h *RESTHandler) createVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil || role != domain.RoleTeacher {
		writeError(w, http.StatusForbidden, "only teachers can upload videos")
		return
	}

	video, err := h.catalog.Upload(r.Context(), req.VideoDraft)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVideo) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

type catalogEntry struct {
	domain.Video
	Progress      *domain.VideoProgress `json:"progress,omitempty"`
	CanAccessQuiz *bool                 `json:"canAccessQuiz,omitempty"`
}

// listVideos serves both dashboards: teachers filter by teacherId, students
// pass studentId to get their progress alongside each video.
func (h *RESTHandler) listVideos(w http.ResponseWriter, r *http.Request) {
	teacherID := r.URL.Query().Get("teacherId")
	studentID := r.URL.Query().Get("studentId")

	var (
		videos []domain.Video
		err    error
	)
	if teacherID != "" {
		videos, err = h.catalog.VideosByTeacher(r.Context(), teacherID)
	} else {
		videos, err = h.catalog.Videos(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]catalogEntry, 0, len(videos))
	for _, video := range videos {
		entry := catalogEntry{Video: video}
		if studentID != "" {
			record, ok, err := h.tracking.Progress(r.Context(), video.ID, studentID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if ok {
				entry.Progress = &record
			}
			allowed := app.CanAccessQuiz(entry.Progress)
			entry.CanAccessQuiz = &allowed
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": entries})
}

func (h *RESTHandler) getVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.catalog.Video(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// getProgress reports "no data yet" as a null record, not an error.
func (h *RESTHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing studentId")
		return
	}
	videoID := r.PathValue("id")

	record, ok, err := h.tracking.Progress(r.Context(), videoID, studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var progress *domain.VideoProgress
	if ok {
		progress = &record
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"progress":      progress,
		"canAccessQuiz": app.CanAccessQuiz(progress),
	})
}

func (h *RESTHandler) listAttempts(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing studentId")
		return
	}

	attempts, err := h.quiz.Attempts(r.Context(), r.PathValue("id"), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
