package http

import (
	"encoding/json"
	"log"
	"net/http"

	"eduflex-video-service/internal/app"
	"eduflex-video-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler serves one playback session per connection: the client streams
// periodic position samples and the terminal ended event, then drives the
// quiz over the same connection once it unlocks.
type WSHandler struct {
	videos   app.VideoRepository
	tracking *app.TrackingService
	quiz     *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(videos app.VideoRepository, tracking *app.TrackingService, quiz *app.QuizService) *WSHandler {
	return &WSHandler{
		videos:   videos,
		tracking: tracking,
		quiz:     quiz,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type samplePayload struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type replayPayload struct {
	QuestionID string `json:"questionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type videoSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	MediaURL      string `json:"mediaUrl"`
	Duration      int    `json:"duration"`
	QuestionCount int    `json:"questionCount"`
}

type joinedPayload struct {
	Video          videoSummary `json:"video"`
	ResumePosition int          `json:"resumePosition"`
}

// questionView is what students see; the correct answer stays server-side.
type questionView struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Timestamp  int      `json:"timestamp"`
	OrderIndex int      `json:"orderIndex"`
}

type questionPayload struct {
	Question questionView `json:"question"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
}

type replayToPayload struct {
	Timestamp int `json:"timestamp"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// tracking and quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("videoId")
	studentID := r.URL.Query().Get("studentId")
	roleRaw := r.URL.Query().Get("role")
	if videoID == "" || studentID == "" {
		http.Error(w, "missing videoId or studentId", http.StatusBadRequest)
		return
	}
	role, err := domain.ParseRole(roleRaw)
	if err != nil || role != domain.RoleStudent {
		http.Error(w, "playback sessions are for students", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	video, err := h.videos.GetVideo(ctx, videoID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	resume, err := h.tracking.ResumePosition(ctx, videoID, studentID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	// Closing the connection is the view unmount: the sampling source dies
	// with it and the transient quiz session is dropped.
	defer h.quiz.CloseSession(videoID, studentID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// emit drops frames once the writer has exited on a write error, so the
	// read loop below can never block on a dead consumer.
	writerAlive := true
	emit := func(msg outboundMessage[any]) {
		if writerAlive {
			writerAlive = sendFrame(send, writerDone, msg)
		}
	}

	emit(outboundMessage[any]{Type: "joined", Payload: joinedPayload{
		Video: videoSummary{
			ID:            video.ID,
			Title:         video.Title,
			Description:   video.Description,
			MediaURL:      video.MediaURL,
			Duration:      video.Duration,
			QuestionCount: len(video.Questions),
		},
		ResumePosition: resume,
	}})

	// Frames are handled one at a time on this loop, so progress updates for
	// the pair apply in arrival order and a tick can never outrun the
	// terminal ended update it follows.
	var session *app.QuizSession
	for writerAlive {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "sample":
			var payload samplePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(errFrame("invalid sample payload"))
				continue
			}
			progress, err := h.tracking.RecordSample(ctx, studentID, videoID, domain.PlaybackSample{
				Position: payload.Position,
				Duration: payload.Duration,
			})
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			emit(outboundMessage[any]{Type: "progress", Payload: progress})

		case "ended":
			progress, err := h.tracking.CompleteVideo(ctx, studentID, videoID)
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			emit(outboundMessage[any]{Type: "progress", Payload: progress})

		case "startQuiz":
			_, started, err := h.quiz.StartQuiz(ctx, videoID, studentID)
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			session = started
			if session.Total() == 0 {
				emit(outboundMessage[any]{Type: "quizResult", Payload: app.ComputeResult(0, 0)})
				continue
			}
			emit(questionFrame("quizStarted", video, session.Current(), session.Total()))

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(errFrame("invalid answer payload"))
				continue
			}
			feedback, err := h.quiz.SubmitAnswer(ctx, videoID, studentID, payload.QuestionID, payload.Answer)
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			emit(outboundMessage[any]{Type: "answerResult", Payload: feedback})

		case "next":
			if session == nil {
				emit(errFrame(domain.ErrQuizSessionNotFound.Error()))
				continue
			}
			if index, ok := session.Advance(); ok {
				emit(questionFrame("question", video, index, session.Total()))
				continue
			}
			if !session.AllAnswered() {
				emit(errFrame("answer the remaining questions to finish"))
				continue
			}
			result, err := h.quiz.Result(ctx, videoID, studentID)
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			emit(outboundMessage[any]{Type: "quizResult", Payload: result})

		case "prev":
			if session == nil {
				emit(errFrame(domain.ErrQuizSessionNotFound.Error()))
				continue
			}
			if session.Total() == 0 {
				emit(outboundMessage[any]{Type: "quizResult", Payload: app.ComputeResult(0, 0)})
				continue
			}
			index, _ := session.Back()
			emit(questionFrame("question", video, index, session.Total()))

		case "jump":
			if session == nil {
				emit(errFrame(domain.ErrQuizSessionNotFound.Error()))
				continue
			}
			var payload jumpPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(errFrame("invalid jump payload"))
				continue
			}
			index, ok := session.Jump(payload.Index)
			if !ok {
				emit(errFrame("question index out of range"))
				continue
			}
			emit(questionFrame("question", video, index, session.Total()))

		case "retry":
			if err := h.quiz.Retry(ctx, videoID, studentID); err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			if len(video.Questions) == 0 {
				emit(outboundMessage[any]{Type: "quizResult", Payload: app.ComputeResult(0, 0)})
				continue
			}
			emit(questionFrame("quizStarted", video, 0, len(video.Questions)))

		case "replay":
			var payload replayPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(errFrame("invalid replay payload"))
				continue
			}
			timestamp, err := h.quiz.ReplaySegment(ctx, videoID, payload.QuestionID)
			if err != nil {
				emit(errFrame(err.Error()))
				continue
			}
			emit(outboundMessage[any]{Type: "replayTo", Payload: replayToPayload{Timestamp: timestamp}})

		default:
			emit(errFrame("unsupported message type"))
		}
	}

	close(send)
	<-writerDone
}

// sendFrame hands one frame to the writer goroutine. A false return means the
// writer already exited, so the frame was dropped.
func sendFrame(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func errFrame(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

func questionFrame(msgType string, video domain.Video, index, total int) outboundMessage[any] {
	question := video.Questions[index]
	return outboundMessage[any]{Type: msgType, Payload: questionPayload{
		Question: questionView{
			ID:         question.ID,
			Text:       question.Text,
			Options:    question.Options,
			Timestamp:  question.Timestamp,
			OrderIndex: question.OrderIndex,
		},
		Index: index,
		Total: total,
	}}
}
