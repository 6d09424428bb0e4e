package domain

import "time"

// Role is the closed set of identities the platform recognizes.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole maps a raw identity string onto a known role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", ErrUnknownRole
	}
}

// Question is a timestamped multiple-choice question attached to a video.
type Question struct {
	ID            string   `json:"id"`
	VideoID       string   `json:"videoId"`
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Timestamp     int      `json:"timestamp"` // seconds into the video
	Explanation   string   `json:"explanation"`
	OrderIndex    int      `json:"orderIndex"`
}

// Video is an uploaded lesson with its ordered question list.
type Video struct {
	ID          string     `json:"id"`
	TeacherID   string     `json:"teacherId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MediaURL    string     `json:"mediaUrl"`
	Duration    int        `json:"duration"` // seconds
	CreatedAt   time.Time  `json:"createdAt"`
	Questions   []Question `json:"questions"`
}

// QuestionByID returns the question with the given id, if present.
func (v Video) QuestionByID(questionID string) (Question, bool) {
	for i := range v.Questions {
		if v.Questions[i].ID == questionID {
			return v.Questions[i], true
		}
	}
	return Question{}, false
}

// QuestionDraft is authoring input before ids are assigned.
type QuestionDraft struct {
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Timestamp     int      `json:"timestamp"`
	Explanation   string   `json:"explanation"`
}

// VideoDraft is upload input before the catalog assigns ids and timestamps.
type VideoDraft struct {
	TeacherID   string          `json:"teacherId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	MediaURL    string          `json:"mediaUrl"`
	Duration    int             `json:"duration"`
	Questions   []QuestionDraft `json:"questions"`
}

// VideoProgress records a student's watch state for one video.
// There is at most one record per (studentId, videoId) pair.
type VideoProgress struct {
	ID           string     `json:"id"`
	StudentID    string     `json:"studentId"`
	VideoID      string     `json:"videoId"`
	WatchTime    int        `json:"watchTime"`    // furthest effective watch time, seconds
	LastPosition int        `json:"lastPosition"` // seconds
	Completed    bool       `json:"completed"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// ProgressPatch lists the only progress fields a caller may overwrite.
type ProgressPatch struct {
	WatchTime    *int
	LastPosition *int
	Completed    *bool
	CompletedAt  *time.Time
}

// Apply merges patch into p. Watch time never regresses, and a completed
// record drops any update that would clear the flag, so a late playback
// tick cannot undo the terminal end-of-media update.
func (p *VideoProgress) Apply(patch ProgressPatch) {
	if p.Completed && patch.Completed != nil && !*patch.Completed {
		return
	}
	if patch.WatchTime != nil && *patch.WatchTime > p.WatchTime {
		p.WatchTime = *patch.WatchTime
	}
	if patch.LastPosition != nil {
		p.LastPosition = *patch.LastPosition
	}
	if patch.Completed != nil && *patch.Completed && !p.Completed {
		p.Completed = true
		p.CompletedAt = patch.CompletedAt
	}
}

// PlaybackSample is one periodic reading from the playback collaborator.
type PlaybackSample struct {
	Position float64 `json:"position"` // seconds
	Duration float64 `json:"duration"` // seconds
}

// QuizAttempt is one submitted answer. The log is append-only: re-submitting
// a question creates a new record, never an update.
type QuizAttempt struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	VideoID       string    `json:"videoId"`
	QuestionID    string    `json:"questionId"`
	StudentAnswer string    `json:"studentAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	AttemptedAt   time.Time `json:"attemptedAt"`
}

// QuizResult is the aggregate outcome of one quiz session.
type QuizResult struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}
