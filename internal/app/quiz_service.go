package app

import (
	"context"

	"eduflex-video-service/internal/domain"
)

// QuizService contains the quiz use cases: gating, grading and the session
// score, backed by the append-only attempt log.
type QuizService struct {
	videos   VideoRepository
	progress ProgressRepository
	attempts AttemptRepository
	sessions QuizSessionRepository
}

func NewQuizService(videos VideoRepository, progress ProgressRepository, attempts AttemptRepository, sessions QuizSessionRepository) *QuizService {
	return &QuizService{videos: videos, progress: progress, attempts: attempts, sessions: sessions}
}

// AnswerFeedback is what one submission returns to the student.
type AnswerFeedback struct {
	QuestionID   string `json:"questionId"`
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation"`
	CorrectCount int    `json:"correctCount"`
}

// StartQuiz opens (or resumes) a quiz session for the pair. The completion
// gate is checked here: without a completed progress record the quiz stays
// locked, regardless of how much watch time has accumulated.
func (s *QuizService) StartQuiz(ctx context.Context, videoID, studentID string) (domain.Video, *QuizSession, error) {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return domain.Video{}, nil, err
	}

	record, ok, err := s.progress.Get(ctx, videoID, studentID)
	if err != nil {
		return domain.Video{}, nil, err
	}
	var progress *domain.VideoProgress
	if ok {
		progress = &record
	}
	if !CanAccessQuiz(progress) {
		return domain.Video{}, nil, domain.ErrQuizLocked
	}

	session := s.sessions.GetOrCreate(studentID, videoID, len(video.Questions))
	return video, session, nil
}

// SubmitAnswer grades one answer by exact string equality, appends an attempt
// record whatever the outcome, and updates the session correct counter.
func (s *QuizService) SubmitAnswer(ctx context.Context, videoID, studentID, questionID, answer string) (AnswerFeedback, error) {
	session, ok := s.sessions.Get(studentID, videoID)
	if !ok {
		return AnswerFeedback{}, domain.ErrQuizSessionNotFound
	}

	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return AnswerFeedback{}, err
	}
	question, ok := video.QuestionByID(questionID)
	if !ok {
		return AnswerFeedback{}, domain.ErrQuestionNotFound
	}

	correct := answer == question.CorrectAnswer
	if _, err := s.attempts.Add(ctx, domain.QuizAttempt{
		StudentID:     studentID,
		VideoID:       videoID,
		QuestionID:    questionID,
		StudentAnswer: answer,
		IsCorrect:     correct,
	}); err != nil {
		return AnswerFeedback{}, err
	}

	count := session.Submit(questionID, answer, correct)
	return AnswerFeedback{
		QuestionID:   questionID,
		Correct:      correct,
		Explanation:  question.Explanation,
		CorrectCount: count,
	}, nil
}

// Result computes the aggregate outcome of the open session.
func (s *QuizService) Result(ctx context.Context, videoID, studentID string) (domain.QuizResult, error) {
	session, ok := s.sessions.Get(studentID, videoID)
	if !ok {
		return domain.QuizResult{}, domain.ErrQuizSessionNotFound
	}
	return ComputeResult(session.CorrectCount(), session.Total()), nil
}

// Retry resets the open session's transient state. The attempt log keeps
// every prior submission.
func (s *QuizService) Retry(ctx context.Context, videoID, studentID string) error {
	session, ok := s.sessions.Get(studentID, videoID)
	if !ok {
		return domain.ErrQuizSessionNotFound
	}
	session.Retry()
	return nil
}

// CloseSession drops the session when the quiz view unmounts.
func (s *QuizService) CloseSession(videoID, studentID string) {
	s.sessions.Delete(studentID, videoID)
}

// ReplaySegment resolves the playback position for a question's relevant
// segment. Pure navigation; no model mutation.
func (s *QuizService) ReplaySegment(ctx context.Context, videoID, questionID string) (int, error) {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return 0, err
	}
	question, ok := video.QuestionByID(questionID)
	if !ok {
		return 0, domain.ErrQuestionNotFound
	}
	return question.Timestamp, nil
}

// Attempts lists the logged attempts for the pair in insertion order.
func (s *QuizService) Attempts(ctx context.Context, videoID, studentID string) ([]domain.QuizAttempt, error) {
	return s.attempts.List(ctx, videoID, studentID)
}
