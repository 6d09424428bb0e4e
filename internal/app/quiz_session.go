package app

import (
	"sync"
	"time"
)

// QuizSession is the transient state of one open quiz UI instance: the current
// question index, which questions have been answered, and the correct counter.
// It is distinct from the durable attempt log, which only ever grows.
type QuizSession struct {
	studentID string
	videoID   string
	total     int
	startedAt time.Time
	now       func() time.Time

	mu       sync.RWMutex
	current  int
	answered map[string]string   // questionID -> last submitted answer
	correct  map[string]struct{} // questionIDs counted toward the score
}

// NewQuizSession is exported for infrastructure layers that need to seed sessions.
func NewQuizSession(studentID, videoID string, totalQuestions int) *QuizSession {
	return NewQuizSessionWithClock(studentID, videoID, totalQuestions, time.Now)
}

// NewQuizSessionWithClock is test-only for deterministic timestamps.
func NewQuizSessionWithClock(studentID, videoID string, totalQuestions int, now func() time.Time) *QuizSession {
	return &QuizSession{
		studentID: studentID,
		videoID:   videoID,
		total:     totalQuestions,
		startedAt: now(),
		now:       now,
		answered:  make(map[string]string),
		correct:   make(map[string]struct{}),
	}
}

// Submit records an answer for a question and returns the updated correct
// counter. The counter is idempotent per question: a question already counted
// correct never counts twice, however many times it is re-answered.
func (s *QuizSession) Submit(questionID, answer string, isCorrect bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answered[questionID] = answer
	if isCorrect {
		if _, counted := s.correct[questionID]; !counted {
			s.correct[questionID] = struct{}{}
		}
	}
	return len(s.correct)
}

// Current returns the index of the question being shown.
func (s *QuizSession) Current() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Advance moves to the next question. ok is false at the last question.
func (s *QuizSession) Advance() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= s.total-1 {
		return s.current, false
	}
	s.current++
	return s.current, true
}

// Back moves to the previous question. ok is false at the first question.
func (s *QuizSession) Back() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= 0 {
		return s.current, false
	}
	s.current--
	return s.current, true
}

// Jump moves directly to a question index. ok is false when out of range.
func (s *QuizSession) Jump(index int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= s.total {
		return s.current, false
	}
	s.current = index
	return s.current, true
}

// AllAnswered reports whether every question has at least one submission.
func (s *QuizSession) AllAnswered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answered) >= s.total
}

// CorrectCount is the session score so far.
func (s *QuizSession) CorrectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.correct)
}

// Total is the number of questions in the quiz.
func (s *QuizSession) Total() int {
	return s.total
}

// AnswerFor returns the last submitted answer for a question, if any.
func (s *QuizSession) AnswerFor(questionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answered[questionID]
	return answer, ok
}

// Retry resets all session-local state: index, answered set and correct
// counter. Previously logged attempts are untouched.
func (s *QuizSession) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = 0
	s.answered = make(map[string]string)
	s.correct = make(map[string]struct{})
	s.startedAt = s.now()
}
