package memory

import (
	"sync"

	"eduflex-video-service/internal/app"
)

type sessionKey struct {
	studentID string
	videoID   string
}

// QuizSessionStore is an in-memory implementation of app.QuizSessionRepository.
type QuizSessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*app.QuizSession
}

func NewQuizSessionStore() *QuizSessionStore {
	return &QuizSessionStore{
		sessions: make(map[sessionKey]*app.QuizSession),
	}
}

func (s *QuizSessionStore) GetOrCreate(studentID, videoID string, totalQuestions int) *app.QuizSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{studentID: studentID, videoID: videoID}
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session := app.NewQuizSession(studentID, videoID, totalQuestions)
	s.sessions[key] = session
	return session
}

func (s *QuizSessionStore) Get(studentID, videoID string) (*app.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionKey{studentID: studentID, videoID: videoID}]
	return session, ok
}

func (s *QuizSessionStore) Delete(studentID, videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{studentID: studentID, videoID: videoID})
}
