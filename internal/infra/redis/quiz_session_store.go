package redis

import (
	"context"
	"sync"
	"time"

	"eduflex-video-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// QuizSessionStore is a Redis-aware implementation of app.QuizSessionRepository.
// Notes:
//   - It keeps the sessions themselves in a local in-memory map, since session
//     state (current index, answered set) is bound to one open connection.
//   - Redis marks session liveness, which lets an operator see open quizzes
//     across instances and could be extended to shared snapshots.
type QuizSessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.QuizSession
}

func NewQuizSessionStore(client *redis.Client, ttl time.Duration) *QuizSessionStore {
	return &QuizSessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.QuizSession),
	}
}

func (s *QuizSessionStore) GetOrCreate(studentID, videoID string, totalQuestions int) *app.QuizSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(studentID, videoID)
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session := app.NewQuizSession(studentID, videoID, totalQuestions)
	s.sessions[key] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(studentID, videoID), "1", s.ttl).Err()
	return session
}

func (s *QuizSessionStore) Get(studentID, videoID string) (*app.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[s.key(studentID, videoID)]
	return session, ok
}

func (s *QuizSessionStore) Delete(studentID, videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(studentID, videoID)
	if _, ok := s.sessions[key]; !ok {
		return
	}
	delete(s.sessions, key)
	_ = s.client.Del(context.Background(), key).Err()
}

func (s *QuizSessionStore) key(studentID, videoID string) string {
	return "quiz:session:" + studentID + ":" + videoID
}
