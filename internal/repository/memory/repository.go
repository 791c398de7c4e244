package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/fcbot/internal/models"
)

// Repository keeps one session per key. Sessions are stored and returned
// by value, so callers never share a session struct.
type Repository struct {
	sessions map[string]models.Session
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{sessions: make(map[string]models.Session)}
}

func (r *Repository) Save(sess models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.Key] = sess
}

// SaveIfAbsent stores sess unless a session with the same key already
// exists, and returns whichever session is stored afterwards.
func (r *Repository) SaveIfAbsent(sess models.Session) models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[sess.Key]; ok {
		return existing
	}
	r.sessions[sess.Key] = sess
	return sess
}

// Update applies fn to the stored session under the write lock and returns
// the result. It reports false, without calling fn, when key is unknown.
func (r *Repository) Update(key string, fn func(*models.Session)) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[key]
	if !ok {
		return models.Session{}, false
	}
	fn(&sess)
	r.sessions[key] = sess
	return sess, true
}

func (r *Repository) Get(key string) (models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[key]
	return sess, ok
}

func (r *Repository) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Expire removes every session last seen before cutoff and returns how many
// were removed.
func (r *Repository) Expire(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, sess := range r.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(r.sessions, key)
			removed++
		}
	}
	return removed
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
