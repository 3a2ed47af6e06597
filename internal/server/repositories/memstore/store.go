// Package memstore is the shared state behind the in-memory repositories.
// Users and messages live in one mutex-guarded map so that message appends,
// deletes and accept-toggles are atomic per user, like a single document
// update in MongoDB.
package memstore

import (
	"sync"

	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func New() *Store {
	return &Store{users: make(map[string]*models.User)}
}

// Read runs fn under the read lock.
func (s *Store) Read(fn func(users map[string]*models.User) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.users)
}

// Write runs fn under the write lock.
func (s *Store) Write(fn func(users map[string]*models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.users)
}

// Clone returns a deep copy of u so that callers never alias stored state.
func Clone(u *models.User) *models.User {
	c := *u
	c.Messages = append([]models.Message(nil), u.Messages...)
	return &c
}
