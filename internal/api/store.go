package api

import (
	"sync"

	"github.com/formlite/formlite/internal/services"
)

// memoryStore is the reference Store: process-wide state, empty at start,
// discarded at exit. Every mutation is serialized behind one mutex.
type memoryStore struct {
	mu           sync.RWMutex
	usersByEmail map[string]*services.Account
	forms        map[string]*services.Form
	formOrder    []string
}

func NewMemoryStore() Store {
	return &memoryStore{
		usersByEmail: map[string]*services.Account{},
		forms:        map[string]*services.Form{},
	}
}

func (s *memoryStore) FindUserByEmail(email string) (*services.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.usersByEmail[email]
	if u == nil {
		return nil, nil
	}
	copy := *u
	return &copy, nil
}

func (s *memoryStore) AddUser(u *services.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[u.Email]; ok {
		return services.NewConflictError("an account with this email already exists")
	}
	copy := *u
	s.usersByEmail[u.Email] = &copy
	return nil
}

func (s *memoryStore) InsertForm(f *services.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *f
	s.forms[f.ID] = &copy
	s.formOrder = append(s.formOrder, f.ID)
	return nil
}

func (s *memoryStore) GetForm(id string) (*services.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.forms[id]
	if f == nil {
		return nil, nil
	}
	copy := *f
	return &copy, nil
}

func (s *memoryStore) ListFormsByOwner(ownerID string) ([]*services.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*services.Form
	for _, id := range s.formOrder {
		if f := s.forms[id]; f.OwnerID == ownerID {
			copy := *f
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *memoryStore) AppendResponse(formID string, r *services.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.forms[formID]
	if f == nil {
		return services.NewNotFoundError("form not found")
	}
	f.Responses = append(f.Responses, r)
	return nil
}
