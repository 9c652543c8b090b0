package accounts

import (
	"context"
	"sync"
	"time"

	"recipebox/apperr"
	"recipebox/models"

	"github.com/google/uuid"
)

// MemoryStore keeps accounts in process memory. It backs the handler tests and
// STORE_DRIVER=memory for local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, email, password string) (*models.Account, error) {
	email = NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, apperr.ErrConflict
	}
	a := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Password:     password,
		SavedRecipes: []models.SavedRecipe{},
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[a.ID] = a
	s.byEmail[email] = a.ID
	return a.Clone(), nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.DisplayName != nil {
		a.DisplayName = *upd.DisplayName
	}
	if upd.AvatarPath != nil {
		a.AvatarPath = *upd.AvatarPath
	}
	return a.Clone(), nil
}

func (s *MemoryStore) AppendSavedRecipe(_ context.Context, id string, ref models.SavedRecipe) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if !a.HasSaved(ref.ID) {
		a.SavedRecipes = append(a.SavedRecipes, ref)
	}
	return a.Clone(), nil
}

func (s *MemoryStore) RemoveSavedRecipe(_ context.Context, id, recipeID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	kept := a.SavedRecipes[:0:0]
	for _, r := range a.SavedRecipes {
		if r.ID != recipeID {
			kept = append(kept, r)
		}
	}
	a.SavedRecipes = kept
	return a.Clone(), nil
}

func (s *MemoryStore) SetPassword(_ context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	a.Password = password
	return nil
}

// Len reports how many accounts are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
