package user

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]User   // keyed by id
	providers map[string]string // "provider/provider_user_id" -> user id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]User),
		providers: make(map[string]string),
	}
}

// Seed inserts a user directly, generating an id if absent.
func (s *MemoryStore) Seed(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
	return u
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) FindByProvider(ctx context.Context, provider, providerUserID string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.providers[provider+"/"+providerUserID]
	if !ok {
		return User{}, ErrNotFound
	}
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) LinkProvider(ctx context.Context, userID, provider, providerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[provider+"/"+providerUserID] = userID
	return nil
}

func (s *MemoryStore) CreateFederated(
	ctx context.Context,
	nu FederatedUser,
	provider string,
	providerUserID string,
) (User, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:    uuid.NewString(),
		Email: nu.Email,
		Name:  nu.Name,
		Image: nu.Image,
		Role:  nu.Role,
	}
	s.users[u.ID] = u
	s.providers[provider+"/"+providerUserID] = u.ID
	return u, nil
}
