package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type userRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.User
	byName map[string]string
}

// NewUserRepository returns an in-memory UserRepository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:   make(map[string]*domain.User),
		byName: make(map[string]string),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.Username == "" {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byName[stored.Username] = stored.ID

	out := stored
	return &out, nil
}
