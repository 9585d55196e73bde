package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	boltdb "go.etcd.io/bbolt"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a bbolt-backed UserRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.store.db.View(func(tx *boltdb.Tx) error {
		found, err := readUser(tx, id)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := r.store.db.View(func(tx *boltdb.Tx) error {
		id := tx.Bucket(bucketUsernames).Get([]byte(username))
		if id == nil {
			return domain.ErrUserNotFound
		}
		found, err := readUser(tx, string(id))
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.Username == "" {
		return nil, domain.ErrInvalidPayload
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	err := r.store.db.Update(func(tx *boltdb.Tx) error {
		names := tx.Bucket(bucketUsernames)
		if names.Get([]byte(stored.Username)) != nil {
			return domain.ErrUsernameTaken
		}
		payload, err := json.Marshal(&stored)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUsers).Put([]byte(stored.ID), payload); err != nil {
			return err
		}
		return names.Put([]byte(stored.Username), []byte(stored.ID))
	})
	if err != nil {
		if err == domain.ErrUsernameTaken {
			return nil, err
		}
		return nil, domain.NewStorageError(err)
	}
	return &stored, nil
}

func readUser(tx *boltdb.Tx, id string) (*domain.User, error) {
	raw := tx.Bucket(bucketUsers).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, domain.NewStorageError(err)
	}
	return &user, nil
}
