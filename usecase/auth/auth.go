package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

// UseCase implements signup, login and token issuance. It is the identity
// capability the task engine trusts for every ownership check.
type UseCase struct {
	users    repository.UserRepository
	secret   []byte
	issuer   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, secret, issuer string, tokenTTL time.Duration, logger *zap.Logger) *UseCase {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Signup registers a new user and returns the user with a signed token.
func (uc *UseCase) Signup(ctx context.Context, username, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token. An
// unknown username and a wrong password produce the same error.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser resolves an authenticated user id.
func (uc *UseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UseCase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iss":      uc.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(uc.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.secret)
}
