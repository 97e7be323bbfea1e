package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-auth-service/internal/metrics"
	"go-auth-service/internal/model"
	"go-auth-service/pkg/apierror"
)

// CredentialStore is the durable user record store. The store itself is the
// final authority on username uniqueness; the service's existence check is a
// fast path only.
type CredentialStore interface {
	Create(ctx context.Context, u model.User) error
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) (bool, error)
}

type tokenIssuer interface {
	Issue(userID string, username string, now time.Time) (string, error)
	TTL() time.Duration
}

// AuthService orchestrates registration and login against the credential
// store, the password hasher and the token codec. It holds no per-request
// state and is safe for concurrent use.
type AuthService struct {
	store  CredentialStore
	hasher passwordHasher
	tokens tokenIssuer
	now    func() time.Time
}

func NewAuthService(store CredentialStore, hasher passwordHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new user record with a hashed password. The returned
// shape never carries the password hash.
func (s *AuthService) Register(ctx context.Context, username string, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return model.PublicUser{}, apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest)
	}

	exists, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		metrics.RecordRegistration("error")
		return model.PublicUser{}, err
	}
	if exists {
		metrics.RecordRegistration("conflict")
		return model.PublicUser{}, model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		metrics.RecordRegistration("error")
		return model.PublicUser{}, err
	}

	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the store's unique constraint settles the race.
		if errors.Is(err, model.ErrUserAlreadyExists) {
			metrics.RecordRegistration("conflict")
		} else {
			metrics.RecordRegistration("error")
		}
		return model.PublicUser{}, err
	}

	metrics.RecordRegistration("created")
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user.Public(), nil
}

// Login verifies the credentials and issues a session token. Unknown user
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		metrics.RecordLogin("invalid_credentials")
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordLogin("error")
		return model.TokenResponse{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.RecordLogin("error")
		return model.TokenResponse{}, err
	}
	if !ok {
		metrics.RecordLogin("invalid_credentials")
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, s.now())
	if err != nil {
		metrics.RecordLogin("error")
		return model.TokenResponse{}, err
	}

	metrics.RecordLogin("success")
	slog.Info("user logged in", "user_id", user.ID)
	return model.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Profile returns the public record for an authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}
