package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService registers users and manages their sessions
type AuthService struct {
	store     *repository.Store
	publisher events.Publisher
	ttl       time.Duration
	cost      int
	now       func() time.Time
}

// NewAuthService creates an AuthService issuing sessions that live for ttl
func NewAuthService(store *repository.Store, publisher events.Publisher, ttl time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		publisher: publisher,
		ttl:       ttl,
		cost:      bcrypt.DefaultCost,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword returns the bcrypt hash of password
func (s *AuthService) HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("service: %w - password must be at least %d characters", marketerrors.ErrInvalidInput, minPasswordLength)
	}
	if len(password) > 72 {
		return "", fmt.Errorf("service: %w - password must be at most 72 bytes", marketerrors.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("service: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an active account with the user role
func (s *AuthService) Register(ctx context.Context, username, password string, email *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("service: %w - username is required", marketerrors.ErrInvalidInput)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"username":      username,
		"password_hash": hash,
		"role":          models.RoleUser,
	}
	if email != nil {
		fields["email"] = *email
	}
	user, err := models.NewUser(fields)
	if err != nil {
		return nil, fmt.Errorf("service: invalid user: %w", err)
	}

	if _, err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service: failed to register %q: %w", username, err)
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:    events.UserRegistered,
		Key:     strconv.FormatInt(user.ID, 10),
		ActorID: user.ID,
		Payload: map[string]any{"id": user.ID, "username": user.Username},
	})
	return user, nil
}

// Login checks the credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, fmt.Errorf("service: login: %w", marketerrors.ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("service: failed to load user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("service: login: %w", marketerrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("service: login %q: %w", username, marketerrors.ErrInactiveUser)
	}

	session, err := models.NewSession(map[string]any{
		"user_id":    user.ID,
		"role":       user.Role,
		"token":      utils.GenerateToken(),
		"expires_at": s.now().Add(s.ttl),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("service: invalid session: %w", err)
	}
	if _, err := s.store.Sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("service: failed to open session for user %d: %w", user.ID, err)
	}
	return session, user, nil
}

// Logout ends the session holding token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	n, err := s.store.DeleteSessionByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("service: failed to end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("service: logout: %w", marketerrors.ErrUnauthorized)
	}
	return nil
}

// Authenticate resolves a session token. Expired sessions are deleted on sight.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("service: authenticate: %w", marketerrors.ErrUnauthorized)
	}

	session, err := s.store.SessionByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("service: authenticate: %w", marketerrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("service: failed to load session: %w", err)
	}

	if session.Expired(s.now()) {
		if _, err := s.store.DeleteSessionByToken(ctx, token); err != nil {
			utils.Warn("failed to delete expired session", map[string]any{"session_id": session.ID, "error": err.Error()})
		}
		return nil, fmt.Errorf("service: authenticate: %w", marketerrors.ErrSessionExpired)
	}
	return session, nil
}

// Me returns the account behind a session
func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	if err := requireSession(actor, "me"); err != nil {
		return nil, err
	}
	user, err := s.store.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load user %d: %w", actor.UserID, err)
	}
	return user, nil
}

// PurgeExpired deletes every expired session and returns how many were removed
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service: failed to purge sessions: %w", err)
	}
	if n > 0 {
		utils.Info("purged expired sessions", map[string]any{"count": n})
	}
	return n, nil
}

// IsAuthError reports whether err means the caller must log in again
func IsAuthError(err error) bool {
	return errors.Is(err, marketerrors.ErrUnauthorized) || errors.Is(err, marketerrors.ErrSessionExpired)
}
