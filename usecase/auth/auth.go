package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

// MinRole is the lowest role allowed to sign in to the admin tool.
const MinRole = domain.RoleDeveloper

// Result is what a successful login or refresh hands back to the client.
type Result struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *domain.User   `json:"user"`
	Session   domain.Session `json:"-"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *Tokens
	ttl      time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, tokens *Tokens, ttl time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
	}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks credentials and opens a session. Unknown e-mails and wrong
// passwords produce the same error.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		uc.logger.Error("login lookup failed", zap.Error(err))
		return nil, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.logger.Info("login rejected", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}
	if err := admissible(user); err != nil {
		uc.logger.Info("login refused", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	session, err := uc.CreateSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.result(session, user)
}

// CreateSession stores a fresh session for user.
func (uc *UseCase) CreateSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		uc.logger.Error("save session failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Authenticate resolves a bearer token to its live session.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	session, err := uc.GetSession(ctx, claims.SessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Refresh extends the session and re-issues the token with the user's
// current role. A user who was deactivated or demoted loses the session.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string) (*Result, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := admissible(user); err != nil {
		_ = uc.RevokeSession(ctx, sessionID)
		return nil, err
	}

	if err := uc.sessions.Extend(ctx, sessionID, int(uc.ttl.Seconds())); err != nil {
		uc.logger.Error("extend session failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(uc.ttl)
	if session.Role != user.Role {
		session.Role = user.Role
		if err := uc.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return uc.result(session, user)
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) result(session *domain.Session, user *domain.User) (*Result, error) {
	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, ExpiresAt: session.ExpiresAt, User: user, Session: *session}, nil
}

func admissible(user *domain.User) error {
	if !user.IsActive {
		return domain.NewError(domain.ErrCodeForbidden, "account is deactivated")
	}
	if !user.Role.AtLeast(MinRole) {
		return domain.ErrForbidden
	}
	return nil
}
