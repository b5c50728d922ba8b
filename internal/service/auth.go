package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/auth"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/notifications"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/geocoder89/todohub/internal/security"
	"github.com/google/uuid"
)

const (
	MsgEmailHasToBeVerified = "email_has_to_be_verified"
	MsgEmailActivated       = "email_activated"
	MsgBadCredentials       = "Username or password invalid."
	MsgEmailNotActivated    = "email_not_activated"
)

type LoginResult struct {
	User      user.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users    *UserService
	tokens   *auth.Manager
	notifier notifications.Notifier
	jobs     Submitter
	prom     *observability.Prom
}

// NewAuthService wires registration and login. jobs may be nil, in which
// case activation notifications are sent inline.
func NewAuthService(users *UserService, tokens *auth.Manager, notifier notifications.Notifier, jobs Submitter, prom *observability.Prom) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		jobs:     jobs,
		prom:     prom,
	}
}

// Register creates an unactivated ROLE_USER account and queues its
// activation notification.
func (s *AuthService) Register(ctx context.Context, req user.RegisterRequest) (string, error) {
	email := user.NormalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		s.prom.AuthEvent("register", "duplicate")
		return "", duplicateEmail(email, nil)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	u, err := s.users.Save(ctx, user.User{
		ID:                   uuid.NewString(),
		Name:                 req.Name,
		Email:                email,
		PasswordHash:         hash,
		Roles:                []string{user.RoleUser},
		EmailActivationToken: &token,
	})
	if err != nil {
		s.prom.AuthEvent("register", "error")
		return "", err
	}

	s.prom.AuthEvent("register", "ok")
	s.notifyActivation(ctx, notifications.ActivationInput{Email: u.Email, Name: u.Name, Token: token})

	return MsgEmailHasToBeVerified, nil
}

func (s *AuthService) notifyActivation(ctx context.Context, in notifications.ActivationInput) {
	if s.notifier == nil {
		return
	}

	send := func(ctx context.Context) {
		if err := s.notifier.SendActivation(ctx, in); err != nil {
			slog.WarnContext(ctx, "activation notification failed", "email", in.Email, "error", err)
		}
	}

	if s.jobs == nil {
		send(context.WithoutCancel(ctx))
		return
	}

	if err := s.jobs.Submit(send); err != nil {
		slog.WarnContext(ctx, "activation notification not queued", "email", in.Email, "error", err)
	}
}

// Login checks credentials first so an unactivated account is only
// reported to callers who know its password.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Status == http.StatusNotFound {
			s.prom.AuthEvent("login", "bad_credentials")
			return LoginResult{}, apperr.Unauthenticated(MsgBadCredentials)
		}
		return LoginResult{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			s.prom.AuthEvent("login", "bad_credentials")
			return LoginResult{}, apperr.Unauthenticated(MsgBadCredentials)
		}
		return LoginResult{}, apperr.Internal(err)
	}

	if !u.Activated() {
		s.prom.AuthEvent("login", "not_activated")
		return LoginResult{}, apperr.Unauthenticated(MsgEmailNotActivated)
	}

	token, expiresAt, err := s.tokens.Issue(u.Email, u.Roles)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}

	s.prom.AuthEvent("login", "ok")
	return LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Activate marks the account owning token as activated and burns the token.
func (s *AuthService) Activate(ctx context.Context, token string) (user.User, error) {
	u, err := s.users.users.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.prom.AuthEvent("activate", "unknown_token")
			return user.User{}, apperr.Wrap(err, apperr.NotFound, http.StatusNotFound, "activation_token")
		}
		return user.User{}, apperr.Internal(err)
	}

	now := time.Now().UTC()
	u.EmailActivatedAt = &now
	u.EmailActivationToken = nil

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return user.User{}, err
	}

	s.prom.AuthEvent("activate", "ok")
	return saved, nil
}
