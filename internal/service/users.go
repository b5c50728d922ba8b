package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/todohub/internal/actorctx"
	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/security"
)

const (
	MsgPasswordConfirmationMissing  = "password_confirmation_not_provided"
	MsgPasswordConfirmationMismatch = "password_and_confirmation_not_matched"
)

type UserService struct {
	users UserStore
	now   func() time.Time
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ok, err := s.users.ExistsByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return false, apperr.Internal(err)
	}
	return ok, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.Wrap(err, apperr.NotFound, http.StatusNotFound, "user")
		}
		return user.User{}, apperr.Internal(err)
	}
	return u, nil
}

// Save creates or updates u and stamps UpdatedAt.
func (s *UserService) Save(ctx context.Context, u user.User) (user.User, error) {
	if len(u.Roles) == 0 {
		return user.User{}, apperr.Wrap(user.ErrNoRoles, apperr.BasicInvalidInput, http.StatusBadRequest, "roles")
	}

	now := s.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = user.NormalizeEmail(u.Email)

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyUsed) {
			return user.User{}, duplicateEmail(u.Email, err)
		}
		return user.User{}, apperr.Internal(err)
	}
	return saved, nil
}

// hashPassword reports input bcrypt cannot take as a length violation on
// the password field, like the binding rules do.
func hashPassword(plain string) (string, error) {
	hash, err := security.HashPassword(plain)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", apperr.Wrap(err, apperr.JSONSchemaValidator, http.StatusBadRequest, "password: {min_max_length}")
		}
		return "", apperr.Internal(err)
	}
	return hash, nil
}

func duplicateEmail(email string, cause error) *apperr.Error {
	if cause == nil {
		cause = user.ErrEmailAlreadyUsed
	}
	return apperr.Wrap(cause, apperr.JSONSchemaValidator, http.StatusBadRequest, "unique_email: "+email)
}

// LoggedInUser resolves the principal on ctx to its stored record.
// A missing principal or one whose email no longer exists is unauthorized.
func (s *UserService) LoggedInUser(ctx context.Context) (user.User, error) {
	p, ok := actorctx.PrincipalFrom(ctx)
	if !ok {
		return user.User{}, apperr.Unauthenticated()
	}

	u, err := s.users.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.Wrap(err, apperr.Unauthorized, http.StatusUnauthorized, "user_not_found")
		}
		return user.User{}, apperr.Internal(err)
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, req user.UpdateRequest) (user.User, error) {
	u, err := s.LoggedInUser(ctx)
	if err != nil {
		return user.User{}, err
	}

	if req.Name != "" {
		u.Name = req.Name
	}

	if req.Password != "" {
		if req.PasswordConfirmation == "" {
			return user.User{}, apperr.InvalidInput(MsgPasswordConfirmationMissing)
		}
		if req.Password != req.PasswordConfirmation {
			return user.User{}, apperr.InvalidInput(MsgPasswordConfirmationMismatch)
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return user.User{}, err
		}
		u.PasswordHash = hash
	}

	return s.Save(ctx, u)
}

func (s *UserService) List(ctx context.Context, req paging.Request) (paging.Page[user.User], error) {
	page, err := s.users.List(ctx, req.Normalize())
	if err != nil {
		return paging.Page[user.User]{}, apperr.Internal(err)
	}
	return page, nil
}
