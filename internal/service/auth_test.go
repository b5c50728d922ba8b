package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUnactivatedUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	msg, err := f.auth.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "A@X.com", Password: "Aa1!aa"})
	require.NoError(t, err)
	require.Equal(t, MsgEmailHasToBeVerified, msg)

	u, err := f.repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, u.Activated())
	require.Equal(t, []string{user.RoleUser}, u.Roles)
	require.NotEqual(t, "Aa1!aa", u.PasswordHash)
	require.NotNil(t, u.EmailActivationToken)

	sent := f.notifier.last(t)
	require.Equal(t, "a@x.com", sent.Email)
	require.Equal(t, *u.EmailActivationToken, sent.Token)
}

func TestRegister_DuplicateEmailAlwaysFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	for _, req := range []user.RegisterRequest{
		{Name: "Bob", Email: "a@x.com", Password: "another"},
		{Name: "Ann", Email: " A@x.COM ", Password: "secret1"},
	} {
		_, err := f.auth.Register(ctx, req)
		appErr := requireAppErr(t, err, http.StatusBadRequest, apperr.JSONSchemaValidator.ID)
		require.Equal(t, []string{"unique_email: a@x.com"}, appErr.Variables)
		require.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
	}
}

func TestLogin_BeforeActivationFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "Aa1!aa"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "Aa1!aa"})
	appErr := requireAppErr(t, err, http.StatusUnauthorized, apperr.Unauthorized.ID)
	require.Equal(t, []string{MsgEmailNotActivated}, appErr.Variables)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.activeUser(t, "Ann", "a@x.com")

	for _, req := range []user.LoginRequest{
		{Email: "a@x.com", Password: "wrong-pass"},
		{Email: "nobody@x.com", Password: "secret1"},
	} {
		_, err := f.auth.Login(ctx, req)
		appErr := requireAppErr(t, err, http.StatusUnauthorized, apperr.Unauthorized.ID)
		require.Equal(t, []string{MsgBadCredentials}, appErr.Variables)
	}
}

func TestLogin_TokenCarriesEmailAndRoles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.activeUser(t, "Ann", "a@x.com")

	res, err := f.auth.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, u.ID, res.User.ID)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, u.Email, claims.Email())
	require.Equal(t, u.Roles, claims.Roles)
}

func TestActivate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.Activate(ctx, "unknown")
	requireAppErr(t, err, http.StatusNotFound, apperr.NotFound.ID)

	_, err = f.auth.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	token := f.notifier.last(t).Token

	u, err := f.auth.Activate(ctx, token)
	require.NoError(t, err)
	require.True(t, u.Activated())
	require.Nil(t, u.EmailActivationToken)

	// tokens are single use
	_, err = f.auth.Activate(ctx, token)
	requireAppErr(t, err, http.StatusNotFound, apperr.NotFound.ID)
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 19 runes pass the binding rule but are 76 bytes
	_, err := f.auth.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("😀", 19)})
	appErr := requireAppErr(t, err, http.StatusBadRequest, apperr.JSONSchemaValidator.ID)
	require.Equal(t, []string{"password: {min_max_length}"}, appErr.Variables)

	exists, err := f.repo.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, exists)
}
