package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/todohub/internal/actorctx"
	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/auth"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/notifications"
	"github.com/geocoder89/todohub/internal/repo/memory"
	"github.com/geocoder89/todohub/internal/worker"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.ActivationInput
}

func (n *recordingNotifier) SendActivation(_ context.Context, in notifications.ActivationInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, in)
	return nil
}

func (n *recordingNotifier) last(t *testing.T) notifications.ActivationInput {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

// inlineJobs runs submitted tasks immediately.
type inlineJobs struct{}

func (inlineJobs) Submit(task worker.Task) error {
	task(context.Background())
	return nil
}

type fixture struct {
	repo     *memory.UsersRepo
	users    *UserService
	auth     *AuthService
	tokens   *auth.Manager
	notifier *recordingNotifier
}

func newFixture() fixture {
	repo := memory.NewUsersRepo()
	users := NewUserService(repo)
	tokens := auth.NewManager("test-secret", time.Hour)
	notifier := &recordingNotifier{}

	return fixture{
		repo:     repo,
		users:    users,
		auth:     NewAuthService(users, tokens, notifier, inlineJobs{}, nil),
		tokens:   tokens,
		notifier: notifier,
	}
}

// activeUser registers and activates an account, returning a context
// that carries its principal.
func (f fixture) activeUser(t *testing.T, name, email string) (user.User, context.Context) {
	t.Helper()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, user.RegisterRequest{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)

	u, err := f.auth.Activate(ctx, f.notifier.last(t).Token)
	require.NoError(t, err)

	return u, actorctx.WithPrincipal(ctx, actorctx.Principal{Email: u.Email, Roles: u.Roles})
}

func requireAppErr(t *testing.T, err error, status int, id string) *apperr.Error {
	t.Helper()
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status, appErr.Error())
	require.Equal(t, id, appErr.Type.ID)
	return appErr
}
