package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/geocoder89/todohub/internal/service"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	registerFn func(ctx context.Context, req user.RegisterRequest) (string, error)
	loginFn    func(ctx context.Context, req user.LoginRequest) (service.LoginResult, error)
	activateFn func(ctx context.Context, token string) (user.User, error)
}

func (f *fakeAuth) Register(ctx context.Context, req user.RegisterRequest) (string, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return service.MsgEmailHasToBeVerified, nil
}

func (f *fakeAuth) Login(ctx context.Context, req user.LoginRequest) (service.LoginResult, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, req)
	}
	return service.LoginResult{}, nil
}

func (f *fakeAuth) Activate(ctx context.Context, token string) (user.User, error) {
	if f.activateFn != nil {
		return f.activateFn(ctx, token)
	}
	return user.User{}, nil
}

type fakeProfile struct {
	loggedInFn func(ctx context.Context) (user.User, error)
	updateFn   func(ctx context.Context, req user.UpdateRequest) (user.User, error)
	listFn     func(ctx context.Context, req paging.Request) (paging.Page[user.User], error)
}

func (f *fakeProfile) LoggedInUser(ctx context.Context) (user.User, error) {
	if f.loggedInFn != nil {
		return f.loggedInFn(ctx)
	}
	return annUser(), nil
}

func (f *fakeProfile) UpdateProfile(ctx context.Context, req user.UpdateRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, req)
	}
	return annUser(), nil
}

func (f *fakeProfile) List(ctx context.Context, req paging.Request) (paging.Page[user.User], error) {
	if f.listFn != nil {
		return f.listFn(ctx, req)
	}
	return paging.Page[user.User]{Items: []user.User{}, Request: req}, nil
}

type fakeTodos struct {
	createFn func(ctx context.Context, owner user.User, req todo.CreateRequest) (todo.Item, error)
	listFn   func(ctx context.Context, owner user.User, req paging.Request) (paging.Page[todo.Item], error)
	getFn    func(ctx context.Context, owner user.User, id string) (todo.Item, error)
	updateFn func(ctx context.Context, owner user.User, id string, req todo.UpdateRequest) (todo.Item, error)
	deleteFn func(ctx context.Context, owner user.User, id string) error
}

func (f *fakeTodos) Create(ctx context.Context, owner user.User, req todo.CreateRequest) (todo.Item, error) {
	if f.createFn != nil {
		return f.createFn(ctx, owner, req)
	}
	return todo.NewItem(owner.ID, req), nil
}

func (f *fakeTodos) List(ctx context.Context, owner user.User, req paging.Request) (paging.Page[todo.Item], error) {
	if f.listFn != nil {
		return f.listFn(ctx, owner, req)
	}
	return paging.Page[todo.Item]{Items: []todo.Item{}, Request: req}, nil
}

func (f *fakeTodos) Get(ctx context.Context, owner user.User, id string) (todo.Item, error) {
	if f.getFn != nil {
		return f.getFn(ctx, owner, id)
	}
	return todo.Item{ID: id, Owner: owner.ID}, nil
}

func (f *fakeTodos) Update(ctx context.Context, owner user.User, id string, req todo.UpdateRequest) (todo.Item, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, owner, id, req)
	}
	return todo.Item{ID: id, Owner: owner.ID}, nil
}

func (f *fakeTodos) Delete(ctx context.Context, owner user.User, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, owner, id)
	}
	return nil
}

func annUser() user.User {
	return user.User{ID: "user-1", Name: "Ann", Email: "a@x.com", Roles: []string{user.RoleUser}}
}

// small helper function which returns the gin engine to mount one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, h)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}
	return env
}
