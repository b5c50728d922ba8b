package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/handlers"
	"github.com/geocoder89/todohub/internal/service"
)

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		registerFn func(ctx context.Context, req user.RegisterRequest) (string, error)
		wantStatus int
		wantID     string
	}{
		{
			name:       "valid registration",
			body:       `{"name":"Ann","email":"a@x.com","password":"Aa1!aa"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "validation failure",
			body:       `{"name":"","email":"a@x.com","password":"Aa1!aa"}`,
			wantStatus: http.StatusBadRequest,
			wantID:     apperr.JSONSchemaValidator.ID,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ann","email":"a@x.com","password":"Aa1!aa"}`,
			registerFn: func(ctx context.Context, req user.RegisterRequest) (string, error) {
				return "", apperr.Validation("unique_email: a@x.com")
			},
			wantStatus: http.StatusBadRequest,
			wantID:     apperr.JSONSchemaValidator.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeAuth{registerFn: tt.registerFn}, time.Hour)
			r := setupRouter(http.MethodPost, "/api/v1/auth/register", h.Register)

			w := doJSON(r, http.MethodPost, "/api/v1/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantID != "" {
				if env := decodeEnvelope(t, w); env.Exception.Error.ID != tt.wantID {
					t.Fatalf("got error id %s want %s", env.Exception.Error.ID, tt.wantID)
				}
				return
			}

			var resp handlers.MessageResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Message != service.MsgEmailHasToBeVerified {
				t.Fatalf("unexpected message %q", resp.Message)
			}
		})
	}
}

func TestLoginHandlerSetsHeaders(t *testing.T) {
	activated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	auth := &fakeAuth{loginFn: func(ctx context.Context, req user.LoginRequest) (service.LoginResult, error) {
		u := annUser()
		u.EmailActivatedAt = &activated
		return service.LoginResult{User: u, Token: "signed.jwt.token"}, nil
	}}

	h := handlers.NewAuthHandler(auth, 90*time.Minute)
	r := setupRouter(http.MethodPost, "/api/v1/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get(handlers.HeaderJWTExpiresIn); got != "5400000" {
		t.Fatalf("jwtExpiresIn = %q", got)
	}
	if got := w.Header().Get(handlers.HeaderUserID); got != "user-1" {
		t.Fatalf("X-User-Id = %q", got)
	}

	var resp handlers.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Token != "signed.jwt.token" || resp.User.Email != "a@x.com" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.User.EmailActivatedAt == nil || *resp.User.EmailActivatedAt != activated.UnixMilli() {
		t.Fatalf("emailActivatedAt should be epoch millis, got %v", resp.User.EmailActivatedAt)
	}
}

func TestLoginHandlerUnauthorized(t *testing.T) {
	auth := &fakeAuth{loginFn: func(ctx context.Context, req user.LoginRequest) (service.LoginResult, error) {
		return service.LoginResult{}, apperr.Unauthenticated(service.MsgEmailNotActivated)
	}}

	h := handlers.NewAuthHandler(auth, time.Hour)
	r := setupRouter(http.MethodPost, "/api/v1/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if len(env.Exception.Variables) != 1 || env.Exception.Variables[0] != service.MsgEmailNotActivated {
		t.Fatalf("unexpected variables %v", env.Exception.Variables)
	}
	if w.Header().Get(handlers.HeaderJWTExpiresIn) != "" {
		t.Fatalf("failed login must not advertise a token lifetime")
	}
}

func TestActivateHandler(t *testing.T) {
	var gotToken string
	auth := &fakeAuth{activateFn: func(ctx context.Context, token string) (user.User, error) {
		gotToken = token
		if token == "missing" {
			return user.User{}, apperr.NotFoundErr("activation_token")
		}
		return annUser(), nil
	}}

	h := handlers.NewAuthHandler(auth, time.Hour)
	r := setupRouter(http.MethodGet, "/api/v1/auth/activate/:token", h.Activate)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/activate/tok-1", "")
	if w.Code != http.StatusOK || gotToken != "tok-1" {
		t.Fatalf("got status %d token %q", w.Code, gotToken)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/auth/activate/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
}
