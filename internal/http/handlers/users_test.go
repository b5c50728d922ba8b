package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/handlers"
	"github.com/geocoder89/todohub/internal/service"
)

func TestMeHandler(t *testing.T) {
	h := handlers.NewUsersHandler(&fakeProfile{})
	r := setupRouter(http.MethodGet, "/me", h.Me)

	w := doJSON(r, http.MethodGet, "/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["email"] != "a@x.com" {
		t.Fatalf("unexpected body %v", resp)
	}
	if v, ok := resp["emailActivatedAt"]; !ok || v != nil {
		t.Fatalf("emailActivatedAt should be present and null, got %v", v)
	}
	if _, ok := resp["passwordHash"]; ok {
		t.Fatalf("password hash leaked")
	}
}

func TestUpdateMeHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		updateFn   func(ctx context.Context, req user.UpdateRequest) (user.User, error)
		wantStatus int
	}{
		{
			name: "rename",
			body: `{"name":"Anna"}`,
			updateFn: func(ctx context.Context, req user.UpdateRequest) (user.User, error) {
				u := annUser()
				u.Name = req.Name
				return u, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "confirmation mismatch",
			body: `{"password":"newpass1","passwordConfirmation":"newpass2"}`,
			updateFn: func(ctx context.Context, req user.UpdateRequest) (user.User, error) {
				return user.User{}, apperr.InvalidInput(service.MsgPasswordConfirmationMismatch)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name too short",
			body:       `{"name":"A"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewUsersHandler(&fakeProfile{updateFn: tt.updateFn})
			r := setupRouter(http.MethodPatch, "/me", h.UpdateMe)

			w := doJSON(r, http.MethodPatch, "/me", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("got %d want %d body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAdminListUsersHandler(t *testing.T) {
	profile := &fakeProfile{listFn: func(ctx context.Context, req paging.Request) (paging.Page[user.User], error) {
		return paging.Page[user.User]{Items: []user.User{annUser()}, Total: 1, Request: req}, nil
	}}
	h := handlers.NewUsersHandler(profile)
	r := setupRouter(http.MethodGet, "/admin/users", h.List)

	w := doJSON(r, http.MethodGet, "/admin/users?page=0&size=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}

	var resp handlers.PageResponse[handlers.UserResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Page != 1 || resp.Pages != 1 || resp.Total != 1 || resp.Items[0].Name != "Ann" {
		t.Fatalf("unexpected page %+v", resp)
	}
}
