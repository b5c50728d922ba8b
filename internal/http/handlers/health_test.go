package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/todohub/internal/http/handlers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyz(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name         string
		deps         map[string]handlers.Pinger
		shuttingDown bool
		wantStatus   int
	}{
		{"no deps", nil, false, http.StatusOK},
		{"all up", map[string]handlers.Pinger{"db": ok, "redis": ok}, false, http.StatusOK},
		{"db down", map[string]handlers.Pinger{"db": down}, false, http.StatusServiceUnavailable},
		{"shutting down", map[string]handlers.Pinger{"db": ok}, true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.deps, func() bool { return tt.shuttingDown })
			r := setupRouter(http.MethodGet, "/readyz", h.Readyz)

			if w := doJSON(r, http.MethodGet, "/readyz", ""); w.Code != tt.wantStatus {
				t.Fatalf("got %d want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil)
	r := setupRouter(http.MethodGet, "/healthz", h.Healthz)

	if w := doJSON(r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
}
