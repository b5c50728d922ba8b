package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/handlers"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/gin-gonic/gin"
)

func bindRouter[T any]() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/bind", func(ctx *gin.Context) {
		var req T
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})
	return r
}

func postBind(t *testing.T, r *gin.Engine, body string) respond.Envelope {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var env respond.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}
	if env.Exception.Error.ID != "SVC0007" {
		t.Fatalf("unexpected error id: %s", env.Exception.Error.ID)
	}
	return env
}

func TestBindJSON_OneVariablePerViolatedField(t *testing.T) {
	r := bindRouter[user.RegisterRequest]()

	env := postBind(t, r, `{"name":"go","email":"not-an-email"}`)

	want := []string{
		"name: {min_max_length}",
		"email: {invalid_email}",
		"password: {not_blank}",
	}
	if !reflect.DeepEqual(env.Exception.Variables, want) {
		t.Fatalf("variables mismatch: got %v want %v", env.Exception.Variables, want)
	}
}

func TestBindJSON_TypeMismatchUsesJSONFieldNames(t *testing.T) {
	r := bindRouter[todo.UpdateRequest]()

	env := postBind(t, r, `{"finished":"yes"}`)

	want := []string{"finished: {invalid_type}"}
	if !reflect.DeepEqual(env.Exception.Variables, want) {
		t.Fatalf("variables mismatch: got %v want %v", env.Exception.Variables, want)
	}
}

func TestBindJSON_MalformedBody(t *testing.T) {
	r := bindRouter[todo.CreateRequest]()

	for _, body := range []string{`{"description":`, `not json`} {
		env := postBind(t, r, body)
		want := []string{"body: {invalid_json}"}
		if !reflect.DeepEqual(env.Exception.Variables, want) {
			t.Fatalf("body %q: got %v want %v", body, env.Exception.Variables, want)
		}
	}
}

func TestBindJSON_EmptyBodyIsMissingInput(t *testing.T) {
	r := bindRouter[todo.CreateRequest]()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var env respond.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if env.Exception.Error.ID != "SVC0002" || !reflect.DeepEqual(env.Exception.Variables, []string{"body"}) {
		t.Fatalf("unexpected envelope %+v", env.Exception)
	}
}

func TestBindJSON_Valid(t *testing.T) {
	r := bindRouter[todo.CreateRequest]()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(`{"description":"buy milk"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}
}
