// Package respond writes the JSON error envelope shared by handlers and middlewares.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Exception struct {
	StatusCode int       `json:"statusCode"`
	Error      ErrorBody `json:"error"`
	Variables  []string  `json:"variables"`
}

type Envelope struct {
	Exception Exception `json:"exception"`
}

func requestIDFrom(ctx *gin.Context) string {
	if v, ok := ctx.Get("request_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ctx.GetHeader("X-Request-Id")
}

// Error maps err onto the envelope and aborts the chain.
// Anything that is not an *apperr.Error is reported as a generic 500.
func Error(ctx *gin.Context, err error) {
	e := apperr.From(err)

	if e.Status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request.Context(), "request failed",
			"error", err,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"request_id", requestIDFrom(ctx),
		)
	}

	variables := e.Variables
	if variables == nil {
		variables = []string{}
	}

	ctx.AbortWithStatusJSON(e.Status, Envelope{
		Exception: Exception{
			StatusCode: e.Status,
			Error:      ErrorBody{ID: e.Type.ID, Text: e.Type.Text},
			Variables:  variables,
		},
	})
}

// Unauthorized is the entry point used when a request carries no usable credentials.
func Unauthorized(ctx *gin.Context, variables ...string) {
	Error(ctx, apperr.Unauthenticated(variables...))
}

func Forbidden(ctx *gin.Context, variables ...string) {
	Error(ctx, apperr.Forbidden(variables...))
}
