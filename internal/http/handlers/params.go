package handlers

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/gin-gonic/gin"
)

const defaultRequestTimeout = 3 * time.Second

// requestCtx bounds store work while keeping the request values, the
// principal among them.
func requestCtx(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), defaultRequestTimeout)
}

func queryInt(ctx *gin.Context, key string, fallback, lowest, highest int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < lowest || n > highest {
		return 0, apperr.InvalidInput(key)
	}
	return n, nil
}

// parsePaging reads ?page (0-based) and ?size. Sizes above the cap are
// clamped; a page past paging.MaxPage is rejected.
func parsePaging(ctx *gin.Context) (paging.Request, error) {
	page, err := queryInt(ctx, "page", 0, 0, paging.MaxPage)
	if err != nil {
		return paging.Request{}, err
	}

	size, err := queryInt(ctx, "size", paging.DefaultSize, 1, math.MaxInt)
	if err != nil {
		return paging.Request{}, err
	}

	return paging.Request{Page: page, Size: size}.Normalize(), nil
}
