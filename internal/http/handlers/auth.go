package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/geocoder89/todohub/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	HeaderJWTExpiresIn = "jwtExpiresIn"
	HeaderUserID       = "X-User-Id"
)

type Authenticator interface {
	Register(ctx context.Context, req user.RegisterRequest) (string, error)
	Login(ctx context.Context, req user.LoginRequest) (service.LoginResult, error)
	Activate(ctx context.Context, token string) (user.User, error)
}

type AuthHandler struct {
	auth      Authenticator
	expiresIn time.Duration
}

func NewAuthHandler(auth Authenticator, expiresIn time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, expiresIn: expiresIn}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	msg, err := h.auth.Register(cctx, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, MessageResponse{Message: msg})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	res, err := h.auth.Login(cctx, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.Header(HeaderJWTExpiresIn, strconv.FormatInt(h.expiresIn.Milliseconds(), 10))
	ctx.Header(HeaderUserID, res.User.ID)
	ctx.JSON(http.StatusOK, LoginResponse{
		User:  toUserResponse(res.User),
		Token: res.Token,
	})
}

func (h *AuthHandler) Activate(ctx *gin.Context) {
	cctx, cancel := requestCtx(ctx)
	defer cancel()

	if _, err := h.auth.Activate(cctx, ctx.Param("token")); err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Message: service.MsgEmailActivated})
}
