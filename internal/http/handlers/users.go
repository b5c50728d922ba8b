package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/gin-gonic/gin"
)

type ProfileService interface {
	LoggedInUser(ctx context.Context) (user.User, error)
	UpdateProfile(ctx context.Context, req user.UpdateRequest) (user.User, error)
	List(ctx context.Context, req paging.Request) (paging.Page[user.User], error)
}

type UsersHandler struct {
	users ProfileService
}

func NewUsersHandler(users ProfileService) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	cctx, cancel := requestCtx(ctx)
	defer cancel()

	u, err := h.users.LoggedInUser(cctx)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) UpdateMe(ctx *gin.Context) {
	var req user.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	u, err := h.users.UpdateProfile(cctx, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(u))
}

// List is the admin listing of every account.
func (h *UsersHandler) List(ctx *gin.Context) {
	req, err := parsePaging(ctx)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	page, err := h.users.List(cctx, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toPageResponse(page, toUserResponse))
}
