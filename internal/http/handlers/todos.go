package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/gin-gonic/gin"
)

type TodoService interface {
	Create(ctx context.Context, owner user.User, req todo.CreateRequest) (todo.Item, error)
	List(ctx context.Context, owner user.User, req paging.Request) (paging.Page[todo.Item], error)
	Get(ctx context.Context, owner user.User, id string) (todo.Item, error)
	Update(ctx context.Context, owner user.User, id string, req todo.UpdateRequest) (todo.Item, error)
	Delete(ctx context.Context, owner user.User, id string) error
}

type CurrentUser interface {
	LoggedInUser(ctx context.Context) (user.User, error)
}

type TodosHandler struct {
	todos TodoService
	users CurrentUser
}

func NewTodosHandler(todos TodoService, users CurrentUser) *TodosHandler {
	return &TodosHandler{todos: todos, users: users}
}

// owner resolves the caller; on failure the error response is already written.
func (h *TodosHandler) owner(ctx *gin.Context, cctx context.Context) (user.User, bool) {
	u, err := h.users.LoggedInUser(cctx)
	if err != nil {
		respond.Error(ctx, err)
		return user.User{}, false
	}
	return u, true
}

func (h *TodosHandler) List(ctx *gin.Context) {
	req, err := parsePaging(ctx)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, cctx)
	if !ok {
		return
	}

	page, err := h.todos.List(cctx, owner, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toPageResponse(page, func(it todo.Item) TodoResponse {
		return toTodoResponse(it, owner)
	}))
}

func (h *TodosHandler) Create(ctx *gin.Context) {
	var req todo.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, cctx)
	if !ok {
		return
	}

	it, err := h.todos.Create(cctx, owner, req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTodoResponse(it, owner))
}

func (h *TodosHandler) Get(ctx *gin.Context) {
	cctx, cancel := requestCtx(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, cctx)
	if !ok {
		return
	}

	it, err := h.todos.Get(cctx, owner, ctx.Param("id"))
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTodoResponse(it, owner))
}

func (h *TodosHandler) Update(ctx *gin.Context) {
	var req todo.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, cctx)
	if !ok {
		return
	}

	it, err := h.todos.Update(cctx, owner, ctx.Param("id"), req)
	if err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTodoResponse(it, owner))
}

func (h *TodosHandler) Delete(ctx *gin.Context) {
	cctx, cancel := requestCtx(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, cctx)
	if !ok {
		return
	}

	if err := h.todos.Delete(cctx, owner, ctx.Param("id")); err != nil {
		respond.Error(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
