package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/google/uuid"
)

// TodoService runs todo CRUD on behalf of an owner. Items belonging to
// someone else are reported as not found.
type TodoService struct {
	todos TodoStore
}

func NewTodoService(todos TodoStore) *TodoService {
	return &TodoService{todos: todos}
}

func (s *TodoService) Create(ctx context.Context, owner user.User, req todo.CreateRequest) (todo.Item, error) {
	it, err := s.todos.Save(ctx, todo.NewItem(owner.ID, req))
	if err != nil {
		return todo.Item{}, apperr.Internal(err)
	}
	return it, nil
}

func (s *TodoService) List(ctx context.Context, owner user.User, req paging.Request) (paging.Page[todo.Item], error) {
	page, err := s.todos.ListByOwner(ctx, owner.ID, req.Normalize())
	if err != nil {
		return paging.Page[todo.Item]{}, apperr.Internal(err)
	}
	return page, nil
}

func (s *TodoService) Get(ctx context.Context, owner user.User, id string) (todo.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return todo.Item{}, apperr.Wrap(err, apperr.BasicInvalidInput, http.StatusBadRequest, "id")
	}

	it, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return todo.Item{}, notFound(id, err)
		}
		return todo.Item{}, apperr.Internal(err)
	}

	if it.Owner != owner.ID {
		return todo.Item{}, notFound(id, todo.ErrNotFound)
	}
	return it, nil
}

// notFound names the requested id so callers can tell which item was missing.
func notFound(id string, cause error) *apperr.Error {
	e := apperr.NotFoundErr(id)
	e.Err = cause
	return e
}

func (s *TodoService) Update(ctx context.Context, owner user.User, id string, req todo.UpdateRequest) (todo.Item, error) {
	it, err := s.Get(ctx, owner, id)
	if err != nil {
		return todo.Item{}, err
	}

	it.Apply(req)

	saved, err := s.todos.Save(ctx, it)
	if err != nil {
		return todo.Item{}, apperr.Internal(err)
	}
	return saved, nil
}

func (s *TodoService) Delete(ctx context.Context, owner user.User, id string) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return notFound(id, err)
		}
		return apperr.Internal(err)
	}
	return nil
}
