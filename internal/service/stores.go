package service

import (
	"context"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/worker"
)

// UserStore is implemented by repo/postgres, repo/memory and cache.CachedUsers.
type UserStore interface {
	Save(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByActivationToken(ctx context.Context, token string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, req paging.Request) (paging.Page[user.User], error)
}

type TodoStore interface {
	Save(ctx context.Context, it todo.Item) (todo.Item, error)
	GetByID(ctx context.Context, id string) (todo.Item, error)
	ListByOwner(ctx context.Context, owner string, req paging.Request) (paging.Page[todo.Item], error)
	Delete(ctx context.Context, id string) error
}

// Submitter queues background work; *worker.Pool satisfies it.
type Submitter interface {
	Submit(task worker.Task) error
}
