package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
)

type TodosRepo struct {
	mu    sync.RWMutex
	items map[string]todo.Item
}

func NewTodosRepo() *TodosRepo {
	return &TodosRepo{
		items: make(map[string]todo.Item),
	}
}

func (r *TodosRepo) Save(_ context.Context, it todo.Item) (todo.Item, error) {
	r.mu.Lock()
	r.items[it.ID] = it
	r.mu.Unlock()

	return it, nil
}

func (r *TodosRepo) GetByID(_ context.Context, id string) (todo.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return todo.Item{}, todo.ErrNotFound
	}
	return it, nil
}

func (r *TodosRepo) ListByOwner(_ context.Context, owner string, req paging.Request) (paging.Page[todo.Item], error) {
	r.mu.RLock()
	owned := make([]todo.Item, 0)
	for _, it := range r.items {
		if it.Owner == owner {
			owned = append(owned, it)
		}
	}
	r.mu.RUnlock()

	// same order as the postgres index: created_at, id
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID < owned[j].ID
		}
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})

	return paging.Page[todo.Item]{
		Items:   window(owned, req),
		Total:   len(owned),
		Request: req,
	}, nil
}

func (r *TodosRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return todo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
