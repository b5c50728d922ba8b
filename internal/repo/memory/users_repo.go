package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
)

type UsersRepo struct {
	mu      sync.RWMutex
	items   map[string]user.User // id -> user
	byEmail map[string]string    // email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items:   make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u user.User) user.User {
	u.Roles = slices.Clone(u.Roles)
	if u.EmailActivationToken != nil {
		tok := *u.EmailActivationToken
		u.EmailActivationToken = &tok
	}
	if u.EmailActivatedAt != nil {
		at := *u.EmailActivatedAt
		u.EmailActivatedAt = &at
	}
	return u
}

// Save inserts or replaces the user keyed by id. The email index plays the
// role of the unique constraint.
func (r *UsersRepo) Save(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byEmail[u.Email]; ok && owner != u.ID {
		return user.User{}, user.ErrEmailAlreadyUsed
	}

	if prev, ok := r.items[u.ID]; ok && prev.Email != u.Email {
		delete(r.byEmail, prev.Email)
	}

	r.items[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID

	return cloneUser(u), nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return cloneUser(r.items[id]), nil
}

func (r *UsersRepo) GetByActivationToken(_ context.Context, token string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.EmailActivationToken != nil && *u.EmailActivationToken == token {
			return cloneUser(u), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UsersRepo) List(_ context.Context, req paging.Request) (paging.Page[user.User], error) {
	r.mu.RLock()
	all := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		all = append(all, cloneUser(u))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	return paging.Page[user.User]{
		Items:   window(all, req),
		Total:   len(all),
		Request: req,
	}, nil
}

// window returns the slice of items covered by the page.
func window[T any](items []T, req paging.Request) []T {
	start := req.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+req.Size, len(items))
	return items[start:end]
}
