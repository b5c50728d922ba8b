package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/observability"
)

// UserStore mirrors the persistence operations on users.
type UserStore interface {
	Save(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByActivationToken(ctx context.Context, token string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, req paging.Request) (paging.Page[user.User], error)
}

// cachedUser keeps the fields user.User hides from JSON.
type cachedUser struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"passwordHash"`
	Roles                []string   `json:"roles"`
	EmailActivationToken *string    `json:"emailActivationToken,omitempty"`
	EmailActivatedAt     *time.Time `json:"emailActivatedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func toCached(u user.User) cachedUser {
	return cachedUser(u)
}

func (c cachedUser) user() user.User {
	return user.User(c)
}

// CachedUsers is a read-through cache for user-by-email lookups, which every
// authenticated request performs. Any Save drops the cached entry.
// Cache failures are logged and fall through to the store.
type CachedUsers struct {
	UserStore
	store Store
	prom  *observability.Prom
}

func NewCachedUsers(next UserStore, store Store, prom *observability.Prom) *CachedUsers {
	return &CachedUsers{UserStore: next, store: store, prom: prom}
}

func emailKey(email string) string {
	return "user:email:" + email
}

func (c *CachedUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	key := emailKey(email)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "user cache get failed", "error", err)
	}
	if ok {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			c.prom.CacheLookup(true)
			return cu.user(), nil
		}
		_ = c.store.Delete(ctx, key)
	}
	c.prom.CacheLookup(false)

	u, err := c.UserStore.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}

	if raw, err := json.Marshal(toCached(u)); err == nil {
		if err := c.store.Set(ctx, key, raw); err != nil {
			slog.WarnContext(ctx, "user cache set failed", "error", err)
		}
	}

	return u, nil
}

func (c *CachedUsers) Save(ctx context.Context, u user.User) (user.User, error) {
	// the previous email may differ from the new one
	if prev, err := c.UserStore.GetByID(ctx, u.ID); err == nil && prev.Email != u.Email {
		c.invalidate(ctx, prev.Email)
	}

	saved, err := c.UserStore.Save(ctx, u)
	c.invalidate(ctx, u.Email)
	if err != nil {
		return user.User{}, err
	}
	return saved, nil
}

func (c *CachedUsers) invalidate(ctx context.Context, email string) {
	if err := c.store.Delete(ctx, emailKey(email)); err != nil {
		slog.WarnContext(ctx, "user cache delete failed", "error", err, "email", email)
	}
}
