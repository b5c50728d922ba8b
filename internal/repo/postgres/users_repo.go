package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id::text, name, email, password_hash, roles, email_activation_token, email_activated_at, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Roles,
		&u.EmailActivationToken,
		&u.EmailActivatedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Save upserts by id. The users_email_uniq index is the last guard against
// two registrations racing on the same email.
func (r *UsersRepo) Save(ctx context.Context, u user.User) (user.User, error) {
	var saved user.User

	err := r.prom.ObserveDB(ctx, "users.save", func() error {
		var err error
		saved, err = scanUser(r.pool.QueryRow(ctx, `
			INSERT INTO users (id, name, email, password_hash, roles, email_activation_token, email_activated_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				password_hash = EXCLUDED.password_hash,
				roles = EXCLUDED.roles,
				email_activation_token = EXCLUDED.email_activation_token,
				email_activated_at = EXCLUDED.email_activated_at,
				updated_at = EXCLUDED.updated_at
			RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Roles,
			u.EmailActivationToken, u.EmailActivatedAt, u.CreatedAt, u.UpdatedAt,
		))
		return err
	})

	if err != nil {
		if isUniqueViolation(err, "users_email_uniq") {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
		return user.User{}, fmt.Errorf("save user: %w", err)
	}

	return saved, nil
}

func (r *UsersRepo) getOne(ctx context.Context, op, where string, arg any) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB(ctx, op, func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", "id", id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", "email", email)
}

func (r *UsersRepo) GetByActivationToken(ctx context.Context, token string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_activation_token", "email_activation_token", token)
}

func (r *UsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := r.prom.ObserveDB(ctx, "users.exists_by_email", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("users exists by email: %w", err)
	}

	return exists, nil
}

func (r *UsersRepo) List(ctx context.Context, req paging.Request) (paging.Page[user.User], error) {
	page := paging.Page[user.User]{Items: make([]user.User, 0, req.Size), Request: req}

	err := r.prom.ObserveDB(ctx, "users.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+userColumns+`, COUNT(*) OVER() AS total
			FROM users
			ORDER BY created_at ASC, id ASC
			LIMIT $1 OFFSET $2`,
			req.Size, req.Offset(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			var total int
			if err := rows.Scan(
				&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles,
				&u.EmailActivationToken, &u.EmailActivatedAt, &u.CreatedAt, &u.UpdatedAt,
				&total,
			); err != nil {
				return err
			}
			page.Total = total
			page.Items = append(page.Items, u)
		}
		return rows.Err()
	})
	if err != nil {
		return paging.Page[user.User]{}, fmt.Errorf("list users: %w", err)
	}

	// past the last page the window function yields no rows
	if len(page.Items) == 0 && req.Page > 0 {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&page.Total); err != nil {
			return paging.Page[user.User]{}, fmt.Errorf("count users: %w", err)
		}
	}

	return page, nil
}
