package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/todohub/internal/domain/paging"
	"github.com/geocoder89/todohub/internal/domain/todo"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodosRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTodosRepo(pool *pgxpool.Pool, prom *observability.Prom) *TodosRepo {
	return &TodosRepo{pool: pool, prom: prom}
}

func (r *TodosRepo) Save(ctx context.Context, it todo.Item) (todo.Item, error) {
	err := r.prom.ObserveDB(ctx, "todos.save", func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO todos (id, description, finished, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				description = EXCLUDED.description,
				finished = EXCLUDED.finished,
				updated_at = EXCLUDED.updated_at`,
			it.ID, it.Description, it.Finished, it.Owner, it.CreatedAt, it.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return todo.Item{}, fmt.Errorf("save todo: %w", err)
	}

	return it, nil
}

func (r *TodosRepo) GetByID(ctx context.Context, id string) (todo.Item, error) {
	var it todo.Item

	err := r.prom.ObserveDB(ctx, "todos.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT id::text, description, finished, owner_id::text, created_at, updated_at
			FROM todos
			WHERE id = $1`, id,
		).Scan(&it.ID, &it.Description, &it.Finished, &it.Owner, &it.CreatedAt, &it.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return todo.Item{}, todo.ErrNotFound
		}
		return todo.Item{}, fmt.Errorf("get todo: %w", err)
	}

	return it, nil
}

func (r *TodosRepo) ListByOwner(ctx context.Context, owner string, req paging.Request) (paging.Page[todo.Item], error) {
	page := paging.Page[todo.Item]{Items: make([]todo.Item, 0, req.Size), Request: req}

	err := r.prom.ObserveDB(ctx, "todos.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT id::text, description, finished, owner_id::text, created_at, updated_at,
				COUNT(*) OVER() AS total
			FROM todos
			WHERE owner_id = $1
			ORDER BY created_at ASC, id ASC
			LIMIT $2 OFFSET $3`,
			owner, req.Size, req.Offset(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var it todo.Item
			var total int
			if err := rows.Scan(&it.ID, &it.Description, &it.Finished, &it.Owner, &it.CreatedAt, &it.UpdatedAt, &total); err != nil {
				return err
			}
			page.Total = total
			page.Items = append(page.Items, it)
		}
		return rows.Err()
	})
	if err != nil {
		return paging.Page[todo.Item]{}, fmt.Errorf("list todos: %w", err)
	}

	if len(page.Items) == 0 && req.Page > 0 {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE owner_id = $1`, owner).Scan(&page.Total); err != nil {
			return paging.Page[todo.Item]{}, fmt.Errorf("count todos: %w", err)
		}
	}

	return page, nil
}

func (r *TodosRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.prom.ObserveDB(ctx, "todos.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	if affected == 0 {
		return todo.ErrNotFound
	}

	return nil
}
