package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// ListRepository implements port.ListRepository using PostgreSQL.
type ListRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewListRepository wires a PostgreSQL-backed list repository.
func NewListRepository(pool *pgxpool.Pool) *ListRepository {
	return &ListRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new shopping list.
func (r *ListRepository) Create(ctx context.Context, list domain.List) error {
	stmt, args, err := r.builder.Insert("notapp.lists").
		Columns("id", "home_id", "name", "created_at", "updated_at").
		Values(list.ID, list.HomeID, list.Name, list.CreatedAt, list.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert list sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

// ListByHome returns the home's shopping lists in creation order.
func (r *ListRepository) ListByHome(ctx context.Context, homeID string) ([]domain.List, error) {
	stmt, args, err := r.builder.
		Select("id", "home_id", "name", "created_at", "updated_at").
		From("notapp.lists").
		Where(squirrel.Eq{"home_id": homeID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lists sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.List
	for rows.Next() {
		var list domain.List
		if err := rows.Scan(&list.ID, &list.HomeID, &list.Name, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}

	return lists, nil
}
