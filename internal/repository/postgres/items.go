package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// ItemRepository implements port.ItemRepository using PostgreSQL.
type ItemRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewItemRepository wires a PostgreSQL-backed item repository.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new shopping item.
func (r *ItemRepository) Create(ctx context.Context, item domain.Item) error {
	var imageValue any
	if item.Image != nil && *item.Image != "" {
		imageValue = *item.Image
	}

	stmt, args, err := r.builder.Insert("notapp.items").
		Columns("id", "home_id", "name", "image", "description", "price", "categories", "created_at", "updated_at").
		Values(item.ID, item.HomeID, item.Name, imageValue, item.Description, item.Price, item.Categories, item.CreatedAt, item.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ListByHome returns the home's items in creation order.
func (r *ItemRepository) ListByHome(ctx context.Context, homeID string) ([]domain.Item, error) {
	stmt, args, err := r.builder.
		Select("id", "home_id", "name", "image", "description", "price", "categories", "created_at", "updated_at").
		From("notapp.items").
		Where(squirrel.Eq{"home_id": homeID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select items sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			item  domain.Item
			image sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.HomeID, &item.Name, &image,
			&item.Description, &item.Price, &item.Categories,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if image.Valid {
			val := image.String
			item.Image = &val
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
