package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginFailureRepository implements port.LoginFailureStore using PostgreSQL.
// Failures are append-only; the throttle reads them back through a trailing
// window, so stale rows age out of relevance without needing cleanup.
type LoginFailureRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLoginFailureRepository wires a PostgreSQL-backed login failure store.
func NewLoginFailureRepository(pool *pgxpool.Pool) *LoginFailureRepository {
	return &LoginFailureRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// RecordFailure appends a failed login attempt for the user.
func (r *LoginFailureRepository) RecordFailure(ctx context.Context, userID string, at time.Time) error {
	stmt, args, err := r.builder.Insert("notapp.login_failures").
		Columns("id", "user_id", "attempted_at").
		Values(uuid.NewString(), userID, at.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login failure sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login failure: %w", err)
	}
	return nil
}

// CountSince counts the user's failures recorded at or after the given time.
func (r *LoginFailureRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("notapp.login_failures").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"attempted_at": since.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count login failures sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count login failures: %w", err)
	}
	return count, nil
}
