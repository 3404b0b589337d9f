package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

// TokenRepository implements port.TokenRepository using PostgreSQL.
type TokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenRepository wires a PostgreSQL-backed one-time token repository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TokenRepository) WithTx(tx pgx.Tx) *TokenRepository {
	if tx == nil {
		return r
	}
	return &TokenRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a one-time token row.
func (r *TokenRepository) Create(ctx context.Context, token domain.OneTimeToken) error {
	var userValue any
	if token.UserID != nil && *token.UserID != "" {
		userValue = *token.UserID
	}

	stmt, args, err := r.builder.Insert("notapp.one_time_tokens").
		Columns("id", "token_hash", "purpose", "user_id", "expires_at", "used_at", "created_at").
		Values(token.ID, token.TokenHash, token.Purpose, userValue, token.ExpiresAt, token.UsedAt, token.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert one-time token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert one-time token: %w", err)
	}
	return nil
}

// GetByHash retrieves a one-time token without consuming it.
func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*domain.OneTimeToken, error) {
	stmt, args, err := r.builder.
		Select("id", "token_hash", "purpose", "user_id", "expires_at", "used_at", "created_at").
		From("notapp.one_time_tokens").
		Where(squirrel.Eq{"token_hash": hash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select one-time token sql: %w", err)
	}

	return scanOneTimeToken(r.exec.QueryRow(ctx, stmt, args...))
}

// Consume atomically marks the live token as used and returns it. The
// update matches only unused, unexpired rows, so a second concurrent
// redemption sees zero rows and gets repository.ErrNotFound.
func (r *TokenRepository) Consume(ctx context.Context, hash string, at time.Time) (*domain.OneTimeToken, error) {
	stmt, args, err := r.builder.Update("notapp.one_time_tokens").
		Set("used_at", at.UTC()).
		Where(squirrel.Eq{"token_hash": hash}).
		Where("used_at IS NULL").
		Where(squirrel.Gt{"expires_at": at.UTC()}).
		Suffix("RETURNING id, token_hash, purpose, user_id, expires_at, used_at, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build consume one-time token sql: %w", err)
	}

	return scanOneTimeToken(r.exec.QueryRow(ctx, stmt, args...))
}

func scanOneTimeToken(row pgx.Row) (*domain.OneTimeToken, error) {
	var (
		token  domain.OneTimeToken
		userID sql.NullString
		usedAt *time.Time
	)

	if err := row.Scan(
		&token.ID,
		&token.TokenHash,
		&token.Purpose,
		&userID,
		&token.ExpiresAt,
		&usedAt,
		&token.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan one-time token: %w", err)
	}

	if userID.Valid {
		val := userID.String
		token.UserID = &val
	}
	token.UsedAt = usedAt

	return &token, nil
}
