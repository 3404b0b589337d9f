package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

func newMockTokenRepository(t *testing.T) (*TokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &TokenRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestTokenRepository_Create(t *testing.T) {
	repo, mock := newMockTokenRepository(t)

	now := time.Now().UTC()
	userID := "user-1"
	token := domain.OneTimeToken{
		ID:        "token-1",
		TokenHash: "hash-1",
		Purpose:   "reset_password",
		UserID:    &userID,
		ExpiresAt: now.Add(30 * time.Minute),
		CreatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO notapp\.one_time_tokens`).
		WithArgs(
			token.ID,
			token.TokenHash,
			token.Purpose,
			userID,
			token.ExpiresAt,
			pgxmock.AnyArg(),
			token.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetByHash(t *testing.T) {
	repo, mock := newMockTokenRepository(t)

	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "token_hash", "purpose", "user_id", "expires_at", "used_at", "created_at",
	}).AddRow(
		"token-1", "hash-1", domain.TokenPurpose("invite_home"), nil, now.Add(24*time.Hour), nil, now,
	)

	mock.ExpectQuery(`SELECT .*FROM notapp\.one_time_tokens`).
		WithArgs("hash-1").
		WillReturnRows(rows)

	token, err := repo.GetByHash(context.Background(), "hash-1")
	if err != nil {
		t.Fatalf("GetByHash returned error: %v", err)
	}
	if token.ID != "token-1" || token.Purpose != "invite_home" {
		t.Fatalf("unexpected token: %+v", token)
	}
	if token.UserID != nil {
		t.Fatalf("expected nil user id, got %v", *token.UserID)
	}
	if token.UsedAt != nil {
		t.Fatalf("expected token to be unused")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetByHashNotFound(t *testing.T) {
	repo, mock := newMockTokenRepository(t)

	mock.ExpectQuery(`SELECT .*FROM notapp\.one_time_tokens`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByHash(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_Consume(t *testing.T) {
	repo, mock := newMockTokenRepository(t)

	now := time.Now().UTC()
	userID := "user-1"
	usedAt := now

	rows := pgxmock.NewRows([]string{
		"id", "token_hash", "purpose", "user_id", "expires_at", "used_at", "created_at",
	}).AddRow(
		"token-1", "hash-1", domain.TokenPurpose("reset_password"), userID, now.Add(10*time.Minute), &usedAt, now.Add(-time.Minute),
	)

	mock.ExpectQuery(`UPDATE notapp\.one_time_tokens`).
		WithArgs(now, "hash-1", now).
		WillReturnRows(rows)

	token, err := repo.Consume(context.Background(), "hash-1", now)
	if err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}
	if token.UsedAt == nil || !token.UsedAt.Equal(now) {
		t.Fatalf("expected used_at to be set")
	}
	if token.UserID == nil || *token.UserID != userID {
		t.Fatalf("expected user pointer populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_ConsumeSpentOrExpired(t *testing.T) {
	repo, mock := newMockTokenRepository(t)

	now := time.Now().UTC()

	// The update matches only unused, unexpired rows; a spent or expired
	// token produces zero rows.
	mock.ExpectQuery(`UPDATE notapp\.one_time_tokens`).
		WithArgs(now, "hash-1", now).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.Consume(context.Background(), "hash-1", now); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
