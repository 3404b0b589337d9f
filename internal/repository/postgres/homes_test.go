package postgres

import (
	"context"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func newMockHomeRepository(t *testing.T) (*HomeRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &HomeRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestHomeRepository_ListByUserOrdersByRecentActivity(t *testing.T) {
	repo, mock := newMockHomeRepository(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "image", "created_at", "updated_at"}).
		AddRow("home-2", "Piso", nil, now.Add(-time.Hour), now).
		AddRow("home-1", "Casa", nil, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	mock.ExpectQuery(`SELECT h\.id, h\.name, h\.image, h\.created_at, h\.updated_at FROM notapp\.homes h JOIN notapp\.members m ON m\.home_id = h\.id WHERE m\.user_id = \$1 ORDER BY h\.updated_at DESC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	homes, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(homes) != 2 {
		t.Fatalf("expected 2 homes, got %d", len(homes))
	}
	if homes[0].ID != "home-2" || homes[1].ID != "home-1" {
		t.Fatalf("expected most recently updated home first, got %q then %q", homes[0].ID, homes[1].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
