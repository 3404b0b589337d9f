package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

// HomeRepository implements port.HomeRepository using PostgreSQL.
type HomeRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewHomeRepository wires a PostgreSQL-backed home repository.
func NewHomeRepository(pool *pgxpool.Pool) *HomeRepository {
	return &HomeRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *HomeRepository) WithTx(tx pgx.Tx) *HomeRepository {
	if tx == nil {
		return r
	}
	return &HomeRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts the home and its OWNER membership in one transaction.
func (r *HomeRepository) Create(ctx context.Context, home domain.Home, ownerMembership domain.Membership) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create home tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := r.WithTx(tx)

	if err := txRepo.insertHome(ctx, home); err != nil {
		return err
	}
	if err := txRepo.CreateMembership(ctx, ownerMembership); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create home tx: %w", err)
	}
	return nil
}

func (r *HomeRepository) insertHome(ctx context.Context, home domain.Home) error {
	var imageValue any
	if home.Image != nil && *home.Image != "" {
		imageValue = *home.Image
	}

	stmt, args, err := r.builder.Insert("notapp.homes").
		Columns("id", "name", "image", "created_at", "updated_at").
		Values(home.ID, home.Name, imageValue, home.CreatedAt, home.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert home sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert home: %w", err)
	}
	return nil
}

// GetByID retrieves a home by identifier.
func (r *HomeRepository) GetByID(ctx context.Context, id string) (*domain.Home, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "image", "created_at", "updated_at").
		From("notapp.homes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select home sql: %w", err)
	}

	var (
		home  domain.Home
		image sql.NullString
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&home.ID, &home.Name, &image, &home.CreatedAt, &home.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan home: %w", err)
	}
	if image.Valid {
		val := image.String
		home.Image = &val
	}

	return &home, nil
}

// ListMembers returns the home's memberships joined with each member's
// user record, oldest membership first.
func (r *HomeRepository) ListMembers(ctx context.Context, homeID string) ([]domain.HomeMember, error) {
	stmt, args, err := r.builder.
		Select(
			"m.id", "m.user_id", "m.home_id", "m.role", "m.created_at",
			"u.id", "u.name", "u.email", "u.image", "u.created_at", "u.updated_at",
		).
		From("notapp.members m").
		Join("notapp.users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.home_id": homeID}).
		OrderBy("m.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select members sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var members []domain.HomeMember
	for rows.Next() {
		var (
			member domain.HomeMember
			image  sql.NullString
		)
		if err := rows.Scan(
			&member.ID, &member.UserID, &member.HomeID, &member.Role, &member.CreatedAt,
			&member.User.ID, &member.User.Name, &member.User.Email, &image,
			&member.User.CreatedAt, &member.User.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if image.Valid {
			val := image.String
			member.User.Image = &val
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// ListByUser returns every home the user is a member of.
func (r *HomeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Home, error) {
	stmt, args, err := r.builder.
		Select("h.id", "h.name", "h.image", "h.created_at", "h.updated_at").
		From("notapp.homes h").
		Join("notapp.members m ON m.home_id = h.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("h.updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select homes by user sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select homes by user: %w", err)
	}
	defer rows.Close()

	var homes []domain.Home
	for rows.Next() {
		var (
			home  domain.Home
			image sql.NullString
		)
		if err := rows.Scan(&home.ID, &home.Name, &image, &home.CreatedAt, &home.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan home: %w", err)
		}
		if image.Valid {
			val := image.String
			home.Image = &val
		}
		homes = append(homes, home)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate homes: %w", err)
	}

	return homes, nil
}

// Update replaces the mutable fields of a home.
func (r *HomeRepository) Update(ctx context.Context, home domain.Home) error {
	var imageValue any
	if home.Image != nil && *home.Image != "" {
		imageValue = *home.Image
	}

	stmt, args, err := r.builder.Update("notapp.homes").
		Set("name", home.Name).
		Set("image", imageValue).
		Set("updated_at", home.UpdatedAt).
		Where(squirrel.Eq{"id": home.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update home sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update home: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the home. Memberships, invitations, lists, and items go
// with it via ON DELETE CASCADE.
func (r *HomeRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("notapp.homes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete home sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete home: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateMembership inserts a membership row.
func (r *HomeRepository) CreateMembership(ctx context.Context, membership domain.Membership) error {
	stmt, args, err := r.builder.Insert("notapp.members").
		Columns("id", "user_id", "home_id", "role", "created_at").
		Values(membership.ID, membership.UserID, membership.HomeID, membership.Role, membership.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert membership sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// HasMemberEmail reports whether any current member of the home uses the email.
func (r *HomeRepository) HasMemberEmail(ctx context.Context, homeID, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("notapp.members m").
		Join("notapp.users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.home_id": homeID, "u.email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build member email check sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check member email: %w", err)
	}
	return true, nil
}

// CreateInvitation inserts a pending invitation row.
func (r *HomeRepository) CreateInvitation(ctx context.Context, invitation domain.Invitation) error {
	stmt, args, err := r.builder.Insert("notapp.invitations").
		Columns("id", "user_id", "home_id", "created_at").
		Values(invitation.ID, invitation.UserID, invitation.HomeID, invitation.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert invitation sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetInvitation returns the invitation joined with user and home names.
func (r *HomeRepository) GetInvitation(ctx context.Context, id string) (*domain.InvitationDetail, error) {
	stmt, args, err := r.builder.
		Select("i.id", "i.user_id", "i.home_id", "i.created_at", "u.name", "h.name").
		From("notapp.invitations i").
		Join("notapp.users u ON u.id = i.user_id").
		Join("notapp.homes h ON h.id = i.home_id").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select invitation sql: %w", err)
	}

	var detail domain.InvitationDetail
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&detail.ID, &detail.UserID, &detail.HomeID, &detail.CreatedAt,
		&detail.UserName, &detail.HomeName,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan invitation: %w", err)
	}

	return &detail, nil
}

// DeleteInvitation removes a pending invitation.
func (r *HomeRepository) DeleteInvitation(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("notapp.invitations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete invitation sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HasPendingInvitation reports whether the email already has an invitation to the home.
func (r *HomeRepository) HasPendingInvitation(ctx context.Context, homeID, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("notapp.invitations i").
		Join("notapp.users u ON u.id = i.user_id").
		Where(squirrel.Eq{"i.home_id": homeID, "u.email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build pending invitation check sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check pending invitation: %w", err)
	}
	return true, nil
}
