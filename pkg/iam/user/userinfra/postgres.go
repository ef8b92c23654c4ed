package userinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// PostgresUserRepository implements user.Repository on PostgreSQL. The
// users table carries a unique index on lower(email), so duplicate
// registrations are rejected by the database itself.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) user.Repository {
	return &PostgresUserRepository{db: db}
}

type userRow struct {
	ID           string         `db:"id"`
	TenantID     sql.NullString `db:"tenant_id"`
	Email        string         `db:"email"`
	Name         string         `db:"name"`
	PasswordHash string         `db:"password_hash"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toDomain() *user.User {
	return &user.User{
		ID:        kernel.NewUserID(r.ID),
		TenantID:  kernel.NewTenantID(r.TenantID.String),
		Email:     r.Email,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userRow
	query := `SELECT * FROM users WHERE lower(email) = $1`
	err := r.db.GetContext(ctx, &row, query, user.NormalizeEmail(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var row userRow
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by id", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, n user.NewUser) (*user.User, error) {
	now := time.Now().UTC()
	row := userRow{
		ID:           uuid.NewString(),
		TenantID:     sql.NullString{String: n.TenantID.String(), Valid: !n.TenantID.IsEmpty()},
		Email:        user.NormalizeEmail(n.Email),
		Name:         n.Name,
		PasswordHash: n.PasswordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (id, tenant_id, email, name, password_hash, is_active, created_at, updated_at)
		VALUES (:id, :tenant_id, :email, :name, :password_hash, :is_active, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return nil, user.ErrEmailTaken()
		}
		return nil, errx.Wrap(err, "failed to create user", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING *`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, u.ID.String(), u.Name, u.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to update user", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (r *PostgresUserRepository) GetPasswordHash(ctx context.Context, id kernel.UserID) (string, error) {
	var hash string
	query := `SELECT password_hash FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &hash, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return "", user.ErrNotFound()
		}
		return "", errx.Wrap(err, "failed to get password hash", errx.TypeInternal)
	}
	return hash, nil
}
