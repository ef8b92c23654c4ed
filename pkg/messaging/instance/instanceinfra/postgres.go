package instanceinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance"
)

// PostgresInstanceRepository implements instance.Repository on PostgreSQL.
type PostgresInstanceRepository struct {
	db *sqlx.DB
}

func NewPostgresInstanceRepository(db *sqlx.DB) instance.Repository {
	return &PostgresInstanceRepository{db: db}
}

func (r *PostgresInstanceRepository) Save(ctx context.Context, i *instance.Instance) error {
	query := `
		INSERT INTO instances (id, user_id, tenant_id, name, phone, status, webhook_url, created_at, updated_at)
		VALUES (:id, :user_id, :tenant_id, :name, :phone, :status, :webhook_url, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			status = EXCLUDED.status,
			webhook_url = EXCLUDED.webhook_url,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, i); err != nil {
		return errx.Wrap(err, "failed to save instance", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresInstanceRepository) FindByID(ctx context.Context, id kernel.InstanceID) (*instance.Instance, error) {
	var inst instance.Instance
	query := `SELECT * FROM instances WHERE id = $1`
	err := r.db.GetContext(ctx, &inst, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, instance.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find instance", errx.TypeInternal)
	}
	return &inst, nil
}

func (r *PostgresInstanceRepository) FindByUser(ctx context.Context, userID kernel.UserID) ([]*instance.Instance, error) {
	var instances []*instance.Instance
	query := `SELECT * FROM instances WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &instances, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list instances", errx.TypeInternal)
	}
	return instances, nil
}

func (r *PostgresInstanceRepository) Delete(ctx context.Context, id kernel.InstanceID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM instances WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete instance", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return instance.ErrNotFound()
	}
	return nil
}
