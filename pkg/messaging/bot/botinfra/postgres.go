package botinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
)

// PostgresBotRepository implements bot.Repository on PostgreSQL.
type PostgresBotRepository struct {
	db *sqlx.DB
}

func NewPostgresBotRepository(db *sqlx.DB) bot.Repository {
	return &PostgresBotRepository{db: db}
}

func (r *PostgresBotRepository) Save(ctx context.Context, b *bot.Bot) error {
	query := `
		INSERT INTO bots (id, user_id, name, provider, model, system_prompt, temperature, enabled, created_at, updated_at)
		VALUES (:id, :user_id, :name, :provider, :model, :system_prompt, :temperature, :enabled, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			provider = EXCLUDED.provider,
			model = EXCLUDED.model,
			system_prompt = EXCLUDED.system_prompt,
			temperature = EXCLUDED.temperature,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return errx.Wrap(err, "failed to save bot", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresBotRepository) FindByID(ctx context.Context, id kernel.BotID) (*bot.Bot, error) {
	var b bot.Bot
	query := `SELECT * FROM bots WHERE id = $1`
	err := r.db.GetContext(ctx, &b, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, bot.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find bot", errx.TypeInternal)
	}
	return &b, nil
}

func (r *PostgresBotRepository) FindByUser(ctx context.Context, userID kernel.UserID) ([]*bot.Bot, error) {
	var bots []*bot.Bot
	query := `SELECT * FROM bots WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &bots, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list bots", errx.TypeInternal)
	}
	return bots, nil
}

func (r *PostgresBotRepository) Delete(ctx context.Context, id kernel.BotID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bots WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete bot", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return bot.ErrNotFound()
	}
	return nil
}
