package pgrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

type IntentRepository struct {
	conn uow.DBTX
}

func NewIntentRepository(conn uow.DBTX) *IntentRepository {
	return &IntentRepository{conn: conn}
}

func (i *IntentRepository) CreateIntent(ctx context.Context, args repoargs.CreateIntent) (*domain.PurchaseIntent, error) {
	intent := domain.PurchaseIntent{ID: args.ID, UserID: args.UserID, Amount: args.Amount}
	err := i.conn.QueryRow(ctx, `
		INSERT INTO purchase_intents (id, user_id, amount) VALUES ($1, $2, $3)
		RETURNING created_at`,
		args.ID, args.UserID, args.Amount,
	).Scan(&intent.CreatedAt)
	if err != nil {
		return nil, convertErr(err, "CreateIntent %s", args.ID)
	}
	return &intent, nil
}

// DeleteIntent удаляет намерение. false означает, что его уже удалил кто-то другой.
func (i *IntentRepository) DeleteIntent(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := i.conn.Exec(ctx, `DELETE FROM purchase_intents WHERE id = $1`, id)
	if err != nil {
		return false, convertErr(err, "DeleteIntent %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (i *IntentRepository) ListStale(ctx context.Context, before time.Time, limit uint) ([]domain.PurchaseIntent, error) {
	rows, err := i.conn.Query(ctx, `
		SELECT id, created_at, user_id, amount FROM purchase_intents
		WHERE created_at < $1
		ORDER BY created_at
		LIMIT NULLIF($2::bigint, 0)`,
		before, int64(limit),
	)
	if err != nil {
		return nil, convertErr(err, "ListStale")
	}
	intents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PurchaseIntent, error) {
		var intent domain.PurchaseIntent
		scanErr := row.Scan(&intent.ID, &intent.CreatedAt, &intent.UserID, &intent.Amount)
		return intent, scanErr //nolint:wrapcheck
	})
	if err != nil {
		return nil, convertErr(err, "ListStale")
	}
	return intents, nil
}
