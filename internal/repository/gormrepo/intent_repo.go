package gormrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
)

type IntentRepository struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

func (r *IntentRepository) CreateIntent(ctx context.Context, args repoargs.CreateIntent) (*domain.PurchaseIntent, error) {
	m := PurchaseIntent{
		ID:           args.ID.String(),
		UserID:       args.UserID,
		AmountMicros: toMicros(args.Amount),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, convertErr(err, "CreateIntent %s", args.ID)
	}
	return &domain.PurchaseIntent{
		ID:        args.ID,
		CreatedAt: m.CreatedAt,
		UserID:    args.UserID,
		Amount:    args.Amount,
	}, nil
}

// DeleteIntent удаляет намерение. false означает, что его уже удалил кто-то другой.
func (r *IntentRepository) DeleteIntent(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&PurchaseIntent{})
	if res.Error != nil {
		return false, convertErr(res.Error, "DeleteIntent %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (r *IntentRepository) ListStale(ctx context.Context, before time.Time, limit uint) ([]domain.PurchaseIntent, error) {
	q := r.db.WithContext(ctx).Where("created_at < ?", before.UTC()).Order("created_at")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	var rows []PurchaseIntent
	if err := q.Find(&rows).Error; err != nil {
		return nil, convertErr(err, "ListStale")
	}
	out := make([]domain.PurchaseIntent, 0, len(rows))
	for _, row := range rows {
		intent, err := row.toDomain()
		if err != nil {
			return nil, convertErr(err, "ListStale %s", row.ID)
		}
		out = append(out, intent)
	}
	return out, nil
}
