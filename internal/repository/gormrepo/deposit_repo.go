package gormrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
)

var openDepositStatuses = []string{
	string(domain.DepositStatusAwaitingProof),
	string(domain.DepositStatusPending),
}

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) CreateDeposit(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*domain.Deposit, error) {
	m := Deposit{
		UserID:       userID,
		AmountMicros: toMicros(amount),
		Status:       string(domain.DepositStatusAwaitingProof),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, convertErr(err, "CreateDeposit user %d", userID)
	}
	d := m.toDomain()
	return &d, nil
}

func (r *DepositRepository) GetDeposit(ctx context.Context, depositID int64) (*domain.Deposit, error) {
	var m Deposit
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", depositID).Error; err != nil {
		return nil, convertErr(err, "GetDeposit %d", depositID)
	}
	d := m.toDomain()
	return &d, nil
}

func (r *DepositRepository) LatestOpenForUser(ctx context.Context, userID int64) (*domain.Deposit, error) {
	var m Deposit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, openDepositStatuses).
		Order("id DESC").
		Take(&m).Error
	if err != nil {
		return nil, convertErr(err, "LatestOpenForUser %d", userID)
	}
	d := m.toDomain()
	return &d, nil
}

// SetProof сохраняет непустые поля подтверждения и переводит заявку в pending.
func (r *DepositRepository) SetProof(
	ctx context.Context,
	depositID int64,
	txID, proofRef string,
) (*domain.Deposit, error) {
	updates := map[string]any{"status": string(domain.DepositStatusPending)}
	if txID != "" {
		updates["tx_id"] = txID
	}
	if proofRef != "" {
		updates["proof_ref"] = proofRef
	}
	return r.updateOpen(ctx, "SetProof", depositID, updates)
}

func (r *DepositRepository) Review(ctx context.Context, args repoargs.ReviewDeposit) (*domain.Deposit, error) {
	return r.updateOpen(ctx, "Review", args.DepositID, map[string]any{
		"status":      string(args.Status),
		"reviewed_by": args.ReviewedBy,
		"reviewed_at": time.Now().UTC(),
		"note":        args.Note,
	})
}

func (r *DepositRepository) ListByStatus(
	ctx context.Context,
	status domain.DepositStatusType,
	limit uint,
) ([]domain.Deposit, error) {
	q := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("id")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	var rows []Deposit
	if err := q.Find(&rows).Error; err != nil {
		return nil, convertErr(err, "ListByStatus %s", status)
	}
	out := make([]domain.Deposit, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// updateOpen обновляет заявку, только пока она открыта. Для закрытой возвращает domain.ErrDepositClosed.
func (r *DepositRepository) updateOpen(
	ctx context.Context,
	op string,
	depositID int64,
	updates map[string]any,
) (*domain.Deposit, error) {
	res := r.db.WithContext(ctx).Model(&Deposit{}).
		Where("id = ? AND status IN ?", depositID, openDepositStatuses).
		Updates(updates)
	if res.Error != nil {
		return nil, convertErr(res.Error, "%s %d", op, depositID)
	}

	dep, err := r.GetDeposit(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("[repository/%s %d] %w", op, depositID, domain.ErrDepositClosed)
	}
	return dep, nil
}
