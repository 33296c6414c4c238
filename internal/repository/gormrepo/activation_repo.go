package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
)

type ActivationRepository struct {
	db *gorm.DB
}

func NewActivationRepository(db *gorm.DB) *ActivationRepository {
	return &ActivationRepository{db: db}
}

func (r *ActivationRepository) CreateActivation(
	ctx context.Context,
	args repoargs.CreateActivation,
) (*domain.Activation, error) {
	m := Activation{
		ID:                 args.ActivationID,
		UserID:             args.UserID,
		ChatID:             args.ChatID,
		ServiceCode:        args.ServiceCode,
		CountryCode:        args.CountryCode,
		ProviderID:         args.ProviderID,
		Phone:              args.Phone,
		Status:             string(domain.ActivationStatusActive),
		BasePriceMicros:    toMicros(args.BasePrice),
		ChargedPriceMicros: toMicros(args.ChargedPrice),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, convertErr(err, "CreateActivation %s", args.ActivationID)
	}
	a := m.toDomain()
	return &a, nil
}

func (r *ActivationRepository) GetActivation(ctx context.Context, activationID string) (*domain.Activation, error) {
	var m Activation
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", activationID).Error; err != nil {
		return nil, convertErr(err, "GetActivation %s", activationID)
	}
	a := m.toDomain()
	return &a, nil
}

// SetStatus переводит активацию из active в status. Возвращает false, если активация уже не active.
func (r *ActivationRepository) SetStatus(
	ctx context.Context,
	activationID string,
	status domain.ActivationStatusType,
	otpCode string,
) (bool, error) {
	updates := map[string]any{"status": string(status)}
	if otpCode != "" {
		updates["otp_code"] = otpCode
	}
	res := r.db.WithContext(ctx).Model(&Activation{}).
		Where("id = ? AND status = ?", activationID, string(domain.ActivationStatusActive)).
		Updates(updates)
	if res.Error != nil {
		return false, convertErr(res.Error, "SetStatus %s", activationID)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if _, err := r.GetActivation(ctx, activationID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *ActivationRepository) ListActive(ctx context.Context) ([]domain.Activation, error) {
	return r.list(r.db.WithContext(ctx).
		Where("status = ?", string(domain.ActivationStatusActive)).
		Order("created_at, id"), "ListActive")
}

func (r *ActivationRepository) ListPendingRefunds(ctx context.Context) ([]domain.Activation, error) {
	return r.list(r.db.WithContext(ctx).
		Where("refunded = ? AND charged_price_micros > 0 AND status IN ?", false, refundableStatuses()).
		Order("created_at, id"), "ListPendingRefunds")
}

func (r *ActivationRepository) ListByUser(ctx context.Context, userID int64, limit uint) ([]domain.Activation, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	return r.list(q, "ListByUser")
}

// RefundIfNeeded в одной транзакции помечает активацию возвращенной и зачисляет charged_price владельцу.
// Пометка выполняется условным UPDATE, зачисление только если он затронул строку.
func (r *ActivationRepository) RefundIfNeeded(ctx context.Context, activationID string) (*domain.Refund, error) {
	var refund *domain.Refund
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Activation
		if err := tx.Take(&m, "id = ?", activationID).Error; err != nil {
			return err //nolint:wrapcheck
		}
		res := tx.Model(&Activation{}).
			Where("id = ? AND refunded = ? AND charged_price_micros > 0 AND status IN ?",
				activationID, false, refundableStatuses()).
			Updates(map[string]any{
				"refunded":             true,
				"refund_amount_micros": gorm.Expr("charged_price_micros"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		credit := tx.Model(&User{}).Where("id = ?", m.UserID).
			Update("balance_micros", gorm.Expr("balance_micros + ?", m.ChargedPriceMicros))
		if credit.Error != nil {
			return credit.Error
		}
		refund = &domain.Refund{
			ActivationID: m.ID,
			UserID:       m.UserID,
			Amount:       fromMicros(m.ChargedPriceMicros),
		}
		return nil
	})
	if err != nil {
		return nil, convertErr(err, "RefundIfNeeded %s", activationID)
	}
	return refund, nil
}

func (r *ActivationRepository) list(q *gorm.DB, op string) ([]domain.Activation, error) {
	var rows []Activation
	if err := q.Find(&rows).Error; err != nil {
		return nil, convertErr(err, op)
	}
	out := make([]domain.Activation, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func refundableStatuses() []string {
	statuses := make([]string, len(domain.RefundableStatuses))
	for i, s := range domain.RefundableStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
