package gormrepo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", userID).Error; err != nil {
		return nil, convertErr(err, "GetUser %d", userID)
	}
	return m.toDomain(), nil
}

// UpsertUser создает пользователя или обновляет непустые контактные поля существующего.
// Роль и баланс существующего пользователя не меняются.
func (r *UserRepository) UpsertUser(ctx context.Context, args repoargs.UpsertUser) (*domain.User, error) {
	role := args.Role
	if role == "" {
		role = domain.RolePending
	}
	m := User{
		ID:       args.UserID,
		ChatID:   args.ChatID,
		Username: args.Username,
		Lang:     args.Lang,
		Role:     string(role),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"chat_id":    gorm.Expr("CASE WHEN excluded.chat_id <> 0 THEN excluded.chat_id ELSE users.chat_id END"),
				"username":   gorm.Expr("COALESCE(NULLIF(excluded.username, ''), users.username)"),
				"lang":       gorm.Expr("COALESCE(NULLIF(excluded.lang, ''), users.lang)"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(&m).Error
	if err != nil {
		return nil, convertErr(err, "UpsertUser %d", args.UserID)
	}
	return r.GetUser(ctx, args.UserID)
}

// AdjustBalance меняет баланс на delta. При requireNonNegative списание, уводящее баланс в минус,
// не выполняется и возвращается domain.ErrInsufficientFunds вместе с текущим балансом.
func (r *UserRepository) AdjustBalance(
	ctx context.Context,
	userID int64,
	delta decimal.Decimal,
	requireNonNegative bool,
) (decimal.Decimal, error) {
	micros := toMicros(delta)
	q := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID)
	if requireNonNegative {
		q = q.Where("balance_micros + ? >= 0", micros)
	}
	res := q.Update("balance_micros", gorm.Expr("balance_micros + ?", micros))
	if res.Error != nil {
		return decimal.Zero, convertErr(res.Error, "AdjustBalance %d", userID)
	}

	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if res.RowsAffected == 0 {
		return user.Balance, domain.ErrInsufficientFunds
	}
	return user.Balance, nil
}

func (r *UserRepository) SetRole(ctx context.Context, userID int64, role domain.RoleType) error {
	return r.update(ctx, "SetRole", userID, "role", string(role))
}

func (r *UserRepository) SetCurrentActivation(ctx context.Context, userID int64, activationID string) error {
	return r.update(ctx, "SetCurrentActivation", userID, "current_activation_id", activationID)
}

// ClearCurrentActivation сбрасывает текущую активацию, только если она равна activationID.
func (r *UserRepository) ClearCurrentActivation(ctx context.Context, userID int64, activationID string) error {
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND current_activation_id = ?", userID, activationID).
		Update("current_activation_id", "").Error
	return convertErr(err, "ClearCurrentActivation %d", userID)
}

func (r *UserRepository) update(ctx context.Context, op string, userID int64, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return convertErr(res.Error, "%s %d", op, userID)
	}
	if res.RowsAffected == 0 {
		return convertErr(gorm.ErrRecordNotFound, "%s %d", op, userID)
	}
	return nil
}
