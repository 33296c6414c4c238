package gormrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
)

// microsExp деньги хранятся целым числом миллионных долей.
const microsExp = 6

func toMicros(d decimal.Decimal) int64 {
	return d.Shift(microsExp).Round(0).IntPart()
}

func fromMicros(v int64) decimal.Decimal {
	return decimal.New(v, -microsExp)
}

type User struct {
	ID                  int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ChatID              int64  `gorm:"not null"`
	Username            string `gorm:"not null"`
	Lang                string `gorm:"not null"`
	Role                string `gorm:"not null"`
	BalanceMicros       int64  `gorm:"not null"`
	CurrentActivationID string `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (u User) toDomain() *domain.User {
	return &domain.User{
		ID:                  u.ID,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		ChatID:              u.ChatID,
		Username:            u.Username,
		Lang:                u.Lang,
		Role:                domain.ParseRole(u.Role),
		Balance:             fromMicros(u.BalanceMicros),
		CurrentActivationID: u.CurrentActivationID,
	}
}

type Activation struct {
	ID                 string    `gorm:"primaryKey"`
	CreatedAt          time.Time `gorm:"index:idx_activations_user_created,priority:2"`
	UpdatedAt          time.Time
	UserID             int64  `gorm:"not null;index:idx_activations_user_created,priority:1"`
	ChatID             int64  `gorm:"not null"`
	ServiceCode        string `gorm:"not null"`
	CountryCode        string `gorm:"not null"`
	ProviderID         string `gorm:"not null"`
	Phone              string `gorm:"not null"`
	Status             string `gorm:"not null;index"`
	OTPCode            string `gorm:"column:otp_code;not null"`
	BasePriceMicros    int64  `gorm:"not null"`
	ChargedPriceMicros int64  `gorm:"not null"`
	Refunded           bool   `gorm:"not null"`
	RefundAmountMicros int64  `gorm:"not null"`
}

func (Activation) TableName() string { return "activations" }

func (a Activation) toDomain() domain.Activation {
	return domain.Activation{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		UserID:       a.UserID,
		ChatID:       a.ChatID,
		ServiceCode:  a.ServiceCode,
		CountryCode:  a.CountryCode,
		ProviderID:   a.ProviderID,
		Phone:        a.Phone,
		Status:       domain.ActivationStatusType(a.Status),
		OTPCode:      a.OTPCode,
		BasePrice:    fromMicros(a.BasePriceMicros),
		ChargedPrice: fromMicros(a.ChargedPriceMicros),
		Refunded:     a.Refunded,
		RefundAmount: fromMicros(a.RefundAmountMicros),
	}
}

type Deposit struct {
	ID           int64 `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       int64  `gorm:"not null;index"`
	AmountMicros int64  `gorm:"not null"`
	TxID         string `gorm:"not null"`
	ProofRef     string `gorm:"not null"`
	Status       string `gorm:"not null;index"`
	ReviewedBy   int64  `gorm:"not null"`
	ReviewedAt   *time.Time
	Note         string `gorm:"not null"`
}

func (Deposit) TableName() string { return "deposits" }

func (d Deposit) toDomain() domain.Deposit {
	return domain.Deposit{
		ID:         d.ID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		UserID:     d.UserID,
		Amount:     fromMicros(d.AmountMicros),
		TxID:       d.TxID,
		ProofRef:   d.ProofRef,
		Status:     domain.DepositStatusType(d.Status),
		ReviewedBy: d.ReviewedBy,
		ReviewedAt: d.ReviewedAt,
		Note:       d.Note,
	}
}

type PurchaseIntent struct {
	ID           string    `gorm:"primaryKey"`
	CreatedAt    time.Time `gorm:"index"`
	UserID       int64     `gorm:"not null"`
	AmountMicros int64     `gorm:"not null"`
}

func (PurchaseIntent) TableName() string { return "purchase_intents" }

func (p PurchaseIntent) toDomain() (domain.PurchaseIntent, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.PurchaseIntent{}, err //nolint:wrapcheck
	}
	return domain.PurchaseIntent{
		ID:        id,
		CreatedAt: p.CreatedAt,
		UserID:    p.UserID,
		Amount:    fromMicros(p.AmountMicros),
	}, nil
}

type Setting struct {
	Key       string `gorm:"column:setting_key;primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (Setting) TableName() string { return "settings" }
