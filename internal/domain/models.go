package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ChatID              int64
	Username            string
	Lang                string
	Role                RoleType
	Balance             decimal.Decimal
	CurrentActivationID string
}

type Activation struct {
	ID           string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       int64
	ChatID       int64
	ServiceCode  string
	CountryCode  string
	ProviderID   string
	Phone        string
	Status       ActivationStatusType
	OTPCode      string
	BasePrice    decimal.Decimal
	ChargedPrice decimal.Decimal
	Refunded     bool
	RefundAmount decimal.Decimal
}

// NeedsRefund активация в терминальном статусе неуспешной доставки, списание по ней еще не возвращено.
func (a *Activation) NeedsRefund() bool {
	return a.Status.IsRefundable() && !a.Refunded && a.ChargedPrice.IsPositive()
}

type Deposit struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     int64
	Amount     decimal.Decimal
	TxID       string
	ProofRef   string
	Status     DepositStatusType
	ReviewedBy int64
	ReviewedAt *time.Time
	Note       string
}

// PurchaseIntent фиксирует списание, для которого еще нет ни активации, ни возврата средств.
type PurchaseIntent struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    int64
	Amount    decimal.Decimal
}

// Refund результат успешного возврата средств по активации.
type Refund struct {
	ActivationID string
	UserID       int64
	Amount       decimal.Decimal
}
