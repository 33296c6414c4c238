package repoargs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateIntent struct {
	ID     uuid.UUID
	UserID int64
	Amount decimal.Decimal
}
