package repoargs

import (
	"github.com/shopspring/decimal"
)

type CreateActivation struct {
	ActivationID string
	UserID       int64
	ChatID       int64
	ServiceCode  string
	CountryCode  string
	ProviderID   string
	Phone        string
	BasePrice    decimal.Decimal
	ChargedPrice decimal.Decimal
}
