package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/pricing"
)

type userResponse struct {
	ID                  int64           `json:"id"`
	Role                domain.RoleType `json:"role"`
	Balance             decimal.Decimal `json:"balance"`
	CurrentActivationID string          `json:"current_activation_id,omitempty"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                  u.ID,
		Role:                u.Role,
		Balance:             u.Balance,
		CurrentActivationID: u.CurrentActivationID,
	}
}

type serviceResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type optionResponse struct {
	Country      string          `json:"country"`
	CountryName  string          `json:"country_name"`
	ProviderID   string          `json:"provider"`
	ProviderName string          `json:"provider_name,omitempty"`
	Priced       bool            `json:"priced"`
	Price        decimal.Decimal `json:"price"`
	Label        string          `json:"label"`
}

func newOptionResponse(o pricing.Option) optionResponse {
	return optionResponse{
		Country:      o.CountryCode,
		CountryName:  o.CountryName,
		ProviderID:   o.ProviderID,
		ProviderName: o.ProviderName,
		Priced:       o.Priced,
		Price:        o.Price,
		Label:        o.Label(),
	}
}

type activationResponse struct {
	ID        string                      `json:"id"`
	Service   string                      `json:"service"`
	Country   string                      `json:"country"`
	Provider  string                      `json:"provider"`
	Phone     string                      `json:"phone"`
	Status    domain.ActivationStatusType `json:"status"`
	OTPCode   string                      `json:"otp_code,omitempty"`
	Charged   decimal.Decimal             `json:"charged"`
	Refunded  bool                        `json:"refunded"`
	CreatedAt time.Time                   `json:"created_at"`
}

func newActivationResponse(a *domain.Activation) activationResponse {
	return activationResponse{
		ID:        a.ID,
		Service:   a.ServiceCode,
		Country:   a.CountryCode,
		Provider:  a.ProviderID,
		Phone:     a.Phone,
		Status:    a.Status,
		OTPCode:   a.OTPCode,
		Charged:   a.ChargedPrice,
		Refunded:  a.Refunded,
		CreatedAt: a.CreatedAt,
	}
}

type depositResponse struct {
	ID        int64                    `json:"id"`
	UserID    int64                    `json:"user_id"`
	Amount    decimal.Decimal          `json:"amount"`
	Status    domain.DepositStatusType `json:"status"`
	TxID      string                   `json:"txid,omitempty"`
	ProofRef  string                   `json:"proof,omitempty"`
	Note      string                   `json:"note,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

func newDepositResponse(d *domain.Deposit) depositResponse {
	return depositResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		Amount:    d.Amount,
		Status:    d.Status,
		TxID:      d.TxID,
		ProofRef:  d.ProofRef,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
	}
}
