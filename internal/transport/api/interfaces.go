package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/pricing"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/service"
)

type LedgerServicer interface {
	EnsureUser(ctx context.Context, args repoargs.UpsertUser) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	SetRole(ctx context.Context, userID int64, role domain.RoleType) error
	CreateDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Deposit, error)
	AttachProof(ctx context.Context, userID, depositID int64, txID, proofRef string) (*domain.Deposit, error)
	ReviewDeposit(ctx context.Context, reviewerID, depositID int64, approve bool, note string) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, status domain.DepositStatusType, limit uint) ([]domain.Deposit, error)
}

type ActivationServicer interface {
	GetUserActivation(ctx context.Context, userID int64, activationID string) (*domain.Activation, error)
	ListByUser(ctx context.Context, userID int64, limit uint) ([]domain.Activation, error)
	Cancel(ctx context.Context, userID int64, activationID string) (*service.ResolveResult, error)
}

type CatalogServicer interface {
	Services(ctx context.Context) ([]pricing.Service, error)
	SearchServices(ctx context.Context, query string) ([]pricing.Service, error)
	Prices(ctx context.Context, role domain.RoleType, serviceCode string) ([]pricing.Option, error)
	Quote(
		ctx context.Context,
		role domain.RoleType,
		serviceCode, countryCode, providerID string,
	) (*pricing.Option, error)
	SetProfitPercent(ctx context.Context, pct decimal.Decimal) (decimal.Decimal, error)
	ProviderBalance(ctx context.Context) (decimal.Decimal, error)
}

type PurchaseServicer interface {
	Purchase(ctx context.Context, args service.PurchaseArgs) (*domain.Activation, error)
}
