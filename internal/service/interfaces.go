package service

import (
	"context"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	UpsertUser(ctx context.Context, args repoargs.UpsertUser) (*domain.User, error)
	// AdjustBalance атомарно изменяет баланс на delta. При requireNonNegative и недостатке средств
	// возвращает domain.ErrInsufficientFunds, баланс не меняется.
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal, requireNonNegative bool) (decimal.Decimal, error)
	SetRole(ctx context.Context, userID int64, role domain.RoleType) error
	SetCurrentActivation(ctx context.Context, userID int64, activationID string) error
	// ClearCurrentActivation сбрасывает указатель, только если он указывает на activationID.
	ClearCurrentActivation(ctx context.Context, userID int64, activationID string) error
}

type ActivationRepository interface {
	CreateActivation(ctx context.Context, args repoargs.CreateActivation) (*domain.Activation, error)
	GetActivation(ctx context.Context, activationID string) (*domain.Activation, error)
	// SetStatus переводит активную активацию в status. Возвращает false, если активация уже не active.
	SetStatus(ctx context.Context, activationID string, status domain.ActivationStatusType, otpCode string) (bool, error)
	ListActive(ctx context.Context) ([]domain.Activation, error)
	ListPendingRefunds(ctx context.Context) ([]domain.Activation, error)
	ListByUser(ctx context.Context, userID int64, limit uint) ([]domain.Activation, error)
	// RefundIfNeeded одним условным обновлением помечает активацию возвращенной и зачисляет charged_price
	// на баланс владельца. Возвращает nil, если возвращать нечего.
	RefundIfNeeded(ctx context.Context, activationID string) (*domain.Refund, error)
}

type DepositRepository interface {
	CreateDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Deposit, error)
	GetDeposit(ctx context.Context, depositID int64) (*domain.Deposit, error)
	LatestOpenForUser(ctx context.Context, userID int64) (*domain.Deposit, error)
	// SetProof прикладывает подтверждение к открытому депозиту и переводит его в pending.
	SetProof(ctx context.Context, depositID int64, txID, proofRef string) (*domain.Deposit, error)
	// Review закрывает открытый депозит. Для закрытого возвращает domain.ErrDepositClosed.
	Review(ctx context.Context, args repoargs.ReviewDeposit) (*domain.Deposit, error)
	ListByStatus(ctx context.Context, status domain.DepositStatusType, limit uint) ([]domain.Deposit, error)
}

type IntentRepository interface {
	CreateIntent(ctx context.Context, args repoargs.CreateIntent) (*domain.PurchaseIntent, error)
	// DeleteIntent возвращает false, если намерение уже удалено.
	DeleteIntent(ctx context.Context, id uuid.UUID) (bool, error)
	ListStale(ctx context.Context, before time.Time, limit uint) ([]domain.PurchaseIntent, error)
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type ProviderClient interface {
	Purchase(ctx context.Context, args provider.PurchaseArgs) (*provider.Number, error)
	SetStatus(ctx context.Context, activationID string, code provider.StatusCode)
	Balance(ctx context.Context) (decimal.Decimal, error)
	Services(ctx context.Context) (any, error)
	Countries(ctx context.Context) (any, error)
	Prices(ctx context.Context, service string) (any, error)
}

// Monitors реестр мониторов активаций.
type Monitors interface {
	Start(activationID string)
	Stop(activationID string) bool
}

type Notifier interface {
	Emit(ctx context.Context, n notify.Notification) error
}
