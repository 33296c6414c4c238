package monitor

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/lifecycle"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/service"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
)

type Client interface {
	PollStatus(ctx context.Context, activationID string) (provider.Status, error)
	SetStatus(ctx context.Context, activationID string, code provider.StatusCode)
}

type Servicer interface {
	GetActivation(ctx context.Context, activationID string) (*domain.Activation, error)
	Resolve(ctx context.Context, activationID string, ev lifecycle.Event, otpCode string) (*service.ResolveResult, error)
	SettleRefund(ctx context.Context, activationID string) (*domain.Refund, error)
	ListActive(ctx context.Context) ([]domain.Activation, error)
	ListPendingRefunds(ctx context.Context) ([]domain.Activation, error)
}

type Notifier interface {
	Emit(ctx context.Context, n notify.Notification) error
}
