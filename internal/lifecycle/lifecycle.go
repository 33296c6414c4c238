// Package lifecycle машина состояний активации: допустимые переходы и правила отмены.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
)

const (
	DefaultCancelLock = 180 * time.Second
	DefaultMaxMonitor = 1500 * time.Second
)

type Event string

const (
	EventCodeReceived      Event = "code_received"
	EventProviderCancelled Event = "provider_cancelled"
	EventProviderError     Event = "provider_error"
	EventTimeout           Event = "timeout"
	EventUserCancelled     Event = "user_cancelled"
)

var transitions = map[Event]domain.ActivationStatusType{
	EventCodeReceived:      domain.ActivationStatusOTPReceived,
	EventProviderCancelled: domain.ActivationStatusCancelled,
	EventProviderError:     domain.ActivationStatusError,
	EventTimeout:           domain.ActivationStatusExpired,
	EventUserCancelled:     domain.ActivationStatusCancelled,
}

// Apply возвращает статус после события ev. Из терминального статуса переходов нет.
func Apply(from domain.ActivationStatusType, ev Event) (domain.ActivationStatusType, error) {
	to, ok := transitions[ev]
	if !ok {
		return from, fmt.Errorf("%w: unknown event %q", domain.ErrInvalidTransition, ev)
	}
	if from != domain.ActivationStatusActive {
		return from, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return to, nil
}

// CanTransition переход from -> to разрешен.
func CanTransition(from, to domain.ActivationStatusType) bool {
	return from == domain.ActivationStatusActive && to.IsTerminal()
}

// RequiresRefund переход в статус to означает неуспешную доставку и требует возврата списания.
func RequiresRefund(to domain.ActivationStatusType) bool {
	return to.IsRefundable()
}

// Policy временные правила активации.
type Policy struct {
	CancelLock time.Duration
	MaxMonitor time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		CancelLock: DefaultCancelLock,
		MaxMonitor: DefaultMaxMonitor,
	}
}

// CancelRemaining сколько осталось до конца окна блокировки отмены. Время создания в будущем
// считается нулевым возрастом.
func (p Policy) CancelRemaining(createdAt, now time.Time) time.Duration {
	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	if remaining := p.CancelLock - age; remaining > 0 {
		return remaining
	}
	return 0
}

// Expired мониторинг активации превысил максимальную длительность.
func (p Policy) Expired(createdAt, now time.Time) bool {
	return now.Sub(createdAt) >= p.MaxMonitor
}

// CheckCancel проверяет, можно ли отменить активацию в момент now.
// Возвращает domain.ErrOTPReceived, domain.ErrActivationClosed или *domain.CancelLockedError.
func (p Policy) CheckCancel(a *domain.Activation, now time.Time) error {
	switch a.Status {
	case domain.ActivationStatusActive:
	case domain.ActivationStatusOTPReceived:
		return domain.ErrOTPReceived
	default:
		return domain.ErrActivationClosed
	}
	if remaining := p.CancelRemaining(a.CreatedAt, now); remaining > 0 {
		return domain.NewCancelLockedError(remaining)
	}
	return nil
}
