package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/lifecycle"
	"github.com/fsdevblog/smsbroker/internal/metrics"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/sirupsen/logrus"
)

const (
	defaultRefundAttempts = 5
	defaultRefundBackoff  = 200 * time.Millisecond
	// cancelTimeout отмена включает обращение к провайдеру и повторы возврата.
	cancelTimeout = 30 * time.Second
)

type ActivationService struct {
	activationRepo ActivationRepository
	userRepo       UserRepository
	provider       ProviderClient
	notifier       Notifier
	monitors       Monitors
	policy         lifecycle.Policy
	now            func() time.Time
	refundAttempts int
	refundBackoff  time.Duration
	l              *logrus.Entry
}

func NewActivationService(
	u uow.UOW,
	client ProviderClient,
	notifier Notifier,
	l *logrus.Logger,
) (*ActivationService, error) {
	activationRepo, err := uow.GetRepositoryAs[ActivationRepository](u, uow.RepositoryName(repoargs.ActivationRepoName))
	if err != nil {
		return nil, err
	}
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	return &ActivationService{
		activationRepo: activationRepo,
		userRepo:       userRepo,
		provider:       client,
		notifier:       notifier,
		policy:         lifecycle.DefaultPolicy(),
		now:            time.Now,
		refundAttempts: defaultRefundAttempts,
		refundBackoff:  defaultRefundBackoff,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "activation",
		}),
	}, nil
}

// SetPolicy устанавливает окно блокировки отмены и максимальную длительность мониторинга.
func (s *ActivationService) SetPolicy(p lifecycle.Policy) *ActivationService {
	s.policy = p
	return s
}

// SetClock подменяет источник текущего времени.
func (s *ActivationService) SetClock(now func() time.Time) *ActivationService {
	s.now = now
	return s
}

// SetMonitors устанавливает реестр мониторов. Реестр создается после сервисов, поэтому задается отдельно.
func (s *ActivationService) SetMonitors(m Monitors) *ActivationService {
	s.monitors = m
	return s
}

// SetRefundRetry устанавливает кол-во попыток возврата при недоступном хранилище и базовую паузу между ними.
func (s *ActivationService) SetRefundRetry(attempts int, backoff time.Duration) *ActivationService {
	s.refundAttempts = attempts
	s.refundBackoff = backoff
	return s
}

func (s *ActivationService) Policy() lifecycle.Policy {
	return s.policy
}

func (s *ActivationService) Now() time.Time {
	return s.now()
}

func (s *ActivationService) GetActivation(ctx context.Context, activationID string) (*domain.Activation, error) {
	act, err := s.activationRepo.GetActivation(ctx, activationID)
	if err != nil {
		return nil, fmt.Errorf("get activation: %w", err)
	}
	return act, nil
}

// GetUserActivation возвращает активацию пользователя userID. Чужая активация дает domain.ErrOwnerConflict.
func (s *ActivationService) GetUserActivation(
	ctx context.Context,
	userID int64,
	activationID string,
) (*domain.Activation, error) {
	act, err := s.GetActivation(ctx, activationID)
	if err != nil {
		return nil, err
	}
	if act.UserID != userID {
		return nil, domain.ErrOwnerConflict
	}
	return act, nil
}

func (s *ActivationService) ListActive(ctx context.Context) ([]domain.Activation, error) {
	acts, err := s.activationRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active activations: %w", err)
	}
	return acts, nil
}

func (s *ActivationService) ListPendingRefunds(ctx context.Context) ([]domain.Activation, error) {
	acts, err := s.activationRepo.ListPendingRefunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending refunds: %w", err)
	}
	return acts, nil
}

func (s *ActivationService) ListByUser(ctx context.Context, userID int64, limit uint) ([]domain.Activation, error) {
	acts, err := s.activationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user activations: %w", err)
	}
	return acts, nil
}

type ResolveResult struct {
	Activation *domain.Activation
	// Changed статус выставлен этим вызовом.
	Changed bool
	Refund  *domain.Refund
}

// Resolve применяет событие ev к активации и, если итоговый статус означает неуспешную доставку,
// выполняет возврат средств.
//
// Алгоритм работы:
//  1. Вычисляет целевой статус через машину состояний. Если активация уже не active, статус не меняется.
//  2. Условно записывает статус. Если параллельно статус выставил кто-то другой, Changed будет false.
//     Записавший статус вызов сбрасывает текущую активацию пользователя.
//  3. Если статус записан этим вызовом и по активации нужен возврат, вызывает RefundIfNeeded.
//     Незавершенный возврат по уже закрытой активации добирает SettleRefund.
func (s *ActivationService) Resolve(
	ctx context.Context,
	activationID string,
	ev lifecycle.Event,
	otpCode string,
) (*ResolveResult, error) {
	act, err := s.GetActivation(ctx, activationID)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{Activation: act}
	if to, applyErr := lifecycle.Apply(act.Status, ev); applyErr == nil {
		changed, setErr := s.activationRepo.SetStatus(ctx, activationID, to, otpCode)
		if setErr != nil {
			return nil, fmt.Errorf("resolve activation %s: %w", activationID, setErr)
		}
		result.Changed = changed
		if changed {
			metrics.RecordResolved(string(to))
			s.l.WithFields(logrus.Fields{
				"activationID": activationID,
				"status":       to,
				"event":        ev,
			}).Info("activation resolved")
			if clearErr := s.userRepo.ClearCurrentActivation(ctx, act.UserID, activationID); clearErr != nil {
				s.l.WithError(clearErr).WithField("activationID", activationID).Warn("clear current activation")
			}
		}

		fresh, getErr := s.GetActivation(ctx, activationID)
		switch {
		case getErr == nil:
			act = fresh
		case changed:
			// статус уже записан этим вызовом, поэтому Changed терять нельзя.
			s.l.WithError(getErr).WithField("activationID", activationID).Warn("re-read resolved activation")
			patched := *act
			patched.Status = to
			if otpCode != "" {
				patched.OTPCode = otpCode
			}
			act = &patched
		default:
			return nil, getErr
		}
		result.Activation = act
	}

	if result.Changed && act.NeedsRefund() {
		refund, refundErr := s.SettleRefund(ctx, activationID)
		if refundErr != nil {
			return result, refundErr
		}
		result.Refund = refund
	}
	return result, nil
}

// SettleRefund вызывает RefundIfNeeded, повторяя попытку при недоступном хранилище.
func (s *ActivationService) SettleRefund(ctx context.Context, activationID string) (*domain.Refund, error) {
	var lastErr error
	for attempt := range s.refundAttempts {
		refund, err := s.activationRepo.RefundIfNeeded(ctx, activationID)
		if err == nil {
			if refund != nil {
				metrics.RecordRefund(refund.Amount)
				s.l.WithFields(logrus.Fields{
					"activationID": activationID,
					"userID":       refund.UserID,
					"amount":       refund.Amount,
				}).Info("refund credited")
			}
			return refund, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			break
		}

		wait := backoff(s.refundBackoff, attempt)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("refund activation %s: %w", activationID, errors.Join(lastErr, ctx.Err()))
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("refund activation %s: %w", activationID, lastErr)
}

// Cancel отменяет активацию по запросу владельца.
//
// Алгоритм работы:
//  1. Проверяет владельца и правила отмены (окно блокировки, полученный код).
//  2. Сообщает провайдеру об отмене и останавливает монитор активации.
//  3. Выставляет статус cancelled, возвращает средства и отправляет уведомление.
//
// После остановки монитора работа не зависит от отмены ctx. При любой ошибке монитор запускается
// снова: он продолжит опрос активной активации или доберет возврат по закрытой.
func (s *ActivationService) Cancel(ctx context.Context, userID int64, activationID string) (*ResolveResult, error) {
	act, err := s.GetUserActivation(ctx, userID, activationID)
	if err != nil {
		return nil, err
	}
	if checkErr := s.policy.CheckCancel(act, s.now()); checkErr != nil {
		return nil, checkErr
	}

	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer cancel()

	s.provider.SetStatus(workCtx, activationID, provider.StatusCodeCancel)
	if s.monitors != nil {
		s.monitors.Stop(activationID)
	}

	result, err := s.Resolve(workCtx, activationID, lifecycle.EventUserCancelled, "")
	if err != nil {
		if s.monitors != nil {
			s.monitors.Start(activationID)
		}
		return nil, err
	}
	if !result.Changed {
		if result.Activation.Status == domain.ActivationStatusOTPReceived {
			return nil, domain.ErrOTPReceived
		}
		return nil, domain.ErrActivationClosed
	}

	params := notify.Params{notify.ParamActivationID: activationID}
	if result.Refund != nil {
		params[notify.ParamAmount] = result.Refund.Amount.String()
	}
	s.emit(workCtx, result.Activation, notify.KeyCancelled, params)
	return result, nil
}

func (s *ActivationService) emit(ctx context.Context, act *domain.Activation, key string, params notify.Params) {
	n := notify.Notification{
		UserID:    act.UserID,
		ChatID:    act.ChatID,
		Key:       key,
		Params:    params,
		CreatedAt: s.now(),
	}
	if err := s.notifier.Emit(ctx, n); err != nil {
		s.l.WithError(err).WithField("key", key).Warn("emit notification")
	}
}
