package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/metrics"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/pricing"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	compensationTimeout = 10 * time.Second
	reconcileBatch      = 100
)

var errIntentReconciled = errors.New("purchase intent already reconciled")

type PurchaseArgs struct {
	UserID int64
	ChatID int64
	Role   domain.RoleType
	Option pricing.Option
}

// PurchaseService покупка номера: списание, запрос номера у провайдера, сохранение активации и запуск
// мониторинга. Каждое списание до сохранения активации закреплено намерением покупки.
type PurchaseService struct {
	uow        uow.UOW
	intentRepo IntentRepository
	provider   ProviderClient
	notifier   Notifier
	monitors   Monitors
	now        func() time.Time
	l          *logrus.Entry
}

func NewPurchaseService(u uow.UOW, client ProviderClient, notifier Notifier, l *logrus.Logger) (*PurchaseService, error) {
	intentRepo, err := uow.GetRepositoryAs[IntentRepository](u, uow.RepositoryName(repoargs.IntentRepoName))
	if err != nil {
		return nil, err
	}
	return &PurchaseService{
		uow:        u,
		intentRepo: intentRepo,
		provider:   client,
		notifier:   notifier,
		now:        time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "purchase",
		}),
	}, nil
}

func (s *PurchaseService) SetMonitors(m Monitors) *PurchaseService {
	s.monitors = m
	return s
}

func (s *PurchaseService) SetClock(now func() time.Time) *PurchaseService {
	s.now = now
	return s
}

// Purchase покупает номер по варианту args.Option.
//
// Алгоритм работы:
//  1. Проверяет роль. Для ролей с балансом в одной транзакции списывает цену и создает намерение покупки.
//  2. Запрашивает номер у провайдера. При ошибке возвращает списание и удаляет намерение.
//  3. В одной транзакции удаляет намерение, создает активацию и делает ее текущей для пользователя.
//     Если намерение уже обработано сверкой, номер отменяется у провайдера.
//  4. Запускает монитор и отправляет уведомление о выданном номере.
//
// После списания операция не зависит от отмены ctx: списание обязано закончиться активацией или возвратом.
func (s *PurchaseService) Purchase(ctx context.Context, args PurchaseArgs) (*domain.Activation, error) {
	if !args.Role.IsApproved() {
		metrics.RecordPurchase("rejected")
		return nil, domain.ErrRoleNotApproved
	}
	opt := args.Option
	if !opt.Priced {
		metrics.RecordPurchase("rejected")
		return nil, domain.NewPurchaseFailedError("price unavailable", domain.ErrInvalidArguments)
	}

	charge := decimal.Zero
	if args.Role.IsFunded() {
		charge = opt.Price
	}

	var intentID uuid.UUID
	if charge.IsPositive() {
		intentID = uuid.New()
		if err := s.debit(ctx, args.UserID, intentID, charge); err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				metrics.RecordPurchase("insufficient_funds")
			} else {
				metrics.RecordPurchase("error")
			}
			return nil, fmt.Errorf("purchase debit: %w", err)
		}
	}

	opCtx := context.WithoutCancel(ctx)
	number, err := s.provider.Purchase(opCtx, provider.PurchaseArgs{
		Service:    opt.ServiceCode,
		Country:    opt.CountryCode,
		ProviderID: opt.ProviderID,
		MaxPrice:   opt.BasePrice,
	})
	if err != nil {
		s.compensate(opCtx, args.UserID, intentID, charge)
		metrics.RecordPurchase("provider_failed")
		return nil, domain.NewPurchaseFailedError(purchaseFailureReason(err), err)
	}

	act, err := s.persist(opCtx, args, number, charge, intentID)
	if err != nil {
		s.provider.SetStatus(opCtx, number.ActivationID, provider.StatusCodeCancel)
		if !errors.Is(err, errIntentReconciled) {
			s.compensate(opCtx, args.UserID, intentID, charge)
		}
		metrics.RecordPurchase("error")
		return nil, domain.NewPurchaseFailedError("activation not saved", err)
	}

	metrics.RecordPurchase("ok")
	s.l.WithFields(logrus.Fields{
		"activationID": act.ID,
		"userID":       act.UserID,
		"service":      act.ServiceCode,
		"country":      act.CountryCode,
		"charged":      act.ChargedPrice.String(),
	}).Info("number purchased")

	if s.monitors != nil {
		s.monitors.Start(act.ID)
	}

	n := notify.Notification{
		UserID: act.UserID,
		ChatID: act.ChatID,
		Key:    notify.KeyNumberIssued,
		Params: notify.Params{
			notify.ParamActivationID: act.ID,
			notify.ParamPhone:        act.Phone,
			notify.ParamAmount:       act.ChargedPrice.String(),
			notify.ParamCountry:      opt.CountryName,
			notify.ParamProvider:     opt.ProviderName,
		},
		CreatedAt: s.now(),
	}
	if emitErr := s.notifier.Emit(opCtx, n); emitErr != nil {
		s.l.WithError(emitErr).Warn("emit number issued")
	}
	return act, nil
}

func (s *PurchaseService) debit(ctx context.Context, userID int64, intentID uuid.UUID, amount decimal.Decimal) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error { //nolint:wrapcheck
		userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err
		}
		intentRepo, err := uow.GetAs[IntentRepository](tx, uow.RepositoryName(repoargs.IntentRepoName))
		if err != nil {
			return err
		}
		if _, err = userRepo.AdjustBalance(ctx, userID, amount.Neg(), true); err != nil {
			return err
		}
		_, err = intentRepo.CreateIntent(ctx, repoargs.CreateIntent{ID: intentID, UserID: userID, Amount: amount})
		return err
	})
}

func (s *PurchaseService) persist(
	ctx context.Context,
	args PurchaseArgs,
	number *provider.Number,
	charge decimal.Decimal,
	intentID uuid.UUID,
) (*domain.Activation, error) {
	var act *domain.Activation
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		activationRepo, err := uow.GetAs[ActivationRepository](tx, uow.RepositoryName(repoargs.ActivationRepoName))
		if err != nil {
			return err
		}
		userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err
		}

		if intentID != uuid.Nil {
			intentRepo, repoErr := uow.GetAs[IntentRepository](tx, uow.RepositoryName(repoargs.IntentRepoName))
			if repoErr != nil {
				return repoErr
			}
			deleted, delErr := intentRepo.DeleteIntent(ctx, intentID)
			if delErr != nil {
				return delErr
			}
			if !deleted {
				return errIntentReconciled
			}
		}

		act, err = activationRepo.CreateActivation(ctx, repoargs.CreateActivation{
			ActivationID: number.ActivationID,
			UserID:       args.UserID,
			ChatID:       args.ChatID,
			ServiceCode:  args.Option.ServiceCode,
			CountryCode:  args.Option.CountryCode,
			ProviderID:   args.Option.ProviderID,
			Phone:        number.Phone,
			BasePrice:    args.Option.BasePrice,
			ChargedPrice: charge,
		})
		if err != nil {
			return err
		}
		return userRepo.SetCurrentActivation(ctx, args.UserID, act.ID)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return act, nil
}

// compensate возвращает списание по намерению intentID. Если намерение уже обработано сверкой,
// ничего не делает. Ошибка только логируется: намерение остается, и его вернет сверка.
func (s *PurchaseService) compensate(ctx context.Context, userID int64, intentID uuid.UUID, amount decimal.Decimal) {
	if intentID == uuid.Nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, compensationTimeout)
	defer cancel()

	credited, err := s.release(ctx, intentID, userID, amount)
	if err != nil {
		s.l.WithError(err).WithFields(logrus.Fields{
			"intentID": intentID,
			"userID":   userID,
			"amount":   amount.String(),
		}).Error("compensation failed, left for reconciliation")
		return
	}
	if credited {
		s.l.WithFields(logrus.Fields{"intentID": intentID, "userID": userID}).Info("purchase debit returned")
	}
}

// release удаляет намерение и возвращает его сумму на баланс одной транзакцией.
func (s *PurchaseService) release(
	ctx context.Context,
	intentID uuid.UUID,
	userID int64,
	amount decimal.Decimal,
) (bool, error) {
	var credited bool
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		intentRepo, err := uow.GetAs[IntentRepository](tx, uow.RepositoryName(repoargs.IntentRepoName))
		if err != nil {
			return err
		}
		userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err
		}
		deleted, err := intentRepo.DeleteIntent(ctx, intentID)
		if err != nil || !deleted {
			return err
		}
		if _, err = userRepo.AdjustBalance(ctx, userID, amount, false); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		return false, err //nolint:wrapcheck
	}
	return credited, nil
}

// ReconcileIntents возвращает списания по намерениям старше olderThan. Такие намерения остаются после
// сбоя между списанием и сохранением активации. Возвращает кол-во возвращенных намерений.
func (s *PurchaseService) ReconcileIntents(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.intentRepo.ListStale(ctx, s.now().Add(-olderThan), reconcileBatch)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("list stale intents: %w", err)
	}

	var (
		count int
		errs  []error
	)
	for _, intent := range stale {
		credited, releaseErr := s.release(ctx, intent.ID, intent.UserID, intent.Amount)
		if releaseErr != nil {
			errs = append(errs, fmt.Errorf("reconcile intent %s: %w", intent.ID, releaseErr))
			continue
		}
		if !credited {
			continue
		}
		count++
		metrics.RecordIntentReconciled()
		s.l.WithFields(logrus.Fields{
			"intentID": intent.ID,
			"userID":   intent.UserID,
			"amount":   intent.Amount.String(),
		}).Warn("stale purchase intent reconciled")
	}
	return count, errors.Join(errs...)
}

func purchaseFailureReason(err error) string {
	var rejected *provider.RejectedError
	if errors.As(err, &rejected) {
		return string(rejected.Kind)
	}
	if errors.Is(err, provider.ErrProviderUnavailable) {
		return "provider unavailable"
	}
	return "provider error"
}
