package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var DefaultMinDeposit = decimal.RequireFromString("0.5")

type LedgerService struct {
	uow         uow.UOW
	userRepo    UserRepository
	depositRepo DepositRepository
	notifier    Notifier
	minDeposit  decimal.Decimal
	now         func() time.Time
	l           *logrus.Entry
}

func NewLedgerService(u uow.UOW, notifier Notifier, l *logrus.Logger) (*LedgerService, error) {
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err
	}
	depositRepo, err := uow.GetRepositoryAs[DepositRepository](u, uow.RepositoryName(repoargs.DepositRepoName))
	if err != nil {
		return nil, err
	}
	return &LedgerService{
		uow:         u,
		userRepo:    userRepo,
		depositRepo: depositRepo,
		notifier:    notifier,
		minDeposit:  DefaultMinDeposit,
		now:         time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "ledger",
		}),
	}, nil
}

func (s *LedgerService) SetMinDeposit(amount decimal.Decimal) *LedgerService {
	s.minDeposit = amount
	return s
}

// EnsureUser создает пользователя или обновляет его контактные данные. Роль существующего
// пользователя не меняется.
func (s *LedgerService) EnsureUser(ctx context.Context, args repoargs.UpsertUser) (*domain.User, error) {
	if args.UserID == 0 {
		return nil, domain.ErrInvalidArguments
	}
	if args.Role == "" {
		args.Role = domain.RolePending
	}
	user, err := s.userRepo.UpsertUser(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("ensure user %d: %w", args.UserID, err)
	}
	return user, nil
}

// EnsureAdmin гарантирует, что пользователь userID существует и имеет роль admin.
func (s *LedgerService) EnsureAdmin(ctx context.Context, userID int64) error {
	if userID == 0 {
		return nil
	}
	if _, err := s.EnsureUser(ctx, repoargs.UpsertUser{UserID: userID, Role: domain.RoleAdmin}); err != nil {
		return err
	}
	if err := s.userRepo.SetRole(ctx, userID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("ensure admin %d: %w", userID, err)
	}
	return nil
}

func (s *LedgerService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

// SetRole меняет роль пользователя. Неизвестная роль дает domain.ErrInvalidArguments.
func (s *LedgerService) SetRole(ctx context.Context, userID int64, role domain.RoleType) error {
	if domain.ParseRole(string(role)) != role {
		return domain.ErrInvalidArguments
	}
	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("set role %s for user %d: %w", role, userID, err)
	}
	s.l.WithFields(logrus.Fields{"userID": userID, "role": role}).Info("role changed")
	return nil
}

// CreateDeposit открывает заявку на пополнение. Сумма меньше минимальной дает domain.ErrDepositTooSmall.
func (s *LedgerService) CreateDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Deposit, error) {
	if amount.LessThan(s.minDeposit) {
		return nil, domain.ErrDepositTooSmall
	}
	dep, err := s.depositRepo.CreateDeposit(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}
	return dep, nil
}

// AttachProof прикладывает к депозиту идентификатор транзакции и ссылку на подтверждение.
// Если depositID равен 0, берется последняя открытая заявка пользователя.
func (s *LedgerService) AttachProof(
	ctx context.Context,
	userID, depositID int64,
	txID, proofRef string,
) (*domain.Deposit, error) {
	if txID == "" && proofRef == "" {
		return nil, domain.ErrInvalidArguments
	}

	var dep *domain.Deposit
	var err error
	if depositID == 0 {
		dep, err = s.depositRepo.LatestOpenForUser(ctx, userID)
	} else {
		dep, err = s.depositRepo.GetDeposit(ctx, depositID)
	}
	if err != nil {
		return nil, fmt.Errorf("attach proof: %w", err)
	}
	if dep.UserID != userID {
		return nil, domain.ErrOwnerConflict
	}
	if !dep.Status.IsOpen() {
		return nil, domain.ErrDepositClosed
	}

	dep, err = s.depositRepo.SetProof(ctx, dep.ID, txID, proofRef)
	if err != nil {
		return nil, fmt.Errorf("attach proof: %w", err)
	}
	s.emit(ctx, notify.Notification{
		UserID: dep.UserID,
		Key:    notify.KeyDepositSubmitted,
		Params: depositParams(dep),
	})
	return dep, nil
}

// ReviewDeposit одобряет или отклоняет депозит.
//
// Одобрение закрывает заявку и зачисляет сумму на баланс в одной транзакции, поэтому повторное
// одобрение невозможно: закрытая заявка дает domain.ErrDepositClosed.
func (s *LedgerService) ReviewDeposit(
	ctx context.Context,
	reviewerID, depositID int64,
	approve bool,
	note string,
) (*domain.Deposit, error) {
	status := domain.DepositStatusRejected
	if approve {
		status = domain.DepositStatusApproved
	}

	var dep *domain.Deposit
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		depositRepo, err := uow.GetAs[DepositRepository](tx, uow.RepositoryName(repoargs.DepositRepoName))
		if err != nil {
			return err
		}
		userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err
		}

		dep, err = depositRepo.Review(ctx, repoargs.ReviewDeposit{
			DepositID:  depositID,
			Status:     status,
			ReviewedBy: reviewerID,
			Note:       note,
		})
		if err != nil {
			return err
		}
		if !approve {
			return nil
		}
		_, err = userRepo.AdjustBalance(ctx, dep.UserID, dep.Amount, false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("review deposit %d: %w", depositID, err)
	}

	s.l.WithFields(logrus.Fields{
		"depositID":  depositID,
		"reviewerID": reviewerID,
		"status":     status,
	}).Info("deposit reviewed")

	key := notify.KeyDepositRejected
	if approve {
		key = notify.KeyDepositApproved
	}
	params := depositParams(dep)
	if note != "" {
		params[notify.ParamReason] = note
	}
	s.emit(ctx, notify.Notification{UserID: dep.UserID, Key: key, Params: params})
	return dep, nil
}

func (s *LedgerService) ListDeposits(
	ctx context.Context,
	status domain.DepositStatusType,
	limit uint,
) ([]domain.Deposit, error) {
	deps, err := s.depositRepo.ListByStatus(ctx, status, limit)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return deps, nil
}

func (s *LedgerService) emit(ctx context.Context, n notify.Notification) {
	n.CreatedAt = s.now()
	if user, err := s.userRepo.GetUser(ctx, n.UserID); err == nil {
		n.ChatID = user.ChatID
	}
	if err := s.notifier.Emit(ctx, n); err != nil {
		s.l.WithError(err).WithField("key", n.Key).Warn("emit notification")
	}
}

func depositParams(dep *domain.Deposit) notify.Params {
	return notify.Params{
		notify.ParamDepositID: strconv.FormatInt(dep.ID, 10),
		notify.ParamAmount:    dep.Amount.String(),
	}
}
