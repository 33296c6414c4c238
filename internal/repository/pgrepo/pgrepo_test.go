package pgrepo

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

// PgrepoTestSuite гоняет репозитории на настоящем postgres. Без DATABASE_URI пропускается.
type PgrepoTestSuite struct {
	suite.Suite
	pool        *pgxpool.Pool
	uow         *uow.UnitOfWork
	users       *UserRepository
	activations *ActivationRepository
}

func TestPgrepoSuite(t *testing.T) {
	suite.Run(t, new(PgrepoTestSuite))
}

func (s *PgrepoTestSuite) SetupSuite() {
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		s.T().Skip("DATABASE_URI is not set")
	}
	l := logrus.New()
	l.SetOutput(io.Discard)

	pool, err := Connect(s.T().Context(), "../../db/migrations", dsn, l)
	s.Require().NoError(err)
	s.pool = pool

	s.uow = uow.NewUnitOfWork(pool)
	s.Require().NoError(Register(s.uow))

	s.users = NewUserRepository(pool)
	s.activations = NewActivationRepository(pool)
}

func (s *PgrepoTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PgrepoTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.T().Context(),
		`TRUNCATE users, activations, deposits, purchase_intents, settings CASCADE`)
	s.Require().NoError(err)
}

func (s *PgrepoTestSuite) createUser(id int64, balance string) {
	ctx := s.T().Context()
	_, err := s.users.UpsertUser(ctx, repoargs.UpsertUser{
		UserID: id,
		ChatID: id,
		Role:   domain.RoleUser,
	})
	s.Require().NoError(err)
	_, err = s.users.AdjustBalance(ctx, id, decimal.RequireFromString(balance), false)
	s.Require().NoError(err)
}

func (s *PgrepoTestSuite) createActivation(id string, userID int64, charged string) {
	_, err := s.activations.CreateActivation(s.T().Context(), repoargs.CreateActivation{
		ActivationID: id,
		UserID:       userID,
		ServiceCode:  "tg",
		CountryCode:  "6",
		Phone:        "79990000000",
		BasePrice:    decimal.RequireFromString(charged),
		ChargedPrice: decimal.RequireFromString(charged),
	})
	s.Require().NoError(err)
}

func (s *PgrepoTestSuite) balanceOf(id int64) decimal.Decimal {
	u, err := s.users.GetUser(s.T().Context(), id)
	s.Require().NoError(err)
	return u.Balance
}

func (s *PgrepoTestSuite) TestAdjustBalanceGuard() {
	ctx := s.T().Context()
	s.createUser(1, "5")

	balance, err := s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("-2"), true)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.RequireFromString("3")), balance.String())

	balance, err = s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("-3.5"), true)
	s.ErrorIs(err, domain.ErrInsufficientFunds)
	s.True(balance.Equal(decimal.RequireFromString("3")), balance.String())
	s.True(s.balanceOf(1).Equal(decimal.RequireFromString("3")))

	_, err = s.users.AdjustBalance(ctx, 404, decimal.RequireFromString("1"), true)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *PgrepoTestSuite) TestAdjustBalanceConcurrentDebits() {
	ctx := s.T().Context()
	s.createUser(1, "5")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("-1"), true)
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, domain.ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	s.Equal(5, accepted)
	s.True(s.balanceOf(1).IsZero(), s.balanceOf(1).String())
}

func (s *PgrepoTestSuite) TestTransactionRollback() {
	ctx := s.T().Context()
	s.createUser(1, "5")
	errBoom := errors.New("boom")

	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		users, err := uow.GetAs[*UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if err != nil {
			return err
		}
		if _, err = users.AdjustBalance(ctx, 1, decimal.RequireFromString("-2"), true); err != nil {
			return err
		}
		return errBoom
	})
	s.ErrorIs(err, errBoom)
	s.True(s.balanceOf(1).Equal(decimal.RequireFromString("5")))
}

func (s *PgrepoTestSuite) TestRefundOnceConcurrent() {
	ctx := s.T().Context()
	s.createUser(1, "3")
	s.createActivation("a1", 1, "2")

	changed, err := s.activations.SetStatus(ctx, "a1", domain.ActivationStatusCancelled, "")
	s.Require().NoError(err)
	s.Require().True(changed)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		credits int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refund, refundErr := s.activations.RefundIfNeeded(ctx, "a1")
			s.NoError(refundErr)
			if refund != nil {
				mu.Lock()
				credits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, credits)
	s.True(s.balanceOf(1).Equal(decimal.RequireFromString("5")), s.balanceOf(1).String())

	pending, err := s.activations.ListPendingRefunds(ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *PgrepoTestSuite) TestOTPNeverRefunded() {
	ctx := s.T().Context()
	s.createUser(1, "0")
	s.createActivation("a1", 1, "2")

	changed, err := s.activations.SetStatus(ctx, "a1", domain.ActivationStatusOTPReceived, "12345")
	s.Require().NoError(err)
	s.Require().True(changed)

	changed, err = s.activations.SetStatus(ctx, "a1", domain.ActivationStatusCancelled, "")
	s.Require().NoError(err)
	s.False(changed)

	refund, err := s.activations.RefundIfNeeded(ctx, "a1")
	s.Require().NoError(err)
	s.Nil(refund)
	s.True(s.balanceOf(1).IsZero())

	_, err = s.activations.RefundIfNeeded(ctx, "missing")
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
