package memrepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MemrepoTestSuite struct {
	suite.Suite
	store       *Store
	uow         *UnitOfWork
	users       *UserRepository
	activations *ActivationRepository
	deposits    *DepositRepository
	intents     *IntentRepository
}

func TestMemrepoSuite(t *testing.T) {
	suite.Run(t, new(MemrepoTestSuite))
}

func (s *MemrepoTestSuite) SetupTest() {
	s.store = NewStore()
	s.uow = NewUnitOfWork(s.store)
	s.Require().NoError(Register(s.uow))

	conn := &Conn{store: s.store}
	s.users = NewUserRepository(conn)
	s.activations = NewActivationRepository(conn)
	s.deposits = NewDepositRepository(conn)
	s.intents = NewIntentRepository(conn)
}

func (s *MemrepoTestSuite) createUser(id int64, balance string) {
	ctx := s.T().Context()
	_, err := s.users.UpsertUser(ctx, repoargs.UpsertUser{UserID: id, ChatID: id, Role: domain.RoleUser})
	s.Require().NoError(err)
	_, err = s.users.AdjustBalance(ctx, id, decimal.RequireFromString(balance), false)
	s.Require().NoError(err)
}

func (s *MemrepoTestSuite) createActivation(id string, userID int64, charged string) {
	_, err := s.activations.CreateActivation(s.T().Context(), repoargs.CreateActivation{
		ActivationID: id,
		UserID:       userID,
		ServiceCode:  "tg",
		CountryCode:  "6",
		Phone:        "+79001234567",
		BasePrice:    decimal.RequireFromString(charged),
		ChargedPrice: decimal.RequireFromString(charged),
	})
	s.Require().NoError(err)
}

func (s *MemrepoTestSuite) TestUpsertKeepsRole() {
	ctx := s.T().Context()
	_, err := s.users.UpsertUser(ctx, repoargs.UpsertUser{UserID: 1, Username: "first"})
	s.Require().NoError(err)
	s.Require().NoError(s.users.SetRole(ctx, 1, domain.RoleSuper))

	u, err := s.users.UpsertUser(ctx, repoargs.UpsertUser{UserID: 1, Username: "second", Role: domain.RolePending})
	s.Require().NoError(err)
	s.Equal(domain.RoleSuper, u.Role)
	s.Equal("second", u.Username)

	_, err = s.users.GetUser(ctx, 2)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *MemrepoTestSuite) TestAdjustBalanceGuard() {
	ctx := s.T().Context()
	s.createUser(1, "1.5")

	_, err := s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("-2"), true)
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	balance, err := s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("-1.5"), true)
	s.Require().NoError(err)
	s.True(balance.IsZero())
}

func (s *MemrepoTestSuite) TestTransactionRollback() {
	ctx := s.T().Context()
	s.createUser(1, "5")
	errBoom := errors.New("boom")

	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		users, err := uow.GetAs[*UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		s.Require().NoError(err)
		intents, err := uow.GetAs[*IntentRepository](tx, uow.RepositoryName(repoargs.IntentRepoName))
		s.Require().NoError(err)

		_, err = users.AdjustBalance(ctx, 1, decimal.RequireFromString("-2"), true)
		s.Require().NoError(err)
		_, err = intents.CreateIntent(ctx, repoargs.CreateIntent{ID: uuid.New(), UserID: 1, Amount: decimal.NewFromInt(2)})
		s.Require().NoError(err)
		return errBoom
	})
	s.ErrorIs(err, errBoom)

	u, err := s.users.GetUser(ctx, 1)
	s.Require().NoError(err)
	s.Equal("5", u.Balance.String())

	stale, err := s.intents.ListStale(ctx, time.Now().Add(time.Hour), 0)
	s.Require().NoError(err)
	s.Empty(stale)
}

func (s *MemrepoTestSuite) TestSetStatusOnlyFromActive() {
	ctx := s.T().Context()
	s.createUser(1, "0")
	s.createActivation("a1", 1, "2")

	changed, err := s.activations.SetStatus(ctx, "a1", domain.ActivationStatusOTPReceived, "1234")
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.activations.SetStatus(ctx, "a1", domain.ActivationStatusCancelled, "")
	s.Require().NoError(err)
	s.False(changed)

	a, err := s.activations.GetActivation(ctx, "a1")
	s.Require().NoError(err)
	s.Equal(domain.ActivationStatusOTPReceived, a.Status)
	s.Equal("1234", a.OTPCode)

	refund, err := s.activations.RefundIfNeeded(ctx, "a1")
	s.Require().NoError(err)
	s.Nil(refund)
}

func (s *MemrepoTestSuite) TestConcurrentRefundOnce() {
	ctx := s.T().Context()
	s.createUser(1, "3")
	s.createActivation("a1", 1, "2")
	_, err := s.activations.SetStatus(ctx, "a1", domain.ActivationStatusExpired, "")
	s.Require().NoError(err)

	pending, err := s.activations.ListPendingRefunds(ctx)
	s.Require().NoError(err)
	s.Len(pending, 1)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		credits int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refund, refundErr := s.activations.RefundIfNeeded(ctx, "a1")
			if refundErr == nil && refund != nil {
				mu.Lock()
				credits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, credits)
	u, err := s.users.GetUser(ctx, 1)
	s.Require().NoError(err)
	s.Equal("5", u.Balance.String())

	a, err := s.activations.GetActivation(ctx, "a1")
	s.Require().NoError(err)
	s.True(a.Refunded)
	s.Equal("2", a.RefundAmount.String())

	pending, err = s.activations.ListPendingRefunds(ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *MemrepoTestSuite) TestClearCurrentActivationOnlyMatching() {
	ctx := s.T().Context()
	s.createUser(1, "0")
	s.Require().NoError(s.users.SetCurrentActivation(ctx, 1, "a2"))

	s.Require().NoError(s.users.ClearCurrentActivation(ctx, 1, "a1"))
	u, _ := s.users.GetUser(ctx, 1)
	s.Equal("a2", u.CurrentActivationID)

	s.Require().NoError(s.users.ClearCurrentActivation(ctx, 1, "a2"))
	u, _ = s.users.GetUser(ctx, 1)
	s.Empty(u.CurrentActivationID)
}

func (s *MemrepoTestSuite) TestDepositFlow() {
	ctx := s.T().Context()
	d, err := s.deposits.CreateDeposit(ctx, 1, decimal.NewFromInt(10))
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusAwaitingProof, d.Status)

	latest, err := s.deposits.LatestOpenForUser(ctx, 1)
	s.Require().NoError(err)
	s.Equal(d.ID, latest.ID)

	d, err = s.deposits.SetProof(ctx, d.ID, "tx-1", "")
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusPending, d.Status)
	s.Equal("tx-1", d.TxID)

	d, err = s.deposits.Review(ctx, repoargs.ReviewDeposit{DepositID: d.ID, Status: domain.DepositStatusApproved, ReviewedBy: 99})
	s.Require().NoError(err)
	s.NotNil(d.ReviewedAt)

	_, err = s.deposits.Review(ctx, repoargs.ReviewDeposit{DepositID: d.ID, Status: domain.DepositStatusRejected})
	s.ErrorIs(err, domain.ErrDepositClosed)

	_, err = s.deposits.LatestOpenForUser(ctx, 1)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *MemrepoTestSuite) TestIntentDeleteOnce() {
	ctx := s.T().Context()
	id := uuid.New()
	_, err := s.intents.CreateIntent(ctx, repoargs.CreateIntent{ID: id, UserID: 1, Amount: decimal.NewFromInt(1)})
	s.Require().NoError(err)

	deleted, err := s.intents.DeleteIntent(ctx, id)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.intents.DeleteIntent(ctx, id)
	s.Require().NoError(err)
	s.False(deleted)
}
