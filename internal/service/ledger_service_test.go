package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.f.createUser(s.T(), 1, domain.RoleUser, "1")
}

func (s *LedgerServiceTestSuite) TestEnsureUser() {
	ctx := s.T().Context()
	ledger := s.f.services.Ledger

	u, err := ledger.EnsureUser(ctx, repoargs.UpsertUser{UserID: 7, ChatID: 70, Username: "neo"})
	s.Require().NoError(err)
	s.Equal(domain.RolePending, u.Role)
	s.True(u.Balance.IsZero())

	_, err = ledger.EnsureUser(ctx, repoargs.UpsertUser{})
	s.ErrorIs(err, domain.ErrInvalidArguments)
}

func (s *LedgerServiceTestSuite) TestEnsureAdmin() {
	ctx := s.T().Context()
	s.Require().NoError(s.f.services.Ledger.EnsureAdmin(ctx, 1))

	u, err := s.f.services.Ledger.GetUser(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, u.Role)

	s.NoError(s.f.services.Ledger.EnsureAdmin(ctx, 0))
}

func (s *LedgerServiceTestSuite) TestSetRole() {
	ctx := s.T().Context()
	s.Require().NoError(s.f.services.Ledger.SetRole(ctx, 1, domain.RoleSuper))
	s.ErrorIs(s.f.services.Ledger.SetRole(ctx, 1, "root"), domain.ErrInvalidArguments)
	s.ErrorIs(s.f.services.Ledger.SetRole(ctx, 99, domain.RoleUser), domain.ErrRecordNotFound)
}

func (s *LedgerServiceTestSuite) TestDepositApproveCreditsOnce() {
	ctx := s.T().Context()
	ledger := s.f.services.Ledger

	_, err := ledger.CreateDeposit(ctx, 1, decimal.RequireFromString("0.49"))
	s.ErrorIs(err, domain.ErrDepositTooSmall)

	dep, err := ledger.CreateDeposit(ctx, 1, decimal.RequireFromString("10"))
	s.Require().NoError(err)

	s.f.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		s.Equal(notify.KeyDepositSubmitted, n.Key)
		s.Equal(int64(10), n.ChatID)
		return nil
	})
	_, err = ledger.AttachProof(ctx, 1, 0, "0xabc", "")
	s.Require().NoError(err)

	s.f.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		s.Equal(notify.KeyDepositApproved, n.Key)
		s.Equal("10", n.Params[notify.ParamAmount])
		return nil
	})
	reviewed, err := ledger.ReviewDeposit(ctx, 99, dep.ID, true, "")
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusApproved, reviewed.Status)
	s.Equal(int64(99), reviewed.ReviewedBy)
	s.Equal("11", s.f.balance(s.T(), 1))

	_, err = ledger.ReviewDeposit(ctx, 99, dep.ID, true, "")
	s.ErrorIs(err, domain.ErrDepositClosed)
	s.Equal("11", s.f.balance(s.T(), 1))

	pending, err := ledger.ListDeposits(ctx, domain.DepositStatusPending, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *LedgerServiceTestSuite) TestDepositReject() {
	ctx := s.T().Context()
	ledger := s.f.services.Ledger
	s.f.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		s.Equal(notify.KeyDepositRejected, n.Key)
		s.Equal("no funds received", n.Params[notify.ParamReason])
		return nil
	})

	dep, err := ledger.CreateDeposit(ctx, 1, decimal.RequireFromString("5"))
	s.Require().NoError(err)

	_, err = ledger.ReviewDeposit(ctx, 99, dep.ID, false, "no funds received")
	s.Require().NoError(err)
	s.Equal("1", s.f.balance(s.T(), 1))
}

func (s *LedgerServiceTestSuite) TestAttachProof_Errors() {
	ctx := s.T().Context()
	ledger := s.f.services.Ledger

	dep, err := ledger.CreateDeposit(ctx, 1, decimal.RequireFromString("5"))
	s.Require().NoError(err)

	_, err = ledger.AttachProof(ctx, 2, dep.ID, "0xabc", "")
	s.ErrorIs(err, domain.ErrOwnerConflict)

	_, err = ledger.AttachProof(ctx, 1, dep.ID, "", "")
	s.ErrorIs(err, domain.ErrInvalidArguments)

	_, err = ledger.AttachProof(ctx, 2, 0, "0xabc", "")
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
