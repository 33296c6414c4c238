package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/pricing"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	f      *fixture
	option pricing.Option
}

func TestPurchaseServiceSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}

func (s *PurchaseServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.f.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.option = pricing.Option{
		ServiceCode: "tg",
		ServiceName: "Telegram",
		CountryCode: "6",
		CountryName: "Indonesia",
		ProviderID:  "2295",
		Priced:      true,
		RawPrice:    "1.667",
		BasePrice:   decimal.RequireFromString("1.667"),
		Price:       decimal.RequireFromString("2.00"),
	}
}

func (s *PurchaseServiceTestSuite) args(userID int64, role domain.RoleType) PurchaseArgs {
	return PurchaseArgs{UserID: userID, ChatID: userID * 10, Role: role, Option: s.option}
}

func (s *PurchaseServiceTestSuite) TestPurchase_ProviderFailureRestoresBalance() {
	s.f.createUser(s.T(), 1, domain.RoleUser, "5.00")

	s.f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args provider.PurchaseArgs) (*provider.Number, error) {
			// во время запроса к провайдеру сумма уже списана.
			s.Equal("3", s.f.balance(s.T(), 1))
			s.True(args.MaxPrice.Equal(s.option.BasePrice))
			return nil, fmt.Errorf("purchase: %w", provider.ErrProviderUnavailable)
		})

	act, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleUser))

	s.Nil(act)
	var failed *domain.PurchaseFailedError
	s.Require().ErrorAs(err, &failed)
	s.Equal("provider unavailable", failed.Reason)
	s.ErrorIs(err, provider.ErrProviderUnavailable)

	s.Equal("5", s.f.balance(s.T(), 1))
	acts, listErr := s.f.activationRepo().ListByUser(s.T().Context(), 1, 0)
	s.Require().NoError(listErr)
	s.Empty(acts)
	s.noIntents()
}

func (s *PurchaseServiceTestSuite) TestPurchase_RejectedKeepsKind() {
	s.f.createUser(s.T(), 1, domain.RoleUser, "5")
	s.f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(nil, provider.NewRejectedError("NO_BALANCE"))

	_, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleUser))

	var failed *domain.PurchaseFailedError
	s.Require().ErrorAs(err, &failed)
	s.Equal(string(provider.KindNoBalance), failed.Reason)
	s.Equal("5", s.f.balance(s.T(), 1))
}

func (s *PurchaseServiceTestSuite) TestPurchase_Success() {
	s.f.createUser(s.T(), 1, domain.RoleUser, "5")
	s.f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).
		Return(&provider.Number{ActivationID: "a1", Phone: "+6281234567"}, nil)
	s.f.monitors.EXPECT().Start("a1")

	act, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleUser))
	s.Require().NoError(err)

	s.Equal("a1", act.ID)
	s.Equal(domain.ActivationStatusActive, act.Status)
	s.Equal("2", act.ChargedPrice.String())
	s.Equal("1.667", act.BasePrice.String())
	s.Equal(int64(10), act.ChatID)

	user, err := s.f.userRepo().GetUser(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal("3", user.Balance.String())
	s.Equal("a1", user.CurrentActivationID)
	s.noIntents()
}

func (s *PurchaseServiceTestSuite) TestPurchase_EmitsNumberIssued() {
	f := newFixture(s.T())
	f.createUser(s.T(), 1, domain.RoleSuper, "5")
	f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).
		Return(&provider.Number{ActivationID: "a1", Phone: "+6281234567"}, nil)
	f.monitors.EXPECT().Start("a1")
	f.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		s.Equal(notify.KeyNumberIssued, n.Key)
		s.Equal(int64(10), n.ChatID)
		s.Equal("+6281234567", n.Params[notify.ParamPhone])
		s.Equal("Indonesia", n.Params[notify.ParamCountry])
		return nil
	})

	_, err := f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleSuper))
	s.Require().NoError(err)
}

func (s *PurchaseServiceTestSuite) TestPurchase_InsufficientFunds() {
	s.f.createUser(s.T(), 1, domain.RoleUser, "1.99")

	_, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleUser))

	s.ErrorIs(err, domain.ErrInsufficientFunds)
	s.Equal("1.99", s.f.balance(s.T(), 1))
	s.noIntents()
}

func (s *PurchaseServiceTestSuite) TestPurchase_RoleGate() {
	for _, role := range []domain.RoleType{domain.RolePending, domain.RoleBlocked} {
		_, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, role))
		s.ErrorIs(err, domain.ErrRoleNotApproved)
	}
}

func (s *PurchaseServiceTestSuite) TestPurchase_UnpricedOption() {
	args := s.args(1, domain.RoleUser)
	args.Option.Priced = false

	_, err := s.f.services.Purchases.Purchase(s.T().Context(), args)

	var failed *domain.PurchaseFailedError
	s.ErrorAs(err, &failed)
}

func (s *PurchaseServiceTestSuite) TestPurchase_AdminNotCharged() {
	s.f.createUser(s.T(), 1, domain.RoleAdmin, "0")
	s.f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).
		Return(&provider.Number{ActivationID: "a1", Phone: "+6281234567"}, nil)
	s.f.monitors.EXPECT().Start("a1")

	act, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleAdmin))
	s.Require().NoError(err)

	s.True(act.ChargedPrice.IsZero())
	s.Equal("0", s.f.balance(s.T(), 1))
}

func (s *PurchaseServiceTestSuite) TestPurchase_PersistFailureCancelsNumber() {
	s.f.createUser(s.T(), 1, domain.RoleUser, "5")
	s.f.createUser(s.T(), 2, domain.RoleUser, "0")
	s.f.createActivation(s.T(), "a1", 2, "1")

	s.f.provider.EXPECT().Purchase(gomock.Any(), gomock.Any()).
		Return(&provider.Number{ActivationID: "a1", Phone: "+6281234567"}, nil)
	s.f.provider.EXPECT().SetStatus(gomock.Any(), "a1", provider.StatusCodeCancel)

	_, err := s.f.services.Purchases.Purchase(s.T().Context(), s.args(1, domain.RoleUser))

	var failed *domain.PurchaseFailedError
	s.Require().ErrorAs(err, &failed)
	s.ErrorIs(err, domain.ErrDuplicateKey)
	s.Equal("5", s.f.balance(s.T(), 1))
	s.noIntents()
}

func (s *PurchaseServiceTestSuite) TestReconcileIntents() {
	ctx := s.T().Context()
	s.f.createUser(s.T(), 1, domain.RoleUser, "3")
	_, err := s.f.intentRepo().CreateIntent(ctx, repoargs.CreateIntent{
		ID:     uuid.New(),
		UserID: 1,
		Amount: decimal.RequireFromString("2"),
	})
	s.Require().NoError(err)

	count, err := s.f.services.Purchases.ReconcileIntents(ctx, time.Minute)
	s.Require().NoError(err)
	s.Zero(count, "fresh intent must be left alone")

	s.f.now = s.f.now.Add(2 * time.Minute)
	count, err = s.f.services.Purchases.ReconcileIntents(ctx, time.Minute)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.Equal("5", s.f.balance(s.T(), 1))

	count, err = s.f.services.Purchases.ReconcileIntents(ctx, time.Minute)
	s.Require().NoError(err)
	s.Zero(count)
	s.Equal("5", s.f.balance(s.T(), 1))
}

func (s *PurchaseServiceTestSuite) noIntents() {
	stale, err := s.f.intentRepo().ListStale(s.T().Context(), s.f.now.Add(time.Hour), 0)
	s.Require().NoError(err)
	s.Empty(stale)
}
