package service

import (
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/logger"
	"github.com/fsdevblog/smsbroker/internal/repository/memrepo"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/service/mocks"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture сервисы поверх хранилища в памяти с замоканными провайдером, уведомлениями и мониторами.
type fixture struct {
	ctrl     *gomock.Controller
	store    *memrepo.Store
	uow      *memrepo.UnitOfWork
	provider *mocks.MockProviderClient
	notifier *mocks.MockNotifier
	monitors *mocks.MockMonitors
	services *AppServices
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctrl: gomock.NewController(t),
		now:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.store = memrepo.NewStore().SetClock(func() time.Time { return f.now })
	f.uow = memrepo.NewUnitOfWork(f.store)
	require.NoError(t, memrepo.Register(f.uow))

	f.provider = mocks.NewMockProviderClient(f.ctrl)
	f.notifier = mocks.NewMockNotifier(f.ctrl)
	f.monitors = mocks.NewMockMonitors(f.ctrl)

	services, err := Factory(f.uow, f.provider, f.notifier, logger.New(io.Discard))
	require.NoError(t, err)
	services.SetMonitors(f.monitors)
	services.Activations.SetClock(func() time.Time { return f.now }).SetRefundRetry(2, time.Millisecond)
	services.Purchases.SetClock(func() time.Time { return f.now })
	services.Catalog.SetClock(func() time.Time { return f.now })
	f.services = services
	return f
}

func (f *fixture) userRepo() *memrepo.UserRepository {
	repo, _ := uow.GetRepositoryAs[*memrepo.UserRepository](f.uow, uow.RepositoryName(repoargs.UserRepoName))
	return repo
}

func (f *fixture) activationRepo() *memrepo.ActivationRepository {
	repo, _ := uow.GetRepositoryAs[*memrepo.ActivationRepository](f.uow, uow.RepositoryName(repoargs.ActivationRepoName))
	return repo
}

func (f *fixture) intentRepo() *memrepo.IntentRepository {
	repo, _ := uow.GetRepositoryAs[*memrepo.IntentRepository](f.uow, uow.RepositoryName(repoargs.IntentRepoName))
	return repo
}

func (f *fixture) createUser(t *testing.T, id int64, role domain.RoleType, balance string) {
	t.Helper()
	ctx := t.Context()
	_, err := f.userRepo().UpsertUser(ctx, repoargs.UpsertUser{UserID: id, ChatID: id * 10, Role: role})
	require.NoError(t, err)
	_, err = f.userRepo().AdjustBalance(ctx, id, decimal.RequireFromString(balance), false)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, id int64) string {
	t.Helper()
	u, err := f.userRepo().GetUser(t.Context(), id)
	require.NoError(t, err)
	return u.Balance.String()
}

func (f *fixture) createActivation(t *testing.T, id string, userID int64, charged string) {
	t.Helper()
	_, err := f.activationRepo().CreateActivation(t.Context(), repoargs.CreateActivation{
		ActivationID: id,
		UserID:       userID,
		ChatID:       userID * 10,
		ServiceCode:  "tg",
		CountryCode:  "6",
		Phone:        "+6281234567",
		BasePrice:    decimal.RequireFromString(charged),
		ChargedPrice: decimal.RequireFromString(charged),
	})
	require.NoError(t, err)
	require.NoError(t, f.userRepo().SetCurrentActivation(t.Context(), userID, id))
}
