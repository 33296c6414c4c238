package monitor

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/logger"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/memrepo"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/internal/service"
	svcmocks "github.com/fsdevblog/smsbroker/internal/service/mocks"
	"github.com/fsdevblog/smsbroker/internal/transport/monitor/mocks"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	uowmocks "github.com/fsdevblog/smsbroker/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

const pollInterval = 2 * time.Millisecond

type SchedulerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	t0          time.Time
	unitOfWork  *memrepo.UnitOfWork
	users       *memrepo.UserRepository
	activations *memrepo.ActivationRepository
	svc         *service.ActivationService
	client      *mocks.MockClient
	notifier    *mocks.MockNotifier
	logger      *logrus.Logger
	schedulers  []*Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.logger = logger.New(io.Discard)

	store := memrepo.NewStore().SetClock(func() time.Time { return s.t0 })
	s.unitOfWork = memrepo.NewUnitOfWork(store)
	s.Require().NoError(memrepo.Register(s.unitOfWork))

	var err error
	s.users, err = uow.GetRepositoryAs[*memrepo.UserRepository](s.unitOfWork, uow.RepositoryName(repoargs.UserRepoName))
	s.Require().NoError(err)
	s.activations, err = uow.GetRepositoryAs[*memrepo.ActivationRepository](
		s.unitOfWork, uow.RepositoryName(repoargs.ActivationRepoName))
	s.Require().NoError(err)

	s.client = mocks.NewMockClient(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)

	s.svc, err = service.NewActivationService(s.unitOfWork, svcmocks.NewMockProviderClient(s.ctrl), s.notifier, s.logger)
	s.Require().NoError(err)

	ctx := s.T().Context()
	_, err = s.users.UpsertUser(ctx, repoargs.UpsertUser{UserID: 1, ChatID: 10, Role: domain.RoleUser})
	s.Require().NoError(err)
	_, err = s.users.AdjustBalance(ctx, 1, decimal.RequireFromString("3"), false)
	s.Require().NoError(err)
	_, err = s.activations.CreateActivation(ctx, repoargs.CreateActivation{
		ActivationID: "a1",
		UserID:       1,
		ChatID:       10,
		ServiceCode:  "tg",
		CountryCode:  "6",
		Phone:        "+6281234567",
		BasePrice:    decimal.RequireFromString("2"),
		ChargedPrice: decimal.RequireFromString("2"),
	})
	s.Require().NoError(err)
	s.schedulers = nil
}

func (s *SchedulerTestSuite) TearDownTest() {
	for _, sch := range s.schedulers {
		sch.Shutdown()
	}
}

// newScheduler планировщик, для которого с момента создания активации прошло elapsed.
func (s *SchedulerTestSuite) newScheduler(elapsed time.Duration) *Scheduler {
	now := s.t0.Add(elapsed)
	sch := New(s.client, s.svc, s.notifier, s.logger).
		SetPollInterval(pollInterval).
		SetClock(func() time.Time { return now })
	s.schedulers = append(s.schedulers, sch)
	return sch
}

func (s *SchedulerTestSuite) waitStopped(sch *Scheduler, id string) {
	s.Eventually(func() bool { return !sch.Running(id) }, time.Second, time.Millisecond)
}

func (s *SchedulerTestSuite) activation() *domain.Activation {
	act, err := s.activations.GetActivation(s.T().Context(), "a1")
	s.Require().NoError(err)
	return act
}

func (s *SchedulerTestSuite) balance() string {
	u, err := s.users.GetUser(s.T().Context(), 1)
	s.Require().NoError(err)
	return u.Balance.String()
}

func (s *SchedulerTestSuite) captureEmits() (*[]notify.Notification, *sync.Mutex) {
	var (
		mu  sync.Mutex
		got []notify.Notification
	)
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n notify.Notification) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, n)
			return nil
		}).AnyTimes()
	return &got, &mu
}

func (s *SchedulerTestSuite) TestProviderCancelledRefundsOnce() {
	sch := s.newScheduler(10 * time.Second)
	got, mu := s.captureEmits()
	s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Cancelled{}, nil)

	sch.Start("a1")
	s.waitStopped(sch, "a1")

	act := s.activation()
	s.Equal(domain.ActivationStatusCancelled, act.Status)
	s.True(act.Refunded)
	s.Equal("5", s.balance())
	s.Zero(sch.Len())

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(*got, 1)
	s.Equal(notify.KeyCancelled, (*got)[0].Key)
	s.Equal("2", (*got)[0].Params[notify.ParamAmount])
	s.Equal(int64(10), (*got)[0].ChatID)
}

func (s *SchedulerTestSuite) TestOTPReceived() {
	sch := s.newScheduler(10 * time.Second)
	got, mu := s.captureEmits()
	gomock.InOrder(
		s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Wait{}, nil),
		s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.OTP{Code: "12345"}, nil),
	)
	s.client.EXPECT().SetStatus(gomock.Any(), "a1", provider.StatusCodeComplete)

	sch.Start("a1")
	s.waitStopped(sch, "a1")

	act := s.activation()
	s.Equal(domain.ActivationStatusOTPReceived, act.Status)
	s.Equal("12345", act.OTPCode)
	s.False(act.Refunded)
	s.Equal("3", s.balance())

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(*got, 1)
	s.Equal(notify.KeyOTP, (*got)[0].Key)
	s.Equal("12345", (*got)[0].Params[notify.ParamOTP])
}

func (s *SchedulerTestSuite) TestProviderFailure() {
	sch := s.newScheduler(10 * time.Second)
	got, mu := s.captureEmits()
	s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Failure{Reason: "NO_ACTIVATION"}, nil)

	sch.Start("a1")
	s.waitStopped(sch, "a1")

	s.Equal(domain.ActivationStatusError, s.activation().Status)
	s.Equal("5", s.balance())

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(*got, 1)
	s.Equal(string(provider.KindNoActivation), (*got)[0].Params[notify.ParamErrorKind])
}

func (s *SchedulerTestSuite) TestPollErrorRetried() {
	sch := s.newScheduler(10 * time.Second)
	s.captureEmits()
	gomock.InOrder(
		s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(nil, provider.ErrProviderUnavailable),
		s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(nil, errors.New("timeout")),
		s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Cancelled{}, nil),
	)

	sch.Start("a1")
	s.waitStopped(sch, "a1")

	s.Equal(domain.ActivationStatusCancelled, s.activation().Status)
}

// TestDuplicateResumeSingleCredit два перезапуска восстанавливают одну и ту же активацию, оба монитора
// доходят до истечения срока, а средства возвращаются один раз.
func (s *SchedulerTestSuite) TestDuplicateResumeSingleCredit() {
	first := s.newScheduler(1501 * time.Second)
	second := s.newScheduler(1501 * time.Second)
	got, mu := s.captureEmits()

	s.Require().NoError(first.Resume(s.T().Context()))
	s.Require().NoError(second.Resume(s.T().Context()))
	s.waitStopped(first, "a1")
	s.waitStopped(second, "a1")

	act := s.activation()
	s.Equal(domain.ActivationStatusExpired, act.Status)
	s.True(act.Refunded)
	s.Equal("5", s.balance())

	mu.Lock()
	defer mu.Unlock()
	var (
		amounts []string
		expired int
	)
	for _, n := range *got {
		if amount := n.Params[notify.ParamAmount]; amount != "" {
			amounts = append(amounts, amount)
		}
		if n.Key == notify.KeyExpired || n.Key == notify.KeyExpiredRefund {
			expired++
		}
	}
	s.Equal([]string{"2"}, amounts)
	s.Equal(1, expired)
}

func (s *SchedulerTestSuite) TestResumeSettlesPendingRefunds() {
	ctx := s.T().Context()
	changed, err := s.activations.SetStatus(ctx, "a1", domain.ActivationStatusExpired, "")
	s.Require().NoError(err)
	s.Require().True(changed)

	sch := s.newScheduler(time.Hour)
	got, mu := s.captureEmits()

	s.Require().NoError(sch.Resume(ctx))

	s.Zero(sch.Len())
	s.True(s.activation().Refunded)
	s.Equal("5", s.balance())

	s.Require().NoError(sch.Resume(ctx))
	s.Equal("5", s.balance())

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(*got, 1)
	s.Equal(notify.KeyRefundDone, (*got)[0].Key)
}

func (s *SchedulerTestSuite) TestStartReplacesAndStop() {
	sch := s.newScheduler(10 * time.Second)
	s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Wait{}, nil).AnyTimes()

	sch.Start("a1")
	sch.Start("a1")
	s.Equal(1, sch.Len())
	s.True(sch.Running("a1"))

	s.True(sch.Stop("a1"))
	s.False(sch.Running("a1"))
	s.False(sch.Stop("a1"))
	s.Equal(domain.ActivationStatusActive, s.activation().Status)
}

func (s *SchedulerTestSuite) TestShutdown() {
	sch := s.newScheduler(10 * time.Second)
	s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.Wait{}, nil).AnyTimes()

	sch.Start("a1")
	sch.Shutdown()
	s.Zero(sch.Len())

	sch.Start("a1")
	s.False(sch.Running("a1"))
}

func (s *SchedulerTestSuite) TestMissingActivationStops() {
	sch := s.newScheduler(10 * time.Second)

	sch.Start("missing")
	s.waitStopped(sch, "missing")
}

func (s *SchedulerTestSuite) TestResumeListError() {
	ctrl := gomock.NewController(s.T())
	svs := mocks.NewMockServicer(ctrl)
	svs.EXPECT().ListActive(gomock.Any()).Return(nil, domain.ErrStorageUnavailable)
	svs.EXPECT().ListPendingRefunds(gomock.Any()).Return(nil, nil)

	sch := New(s.client, svs, s.notifier, s.logger)
	s.schedulers = append(s.schedulers, sch)

	s.ErrorIs(sch.Resume(s.T().Context()), domain.ErrStorageUnavailable)
}

func (s *SchedulerTestSuite) TestOTPAnnouncedWhenRereadFails() {
	activations := svcmocks.NewMockActivationRepository(s.ctrl)
	users := svcmocks.NewMockUserRepository(s.ctrl)
	unitOfWork := uowmocks.NewMockUOW(s.ctrl)
	unitOfWork.EXPECT().GetRepository(uow.RepositoryName(repoargs.ActivationRepoName)).Return(activations, nil)
	unitOfWork.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).Return(users, nil)

	svc, err := service.NewActivationService(unitOfWork, svcmocks.NewMockProviderClient(s.ctrl), s.notifier, s.logger)
	s.Require().NoError(err)

	active := domain.Activation{
		ID:           "a1",
		CreatedAt:    s.t0,
		UserID:       1,
		ChatID:       10,
		Status:       domain.ActivationStatusActive,
		ChargedPrice: decimal.RequireFromString("2"),
	}
	received := active
	received.Status = domain.ActivationStatusOTPReceived
	received.OTPCode = "12345"

	// третье чтение (после записи статуса) падает, дальше в хранилище уже otp_received.
	var reads atomic.Int32
	activations.EXPECT().GetActivation(gomock.Any(), "a1").
		DoAndReturn(func(context.Context, string) (*domain.Activation, error) {
			switch reads.Add(1) {
			case 1, 2:
				act := active
				return &act, nil
			case 3:
				return nil, domain.ErrStorageUnavailable
			default:
				act := received
				return &act, nil
			}
		}).AnyTimes()
	activations.EXPECT().SetStatus(gomock.Any(), "a1", domain.ActivationStatusOTPReceived, "12345").Return(true, nil)
	users.EXPECT().ClearCurrentActivation(gomock.Any(), int64(1), "a1").Return(nil)

	s.client.EXPECT().PollStatus(gomock.Any(), "a1").Return(provider.OTP{Code: "12345"}, nil)
	s.client.EXPECT().SetStatus(gomock.Any(), "a1", provider.StatusCodeComplete)
	got, mu := s.captureEmits()

	sch := New(s.client, svc, s.notifier, s.logger).
		SetPollInterval(pollInterval).
		SetClock(func() time.Time { return s.t0.Add(10 * time.Second) })
	s.schedulers = append(s.schedulers, sch)

	sch.Start("a1")
	s.waitStopped(sch, "a1")

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(*got, 1)
	s.Equal(notify.KeyOTP, (*got)[0].Key)
	s.Equal("12345", (*got)[0].Params[notify.ParamOTP])
}
