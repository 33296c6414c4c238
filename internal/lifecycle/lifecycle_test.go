package lifecycle

import (
	"testing"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/stretchr/testify/suite"
)

type LifecycleTestSuite struct {
	suite.Suite
	policy Policy
	t0     time.Time
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

func (s *LifecycleTestSuite) SetupTest() {
	s.policy = DefaultPolicy()
	s.t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *LifecycleTestSuite) TestApply() {
	testCases := []struct {
		ev   Event
		want domain.ActivationStatusType
	}{
		{EventCodeReceived, domain.ActivationStatusOTPReceived},
		{EventProviderCancelled, domain.ActivationStatusCancelled},
		{EventProviderError, domain.ActivationStatusError},
		{EventTimeout, domain.ActivationStatusExpired},
		{EventUserCancelled, domain.ActivationStatusCancelled},
	}
	for _, tc := range testCases {
		s.Run(string(tc.ev), func() {
			to, err := Apply(domain.ActivationStatusActive, tc.ev)
			s.Require().NoError(err)
			s.Equal(tc.want, to)

			// из терминального статуса выхода нет.
			_, err = Apply(to, EventUserCancelled)
			s.ErrorIs(err, domain.ErrInvalidTransition)
		})
	}

	_, err := Apply(domain.ActivationStatusActive, Event("bogus"))
	s.ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *LifecycleTestSuite) TestRefundRules() {
	s.False(RequiresRefund(domain.ActivationStatusOTPReceived))
	s.False(RequiresRefund(domain.ActivationStatusActive))
	s.True(RequiresRefund(domain.ActivationStatusCancelled))
	s.True(RequiresRefund(domain.ActivationStatusExpired))
	s.True(RequiresRefund(domain.ActivationStatusError))

	s.True(CanTransition(domain.ActivationStatusActive, domain.ActivationStatusExpired))
	s.False(CanTransition(domain.ActivationStatusExpired, domain.ActivationStatusCancelled))
	s.False(CanTransition(domain.ActivationStatusActive, domain.ActivationStatusActive))
}

func (s *LifecycleTestSuite) TestCheckCancel_LockWindow() {
	act := &domain.Activation{Status: domain.ActivationStatusActive, CreatedAt: s.t0}

	err := s.policy.CheckCancel(act, s.t0.Add(100*time.Second))
	var locked *domain.CancelLockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal(80*time.Second, locked.Remaining)

	// ровно на границе окна отмена уже разрешена.
	s.NoError(s.policy.CheckCancel(act, s.t0.Add(DefaultCancelLock)))
	s.NoError(s.policy.CheckCancel(act, s.t0.Add(181*time.Second)))
	s.ErrorAs(s.policy.CheckCancel(act, s.t0.Add(DefaultCancelLock-time.Nanosecond)), &locked)
}

func (s *LifecycleTestSuite) TestCheckCancel_FutureCreatedAt() {
	act := &domain.Activation{Status: domain.ActivationStatusActive, CreatedAt: s.t0.Add(time.Hour)}

	var locked *domain.CancelLockedError
	s.Require().ErrorAs(s.policy.CheckCancel(act, s.t0), &locked)
	s.Equal(DefaultCancelLock, locked.Remaining)
}

func (s *LifecycleTestSuite) TestCheckCancel_Terminal() {
	late := s.t0.Add(time.Hour)

	otp := &domain.Activation{Status: domain.ActivationStatusOTPReceived, CreatedAt: s.t0}
	s.ErrorIs(s.policy.CheckCancel(otp, late), domain.ErrOTPReceived)

	for _, st := range domain.RefundableStatuses {
		act := &domain.Activation{Status: st, CreatedAt: s.t0}
		s.ErrorIs(s.policy.CheckCancel(act, late), domain.ErrActivationClosed)
	}
}

func (s *LifecycleTestSuite) TestExpired() {
	s.False(s.policy.Expired(s.t0, s.t0.Add(DefaultMaxMonitor-time.Second)))
	s.True(s.policy.Expired(s.t0, s.t0.Add(DefaultMaxMonitor)))
}
