// Package monitor следит за открытыми активациями: опрашивает провайдера, переводит активацию
// в итоговый статус и возвращает средства при неуспешной доставке.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/lifecycle"
	"github.com/fsdevblog/smsbroker/internal/metrics"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout = 3 * time.Second
	defaultPollInterval   = 4 * time.Second
)

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler реестр мониторов. На каждую активацию работает не больше одного монитора.
type Scheduler struct {
	client       Client
	svs          Servicer
	notifier     Notifier
	pollInterval time.Duration
	policy       lifecycle.Policy
	now          func() time.Time
	l            *logrus.Entry

	baseCtx    context.Context //nolint:containedctx
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.Mutex
	tasks  map[string]*task
	closed bool
}

func New(client Client, svs Servicer, notifier Notifier, l *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		client:       client,
		svs:          svs,
		notifier:     notifier,
		pollInterval: defaultPollInterval,
		policy:       lifecycle.DefaultPolicy(),
		now:          time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "monitor",
			"module":    "scheduler",
		}),
		baseCtx:    ctx,
		baseCancel: cancel,
		tasks:      make(map[string]*task),
	}
}

// SetPollInterval устанавливает паузу между опросами провайдера.
func (s *Scheduler) SetPollInterval(interval time.Duration) *Scheduler {
	s.pollInterval = interval
	return s
}

// SetPolicy устанавливает максимальную длительность мониторинга.
func (s *Scheduler) SetPolicy(p lifecycle.Policy) *Scheduler {
	s.policy = p
	return s
}

func (s *Scheduler) SetClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start запускает монитор активации. Если монитор уже работает, он отменяется, и новый запускается
// только после его завершения.
func (s *Scheduler) Start(activationID string) {
	ctx, cancel := context.WithCancel(s.baseCtx)
	t := &task{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	old := s.tasks[activationID]
	s.tasks[activationID] = t
	s.wg.Add(1)
	s.mu.Unlock()

	if old != nil {
		old.cancel()
		<-old.done
	}
	go s.run(ctx, activationID, t)
}

// Stop отменяет монитор и ждет его завершения. Возвращает false, если монитора не было.
func (s *Scheduler) Stop(activationID string) bool {
	s.mu.Lock()
	t, ok := s.tasks[activationID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	t.cancel()
	<-t.done
	return true
}

func (s *Scheduler) Running(activationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[activationID]
	return ok
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Resume запускает мониторы всех активных активаций и возвращает средства по неуспешным активациям,
// возврат по которым не был завершен. Вызывается при старте приложения.
func (s *Scheduler) Resume(ctx context.Context) error {
	var errs []error

	listCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	active, err := s.svs.ListActive(listCtx)
	cancel()
	if err != nil {
		errs = append(errs, fmt.Errorf("resume monitors: %w", err))
	}
	for _, act := range active {
		s.Start(act.ID)
	}

	listCtx, cancel = context.WithTimeout(ctx, defaultServiceTimeout)
	pending, err := s.svs.ListPendingRefunds(listCtx)
	cancel()
	if err != nil {
		errs = append(errs, fmt.Errorf("resume refunds: %w", err))
	}
	for _, act := range pending {
		if settleErr := s.settle(ctx, &act); settleErr != nil {
			errs = append(errs, settleErr)
		}
	}

	s.l.WithFields(logrus.Fields{
		"monitors":       len(active),
		"pendingRefunds": len(pending),
	}).Info("resumed")
	return errors.Join(errs...)
}

// Run восстанавливает мониторы и работает до отмены контекста, после чего останавливает все мониторы.
func (s *Scheduler) Run(ctx context.Context) {
	s.l.WithFields(logrus.Fields{
		"pollInterval": s.pollInterval,
		"maxMonitor":   s.policy.MaxMonitor,
	}).Info("Starting")

	if err := s.Resume(ctx); err != nil {
		s.l.WithError(err).Error("resume")
	}
	<-ctx.Done()
	s.l.Info("Got stop signal, exiting...")
	s.Shutdown()
}

// Shutdown отменяет все мониторы и ждет их завершения. После Shutdown Start ничего не делает.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for _, t := range s.tasks {
		t.cancel()
	}
	s.mu.Unlock()

	s.baseCancel()
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, activationID string, t *task) {
	metrics.ActiveMonitors.Inc()
	defer func() {
		s.mu.Lock()
		if s.tasks[activationID] == t {
			delete(s.tasks, activationID)
		}
		s.mu.Unlock()

		metrics.ActiveMonitors.Dec()
		t.cancel()
		close(t.done)
		s.wg.Done()
	}()

	l := s.l.WithField("activationID", activationID)
	l.Debug("monitor started")
	for {
		select {
		case <-ctx.Done():
			l.Debug("monitor cancelled")
			return
		case <-time.After(s.pollInterval):
		}
		if s.step(ctx, l, activationID) {
			l.Debug("monitor finished")
			return
		}
	}
}

// step одна итерация монитора. Возвращает true, если мониторинг активации закончен.
func (s *Scheduler) step(ctx context.Context, l *logrus.Entry, activationID string) bool {
	getCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	act, err := s.svs.GetActivation(getCtx, activationID)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			l.Warn("activation not found, stopping")
			return true
		}
		l.WithError(err).Error("get activation")
		return false
	}

	if act.Status != domain.ActivationStatusActive {
		if !act.NeedsRefund() {
			return true
		}
		if settleErr := s.settle(ctx, act); settleErr != nil {
			l.WithError(settleErr).Error("settle refund")
			return false
		}
		return true
	}

	if s.policy.Expired(act.CreatedAt, s.now()) {
		return s.resolve(ctx, l, act, lifecycle.EventTimeout, "", nil)
	}

	status, err := s.client.PollStatus(ctx, activationID)
	if err != nil {
		if ctx.Err() == nil {
			l.WithError(err).Warn("poll status")
		}
		return false
	}

	switch st := status.(type) {
	case provider.Wait:
		return false
	case provider.OTP:
		return s.resolve(ctx, l, act, lifecycle.EventCodeReceived, st.Code, notify.Params{notify.ParamOTP: st.Code})
	case provider.Cancelled:
		return s.resolve(ctx, l, act, lifecycle.EventProviderCancelled, "", nil)
	case provider.Failure:
		return s.resolve(ctx, l, act, lifecycle.EventProviderError, "", notify.Params{
			notify.ParamReason:    st.Reason,
			notify.ParamErrorKind: string(st.Kind()),
		})
	default:
		l.WithField("status", fmt.Sprintf("%T", status)).Warn("unexpected status")
		return false
	}
}

// resolve переводит активацию в итоговый статус. После отмены ctx статус не пишется.
func (s *Scheduler) resolve(
	ctx context.Context,
	l *logrus.Entry,
	act *domain.Activation,
	ev lifecycle.Event,
	otpCode string,
	params notify.Params,
) bool {
	if ctx.Err() != nil {
		return true
	}

	svcCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	res, err := s.svs.Resolve(svcCtx, act.ID, ev, otpCode)
	cancel()
	if err != nil {
		l.WithError(err).WithField("event", ev).Error("resolve activation")
		if res == nil || !res.Changed {
			return false
		}
		// статус записан, возврат повторится на следующей итерации.
		s.announce(ctx, res.Activation, ev, params, nil)
		return false
	}
	if !res.Changed {
		return true
	}

	s.announce(ctx, res.Activation, ev, params, res.Refund)
	return true
}

// announce сообщает об итоговом статусе, записанном этим монитором. Для полученного кода провайдер
// получает статус "done".
func (s *Scheduler) announce(
	ctx context.Context,
	act *domain.Activation,
	ev lifecycle.Event,
	params notify.Params,
	refund *domain.Refund,
) {
	if ev == lifecycle.EventCodeReceived {
		s.client.SetStatus(ctx, act.ID, provider.StatusCodeComplete)
	}
	s.emit(ctx, act, resolutionKey(ev, refund), withRefund(params, act.ID, refund))
}

func (s *Scheduler) settle(ctx context.Context, act *domain.Activation) error {
	svcCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	refund, err := s.svs.SettleRefund(svcCtx, act.ID)
	if err != nil {
		return fmt.Errorf("settle refund %s: %w", act.ID, err)
	}
	if refund != nil {
		s.emit(ctx, act, notify.KeyRefundDone, withRefund(nil, act.ID, refund))
	}
	return nil
}

func (s *Scheduler) emit(ctx context.Context, act *domain.Activation, key string, params notify.Params) {
	err := s.notifier.Emit(context.WithoutCancel(ctx), notify.Notification{
		UserID:    act.UserID,
		ChatID:    act.ChatID,
		Key:       key,
		Params:    params,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.l.WithError(err).WithField("key", key).Warn("emit notification")
	}
}

func resolutionKey(ev lifecycle.Event, refund *domain.Refund) string {
	switch ev {
	case lifecycle.EventCodeReceived:
		return notify.KeyOTP
	case lifecycle.EventTimeout:
		if refund != nil {
			return notify.KeyExpiredRefund
		}
		return notify.KeyExpired
	default:
		return notify.KeyCancelled
	}
}

func withRefund(params notify.Params, activationID string, refund *domain.Refund) notify.Params {
	out := notify.Params{notify.ParamActivationID: activationID}
	for k, v := range params {
		out[k] = v
	}
	if refund != nil {
		out[notify.ParamAmount] = refund.Amount.String()
	}
	return out
}
