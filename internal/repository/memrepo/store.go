// Package memrepo хранилище в памяти процесса. Используется для локального запуска и тестов.
package memrepo

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/google/uuid"
)

type Store struct {
	mu            sync.Mutex
	users         map[int64]domain.User
	activations   map[string]domain.Activation
	deposits      map[int64]domain.Deposit
	intents       map[uuid.UUID]domain.PurchaseIntent
	settings      map[string]string
	nextDepositID int64
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int64]domain.User),
		activations: make(map[string]domain.Activation),
		deposits:    make(map[int64]domain.Deposit),
		intents:     make(map[uuid.UUID]domain.PurchaseIntent),
		settings:    make(map[string]string),
		now:         time.Now,
	}
}

// SetClock подменяет источник времени для created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) *Store {
	s.now = now
	return s
}

type snapshot struct {
	users         map[int64]domain.User
	activations   map[string]domain.Activation
	deposits      map[int64]domain.Deposit
	intents       map[uuid.UUID]domain.PurchaseIntent
	settings      map[string]string
	nextDepositID int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:         maps.Clone(s.users),
		activations:   maps.Clone(s.activations),
		deposits:      maps.Clone(s.deposits),
		intents:       maps.Clone(s.intents),
		settings:      maps.Clone(s.settings),
		nextDepositID: s.nextDepositID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.activations = snap.activations
	s.deposits = snap.deposits
	s.intents = snap.intents
	s.settings = snap.settings
	s.nextDepositID = snap.nextDepositID
}

// Conn соединение с хранилищем. Вне транзакции каждая операция берет мьютекс хранилища сама,
// внутри транзакции мьютекс уже удерживает UnitOfWork.Do.
type Conn struct {
	store *Store
	inTx  bool
}

func (c *Conn) lock() func() {
	if c.inTx {
		return func() {}
	}
	c.store.mu.Lock()
	return c.store.mu.Unlock
}

// UnitOfWork реализация uow.UOW для Store. Транзакции выполняются последовательно, ошибка fn
// восстанавливает состояние на момент начала транзакции.
type UnitOfWork struct {
	uow.Registry[*Conn]
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{
		Registry: uow.NewRegistry[*Conn](),
		store:    store,
	}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(ctx, u.Bind(&Conn{store: u.store, inTx: true})); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *UnitOfWork) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	return u.Build(name, &Conn{store: u.store})
}

// Register регистрирует все репозитории хранилища в u.
func Register(u *UnitOfWork) error {
	factories := map[repoargs.RepositoryName]uow.RepositoryFactory[*Conn]{
		repoargs.UserRepoName:       func(c *Conn) uow.Repository { return NewUserRepository(c) },
		repoargs.ActivationRepoName: func(c *Conn) uow.Repository { return NewActivationRepository(c) },
		repoargs.DepositRepoName:    func(c *Conn) uow.Repository { return NewDepositRepository(c) },
		repoargs.IntentRepoName:     func(c *Conn) uow.Repository { return NewIntentRepository(c) },
		repoargs.SettingsRepoName:   func(c *Conn) uow.Repository { return NewSettingsRepository(c) },
	}
	for name, factory := range factories {
		if err := u.Register(uow.RepositoryName(name), factory); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

func notFound(what string, key any) error {
	return fmt.Errorf("[repository/%s %v] %w", what, key, domain.ErrRecordNotFound)
}
