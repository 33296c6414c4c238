package memrepo

import (
	"context"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

type UserRepository struct {
	conn *Conn
}

func NewUserRepository(conn *Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

func (r *UserRepository) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	defer r.conn.lock()()
	u, ok := r.conn.store.users[userID]
	if !ok {
		return nil, notFound("GetUser", userID)
	}
	return &u, nil
}

// UpsertUser при существующем пользователе обновляет только непустые контактные поля.
func (r *UserRepository) UpsertUser(_ context.Context, args repoargs.UpsertUser) (*domain.User, error) {
	defer r.conn.lock()()
	s := r.conn.store
	now := s.now()

	u, ok := s.users[args.UserID]
	if !ok {
		role := args.Role
		if role == "" {
			role = domain.RolePending
		}
		u = domain.User{
			ID:        args.UserID,
			CreatedAt: now,
			Role:      role,
			Balance:   decimal.Zero,
		}
	}
	if args.ChatID != 0 {
		u.ChatID = args.ChatID
	}
	if args.Username != "" {
		u.Username = args.Username
	}
	if args.Lang != "" {
		u.Lang = args.Lang
	}
	u.UpdatedAt = now
	s.users[args.UserID] = u
	return &u, nil
}

func (r *UserRepository) AdjustBalance(
	_ context.Context,
	userID int64,
	delta decimal.Decimal,
	requireNonNegative bool,
) (decimal.Decimal, error) {
	defer r.conn.lock()()
	s := r.conn.store
	u, ok := s.users[userID]
	if !ok {
		return decimal.Zero, notFound("AdjustBalance", userID)
	}
	balance := u.Balance.Add(delta)
	if requireNonNegative && balance.IsNegative() {
		return u.Balance, domain.ErrInsufficientFunds
	}
	u.Balance = balance
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return balance, nil
}

func (r *UserRepository) SetRole(_ context.Context, userID int64, role domain.RoleType) error {
	defer r.conn.lock()()
	return r.update(userID, "SetRole", func(u *domain.User) { u.Role = role })
}

func (r *UserRepository) SetCurrentActivation(_ context.Context, userID int64, activationID string) error {
	defer r.conn.lock()()
	return r.update(userID, "SetCurrentActivation", func(u *domain.User) { u.CurrentActivationID = activationID })
}

func (r *UserRepository) ClearCurrentActivation(_ context.Context, userID int64, activationID string) error {
	defer r.conn.lock()()
	return r.update(userID, "ClearCurrentActivation", func(u *domain.User) {
		if u.CurrentActivationID == activationID {
			u.CurrentActivationID = ""
		}
	})
}

func (r *UserRepository) update(userID int64, op string, fn func(u *domain.User)) error {
	s := r.conn.store
	u, ok := s.users[userID]
	if !ok {
		return notFound(op, userID)
	}
	fn(&u)
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return nil
}
