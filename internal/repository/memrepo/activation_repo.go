package memrepo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

type ActivationRepository struct {
	conn *Conn
}

func NewActivationRepository(conn *Conn) *ActivationRepository {
	return &ActivationRepository{conn: conn}
}

func (r *ActivationRepository) CreateActivation(
	_ context.Context,
	args repoargs.CreateActivation,
) (*domain.Activation, error) {
	defer r.conn.lock()()
	s := r.conn.store
	if _, ok := s.activations[args.ActivationID]; ok {
		return nil, fmt.Errorf("[repository/CreateActivation %s] %w", args.ActivationID, domain.ErrDuplicateKey)
	}
	now := s.now()
	a := domain.Activation{
		ID:           args.ActivationID,
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       args.UserID,
		ChatID:       args.ChatID,
		ServiceCode:  args.ServiceCode,
		CountryCode:  args.CountryCode,
		ProviderID:   args.ProviderID,
		Phone:        args.Phone,
		Status:       domain.ActivationStatusActive,
		BasePrice:    args.BasePrice,
		ChargedPrice: args.ChargedPrice,
		RefundAmount: decimal.Zero,
	}
	s.activations[a.ID] = a
	return &a, nil
}

func (r *ActivationRepository) GetActivation(_ context.Context, activationID string) (*domain.Activation, error) {
	defer r.conn.lock()()
	a, ok := r.conn.store.activations[activationID]
	if !ok {
		return nil, notFound("GetActivation", activationID)
	}
	return &a, nil
}

func (r *ActivationRepository) SetStatus(
	_ context.Context,
	activationID string,
	status domain.ActivationStatusType,
	otpCode string,
) (bool, error) {
	defer r.conn.lock()()
	s := r.conn.store
	a, ok := s.activations[activationID]
	if !ok {
		return false, notFound("SetStatus", activationID)
	}
	if a.Status != domain.ActivationStatusActive {
		return false, nil
	}
	a.Status = status
	if otpCode != "" {
		a.OTPCode = otpCode
	}
	a.UpdatedAt = s.now()
	s.activations[activationID] = a
	return true, nil
}

func (r *ActivationRepository) ListActive(_ context.Context) ([]domain.Activation, error) {
	return r.filter(func(a domain.Activation) bool { return a.Status == domain.ActivationStatusActive }, 0, false), nil
}

func (r *ActivationRepository) ListPendingRefunds(_ context.Context) ([]domain.Activation, error) {
	return r.filter(func(a domain.Activation) bool { return a.NeedsRefund() }, 0, false), nil
}

func (r *ActivationRepository) ListByUser(_ context.Context, userID int64, limit uint) ([]domain.Activation, error) {
	return r.filter(func(a domain.Activation) bool { return a.UserID == userID }, limit, true), nil
}

// RefundIfNeeded помечает активацию возвращенной и зачисляет charged_price владельцу под одним
// мьютексом хранилища.
func (r *ActivationRepository) RefundIfNeeded(_ context.Context, activationID string) (*domain.Refund, error) {
	defer r.conn.lock()()
	s := r.conn.store
	a, ok := s.activations[activationID]
	if !ok {
		return nil, notFound("RefundIfNeeded", activationID)
	}
	if !a.NeedsRefund() {
		return nil, nil //nolint:nilnil
	}

	now := s.now()
	a.Refunded = true
	a.RefundAmount = a.ChargedPrice
	a.UpdatedAt = now
	s.activations[activationID] = a

	if u, found := s.users[a.UserID]; found {
		u.Balance = u.Balance.Add(a.ChargedPrice)
		u.UpdatedAt = now
		s.users[a.UserID] = u
	}
	return &domain.Refund{ActivationID: a.ID, UserID: a.UserID, Amount: a.ChargedPrice}, nil
}

func (r *ActivationRepository) filter(keep func(domain.Activation) bool, limit uint, newestFirst bool) []domain.Activation {
	defer r.conn.lock()()
	var out []domain.Activation
	for _, a := range r.conn.store.activations {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.Activation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if newestFirst {
		slices.Reverse(out)
	}
	if limit > 0 && uint(len(out)) > limit {
		out = out[:limit]
	}
	return out
}
