package memrepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

type DepositRepository struct {
	conn *Conn
}

func NewDepositRepository(conn *Conn) *DepositRepository {
	return &DepositRepository{conn: conn}
}

func (r *DepositRepository) CreateDeposit(_ context.Context, userID int64, amount decimal.Decimal) (*domain.Deposit, error) {
	defer r.conn.lock()()
	s := r.conn.store
	s.nextDepositID++
	now := s.now()
	d := domain.Deposit{
		ID:        s.nextDepositID,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		Amount:    amount,
		Status:    domain.DepositStatusAwaitingProof,
	}
	s.deposits[d.ID] = d
	return &d, nil
}

func (r *DepositRepository) GetDeposit(_ context.Context, depositID int64) (*domain.Deposit, error) {
	defer r.conn.lock()()
	d, ok := r.conn.store.deposits[depositID]
	if !ok {
		return nil, notFound("GetDeposit", depositID)
	}
	return &d, nil
}

func (r *DepositRepository) LatestOpenForUser(_ context.Context, userID int64) (*domain.Deposit, error) {
	defer r.conn.lock()()
	var latest *domain.Deposit
	for _, d := range r.conn.store.deposits {
		if d.UserID != userID || !d.Status.IsOpen() {
			continue
		}
		if latest == nil || d.ID > latest.ID {
			latest = &d
		}
	}
	if latest == nil {
		return nil, notFound("LatestOpenForUser", userID)
	}
	return latest, nil
}

func (r *DepositRepository) SetProof(_ context.Context, depositID int64, txID, proofRef string) (*domain.Deposit, error) {
	defer r.conn.lock()()
	s := r.conn.store
	d, ok := s.deposits[depositID]
	if !ok {
		return nil, notFound("SetProof", depositID)
	}
	if !d.Status.IsOpen() {
		return nil, fmt.Errorf("[repository/SetProof %d] %w", depositID, domain.ErrDepositClosed)
	}
	if txID != "" {
		d.TxID = txID
	}
	if proofRef != "" {
		d.ProofRef = proofRef
	}
	d.Status = domain.DepositStatusPending
	d.UpdatedAt = s.now()
	s.deposits[depositID] = d
	return &d, nil
}

func (r *DepositRepository) Review(_ context.Context, args repoargs.ReviewDeposit) (*domain.Deposit, error) {
	defer r.conn.lock()()
	s := r.conn.store
	d, ok := s.deposits[args.DepositID]
	if !ok {
		return nil, notFound("Review", args.DepositID)
	}
	if !d.Status.IsOpen() {
		return nil, fmt.Errorf("[repository/Review %d] %w", args.DepositID, domain.ErrDepositClosed)
	}
	now := s.now()
	d.Status = args.Status
	d.ReviewedBy = args.ReviewedBy
	d.ReviewedAt = &now
	d.Note = args.Note
	d.UpdatedAt = now
	s.deposits[args.DepositID] = d
	return &d, nil
}

func (r *DepositRepository) ListByStatus(
	_ context.Context,
	status domain.DepositStatusType,
	limit uint,
) ([]domain.Deposit, error) {
	defer r.conn.lock()()
	var out []domain.Deposit
	for _, d := range r.conn.store.deposits {
		if d.Status == status {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b domain.Deposit) int { return cmp.Compare(a.ID, b.ID) })
	if limit > 0 && uint(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
