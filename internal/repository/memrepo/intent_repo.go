package memrepo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/google/uuid"
)

type IntentRepository struct {
	conn *Conn
}

func NewIntentRepository(conn *Conn) *IntentRepository {
	return &IntentRepository{conn: conn}
}

func (r *IntentRepository) CreateIntent(_ context.Context, args repoargs.CreateIntent) (*domain.PurchaseIntent, error) {
	defer r.conn.lock()()
	s := r.conn.store
	if _, ok := s.intents[args.ID]; ok {
		return nil, fmt.Errorf("[repository/CreateIntent %s] %w", args.ID, domain.ErrDuplicateKey)
	}
	intent := domain.PurchaseIntent{
		ID:        args.ID,
		CreatedAt: s.now(),
		UserID:    args.UserID,
		Amount:    args.Amount,
	}
	s.intents[args.ID] = intent
	return &intent, nil
}

func (r *IntentRepository) DeleteIntent(_ context.Context, id uuid.UUID) (bool, error) {
	defer r.conn.lock()()
	if _, ok := r.conn.store.intents[id]; !ok {
		return false, nil
	}
	delete(r.conn.store.intents, id)
	return true, nil
}

func (r *IntentRepository) ListStale(_ context.Context, before time.Time, limit uint) ([]domain.PurchaseIntent, error) {
	defer r.conn.lock()()
	var out []domain.PurchaseIntent
	for _, intent := range r.conn.store.intents {
		if intent.CreatedAt.Before(before) {
			out = append(out, intent)
		}
	}
	slices.SortFunc(out, func(a, b domain.PurchaseIntent) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if limit > 0 && uint(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
