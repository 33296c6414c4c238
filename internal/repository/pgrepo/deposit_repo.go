package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

const depositColumns = `id, created_at, updated_at, user_id, amount, tx_id, proof_ref, status, reviewed_by,
	reviewed_at, note`

var openDepositStatuses = []string{
	string(domain.DepositStatusAwaitingProof),
	string(domain.DepositStatusPending),
}

type DepositRepository struct {
	conn uow.DBTX
}

func NewDepositRepository(conn uow.DBTX) *DepositRepository {
	return &DepositRepository{conn: conn}
}

func (d *DepositRepository) CreateDeposit(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		INSERT INTO deposits (user_id, amount, status) VALUES ($1, $2, $3)
		RETURNING `+depositColumns,
		userID, amount, string(domain.DepositStatusAwaitingProof),
	)
	dep, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "CreateDeposit user %d", userID)
	}
	return dep, nil
}

func (d *DepositRepository) GetDeposit(ctx context.Context, depositID int64) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, depositID)
	dep, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "GetDeposit %d", depositID)
	}
	return dep, nil
}

func (d *DepositRepository) LatestOpenForUser(ctx context.Context, userID int64) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		SELECT `+depositColumns+` FROM deposits
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY id DESC
		LIMIT 1`,
		userID, openDepositStatuses,
	)
	dep, err := scanDeposit(row)
	if err != nil {
		return nil, convertErr(err, "LatestOpenForUser %d", userID)
	}
	return dep, nil
}

// SetProof сохраняет непустые поля подтверждения и переводит заявку в pending.
// Для закрытой заявки возвращает domain.ErrDepositClosed.
func (d *DepositRepository) SetProof(
	ctx context.Context,
	depositID int64,
	txID, proofRef string,
) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		UPDATE deposits SET
			tx_id      = COALESCE(NULLIF($2::varchar, ''), tx_id),
			proof_ref  = COALESCE(NULLIF($3::varchar, ''), proof_ref),
			status     = $4,
			updated_at = now()
		WHERE id = $1 AND status = ANY($5)
		RETURNING `+depositColumns,
		depositID, txID, proofRef, string(domain.DepositStatusPending), openDepositStatuses,
	)
	return d.updated(ctx, row, "SetProof", depositID)
}

func (d *DepositRepository) Review(ctx context.Context, args repoargs.ReviewDeposit) (*domain.Deposit, error) {
	row := d.conn.QueryRow(ctx, `
		UPDATE deposits SET
			status      = $2,
			reviewed_by = $3,
			reviewed_at = now(),
			note        = $4,
			updated_at  = now()
		WHERE id = $1 AND status = ANY($5)
		RETURNING `+depositColumns,
		args.DepositID, string(args.Status), args.ReviewedBy, args.Note, openDepositStatuses,
	)
	return d.updated(ctx, row, "Review", args.DepositID)
}

func (d *DepositRepository) ListByStatus(
	ctx context.Context,
	status domain.DepositStatusType,
	limit uint,
) ([]domain.Deposit, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT `+depositColumns+` FROM deposits
		WHERE status = $1
		ORDER BY id
		LIMIT NULLIF($2::bigint, 0)`,
		string(status), int64(limit),
	)
	if err != nil {
		return nil, convertErr(err, "ListByStatus %s", status)
	}
	deps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Deposit, error) {
		dep, scanErr := scanDeposit(row)
		if scanErr != nil {
			return domain.Deposit{}, scanErr
		}
		return *dep, nil
	})
	if err != nil {
		return nil, convertErr(err, "ListByStatus %s", status)
	}
	return deps, nil
}

// updated разбирает результат условного UPDATE: отсутствие строки означает либо несуществующую,
// либо уже закрытую заявку.
func (d *DepositRepository) updated(ctx context.Context, row pgx.Row, op string, depositID int64) (*domain.Deposit, error) {
	dep, err := scanDeposit(row)
	if err == nil {
		return dep, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "%s %d", op, depositID)
	}
	if _, getErr := d.GetDeposit(ctx, depositID); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("[repository/%s %d] %w", op, depositID, domain.ErrDepositClosed)
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		dep    domain.Deposit
		status string
	)
	err := row.Scan(
		&dep.ID,
		&dep.CreatedAt,
		&dep.UpdatedAt,
		&dep.UserID,
		&dep.Amount,
		&dep.TxID,
		&dep.ProofRef,
		&status,
		&dep.ReviewedBy,
		&dep.ReviewedAt,
		&dep.Note,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	dep.Status = domain.DepositStatusType(status)
	return &dep, nil
}
