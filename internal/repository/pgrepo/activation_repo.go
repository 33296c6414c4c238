package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

const activationColumns = `id, created_at, updated_at, user_id, chat_id, service_code, country_code, provider_id,
	phone, status, otp_code, base_price, charged_price, refunded, refund_amount`

type ActivationRepository struct {
	conn uow.DBTX
}

func NewActivationRepository(conn uow.DBTX) *ActivationRepository {
	return &ActivationRepository{conn: conn}
}

func (a *ActivationRepository) CreateActivation(
	ctx context.Context,
	args repoargs.CreateActivation,
) (*domain.Activation, error) {
	row := a.conn.QueryRow(ctx, `
		INSERT INTO activations (id, user_id, chat_id, service_code, country_code, provider_id, phone,
			base_price, charged_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+activationColumns,
		args.ActivationID, args.UserID, args.ChatID, args.ServiceCode, args.CountryCode, args.ProviderID,
		args.Phone, args.BasePrice, args.ChargedPrice,
	)
	activation, err := scanActivation(row)
	if err != nil {
		return nil, convertErr(err, "CreateActivation %s", args.ActivationID)
	}
	return activation, nil
}

func (a *ActivationRepository) GetActivation(ctx context.Context, activationID string) (*domain.Activation, error) {
	row := a.conn.QueryRow(ctx, `SELECT `+activationColumns+` FROM activations WHERE id = $1`, activationID)
	activation, err := scanActivation(row)
	if err != nil {
		return nil, convertErr(err, "GetActivation %s", activationID)
	}
	return activation, nil
}

// SetStatus переводит активацию из active в status. Возвращает false, если активация уже не active.
func (a *ActivationRepository) SetStatus(
	ctx context.Context,
	activationID string,
	status domain.ActivationStatusType,
	otpCode string,
) (bool, error) {
	tag, err := a.conn.Exec(ctx, `
		UPDATE activations SET
			status     = $2,
			otp_code   = CASE WHEN $3::varchar <> '' THEN $3::varchar ELSE otp_code END,
			updated_at = now()
		WHERE id = $1 AND status = 'active'`,
		activationID, string(status), otpCode,
	)
	if err != nil {
		return false, convertErr(err, "SetStatus %s", activationID)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	if err = a.exists(ctx, activationID); err != nil {
		return false, convertErr(err, "SetStatus %s", activationID)
	}
	return false, nil
}

func (a *ActivationRepository) ListActive(ctx context.Context) ([]domain.Activation, error) {
	return a.list(ctx, "ListActive",
		`SELECT `+activationColumns+` FROM activations WHERE status = 'active' ORDER BY created_at, id`)
}

func (a *ActivationRepository) ListPendingRefunds(ctx context.Context) ([]domain.Activation, error) {
	return a.list(ctx, "ListPendingRefunds", `
		SELECT `+activationColumns+` FROM activations
		WHERE refunded = FALSE AND charged_price > 0 AND status = ANY($1)
		ORDER BY created_at, id`,
		refundableStatuses(),
	)
}

func (a *ActivationRepository) ListByUser(ctx context.Context, userID int64, limit uint) ([]domain.Activation, error) {
	return a.list(ctx, "ListByUser", `
		SELECT `+activationColumns+` FROM activations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2::bigint, 0)`,
		userID, int64(limit),
	)
}

// RefundIfNeeded одним запросом помечает активацию возвращенной и зачисляет charged_price владельцу.
// Условие refunded = FALSE перепроверяется после блокировки строки, поэтому параллельный второй вызов
// ничего не зачислит. Если возврат не нужен, возвращает nil без ошибки.
func (a *ActivationRepository) RefundIfNeeded(ctx context.Context, activationID string) (*domain.Refund, error) {
	var refund domain.Refund
	err := a.conn.QueryRow(ctx, `
		WITH refunded AS (
			UPDATE activations SET refunded = TRUE, refund_amount = charged_price, updated_at = now()
			WHERE id = $1 AND refunded = FALSE AND charged_price > 0 AND status = ANY($2)
			RETURNING id, user_id, charged_price
		), credited AS (
			UPDATE users SET balance = users.balance + refunded.charged_price, updated_at = now()
			FROM refunded
			WHERE users.id = refunded.user_id
			RETURNING users.id
		)
		SELECT id, user_id, charged_price FROM refunded`,
		activationID, refundableStatuses(),
	).Scan(&refund.ActivationID, &refund.UserID, &refund.Amount)
	if err == nil {
		return &refund, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "RefundIfNeeded %s", activationID)
	}
	if err = a.exists(ctx, activationID); err != nil {
		return nil, convertErr(err, "RefundIfNeeded %s", activationID)
	}
	return nil, nil //nolint:nilnil
}

func (a *ActivationRepository) exists(ctx context.Context, activationID string) error {
	var one int
	return a.conn.QueryRow(ctx, `SELECT 1 FROM activations WHERE id = $1`, activationID).Scan(&one) //nolint:wrapcheck
}

func (a *ActivationRepository) list(ctx context.Context, op string, sql string, args ...any) ([]domain.Activation, error) {
	rows, err := a.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, convertErr(err, op)
	}
	activations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Activation, error) {
		activation, scanErr := scanActivation(row)
		if scanErr != nil {
			return domain.Activation{}, scanErr
		}
		return *activation, nil
	})
	if err != nil {
		return nil, convertErr(err, op)
	}
	return activations, nil
}

func refundableStatuses() []string {
	statuses := make([]string, len(domain.RefundableStatuses))
	for i, s := range domain.RefundableStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func scanActivation(row pgx.Row) (*domain.Activation, error) {
	var (
		activation domain.Activation
		status     string
	)
	err := row.Scan(
		&activation.ID,
		&activation.CreatedAt,
		&activation.UpdatedAt,
		&activation.UserID,
		&activation.ChatID,
		&activation.ServiceCode,
		&activation.CountryCode,
		&activation.ProviderID,
		&activation.Phone,
		&status,
		&activation.OTPCode,
		&activation.BasePrice,
		&activation.ChargedPrice,
		&activation.Refunded,
		&activation.RefundAmount,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	activation.Status = domain.ActivationStatusType(status)
	return &activation, nil
}
