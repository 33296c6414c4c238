package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/fsdevblog/smsbroker/internal/repository/repoargs"
	"github.com/fsdevblog/smsbroker/pkg/uow"
)

const userColumns = `id, created_at, updated_at, chat_id, username, lang, role, balance, current_activation_id`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func (u *UserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "GetUser %d", userID)
	}
	return user, nil
}

// UpsertUser создает пользователя с ролью args.Role (pending если не задана). Для существующего
// пользователя обновляются только непустые контактные поля, роль и баланс не меняются.
func (u *UserRepository) UpsertUser(ctx context.Context, args repoargs.UpsertUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (id, chat_id, username, lang, role)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5::varchar, ''), 'pending'))
		ON CONFLICT (id) DO UPDATE SET
			chat_id    = CASE WHEN EXCLUDED.chat_id <> 0 THEN EXCLUDED.chat_id ELSE users.chat_id END,
			username   = COALESCE(NULLIF(EXCLUDED.username, ''), users.username),
			lang       = COALESCE(NULLIF(EXCLUDED.lang, ''), users.lang),
			updated_at = now()
		RETURNING `+userColumns,
		args.UserID, args.ChatID, args.Username, args.Lang, string(args.Role),
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "UpsertUser %d", args.UserID)
	}
	return user, nil
}

// AdjustBalance меняет баланс на delta одним UPDATE. При requireNonNegative строка не обновится, если
// баланс ушел бы в минус: тогда возвращается текущий баланс и domain.ErrInsufficientFunds.
func (u *UserRepository) AdjustBalance(
	ctx context.Context,
	userID int64,
	delta decimal.Decimal,
	requireNonNegative bool,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := u.conn.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2::numeric, updated_at = now()
		WHERE id = $1 AND (NOT $3::boolean OR balance + $2::numeric >= 0)
		RETURNING balance`,
		userID, delta, requireNonNegative,
	).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, convertErr(err, "AdjustBalance %d", userID)
	}

	if err = u.conn.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		return decimal.Zero, convertErr(err, "AdjustBalance %d", userID)
	}
	return balance, domain.ErrInsufficientFunds
}

func (u *UserRepository) SetRole(ctx context.Context, userID int64, role domain.RoleType) error {
	return u.exec(ctx, "SetRole", userID,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, userID, string(role))
}

func (u *UserRepository) SetCurrentActivation(ctx context.Context, userID int64, activationID string) error {
	return u.exec(ctx, "SetCurrentActivation", userID,
		`UPDATE users SET current_activation_id = $2, updated_at = now() WHERE id = $1`, userID, activationID)
}

// ClearCurrentActivation сбрасывает текущую активацию, только если она равна activationID.
func (u *UserRepository) ClearCurrentActivation(ctx context.Context, userID int64, activationID string) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET current_activation_id = '', updated_at = now()
		WHERE id = $1 AND current_activation_id = $2`,
		userID, activationID,
	)
	return convertErr(err, "ClearCurrentActivation %d", userID)
}

func (u *UserRepository) exec(ctx context.Context, op string, userID int64, sql string, args ...any) error {
	tag, err := u.conn.Exec(ctx, sql, args...)
	if err != nil {
		return convertErr(err, "%s %d", op, userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "%s %d", op, userID)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.ChatID,
		&user.Username,
		&user.Lang,
		&role,
		&user.Balance,
		&user.CurrentActivationID,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	user.Role = domain.ParseRole(role)
	return &user, nil
}
