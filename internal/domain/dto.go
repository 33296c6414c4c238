package domain

type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleUser    RoleType = "user"
	RoleSuper   RoleType = "super_user"
	RolePending RoleType = "pending"
	RoleBlocked RoleType = "blocked"
)

// ParseRole приводит произвольную строку к роли. Неизвестные значения считаются RolePending.
func ParseRole(s string) RoleType {
	switch r := RoleType(s); r {
	case RoleAdmin, RoleUser, RoleSuper, RolePending, RoleBlocked:
		return r
	default:
		return RolePending
	}
}

// IsApproved роль допущена к покупкам.
func (r RoleType) IsApproved() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleSuper
}

// IsFunded покупки роли оплачиваются с баланса.
func (r RoleType) IsFunded() bool {
	return r == RoleUser || r == RoleSuper
}

// PaysMarkup к цене роли применяется наценка.
func (r RoleType) PaysMarkup() bool {
	return r == RoleUser
}

type ActivationStatusType string

const (
	ActivationStatusActive      ActivationStatusType = "active"
	ActivationStatusOTPReceived ActivationStatusType = "otp_received"
	ActivationStatusCancelled   ActivationStatusType = "cancelled"
	ActivationStatusExpired     ActivationStatusType = "expired"
	ActivationStatusError       ActivationStatusType = "error"
)

// RefundableStatuses терминальные статусы неуспешной доставки кода.
var RefundableStatuses = []ActivationStatusType{
	ActivationStatusCancelled,
	ActivationStatusExpired,
	ActivationStatusError,
}

func (s ActivationStatusType) IsTerminal() bool {
	switch s {
	case ActivationStatusOTPReceived, ActivationStatusCancelled, ActivationStatusExpired, ActivationStatusError:
		return true
	default:
		return false
	}
}

func (s ActivationStatusType) IsRefundable() bool {
	switch s {
	case ActivationStatusCancelled, ActivationStatusExpired, ActivationStatusError:
		return true
	default:
		return false
	}
}

type DepositStatusType string

const (
	DepositStatusAwaitingProof DepositStatusType = "awaiting_proof"
	DepositStatusPending       DepositStatusType = "pending"
	DepositStatusApproved      DepositStatusType = "approved"
	DepositStatusRejected      DepositStatusType = "rejected"
)

// IsOpen депозит еще можно рассмотреть.
func (s DepositStatusType) IsOpen() bool {
	return s == DepositStatusAwaitingProof || s == DepositStatusPending
}
