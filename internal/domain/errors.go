package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOwnerConflict     = errors.New("owner conflict")
	ErrRoleNotApproved   = errors.New("role not approved")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOTPReceived       = errors.New("otp already received")
	ErrActivationClosed  = errors.New("activation closed")

	ErrDepositClosed    = errors.New("deposit already reviewed")
	ErrDepositTooSmall  = errors.New("deposit amount too small")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// CancelLockedError отмена активации запрошена раньше окончания окна блокировки.
type CancelLockedError struct {
	Remaining time.Duration
}

func NewCancelLockedError(remaining time.Duration) error {
	return &CancelLockedError{Remaining: remaining}
}

func (e *CancelLockedError) Error() string {
	return fmt.Sprintf("cancellation locked for another %.f seconds", e.Remaining.Seconds())
}

// PurchaseFailedError провайдер не выдал номер. Списание к этому моменту уже возвращено.
type PurchaseFailedError struct {
	Reason string
	Err    error
}

func NewPurchaseFailedError(reason string, err error) error {
	return &PurchaseFailedError{Reason: reason, Err: err}
}

func (e *PurchaseFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("purchase failed: %s: %s", e.Reason, e.Err.Error())
	}
	return "purchase failed: " + e.Reason
}

func (e *PurchaseFailedError) Unwrap() error {
	return e.Err
}
