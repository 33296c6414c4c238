package provider

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable все эндпоинты провайдера исчерпаны.
var ErrProviderUnavailable = errors.New("provider unavailable")

type ErrorKind string

const (
	KindBadKey            ErrorKind = "bad_key"
	KindBadAction         ErrorKind = "bad_action"
	KindBadService        ErrorKind = "bad_service"
	KindBadCountry        ErrorKind = "bad_country"
	KindBadStatus         ErrorKind = "bad_status"
	KindNoBalance         ErrorKind = "no_balance"
	KindNoActivation      ErrorKind = "no_activation"
	KindEarlyCancelDenied ErrorKind = "early_cancel_denied"
	KindGeneric           ErrorKind = "generic_fail"
)

var tokenKinds = map[string]ErrorKind{
	"BAD_KEY":             KindBadKey,
	"BAD_ACTION":          KindBadAction,
	"BAD_SERVICE":         KindBadService,
	"BAD_COUNTRY":         KindBadCountry,
	"BAD_STATUS":          KindBadStatus,
	"NO_BALANCE":          KindNoBalance,
	"NO_ACTIVATION":       KindNoActivation,
	"EARLY_CANCEL_DENIED": KindEarlyCancelDenied,
}

// KindOf возвращает вид ошибки для токена провайдера. Неизвестные токены дают KindGeneric.
func KindOf(token string) ErrorKind {
	if kind, ok := tokenKinds[token]; ok {
		return kind
	}
	return KindGeneric
}

// RejectedError явный отказ провайдера. Такие ответы не повторяются.
type RejectedError struct {
	Kind  ErrorKind
	Token string
}

func NewRejectedError(token string) *RejectedError {
	return &RejectedError{Kind: KindOf(token), Token: token}
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("provider rejected request: %s (%s)", e.Kind, e.Token)
}

type StatusCodeError struct {
	Code int
}

func NewStatusCodeError(code int) *StatusCodeError {
	return &StatusCodeError{Code: code}
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("Unexpected status code %d", e.Code)
}
