// Package notify намерения уведомлений для транспорта, который их отображает и доставляет пользователю.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Ключи сообщений.
const (
	KeyNumberIssued     = "number"
	KeyOTP              = "otp"
	KeyExpired          = "otp_timeout"
	KeyExpiredRefund    = "otp_timeout_refund"
	KeyCancelled        = "cancelled"
	KeyRefundDone       = "refund_done"
	KeyDepositApproved  = "deposit_approved_user"
	KeyDepositRejected  = "deposit_rejected_user"
	KeyDepositSubmitted = "deposit_submitted"
)

// Ключи параметров.
const (
	ParamActivationID = "activation_id"
	ParamPhone        = "phone"
	ParamOTP          = "otp"
	ParamAmount       = "amount"
	ParamReason       = "reason"
	ParamErrorKind    = "error_kind"
	ParamCountry      = "country"
	ParamProvider     = "provider"
	ParamDepositID    = "deposit_id"
)

type Params map[string]string

type Notification struct {
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id,omitempty"`
	Key       string    `json:"key"`
	Params    Params    `json:"params,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Emitter interface {
	Emit(ctx context.Context, n Notification) error
}

// LogEmitter пишет уведомления в лог. Используется, когда внешний приемник не настроен.
type LogEmitter struct {
	l *logrus.Entry
}

func NewLogEmitter(l *logrus.Logger) *LogEmitter {
	return &LogEmitter{
		l: l.WithFields(logrus.Fields{
			"component": "notify",
			"module":    "log",
		}),
	}
}

func (e *LogEmitter) Emit(_ context.Context, n Notification) error {
	e.l.WithFields(logrus.Fields{
		"userID": n.UserID,
		"chatID": n.ChatID,
		"key":    n.Key,
		"params": n.Params,
	}).Info("notification")
	return nil
}

// Fanout отправляет уведомление во все приемники. Ошибки приемников объединяются.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, n Notification) error {
	var errs []error
	for _, e := range f {
		if err := e.Emit(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
