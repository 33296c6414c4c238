package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const unknownToken = "UNKNOWN"

// Payload ответ провайдера: либо разобранный JSON, либо текстовая строка.
type Payload struct {
	text   string
	json   any
	isJSON bool
}

// ParsePayload разбирает тело ответа. JSON распознается только по первому символу `{` или `[`, при ошибке
// разбора тело остается текстом. Числа сохраняются как json.Number.
func ParsePayload(body []byte) Payload {
	t := strings.TrimSpace(string(body))
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		dec := json.NewDecoder(bytes.NewReader([]byte(t)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err == nil {
			return Payload{json: v, isJSON: true}
		}
	}
	return Payload{text: t}
}

// TextPayload создает текстовый ответ.
func TextPayload(s string) Payload {
	return Payload{text: s}
}

// Value возвращает JSON значение или строку.
func (p Payload) Value() any {
	if p.isJSON {
		return p.json
	}
	return p.text
}

// IsEmpty ответ не содержит данных.
func (p Payload) IsEmpty() bool {
	if p.isJSON {
		switch v := p.json.(type) {
		case map[string]any:
			return len(v) == 0
		case []any:
			return len(v) == 0
		default:
			return v == nil
		}
	}
	return p.text == ""
}

func (p Payload) object() (map[string]any, bool) {
	if !p.isJSON {
		return nil, false
	}
	m, ok := p.json.(map[string]any)
	return m, ok
}

// Status закрытый набор результатов опроса статуса активации: Wait, OTP, Cancelled, Failure.
type Status interface {
	isStatus()
}

// Wait код еще не пришел.
type Wait struct{}

// OTP провайдер получил код.
type OTP struct {
	Code string
}

// Cancelled активация отменена на стороне провайдера.
type Cancelled struct{}

// Failure провайдер вернул ошибку по активации.
type Failure struct {
	Reason string
}

func (Wait) isStatus()      {}
func (OTP) isStatus()       {}
func (Cancelled) isStatus() {}
func (Failure) isStatus()   {}

// Kind вид ошибки провайдера для Reason.
func (f Failure) Kind() ErrorKind {
	return KindOf(f.Reason)
}

// Number выданный провайдером номер.
type Number struct {
	ActivationID string
	Phone        string
}

// DecodeStatus разбирает ответ getStatus.
func DecodeStatus(p Payload) Status {
	if obj, ok := p.object(); ok {
		switch st := strings.ToUpper(stringOf(obj["status"])); st {
		case "OK", "SUCCESS":
			code := firstString(obj, "code", "otp")
			if code == "" {
				return Wait{}
			}
			return OTP{Code: code}
		case "WAIT", "STATUS_WAIT_CODE":
			return Wait{}
		case "CANCEL", "STATUS_CANCEL":
			return Cancelled{}
		default:
			return Failure{Reason: errorToken(obj)}
		}
	}
	if p.isJSON {
		return Failure{Reason: unknownToken}
	}

	switch t := p.text; {
	case strings.HasPrefix(t, "STATUS_OK:"):
		code := strings.TrimSpace(strings.SplitN(t, ":", 2)[1])
		if code == "" {
			return Wait{}
		}
		return OTP{Code: code}
	case strings.HasPrefix(t, "STATUS_WAIT_RETRY:"), t == "STATUS_WAIT_CODE", t == "STATUS_WAIT_RESEND":
		return Wait{}
	case t == "STATUS_CANCEL":
		return Cancelled{}
	case t == "":
		return Failure{Reason: unknownToken}
	default:
		return Failure{Reason: t}
	}
}

// DecodeNumber разбирает ответ getNumber. Любой ответ без номера превращается в *RejectedError.
func DecodeNumber(p Payload) (*Number, error) {
	if obj, ok := p.object(); ok {
		aid := firstString(obj, "activationId", "id", "activation_id")
		phone := firstString(obj, "phoneNumber", "phone", "number")
		if aid != "" && phone != "" {
			return &Number{ActivationID: aid, Phone: NormalizePhone(phone)}, nil
		}
		return nil, NewRejectedError(errorToken(obj))
	}
	if p.isJSON {
		return nil, NewRejectedError(unknownToken)
	}

	if strings.HasPrefix(p.text, "ACCESS_NUMBER:") {
		parts := strings.SplitN(p.text, ":", 3)
		if len(parts) == 3 && parts[1] != "" && parts[2] != "" {
			return &Number{ActivationID: parts[1], Phone: NormalizePhone(parts[2])}, nil
		}
	}
	if p.text == "" {
		return nil, NewRejectedError(unknownToken)
	}
	return nil, NewRejectedError(p.text)
}

// DecodeBalance разбирает ответ getBalance.
func DecodeBalance(p Payload) (decimal.Decimal, error) {
	var raw string
	switch obj, ok := p.object(); {
	case ok:
		raw = firstString(obj, "balance", "amount", "value")
		if raw == "" {
			return decimal.Zero, NewRejectedError(errorToken(obj))
		}
	case p.isJSON:
		return decimal.Zero, NewRejectedError(unknownToken)
	case strings.HasPrefix(p.text, "ACCESS_BALANCE:"):
		raw = strings.SplitN(p.text, ":", 2)[1]
	case p.text == "":
		return decimal.Zero, NewRejectedError(unknownToken)
	default:
		return decimal.Zero, NewRejectedError(p.text)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return balance, nil
}

var (
	nonDigits      = regexp.MustCompile(`\D`)
	nonPhoneSymbol = regexp.MustCompile(`[^\d+]`)
)

// NormalizePhone приводит номер к виду +<цифры>. Пустая или бесцифровая строка возвращается как есть.
func NormalizePhone(phone string) string {
	raw := strings.TrimSpace(phone)
	cleaned := strings.TrimPrefix(nonPhoneSymbol.ReplaceAllString(raw, ""), "00")
	digits := nonDigits.ReplaceAllString(cleaned, "")
	if digits == "" {
		return raw
	}
	return "+" + digits
}

func errorToken(obj map[string]any) string {
	if token := firstString(obj, "error", "message"); token != "" {
		return token
	}
	return unknownToken
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringOf(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
