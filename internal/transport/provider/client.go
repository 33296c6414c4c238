// Package provider клиент API провайдера SMS-активаций с переключением между эндпоинтами.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fsdevblog/smsbroker/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	ActionGetNumber    = "getNumber"
	ActionGetStatus    = "getStatus"
	ActionSetStatus    = "setStatus"
	ActionGetBalance   = "getBalance"
	ActionGetServices  = "getServicesList"
	ActionGetCountries = "getCountries"
)

// priceActions версии метода цен в порядке предпочтения.
var priceActions = []string{"getPricesV3", "getPricesV2", "getPrices"}

type StatusCode int

const (
	StatusCodeComplete StatusCode = 6
	StatusCodeCancel   StatusCode = 8
)

const (
	defaultCallTimeout         = 12 * time.Second
	defaultRetryBackoff        = 350 * time.Millisecond
	defaultAttemptsPerEndpoint = 2
	defaultRequestsPerSecond   = 10
	maxResponseSize            = 4 << 20
)

var knownMirrors = []string{
	"https://smsbower.app/web/stubs/handler_api.php",
	"https://smsbower.page/stubs/handler_api.php",
}

// BuildBaseURLs формирует упорядоченный список эндпоинтов: основной, известные зеркала и дополнительные
// адреса из конфигурации. Дубликаты и пустые значения отбрасываются.
func BuildBaseURLs(primary string, extras []string) []string {
	var out []string
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		for _, existing := range out {
			if existing == u {
				return
			}
		}
		out = append(out, u)
	}

	add(primary)
	for _, mirror := range knownMirrors {
		add(mirror)
	}
	for _, extra := range extras {
		add(extra)
	}
	return out
}

type PurchaseArgs struct {
	Service    string
	Country    string
	ProviderID string
	// MaxPrice фиксирует цену закупки. Нулевое значение не передается.
	MaxPrice decimal.Decimal
}

// HTTPClient клиент провайдера. Каждый запрос проходит через общий ограничитель частоты и ограничен
// собственным таймаутом.
type HTTPClient struct {
	apiKey      string
	baseURLs    []string
	httpClient  *http.Client
	limiter     *rate.Limiter
	attempts    int
	backoff     time.Duration
	callTimeout time.Duration
	l           *logrus.Entry
}

func New(apiKey string, baseURLs []string, l *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		apiKey:      apiKey,
		baseURLs:    baseURLs,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		attempts:    defaultAttemptsPerEndpoint,
		backoff:     defaultRetryBackoff,
		callTimeout: defaultCallTimeout,
		l: l.WithFields(logrus.Fields{
			"component": "provider",
			"module":    "client",
		}),
	}
}

// SetRateLimit устанавливает допустимое кол-во запросов в секунду ко всем эндпоинтам вместе.
func (c *HTTPClient) SetRateLimit(rps float64) *HTTPClient {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// SetBackoff устанавливает паузу между попытками.
func (c *HTTPClient) SetBackoff(backoff time.Duration) *HTTPClient {
	c.backoff = backoff
	return c
}

// SetCallTimeout устанавливает таймаут одного HTTP запроса.
func (c *HTTPClient) SetCallTimeout(timeout time.Duration) *HTTPClient {
	c.callTimeout = timeout
	return c
}

// Purchase покупает номер. Явный отказ провайдера возвращается как *RejectedError.
func (c *HTTPClient) Purchase(ctx context.Context, args PurchaseArgs) (*Number, error) {
	params := url.Values{}
	params.Set("service", args.Service)
	params.Set("country", args.Country)
	if args.ProviderID != "" {
		params.Set("providerIds", args.ProviderID)
	}
	if args.MaxPrice.IsPositive() {
		params.Set("fixPrice", args.MaxPrice.Round(3).String()) //nolint:mnd
	}

	payload, err := c.call(ctx, ActionGetNumber, params)
	if err != nil {
		return nil, err
	}
	return DecodeNumber(payload)
}

// PollStatus запрашивает статус активации.
func (c *HTTPClient) PollStatus(ctx context.Context, activationID string) (Status, error) {
	payload, err := c.call(ctx, ActionGetStatus, url.Values{"id": {activationID}})
	if err != nil {
		return nil, err
	}
	return DecodeStatus(payload), nil
}

// SetStatus сообщает провайдеру новый статус активации. Ошибки только логируются.
func (c *HTTPClient) SetStatus(ctx context.Context, activationID string, code StatusCode) {
	params := url.Values{
		"id":     {activationID},
		"status": {strconv.Itoa(int(code))},
	}
	if _, err := c.call(ctx, ActionSetStatus, params); err != nil {
		c.l.WithError(err).WithFields(logrus.Fields{
			"activationID": activationID,
			"status":       code,
		}).Debug("set status failed")
	}
}

// Balance возвращает баланс аккаунта у провайдера.
func (c *HTTPClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	payload, err := c.call(ctx, ActionGetBalance, url.Values{})
	if err != nil {
		return decimal.Zero, err
	}
	return DecodeBalance(payload)
}

// Services возвращает сырой список сервисов.
func (c *HTTPClient) Services(ctx context.Context) (any, error) {
	payload, err := c.call(ctx, ActionGetServices, url.Values{})
	if err != nil {
		return nil, err
	}
	return payload.Value(), nil
}

// Countries возвращает сырой справочник стран.
func (c *HTTPClient) Countries(ctx context.Context) (any, error) {
	payload, err := c.call(ctx, ActionGetCountries, url.Values{})
	if err != nil {
		return nil, err
	}
	return payload.Value(), nil
}

// Prices возвращает сырой прайс сервиса. Версии метода перебираются до первого непустого ответа.
func (c *HTTPClient) Prices(ctx context.Context, service string) (any, error) {
	var lastErr error
	for _, action := range priceActions {
		payload, err := c.call(ctx, action, url.Values{"service": {service}})
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if !payload.IsEmpty() {
			return payload.Value(), nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// call выполняет запрос action, перебирая эндпоинты по порядку. На каждом эндпоинте делается c.attempts
// попыток с паузой c.backoff. Ответ со статусом 2xx возвращается без дальнейших попыток, разбор
// содержимого остается вызывающему.
func (c *HTTPClient) call(ctx context.Context, action string, params url.Values) (Payload, error) {
	query := url.Values{}
	for k, v := range params {
		if len(v) > 0 && v[0] != "" {
			query[k] = v
		}
	}
	query.Set("api_key", c.apiKey)
	query.Set("action", action)

	var lastErr error
	for _, base := range c.baseURLs {
		for range c.attempts {
			if err := c.limiter.Wait(ctx); err != nil {
				return Payload{}, fmt.Errorf("%s: wait rate limiter: %w", action, err)
			}

			payload, err := c.do(ctx, base, query)
			if err == nil {
				metrics.RecordProviderRequest(action, true)
				return payload, nil
			}
			metrics.RecordProviderRequest(action, false)
			lastErr = err

			select {
			case <-ctx.Done():
				return Payload{}, fmt.Errorf("%s: %w", action, ctx.Err())
			case <-time.After(c.backoff):
			}
		}
		c.l.WithError(lastErr).WithFields(logrus.Fields{
			"action":   action,
			"endpoint": base,
		}).Warn("provider endpoint failed")
	}

	if lastErr == nil {
		lastErr = errors.New("no endpoints configured")
	}
	return Payload{}, fmt.Errorf("%w: %s: %s", ErrProviderUnavailable, action, lastErr.Error())
}

//nolint:nonamedreturns
func (c *HTTPClient) do(ctx context.Context, base string, query url.Values) (payload Payload, err error) {
	reqURL, parseErr := url.Parse(base)
	if parseErr != nil {
		return Payload{}, fmt.Errorf("parse endpoint: %s", parseErr.Error())
	}
	merged := reqURL.Query()
	for k, v := range query {
		merged[k] = v
	}
	reqURL.RawQuery = merged.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req, reqErr := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL.String(), nil)
	if reqErr != nil {
		return Payload{}, fmt.Errorf("create request: %s", reqErr.Error())
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return Payload{}, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = NewStatusCodeError(resp.StatusCode)
		return Payload{}, err
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if readErr != nil {
		err = fmt.Errorf("read response: %s", readErr.Error())
		return Payload{}, err
	}

	return ParsePayload(body), nil
}
