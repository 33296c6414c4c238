package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/activations", "201", 0.2)
	RecordHTTPRequest("POST", "/api/activations", "201", 0.1)
	RecordHTTPRequest("POST", "/api/activations", "402", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/activations", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/activations", "402")))
}

func TestRecordProviderRequest(t *testing.T) {
	ProviderRequestsTotal.Reset()

	RecordProviderRequest("getStatus", true)
	RecordProviderRequest("getStatus", false)
	RecordProviderRequest("getStatus", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("getStatus", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("getStatus", "error")))
}

func TestRecordRefund(t *testing.T) {
	before := testutil.ToFloat64(RefundsTotal)
	beforeAmount := testutil.ToFloat64(RefundedAmountTotal)

	RecordRefund(decimal.RequireFromString("1.5"))

	assert.Equal(t, before+1, testutil.ToFloat64(RefundsTotal))
	assert.InDelta(t, beforeAmount+1.5, testutil.ToFloat64(RefundedAmountTotal), 1e-9)
}
