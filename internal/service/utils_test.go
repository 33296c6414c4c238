package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		for range 50 {
			wait := backoff(base, attempt)
			want := float64(base) * float64(attempt+1)
			assert.GreaterOrEqual(t, float64(wait), want*(1-backoffSpread)-1)
			assert.LessOrEqual(t, float64(wait), want*(1+backoffSpread)+1)
		}
	}
}
