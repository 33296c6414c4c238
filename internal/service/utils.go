package service

import (
	"math/rand/v2"
	"time"
)

const backoffSpread = 0.15

// backoff возвращает паузу перед повтором номер attempt (считая с нуля): base*(attempt+1) с разбросом ±15%,
// чтобы одновременные повторы разных мониторов не совпадали.
func backoff(base time.Duration, attempt int) time.Duration {
	factor := 1 - backoffSpread + rand.Float64()*2*backoffSpread //nolint:gosec
	return time.Duration(float64(base) * float64(attempt+1) * factor)
}
