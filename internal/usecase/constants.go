package usecase

import (
	"errors"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultSettlementConcurrency bounds how many hosts settle at once.
	DefaultSettlementConcurrency = 4

	consistencyReportLimit = 100
)

// IdempotencyProcessing is stored under a claimed key until the response is known.
const IdempotencyProcessing = "processing"

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")
