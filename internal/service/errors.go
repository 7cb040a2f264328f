package service

import (
	"errors"

	"github.com/carson-networks/transaction-server/internal/breaker"
	"github.com/carson-networks/transaction-server/internal/ledger"
)

// Business-rule failures. Detected synchronously; no remote state changes.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("source and destination cannot be same")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrIdempotencyConflict = errors.New("idempotency key reused with different parameters")
)

// Dependency failures, aliased so callers can errors.Is against this
// package without importing the collaborators.
var (
	ErrAccountNotFound    = ledger.ErrAccountNotFound
	ErrServiceUnavailable = breaker.ErrServiceUnavailable
)
