package transactionlog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a money movement.
type Kind string

const (
	KindDeposit  Kind = "DEPOSIT"
	KindWithdraw Kind = "WITHDRAW"
	KindTransfer Kind = "TRANSFER"
)

// Status is the terminal (or, for an in-flight transfer, intermediate)
// state of a logged transaction.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Transaction is one append-only log record. Committed records are never
// updated; a PENDING transfer is finalized exactly once via MarkStatus.
type Transaction struct {
	ID                 string
	Kind               Kind
	Amount             decimal.Decimal
	SourceAccount      string
	DestinationAccount string // empty unless Kind is TRANSFER
	Status             Status
	IdempotencyKey     string // empty when the caller supplied none
	CreatedAt          time.Time
}

// TransactionCreate is the input for appending a new record.
type TransactionCreate struct {
	ID                 string
	Kind               Kind
	Amount             decimal.Decimal
	SourceAccount      string
	DestinationAccount string
	Status             Status
	IdempotencyKey     string
	CreatedAt          time.Time
}

// ITransactionLog defines the interface for transaction log storage.
// This abstraction allows swapping the implementation without changing callers.
//
//go:generate mockery --name ITransactionLog --output mock_ITransactionLog.go
type ITransactionLog interface {
	Append(ctx context.Context, create *TransactionCreate) error
	MarkStatus(ctx context.Context, id string, status Status) error
	ListByAccount(ctx context.Context, accountNumber string) ([]*Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error)
	ListPending(ctx context.Context, olderThan time.Time) ([]*Transaction, error)
}
