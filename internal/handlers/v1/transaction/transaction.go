package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/transaction-server/internal/service"
)

// Transaction is the API response model for a transaction record.
type Transaction struct {
	TransactionID      string    `json:"transactionId" doc:"Transaction id"`
	Type               string    `json:"type" doc:"DEPOSIT, WITHDRAW or TRANSFER"`
	Amount             string    `json:"amount" doc:"Decimal amount"`
	SourceAccount      string    `json:"sourceAccount" doc:"Source account number"`
	DestinationAccount string    `json:"destinationAccount,omitempty" doc:"Destination account number, transfers only"`
	Status             string    `json:"status" doc:"SUCCESS or FAILED"`
	Timestamp          time.Time `json:"timestamp" doc:"Creation time"`
}

// TransactionEnvelope is the uniform response wrapper for single-record
// operations: { message, data, success }.
type TransactionEnvelope struct {
	Message string       `json:"message" doc:"Human-readable outcome"`
	Data    *Transaction `json:"data" doc:"Transaction record, absent on failure"`
	Success bool         `json:"success" doc:"Whether the operation succeeded"`
}

// TransactionListEnvelope wraps the history response.
type TransactionListEnvelope struct {
	Message string        `json:"message" doc:"Human-readable outcome"`
	Data    []Transaction `json:"data" doc:"Transaction records"`
	Success bool          `json:"success" doc:"Whether the operation succeeded"`
}

func toAPITransaction(txn *service.Transaction) *Transaction {
	return &Transaction{
		TransactionID:      txn.ID,
		Type:               string(txn.Kind),
		Amount:             txn.Amount.String(),
		SourceAccount:      txn.SourceAccount,
		DestinationAccount: txn.DestinationAccount,
		Status:             string(txn.Status),
		Timestamp:          txn.Timestamp,
	}
}

// parseAmount validates the decimal string from a request body. Malformed
// amounts never reach the service layer.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return amount, nil
}

// failure maps a service error to an HTTP status and a user-facing
// message. Failures carry success=false and no data.
func failure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be positive!"
	case errors.Is(err, service.ErrSameAccount):
		return http.StatusBadRequest, "Source and destination cannot be same!"
	case errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found!"
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "Insufficient balance!"
	case errors.Is(err, service.ErrIdempotencyConflict):
		return http.StatusConflict, "Idempotency-Key already used with different parameters!"
	case errors.Is(err, service.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "Account Service unavailable! Try again later."
	default:
		return http.StatusInternalServerError, "Internal error! Please try again."
	}
}
