package service

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/transaction-server/internal/storage/transactionlog"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID                 string
	Kind               transactionlog.Kind
	Amount             decimal.Decimal
	SourceAccount      string
	DestinationAccount string
	Status             transactionlog.Status
	Timestamp          time.Time
}

// generateTransactionID produces the house id format: TXN- plus the first
// eight uppercase characters of a random UUID.
func generateTransactionID() string {
	id := uuid.Must(uuid.NewV4())
	return "TXN-" + strings.ToUpper(id.String()[:8])
}

func transactionFromRow(row *transactionlog.Transaction) *Transaction {
	return &Transaction{
		ID:                 row.ID,
		Kind:               row.Kind,
		Amount:             row.Amount,
		SourceAccount:      row.SourceAccount,
		DestinationAccount: row.DestinationAccount,
		Status:             row.Status,
		Timestamp:          row.CreatedAt,
	}
}
