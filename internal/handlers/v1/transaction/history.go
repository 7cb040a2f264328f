package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/transaction-server/internal/service"
)

// HistoryInput is the Huma input for the history query.
type HistoryInput struct {
	AccountNumber string `path:"accountNumber" doc:"Account whose transactions to fetch"`
}

// HistoryOutput is the Huma output for the history query.
type HistoryOutput struct {
	Status int
	Body   TransactionListEnvelope
}

// historian is the interface for querying transaction history.
type historian interface {
	History(ctx context.Context, accountNumber string) ([]*service.Transaction, error)
}

// HistoryHandler handles GET /api/transactions/{accountNumber}.
type HistoryHandler struct {
	TransactionService historian
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc historian) *HistoryHandler {
	return &HistoryHandler{TransactionService: svc}
}

// Register registers the history endpoint with the Huma API.
func (h *HistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transaction-history",
		Method:      http.MethodGet,
		Path:        "/api/transactions/{accountNumber}",
		Summary:     "Transaction history",
		Description: "Lists every transaction where the account is source or destination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *HistoryHandler) handle(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	txns, err := h.TransactionService.History(ctx, input.AccountNumber)
	if err != nil {
		status, message := failure(err)
		return &HistoryOutput{
			Status: status,
			Body:   TransactionListEnvelope{Message: message, Success: false},
		}, nil
	}

	records := make([]Transaction, len(txns))
	for i, txn := range txns {
		records[i] = *toAPITransaction(txn)
	}

	return &HistoryOutput{
		Status: http.StatusOK,
		Body: TransactionListEnvelope{
			Message: "Transactions fetched",
			Data:    records,
			Success: true,
		},
	}, nil
}
