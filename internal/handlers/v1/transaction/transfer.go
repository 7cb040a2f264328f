package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/transaction-server/internal/service"
)

// TransferBody is the request body for a transfer.
type TransferBody struct {
	SourceAccount      string `json:"sourceAccount" required:"true" minLength:"1" doc:"Account to debit"`
	DestinationAccount string `json:"destinationAccount" required:"true" minLength:"1" doc:"Account to credit"`
	Amount             string `json:"amount" required:"true" doc:"Decimal amount"`
}

// TransferInput is the Huma input for a transfer.
type TransferInput struct {
	IdempotencyKey string `header:"Idempotency-Key" doc:"Optional key making the request safely retryable"`
	Body           TransferBody
}

// TransferOutput is the Huma output for a transfer.
type TransferOutput struct {
	Status int
	Body   TransactionEnvelope
}

// transferrer is the interface for executing transfers.
type transferrer interface {
	Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount decimal.Decimal, idempotencyKey string) (*service.Transaction, error)
}

// TransferHandler handles POST /api/transactions/transfer.
type TransferHandler struct {
	TransactionService transferrer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc transferrer) *TransferHandler {
	return &TransferHandler{TransactionService: svc}
}

// Register registers the transfer endpoint with the Huma API.
func (h *TransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transfer",
		Method:      http.MethodPost,
		Path:        "/api/transactions/transfer",
		Summary:     "Transfer",
		Description: "Moves an amount between two accounts.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *TransferHandler) handle(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return nil, err
	}

	txn, err := h.TransactionService.Transfer(ctx, input.Body.SourceAccount, input.Body.DestinationAccount, amount, input.IdempotencyKey)
	if err != nil {
		status, message := failure(err)
		return &TransferOutput{
			Status: status,
			Body:   TransactionEnvelope{Message: message, Success: false},
		}, nil
	}

	return &TransferOutput{
		Status: http.StatusOK,
		Body: TransactionEnvelope{
			Message: "Transfer Successful",
			Data:    toAPITransaction(txn),
			Success: true,
		},
	}, nil
}
