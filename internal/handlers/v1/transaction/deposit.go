package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/transaction-server/internal/service"
)

// DepositBody is the request body for a deposit.
type DepositBody struct {
	AccountNumber string `json:"accountNumber" required:"true" minLength:"1" doc:"Account to credit"`
	Amount        string `json:"amount" required:"true" doc:"Decimal amount"`
}

// DepositInput is the Huma input for a deposit.
type DepositInput struct {
	IdempotencyKey string `header:"Idempotency-Key" doc:"Optional key making the request safely retryable"`
	Body           DepositBody
}

// DepositOutput is the Huma output for a deposit.
type DepositOutput struct {
	Status int
	Body   TransactionEnvelope
}

// depositor is the interface for executing deposits.
type depositor interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, idempotencyKey string) (*service.Transaction, error)
}

// DepositHandler handles POST /api/transactions/deposit.
type DepositHandler struct {
	TransactionService depositor
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(svc depositor) *DepositHandler {
	return &DepositHandler{TransactionService: svc}
}

// Register registers the deposit endpoint with the Huma API.
func (h *DepositHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "deposit",
		Method:      http.MethodPost,
		Path:        "/api/transactions/deposit",
		Summary:     "Deposit",
		Description: "Credits an amount to an account.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DepositHandler) handle(ctx context.Context, input *DepositInput) (*DepositOutput, error) {
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return nil, err
	}

	txn, err := h.TransactionService.Deposit(ctx, input.Body.AccountNumber, amount, input.IdempotencyKey)
	if err != nil {
		status, message := failure(err)
		return &DepositOutput{
			Status: status,
			Body:   TransactionEnvelope{Message: message, Success: false},
		}, nil
	}

	return &DepositOutput{
		Status: http.StatusOK,
		Body: TransactionEnvelope{
			Message: "Deposit Successful",
			Data:    toAPITransaction(txn),
			Success: true,
		},
	}, nil
}
