package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/transaction-server/internal/service"
)

// WithdrawBody is the request body for a withdrawal.
type WithdrawBody struct {
	AccountNumber string `json:"accountNumber" required:"true" minLength:"1" doc:"Account to debit"`
	Amount        string `json:"amount" required:"true" doc:"Decimal amount"`
}

// WithdrawInput is the Huma input for a withdrawal.
type WithdrawInput struct {
	IdempotencyKey string `header:"Idempotency-Key" doc:"Optional key making the request safely retryable"`
	Body           WithdrawBody
}

// WithdrawOutput is the Huma output for a withdrawal.
type WithdrawOutput struct {
	Status int
	Body   TransactionEnvelope
}

// withdrawer is the interface for executing withdrawals.
type withdrawer interface {
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, idempotencyKey string) (*service.Transaction, error)
}

// WithdrawHandler handles POST /api/transactions/withdraw.
type WithdrawHandler struct {
	TransactionService withdrawer
}

// NewWithdrawHandler creates a new WithdrawHandler.
func NewWithdrawHandler(svc withdrawer) *WithdrawHandler {
	return &WithdrawHandler{TransactionService: svc}
}

// Register registers the withdraw endpoint with the Huma API.
func (h *WithdrawHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "withdraw",
		Method:      http.MethodPost,
		Path:        "/api/transactions/withdraw",
		Summary:     "Withdraw",
		Description: "Debits an amount from an account.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *WithdrawHandler) handle(ctx context.Context, input *WithdrawInput) (*WithdrawOutput, error) {
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return nil, err
	}

	txn, err := h.TransactionService.Withdraw(ctx, input.Body.AccountNumber, amount, input.IdempotencyKey)
	if err != nil {
		status, message := failure(err)
		return &WithdrawOutput{
			Status: status,
			Body:   TransactionEnvelope{Message: message, Success: false},
		}, nil
	}

	return &WithdrawOutput{
		Status: http.StatusOK,
		Body: TransactionEnvelope{
			Message: "Withdraw Successful",
			Data:    toAPITransaction(txn),
			Success: true,
		},
	}, nil
}
