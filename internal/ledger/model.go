package ledger

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrAccountNotFound means the account service answered but reported no
// such account. It is a business outcome, not a dependency failure, so it
// never counts against the circuit breaker.
var ErrAccountNotFound = errors.New("account not found")

// AccountSnapshot is a point-in-time view of a remote account. It is never
// cached beyond the operation that fetched it.
type AccountSnapshot struct {
	AccountNumber string
	Balance       decimal.Decimal
}

// envelope is the uniform response wrapper every service in the deployment
// speaks: { message, data, success }.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

// accountData is the payload of GET /api/accounts/{accountNumber}.
// Balance arrives as a JSON number; decimal parses it without binary
// floating-point drift.
type accountData struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// setBalanceRequest is the body of PUT /api/accounts/{accountNumber}/balance.
// json.Number keeps the balance a bare JSON number on the wire.
type setBalanceRequest struct {
	Balance json.Number `json:"balance"`
}
