package transaction

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/transaction-server/internal/service"
	"github.com/carson-networks/transaction-server/internal/storage/transactionlog"
)

func newTransferAPI(t *testing.T, svc transferrer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewTransferHandler(svc).Register(api)
	return api
}

func TestHTTP_Transfer_Success(t *testing.T) {
	txn := &service.Transaction{
		ID:                 "TXN-5E6F7A8B",
		Kind:               transactionlog.KindTransfer,
		Amount:             decimal.RequireFromString("150.00"),
		SourceAccount:      "ACC-A",
		DestinationAccount: "ACC-B",
		Status:             transactionlog.StatusSuccess,
		Timestamp:          time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	mockSvc := new(mockTransactionService)
	mockSvc.On("Transfer", mock.Anything, "ACC-A", "ACC-B", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("150.00"))
	}), "").Return(txn, nil)

	resp := newTransferAPI(t, mockSvc).Post("/api/transactions/transfer", TransferBody{
		SourceAccount:      "ACC-A",
		DestinationAccount: "ACC-B",
		Amount:             "150.00",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body TransactionEnvelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Transfer Successful", body.Message)
	assert.Equal(t, "ACC-A", body.Data.SourceAccount)
	assert.Equal(t, "ACC-B", body.Data.DestinationAccount)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Transfer_SameAccount(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Transfer", mock.Anything, "ACC-A", "ACC-A", mock.Anything, "").
		Return(nil, service.ErrSameAccount)

	resp := newTransferAPI(t, mockSvc).Post("/api/transactions/transfer", TransferBody{
		SourceAccount:      "ACC-A",
		DestinationAccount: "ACC-A",
		Amount:             "10.00",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var body TransactionEnvelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Source and destination cannot be same!", body.Message)
}

func TestHTTP_Transfer_MissingDestination(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTransferAPI(t, mockSvc).Post("/api/transactions/transfer", TransferBody{
		SourceAccount: "ACC-A",
		Amount:        "10.00",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Transfer")
}

func TestHTTP_Transfer_ServiceUnavailable(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Transfer", mock.Anything, "ACC-A", "ACC-B", mock.Anything, "").
		Return(nil, service.ErrServiceUnavailable)

	resp := newTransferAPI(t, mockSvc).Post("/api/transactions/transfer", TransferBody{
		SourceAccount:      "ACC-A",
		DestinationAccount: "ACC-B",
		Amount:             "10.00",
	})

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
