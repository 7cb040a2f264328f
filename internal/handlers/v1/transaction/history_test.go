package transaction

import (
	"encoding/json"
	"errors"
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

func newHistoryAPI(t *testing.T, svc historian) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHistoryHandler(svc).Register(api)
	return api
}

func TestHTTP_History_Success(t *testing.T) {
	txns := []*service.Transaction{
		{
			ID:            "TXN-1A2B3C4D",
			Kind:          transactionlog.KindDeposit,
			Amount:        decimal.RequireFromString("50.00"),
			SourceAccount: "ACC-1001",
			Status:        transactionlog.StatusSuccess,
			Timestamp:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:                 "TXN-5E6F7A8B",
			Kind:               transactionlog.KindTransfer,
			Amount:             decimal.RequireFromString("25.00"),
			SourceAccount:      "ACC-2002",
			DestinationAccount: "ACC-1001",
			Status:             transactionlog.StatusSuccess,
			Timestamp:          time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	mockSvc := new(mockTransactionService)
	mockSvc.On("History", mock.Anything, "ACC-1001").Return(txns, nil)

	resp := newHistoryAPI(t, mockSvc).Get("/api/transactions/ACC-1001")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body TransactionListEnvelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Transactions fetched", body.Message)
	assert.Len(t, body.Data, 2)
	assert.Equal(t, "TXN-1A2B3C4D", body.Data[0].TransactionID)
	assert.Equal(t, "ACC-1001", body.Data[1].DestinationAccount)
}

func TestHTTP_History_Empty(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("History", mock.Anything, "ACC-1001").Return([]*service.Transaction{}, nil)

	resp := newHistoryAPI(t, mockSvc).Get("/api/transactions/ACC-1001")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body TransactionListEnvelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Empty(t, body.Data)
}

func TestHTTP_History_StorageError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("History", mock.Anything, "ACC-1001").
		Return(nil, errors.New("query transactions: connection refused"))

	resp := newHistoryAPI(t, mockSvc).Get("/api/transactions/ACC-1001")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	var body TransactionListEnvelope
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
}
