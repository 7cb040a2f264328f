package ledger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/transaction-server/internal/breaker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	b := breaker.New("account-service", breaker.Config{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
		MinRequests:         100,
		FailureRatio:        0.9,
	}, logger)

	return NewClient(server.URL, b, logger), server
}

func TestFetchBalance_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/accounts/ACC-1001", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Fetched","data":{"accountNumber":"ACC-1001","balance":150.25},"success":true}`))
	})

	snapshot, err := client.FetchBalance(context.Background(), "ACC-1001")

	require.NoError(t, err)
	assert.Equal(t, "ACC-1001", snapshot.AccountNumber)
	assert.True(t, snapshot.Balance.Equal(decimal.RequireFromString("150.25")))
}

func TestFetchBalance_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Account not found","data":null,"success":false}`))
	})

	_, err := client.FetchBalance(context.Background(), "ACC-9999")

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFetchBalance_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchBalance(context.Background(), "ACC-1001")

	assert.ErrorIs(t, err, breaker.ErrServiceUnavailable)
}

func TestFetchBalance_TransportError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.FetchBalance(context.Background(), "ACC-1001")

	assert.ErrorIs(t, err, breaker.ErrServiceUnavailable)
}

func TestFetchBalance_BreakerOpenShortCircuits(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 3; i++ {
		_, _ = client.FetchBalance(context.Background(), "ACC-1001")
	}
	assert.Equal(t, 3, calls)

	_, err := client.FetchBalance(context.Background(), "ACC-1001")
	assert.ErrorIs(t, err, breaker.ErrServiceUnavailable)
	assert.Equal(t, 3, calls, "open breaker must not contact the dependency")
}

func TestSetBalance_Success(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/accounts/ACC-1001/balance", r.URL.Path)
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Balance updated","data":null,"success":true}`))
	})

	err := client.SetBalance(context.Background(), "ACC-1001", decimal.RequireFromString("99.90"))

	require.NoError(t, err)
	// The wire format is a bare JSON number, not a quoted string.
	assert.JSONEq(t, `{"balance":99.90}`, gotBody)
}

func TestSetBalance_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Account not found","data":null,"success":false}`))
	})

	err := client.SetBalance(context.Background(), "ACC-9999", decimal.RequireFromString("10"))

	assert.ErrorIs(t, err, ErrAccountNotFound)
}
