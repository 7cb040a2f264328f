package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/internal/breaker"
)

const requestTimeout = 5 * time.Second

// Client is the typed capability to read and overwrite account balances on
// the account service. Every call is a fresh remote round trip wrapped by
// the circuit breaker; a tripped breaker short-circuits to
// breaker.ErrServiceUnavailable without touching the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *breaker.Breaker
	logger     *logrus.Logger
}

func NewClient(baseURL string, b *breaker.Breaker, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		breaker:    b,
		logger:     logger,
	}
}

// FetchBalance retrieves the current snapshot for an account.
func (c *Client) FetchBalance(ctx context.Context, accountNumber string) (*AccountSnapshot, error) {
	env, err := c.roundTrip(ctx, http.MethodGet, "/api/accounts/"+accountNumber, nil)
	if err != nil {
		return nil, err
	}

	if !env.Success {
		c.logger.WithField("accountNumber", accountNumber).Info("LedgerClient.FetchBalance.not found")
		return nil, ErrAccountNotFound
	}

	var data accountData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("ledger: decode account data: %w", err)
	}

	return &AccountSnapshot{
		AccountNumber: data.AccountNumber,
		Balance:       data.Balance,
	}, nil
}

// SetBalance overwrites the account's balance on the account service.
func (c *Client) SetBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	body := setBalanceRequest{Balance: json.Number(balance.String())}

	env, err := c.roundTrip(ctx, http.MethodPut, "/api/accounts/"+accountNumber+"/balance", body)
	if err != nil {
		return err
	}

	if !env.Success {
		c.logger.WithField("accountNumber", accountNumber).Info("LedgerClient.SetBalance.not found")
		return ErrAccountNotFound
	}

	return nil
}

// roundTrip performs one breaker-protected HTTP exchange. Transport errors,
// timeouts and non-2xx statuses count as breaker failures; an envelope with
// success=false is a completed exchange and does not.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*envelope, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("ledger: encode request: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("ledger: build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ledger: %s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("ledger: %s %s: status %d", method, path, resp.StatusCode)
		}

		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, fmt.Errorf("ledger: decode response: %w", err)
		}
		return &env, nil
	})
	if err != nil {
		// Callers see a uniform unavailable signal whether the breaker
		// short-circuited or the call itself failed.
		if errors.Is(err, breaker.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", breaker.ErrServiceUnavailable, err)
	}

	return result.(*envelope), nil
}
