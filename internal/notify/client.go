package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 2
)

// sendRequest is the body of POST /api/notifications/send.
type sendRequest struct {
	Message string `json:"message"`
}

// Client posts human-readable event messages to the notification service.
// Delivery is best effort; callers are expected to log and discard errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Send delivers one message, retrying transient failures a couple of times
// with exponential backoff before giving up.
func (c *Client) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(sendRequest{Message: message})
	if err != nil {
		return err
	}

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications/send", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("notify: notification service returned status %d", resp.StatusCode)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(100*time.Millisecond),
		), maxRetries),
		ctx,
	)
	return backoff.Retry(attempt, policy)
}
