package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Success(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/notifications/send", r.URL.Path)
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		_, _ = w.Write([]byte(`{"message":"Notification Sent","data":null,"success":true}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), "Deposit of 50 successful for account ACC-1001")

	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Deposit of 50 successful for account ACC-1001"}`, gotBody)
}

func TestSend_RetriesTransientFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), "hello")

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), "hello")

	assert.Error(t, err)
	assert.Equal(t, 1+maxRetries, calls)
}

type recordingSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *recordingSender) Send(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.err
}

func TestDispatcher_DeliversAllMessages(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 2, logrus.New())
	d.Start()

	for i := 0; i < 10; i++ {
		d.Dispatch("message")
	}
	d.Stop()

	assert.Len(t, sender.messages, 10)
}

func TestDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("notification service down")}
	d := NewDispatcher(sender, 1, logrus.New())
	d.Start()

	d.Dispatch("message")
	d.Stop()

	// The failure is logged and discarded; Dispatch and Stop never surface it.
	assert.Len(t, sender.messages, 1)
}
