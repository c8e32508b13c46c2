package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNotificationCreatedIsSent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	outcome, err := client.SendNotification(context.Background(), "hello", "tix-1", "outbox_1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, outcome)
}

func TestSendNotificationServerErrorIsRetryable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	outcome, err := client.SendNotification(context.Background(), "hello", "tix-1", "outbox_1")
	require.Error(t, err)
	assert.Equal(t, OutcomeRetryable, outcome)
}

func TestSendNotificationConflictIsPermanent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	outcome, err := client.SendNotification(context.Background(), "hello", "tix-1", "outbox_1")
	require.Error(t, err)
	assert.Equal(t, OutcomePermanent, outcome)
}

func TestSendNotificationBadRequestIsPermanent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	outcome, err := client.SendNotification(context.Background(), "hello", "tix-1", "outbox_1")
	require.Error(t, err)
	assert.Equal(t, OutcomePermanent, outcome)
}

func TestSendNotificationNetworkErrorIsRetryable(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "http://127.0.0.1:0", APIKey: "key"})
	outcome, err := client.SendNotification(context.Background(), "hello", "tix-1", "outbox_1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetryable, outcome)
}
