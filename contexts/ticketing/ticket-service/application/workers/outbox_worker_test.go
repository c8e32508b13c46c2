package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

type fakeOutboxStore struct {
	pending        []ports.OutboxRecord
	sent           []string
	failed         []string
	incrementedIDs []string
	deletedBefore  *time.Time
}

func (s *fakeOutboxStore) GetPending(context.Context, int) ([]ports.OutboxRecord, error) {
	return s.pending, nil
}

func (s *fakeOutboxStore) MarkSent(_ context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeOutboxStore) IncrementRetry(_ context.Context, id string) error {
	s.incrementedIDs = append(s.incrementedIDs, id)
	return nil
}

func (s *fakeOutboxStore) MarkFailed(_ context.Context, id string) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeOutboxStore) DeleteOlderThanSent(_ context.Context, cutoff time.Time) (int, error) {
	s.deletedBefore = &cutoff
	return 0, nil
}

type fakeNotifier struct {
	sent      bool
	retryable bool
	err       error
}

func (n fakeNotifier) SendNotification(context.Context, string, string, string) (bool, bool, error) {
	return n.sent, n.retryable, n.err
}

type fakeMetrics struct {
	pendingSet []int
	outcomes   []string
}

func (m *fakeMetrics) SetOutboxPending(n int) { m.pendingSet = append(m.pendingSet, n) }
func (m *fakeMetrics) IncOutboxOutcome(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func TestOutboxWorkerMarksSentOnSuccessfulNotification(t *testing.T) {
	t.Parallel()

	store := &fakeOutboxStore{pending: []ports.OutboxRecord{{ID: "row-1", RetryCount: 0}}}
	metrics := &fakeMetrics{}
	worker := OutboxWorker{
		Outbox:   store,
		Notifier: fakeNotifier{sent: true},
		Clock:    fakeClock{now: time.Now()},
		Metrics:  metrics,
	}

	err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"row-1"}, store.sent)
	assert.Empty(t, store.incrementedIDs)
	assert.Contains(t, metrics.outcomes, "sent")
	assert.Equal(t, []int{1}, metrics.pendingSet)
}

func TestOutboxWorkerIncrementsRetryOnTransientFailure(t *testing.T) {
	t.Parallel()

	store := &fakeOutboxStore{pending: []ports.OutboxRecord{{ID: "row-2", RetryCount: 1}}}
	worker := OutboxWorker{
		Outbox:   store,
		Notifier: fakeNotifier{sent: false, retryable: true},
		Clock:    fakeClock{now: time.Now()},
	}

	err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"row-2"}, store.incrementedIDs)
	assert.Empty(t, store.sent)
	assert.Empty(t, store.failed)
}

func TestOutboxWorkerMarksFailedAtRetryCap(t *testing.T) {
	t.Parallel()

	store := &fakeOutboxStore{pending: []ports.OutboxRecord{{ID: "row-3", RetryCount: 5}}}
	metrics := &fakeMetrics{}
	worker := OutboxWorker{
		Outbox:     store,
		Notifier:   fakeNotifier{sent: false, retryable: true},
		Clock:      fakeClock{now: time.Now()},
		Metrics:    metrics,
		MaxRetries: 5,
	}

	err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"row-3"}, store.failed)
	assert.Empty(t, store.incrementedIDs, "a row already at the retry cap must not be incremented again")
	assert.Contains(t, metrics.outcomes, "failed")
}

func TestOutboxWorkerTreatsNonRetryableNotifierErrorAsPermanentFailure(t *testing.T) {
	t.Parallel()

	store := &fakeOutboxStore{pending: []ports.OutboxRecord{{ID: "row-4", RetryCount: 0}}}
	metrics := &fakeMetrics{}
	worker := OutboxWorker{
		Outbox:   store,
		Notifier: fakeNotifier{sent: false, retryable: false},
		Clock:    fakeClock{now: time.Now()},
		Metrics:  metrics,
	}

	err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"row-4"}, store.incrementedIDs, "permanent failures still increment retry, they are not marked sent")
	assert.Contains(t, metrics.outcomes, "permanent_failure")
}
