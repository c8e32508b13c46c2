package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketaggregator/contexts/ticketing/ticket-service/ports"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeIdempotencyStore struct {
	removed    int
	sweepErr   error
	sweptAt    []time.Time
	sweepCalls int
}

func (s *fakeIdempotencyStore) Get(context.Context, string) (ports.IdempotencyRecord, bool, error) {
	return ports.IdempotencyRecord{}, false, nil
}

func (s *fakeIdempotencyStore) Save(context.Context, ports.IdempotencyRecord) error { return nil }

func (s *fakeIdempotencyStore) SweepExpired(_ context.Context, now time.Time) (int, error) {
	s.sweepCalls++
	s.sweptAt = append(s.sweptAt, now)
	return s.removed, s.sweepErr
}

func TestIdempotencySweeperRemovesExpiredRecords(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeIdempotencyStore{removed: 3}
	sweeper := IdempotencySweeper{Idempotency: store, Clock: fakeClock{now: now}}

	err := sweeper.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, store.sweepCalls)
	assert.True(t, store.sweptAt[0].Equal(now))
}

func TestIdempotencySweeperPropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := &fakeIdempotencyStore{sweepErr: errors.New("db unavailable")}
	sweeper := IdempotencySweeper{Idempotency: store, Clock: fakeClock{now: time.Now()}}

	err := sweeper.RunOnce(context.Background())

	assert.Error(t, err)
}
