package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketaggregator/contexts/catalogue/catalogue-service/domain/entities"
	"ticketaggregator/contexts/catalogue/catalogue-service/ports"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakePlaces struct {
	upserted []ports.PlaceUpsert
}

func (p *fakePlaces) UpsertPlace(_ context.Context, place ports.PlaceUpsert) error {
	p.upserted = append(p.upserted, place)
	return nil
}

func (p *fakePlaces) GetPlace(context.Context, string) (entities.Place, error) {
	return entities.Place{}, nil
}

type fakeEvents struct {
	upserted []ports.EventUpsert
}

func (e *fakeEvents) UpsertEvent(_ context.Context, event ports.EventUpsert) error {
	e.upserted = append(e.upserted, event)
	return nil
}

func (e *fakeEvents) GetEvent(context.Context, string) (entities.Event, error) {
	return entities.Event{}, nil
}

func (e *fakeEvents) ListEvents(context.Context, ports.ListEventsFilter) ([]entities.Event, int, error) {
	return nil, 0, nil
}

type fakeMetadata struct {
	acquired      bool
	lastChangedAt *time.Time
	released      []bool
	releasedAt    []*time.Time
}

func (m *fakeMetadata) AcquireLock(context.Context, time.Time) (bool, *time.Time, error) {
	return m.acquired, m.lastChangedAt, nil
}

func (m *fakeMetadata) ReleaseLock(_ context.Context, success bool, newLastChangedAt *time.Time) error {
	m.released = append(m.released, success)
	m.releasedAt = append(m.releasedAt, newLastChangedAt)
	return nil
}

type fakeCursor struct {
	pages []ports.ProviderEventPage
	index int
}

func (c *fakeCursor) Next(context.Context) (ports.ProviderEventPage, bool, error) {
	if c.index >= len(c.pages) {
		return ports.ProviderEventPage{}, false, nil
	}
	page := c.pages[c.index]
	c.index++
	return page, true, nil
}

type fakeSource struct {
	cursor *fakeCursor
	seen   []string
}

func (s *fakeSource) NewCursor(changedAt string) ports.EventCursor {
	s.seen = append(s.seen, changedAt)
	return s.cursor
}

func pageAt(id string, changedAt time.Time) ports.ProviderEventPage {
	return ports.ProviderEventPage{
		Place: ports.PlaceUpsert{ID: "place-" + id, ChangedAt: changedAt, CreatedAt: changedAt},
		Event: ports.EventUpsert{ID: id, PlaceID: "place-" + id, ChangedAt: changedAt, CreatedAt: changedAt},
	}
}

func TestSyncEngineAdvancesWatermarkMonotonically(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	first := now.AddDate(0, 0, -2)
	second := now.AddDate(0, 0, -1)

	cursor := &fakeCursor{pages: []ports.ProviderEventPage{pageAt("evt-1", first), pageAt("evt-2", second)}}
	source := &fakeSource{cursor: cursor}
	places := &fakePlaces{}
	events := &fakeEvents{}
	metadata := &fakeMetadata{acquired: true}

	engine := SyncEngine{Places: places, Events: events, Metadata: metadata, Source: source, Clock: fakeClock{now: now}}

	err := engine.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, events.upserted, 2)
	require.Len(t, metadata.releasedAt, 1)
	require.NotNil(t, metadata.releasedAt[0])
	assert.True(t, metadata.releasedAt[0].Equal(second))
}

func TestSyncEngineSkipsEventsNotAfterWatermark(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	watermark := now.AddDate(0, 0, -5)
	stale := watermark
	fresh := now.AddDate(0, 0, -1)

	cursor := &fakeCursor{pages: []ports.ProviderEventPage{pageAt("evt-stale", stale), pageAt("evt-fresh", fresh)}}
	source := &fakeSource{cursor: cursor}
	places := &fakePlaces{}
	events := &fakeEvents{}
	metadata := &fakeMetadata{acquired: true, lastChangedAt: &watermark}

	engine := SyncEngine{Places: places, Events: events, Metadata: metadata, Source: source, Clock: fakeClock{now: now}}

	_, err := engine.RunWithOverride(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, events.upserted, 1)
	assert.Equal(t, "evt-fresh", events.upserted[0].ID)
}

func TestSyncEngineReturnsNotAcquiredWhenLockHeld(t *testing.T) {
	t.Parallel()

	metadata := &fakeMetadata{acquired: false}
	engine := SyncEngine{
		Places:   &fakePlaces{},
		Events:   &fakeEvents{},
		Metadata: metadata,
		Source:   &fakeSource{cursor: &fakeCursor{}},
		Clock:    fakeClock{now: time.Now()},
	}

	acquired, err := engine.RunWithOverride(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.Empty(t, metadata.released, "must not release a lock it never acquired")
}
