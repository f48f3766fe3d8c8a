package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuota struct {
	mu        sync.Mutex
	records   []time.Time
	lastSince time.Time
	countErr  error
	recordErr error
}

func (f *fakeQuota) CountSince(_ context.Context, _ string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.lastSince = since
	count := 0
	for _, at := range f.records {
		if !at.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeQuota) Record(_ context.Context, _ string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, at)
	return nil
}

type fakeCatalog struct {
	mu    sync.Mutex
	pool  []*models.Card
	err   error
	calls int
}

func (f *fakeCatalog) PoolBySet(_ context.Context, _ string) ([]*models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

type fakeLedger struct {
	mu     sync.Mutex
	counts map[int64]int64
	err    error
	calls  int
}

func (f *fakeLedger) Merge(_ context.Context, userID string, cardID int64) (*models.CollectionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.counts == nil {
		f.counts = make(map[int64]int64)
	}
	f.counts[cardID]++
	return &models.CollectionEntry{
		UserID: userID,
		CardID: cardID,
		Count:  f.counts[cardID],
	}, nil
}

type fakeArtwork struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeArtwork) CardImageURL(_ context.Context, setID string, image string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example/" + setID + "/" + image, nil
}

type openerFixture struct {
	opener  *Opener
	quota   *fakeQuota
	catalog *fakeCatalog
	ledger  *fakeLedger
	artwork *fakeArtwork
}

func newOpenerFixture(limit int) *openerFixture {
	f := &openerFixture{
		quota: &fakeQuota{},
		catalog: &fakeCatalog{pool: []*models.Card{
			{ID: 1, SetID: "base-set", Number: 1, Name: "Alakazam", Weight: 1, Image: "1.png"},
			{ID: 2, SetID: "base-set", Number: 2, Name: "Blastoise", Weight: 2, Image: "2.png"},
		}},
		ledger:  &fakeLedger{},
		artwork: &fakeArtwork{},
	}
	f.opener = NewOpener(OpenerConfig{
		DailyLimit: limit,
		DefaultSet: "base-set",
		Location:   time.UTC,
	}, f.quota, f.catalog, f.ledger, f.artwork)
	return f
}

func TestOpener_Open_Success(t *testing.T) {
	f := newOpenerFixture(3)
	f.opener.roll = func() float64 { return 0 } // always the first card

	result, err := f.opener.Open(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Card.ID)
	assert.Equal(t, "https://cdn.example/base-set/1.png", result.ArtworkURL)
	assert.Equal(t, int64(1), result.Entry.Count)
	assert.Equal(t, 2, result.Remaining)
	assert.Len(t, f.quota.records, 1)
}

func TestOpener_Open_RedrawIncrementsCount(t *testing.T) {
	f := newOpenerFixture(5)
	f.opener.roll = func() float64 { return 0.9 } // always the second card

	for i := 0; i < 3; i++ {
		result, err := f.opener.Open(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Card.ID)
		assert.Equal(t, int64(i+1), result.Entry.Count)
	}
}

func TestOpener_Open_QuotaExceeded(t *testing.T) {
	f := newOpenerFixture(2)
	now := time.Now()
	f.quota.records = []time.Time{now, now}

	_, err := f.opener.Open(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// The gate stops everything downstream: no new record, no pool load, no
	// artwork, no ledger mutation.
	assert.Len(t, f.quota.records, 2)
	assert.Zero(t, f.catalog.calls)
	assert.Zero(t, f.artwork.calls)
	assert.Zero(t, f.ledger.calls)
}

func TestOpener_Open_FailForwardConsumesAttempt(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *openerFixture)
	}{
		{"pool load fails", func(f *openerFixture) {
			f.catalog.err = errors.New("connection reset")
		}},
		{"pool is unknown", func(f *openerFixture) {
			f.catalog.err = ErrUnknownSet
		}},
		{"artwork fails", func(f *openerFixture) {
			f.artwork.err = errors.New("presign failed")
		}},
		{"merge fails", func(f *openerFixture) {
			f.ledger.err = errors.New("deadlock")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOpenerFixture(3)
			tt.setup(f)

			_, err := f.opener.Open(context.Background(), "user-1")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrQuotaExceeded)

			// The attempt stays recorded even though the draw failed.
			assert.Len(t, f.quota.records, 1)
		})
	}
}

func TestOpener_Open_DayBoundaryInReferenceTimezone(t *testing.T) {
	f := newOpenerFixture(3)

	rome := time.FixedZone("CEST", 2*3600)
	f.opener.cfg.Location = rome
	// 01:30 UTC is already 03:30 in the reference timezone.
	f.opener.now = func() time.Time {
		return time.Date(2026, 8, 30, 1, 30, 0, 0, time.UTC)
	}

	_, err := f.opener.Open(context.Background(), "user-1")
	require.NoError(t, err)

	wantSince := time.Date(2026, 8, 30, 0, 0, 0, 0, rome)
	assert.True(t, f.quota.lastSince.Equal(wantSince),
		"since = %v, want %v", f.quota.lastSince, wantSince)

	// A draw from yesterday evening must not count against today.
	f.quota.records = append(f.quota.records,
		time.Date(2026, 8, 29, 21, 0, 0, 0, time.UTC))
	_, err = f.opener.Open(context.Background(), "user-1")
	require.NoError(t, err)
}

func TestOpener_Open_ConcurrentOverGrantIsBounded(t *testing.T) {
	const (
		limit    = 5
		used     = 3
		inFlight = 10
	)

	f := newOpenerFixture(limit)
	now := time.Now()
	for i := 0; i < used; i++ {
		f.quota.records = append(f.quota.records, now)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < inFlight; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.opener.Open(context.Background(), "user-1"); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The check-then-record window can over-grant, but never beyond the number
	// of in-flight requests, and the remaining budget is always honored.
	assert.GreaterOrEqual(t, granted, limit-used)
	assert.LessOrEqual(t, granted, inFlight)
	assert.Len(t, f.quota.records, used+granted)
}
