package dataset

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcainsights/internal/shared/testutil"
)

const (
	masterCSV = "CIN,Company Name,State Code,Status,Registration Date\n" +
		"A1,Alpha Ltd,MH,Active,15-Jan-2020\n" +
		"A2,Beta Pvt,KA,Struck Off,bad\n"
	changeLogCSV = "cin,change_type,date\nA1,Update,2024-01-01\n"
	enrichedCSV  = "CIN,Field,Value\nA1,director_name,X\nA1,registered_address,Mumbai\n"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls int
	rows  map[string]int
	err   error
}

func (o *recordingObserver) ObserveLoad(_ context.Context, _ time.Duration, rows map[string]int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.rows = rows
	o.err = err
}

func TestLoaderLoad(t *testing.T) {
	sources := writeSources(t, masterCSV, changeLogCSV, enrichedCSV)
	observer := &recordingObserver{}
	loader := NewLoader(sources, slog.Default(), observer)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Master.Len())
	assert.Equal(t, 1, snap.ChangeLog.Len())
	assert.Equal(t, 2, snap.Enriched.Len())
	assert.Equal(t, "state_code", snap.RegionColumn)
	assert.True(t, snap.HasStatus())
	assert.False(t, snap.LoadedAt.IsZero())

	require.Len(t, snap.Companies, 2)
	require.NotNil(t, snap.Companies[0].RegistrationDate)
	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), *snap.Companies[0].RegistrationDate)
	assert.Nil(t, snap.Companies[1].RegistrationDate)

	assert.Len(t, snap.AttributesFor("A1"), 2)
	assert.Empty(t, snap.AttributesFor("A2"))
	assert.Len(t, snap.EventsFor("A1"), 1)

	assert.Equal(t, 1, observer.calls)
	assert.NoError(t, observer.err)
	assert.Equal(t, map[string]int{NameMaster: 2, NameChangeLog: 1, NameEnriched: 2}, observer.rows)
}

func TestLoaderCoarseFailure(t *testing.T) {
	sources := writeSources(t, masterCSV, changeLogCSV, enrichedCSV)
	sources.EnrichedPath = filepath.Join(t.TempDir(), "missing.csv")
	observer := &recordingObserver{}
	logger, logs := testutil.NewTestLogger(t)

	snap, err := NewLoader(sources, logger, observer).Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap, "no partial snapshot on failure")
	assert.True(t, errors.Is(err, ErrSourceNotFound))
	assert.Contains(t, err.Error(), "failed to load datasets")

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, NameEnriched, loadErr.Dataset)

	assert.Equal(t, 1, observer.calls)
	assert.Error(t, observer.err)
	assert.Nil(t, observer.rows)

	record := testutil.AssertLogged(t, logs, slog.LevelError, "dataset load failed")
	assert.Equal(t, "dataset_loader", record.Attrs["component"])
}

func TestLoaderUnknownEncoding(t *testing.T) {
	sources := writeSources(t, masterCSV, changeLogCSV, enrichedCSV)
	sources.Encoding = "klingon"

	_, err := NewLoader(sources, nil, nil).Load(context.Background())
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}

func TestParseRegistrationDate(t *testing.T) {
	tests := []struct {
		value  string
		layout string
		ok     bool
	}{
		{"15-Jan-2020", "", true},
		{"5-Mar-2019", "", true},
		{" 01-Dec-2001 ", "", true},
		{"2020-01-15", "", false},
		{"", "", false},
		{"2020-01-15", "2006-01-02", true},
	}
	for _, tt := range tests {
		t.Run(tt.value+"|"+tt.layout, func(t *testing.T) {
			_, ok := ParseRegistrationDate(tt.value, tt.layout)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseChangeDate(t *testing.T) {
	for _, v := range []string{"2024-01-01", "2024-01-01 10:30:00", "2024-01-01T10:30:00Z", "1-Feb-2024"} {
		_, ok := ParseChangeDate(v)
		assert.True(t, ok, v)
	}
	_, ok := ParseChangeDate("yesterday")
	assert.False(t, ok)
}

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (c *countingLoader) Load(context.Context) (*Snapshot, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	empty := NewTable("t", []string{}, nil)
	return NewSnapshot(empty, NewTable("c", []string{}, nil), NewTable("e", []string{}, nil), "", nil), nil
}

func TestCacheLoadsOnce(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	loaded, _ := cache.Loaded()
	assert.False(t, loaded)

	var wg sync.WaitGroup
	snaps := make([]*Snapshot, 8)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i], _ = cache.Get(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, s := range snaps {
		assert.Same(t, snaps[0], s)
	}
	loaded, err := cache.Loaded()
	assert.True(t, loaded)
	assert.NoError(t, err)
}

func TestCacheMemoizesFailure(t *testing.T) {
	loader := &countingLoader{err: errors.New("boom")}
	cache := NewCache(loader)

	_, err1 := cache.Get(context.Background())
	_, err2 := cache.Get(context.Background())
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, int32(1), loader.calls.Load())

	loaded, err := cache.Loaded()
	assert.True(t, loaded)
	assert.EqualError(t, err, "boom")
}

func TestCacheIgnoresCallerCancellation(t *testing.T) {
	loader := &ctxLoader{}
	cache := NewCache(loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Get(ctx)
	assert.NoError(t, err)
}

type ctxLoader struct{}

func (ctxLoader) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Snapshot{}, nil
}
