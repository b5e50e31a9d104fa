package directory

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/models"
)

type fakeSource struct {
	countries []client.Country
	err       error
	calls     atomic.Int32
	gate      chan struct{}
}

func (f *fakeSource) All(ctx context.Context) ([]client.Country, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.countries, nil
}

func country(code, name string, area float64) client.Country {
	return client.Country{CCA3: code, Name: client.CountryName{Common: name}, Area: area}
}

func sample() []client.Country {
	return []client.Country{
		country("PRT", "Portugal", 92090),
		country("FRA", "France", 551695),
		country("ESP", "Spain", 505992),
		country("AND", "Andorra", 468),
		country("ISL", "Iceland", 103000),
		country("", "Nowhere", 1),
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func loaded(t *testing.T) *Directory {
	t.Helper()
	d := New(&fakeSource{countries: sample()}, quietLogger())
	require.NoError(t, d.Load(context.Background()))
	return d
}

func TestLookup_ByNameAndCode(t *testing.T) {
	d := loaded(t)

	tests := []struct {
		input string
		want  string
	}{
		{"Portugal", "PRT"},
		{"portugal", "PRT"},
		{"  FRANCE ", "FRA"},
		{"esp", "ESP"},
		{"AND", "AND"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			c, err := d.Lookup(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Code)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	d := loaded(t)

	_, err := d.Lookup("Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnknownCountry)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestLookup_BeforeLoad(t *testing.T) {
	d := New(&fakeSource{countries: sample()}, quietLogger())

	_, err := d.Lookup("Portugal")
	assert.ErrorIs(t, err, models.ErrDirectoryUnavailable)
}

func TestName(t *testing.T) {
	d := loaded(t)

	assert.Equal(t, "Spain", d.Name("ESP"))
	assert.Equal(t, "XKX", d.Name("XKX"))
}

func TestSuggestions_SortedByAreaDesc(t *testing.T) {
	d := loaded(t)

	got := d.Suggestions()
	require.Len(t, got, 5)

	codes := make([]string, len(got))
	for i, c := range got {
		codes[i] = c.Code
	}
	assert.Equal(t, []string{"FRA", "ESP", "ISL", "PRT", "AND"}, codes)

	got[0].Name = "mutated"
	assert.Equal(t, "France", d.Name("FRA"))
}

func TestSuggestions_TiesByName(t *testing.T) {
	d := New(&fakeSource{countries: []client.Country{
		country("BBB", "Beta", 10),
		country("AAA", "Alpha", 10),
	}}, quietLogger())
	require.NoError(t, d.Load(context.Background()))

	got := d.Suggestions()
	assert.Equal(t, "AAA", got[0].Code)
	assert.Equal(t, "BBB", got[1].Code)
}

func TestLoad_OnlyOnce(t *testing.T) {
	src := &fakeSource{countries: sample()}
	d := New(src, quietLogger())

	require.NoError(t, d.Load(context.Background()))
	require.NoError(t, d.Load(context.Background()))

	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, d.Loaded())
	assert.Equal(t, 5, d.Len())
}

func TestLoad_ConcurrentCallersShareOneRequest(t *testing.T) {
	src := &fakeSource{countries: sample(), gate: make(chan struct{})}
	d := New(src, quietLogger())

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- d.Load(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(src.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestLoad_FailureIsNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	d := New(src, quietLogger())

	err := d.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDirectoryUnavailable)
	assert.False(t, d.Loaded())

	src.err = nil
	src.countries = sample()
	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := &fakeSource{countries: sample(), gate: make(chan struct{})}
	d := New(src, quietLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() { errA <- d.Load(ctxA) }()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	errB := make(chan error, 1)
	go func() { errB <- d.Load(context.Background()) }()

	cancelA()
	err := <-errA
	assert.ErrorIs(t, err, models.ErrDirectoryUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(src.gate)
	require.NoError(t, <-errB)
	assert.True(t, d.Loaded())
	assert.Equal(t, int32(1), src.calls.Load())
}
