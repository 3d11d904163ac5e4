package skillcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/career-craft/internal/career"
	"github.com/spigell/career-craft/internal/docstore"
	"github.com/spigell/career-craft/internal/metrics"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

type failingStore struct {
	docstore.Store
	err error
}

func (f failingStore) Get(context.Context, string, string) (docstore.Document, error) {
	return nil, f.err
}

func (f failingStore) Put(context.Context, string, string, docstore.Document) error {
	return f.err
}

var breakdown = career.SkillBreakdown{
	TechnicalSkills: []string{"Python", "Statistics"},
	SoftSkills:      []string{"Communication"},
	ToolSkills:      []string{"Jupyter"},
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Data Scientist":         "data_scientist",
		" data   scientist ":     "data_scientist",
		"SENIOR\tGo\nDeveloper ": "senior_go_developer",
		"":                       "",
		"   ":                    "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), "NormalizeKey(%q)", in)
	}
}

func TestCacheRoundTripAcrossTitleVariants(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	cache := New(store, zap.NewNop())

	_, ok := cache.Lookup(ctx, "Data Scientist")
	require.False(t, ok)

	cache.Store(ctx, "Data Scientist", breakdown)

	got, ok := cache.Lookup(ctx, " data   scientist ")
	require.True(t, ok)
	assert.Equal(t, breakdown, got)

	doc, err := store.Get(ctx, DefaultCollection, "data_scientist")
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", doc["job_title"])
	assert.Contains(t, doc, "cached_at")
}

func TestCacheTTLBoundary(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}

	tests := []struct {
		name string
		age  time.Duration
		hit  bool
	}{
		{name: "29 days", age: 29 * 24 * time.Hour, hit: true},
		{name: "31 days", age: 31 * 24 * time.Hour, hit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written := &clock{now: c.now.Add(-tt.age)}
			store := docstore.NewMemory()

			New(store, zap.NewNop(), WithClock(written.Now)).Store(ctx, "Data Scientist", breakdown)

			_, ok := New(store, zap.NewNop(), WithClock(c.Now)).Lookup(ctx, "Data Scientist")
			assert.Equal(t, tt.hit, ok)
		})
	}
}

func TestCacheStaleEntryIsLogged(t *testing.T) {
	ctx := context.Background()
	core, observed := observer.New(zapcore.InfoLevel)
	store := docstore.NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	New(store, zap.NewNop(), WithClock(func() time.Time { return now.Add(-2 * time.Hour) })).
		Store(ctx, "SRE", breakdown)

	before := testutil.ToFloat64(metrics.SkillCacheEvents.WithLabelValues(metrics.CacheStale))

	cache := New(store, zap.New(core), WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	_, ok := cache.Lookup(ctx, "sre")
	require.False(t, ok)

	assert.Equal(t, 1, observed.FilterMessage("skill cache entry is stale").Len())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SkillCacheEvents.WithLabelValues(metrics.CacheStale)))
}

func TestCacheFailsOpen(t *testing.T) {
	ctx := context.Background()
	core, observed := observer.New(zapcore.WarnLevel)
	cache := New(failingStore{err: errors.New("connection refused")}, zap.New(core))

	_, ok := cache.Lookup(ctx, "Data Scientist")
	assert.False(t, ok)

	cache.Store(ctx, "Data Scientist", breakdown)

	assert.Equal(t, 1, observed.FilterMessage("skill cache read failed, treating as miss").Len())
	assert.Equal(t, 1, observed.FilterMessage("skill cache write failed").Len())
}

func TestCacheUnreadableEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Put(ctx, DefaultCollection, "sre", docstore.Document{
		"job_title":        "SRE",
		"technical_skills": "not a list",
		"cached_at":        "yesterday",
	}))

	_, ok := New(store, zap.NewNop()).Lookup(ctx, "SRE")
	assert.False(t, ok)
}

func TestCacheCustomCollection(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	New(store, zap.NewNop(), WithCollection("breakdowns")).Store(ctx, "DBA", breakdown)

	_, err := store.Get(ctx, "breakdowns", "dba")
	assert.NoError(t, err)
}
