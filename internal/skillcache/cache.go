// Package skillcache keeps skill breakdowns per job title in the document store.
//
// The cache never fails a caller: read errors and undecodable entries count as
// misses and write errors are only logged. Concurrent writers for one title
// overwrite each other.
package skillcache

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/career"
	"github.com/spigell/career-craft/internal/docstore"
	"github.com/spigell/career-craft/internal/logger"
	"github.com/spigell/career-craft/internal/metrics"
)

const (
	DefaultTTL        = 30 * 24 * time.Hour
	DefaultCollection = "skill_cache"
)

type entry struct {
	JobTitle        string    `json:"job_title"`
	TechnicalSkills []string  `json:"technical_skills"`
	SoftSkills      []string  `json:"soft_skills"`
	ToolSkills      []string  `json:"tool_skills"`
	CachedAt        time.Time `json:"cached_at"`
}

type Cache struct {
	store      docstore.Store
	collection string
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCollection(name string) Option {
	return func(c *Cache) {
		if name = strings.TrimSpace(name); name != "" {
			c.collection = name
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(store docstore.Store, log *zap.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		collection: DefaultCollection,
		ttl:        DefaultTTL,
		now:        time.Now,
		logger:     logger.WithComponent(log, "skill_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NormalizeKey case-folds title and joins its words with "_".
func NormalizeKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "_")
}

// Lookup returns a fresh entry for title. Absent, stale and unreadable entries are misses.
func (c *Cache) Lookup(ctx context.Context, title string) (career.SkillBreakdown, bool) {
	key := NormalizeKey(title)
	if key == "" || c.store == nil {
		return career.SkillBreakdown{}, false
	}

	doc, err := c.store.Get(ctx, c.collection, key)
	if errors.Is(err, docstore.ErrNotFound) {
		metrics.SkillCacheEvents.WithLabelValues(metrics.CacheMiss).Inc()
		return career.SkillBreakdown{}, false
	}
	if err != nil {
		metrics.SkillCacheEvents.WithLabelValues(metrics.CacheReadError).Inc()
		c.logger.Warn("skill cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		return career.SkillBreakdown{}, false
	}

	var e entry
	if err := docstore.Decode(doc, &e); err != nil {
		metrics.SkillCacheEvents.WithLabelValues(metrics.CacheReadError).Inc()
		c.logger.Warn("skill cache entry is unreadable, treating as miss", zap.String("key", key), zap.Error(err))
		return career.SkillBreakdown{}, false
	}

	age := c.now().Sub(e.CachedAt)
	if age > c.ttl {
		metrics.SkillCacheEvents.WithLabelValues(metrics.CacheStale).Inc()
		c.logger.Info("skill cache entry is stale",
			zap.String("key", key),
			zap.Duration("age", age),
			zap.Duration("ttl", c.ttl),
		)
		return career.SkillBreakdown{}, false
	}

	metrics.SkillCacheEvents.WithLabelValues(metrics.CacheHit).Inc()
	c.logger.Debug("skill cache hit", zap.String("key", key))

	return career.SkillBreakdown{
		TechnicalSkills: e.TechnicalSkills,
		SoftSkills:      e.SoftSkills,
		ToolSkills:      e.ToolSkills,
	}.Normalize(), true
}

// Store overwrites the entry for title. Failures are logged and swallowed.
func (c *Cache) Store(ctx context.Context, title string, breakdown career.SkillBreakdown) {
	key := NormalizeKey(title)
	if key == "" || c.store == nil {
		return
	}

	breakdown = breakdown.Normalize()
	doc, err := docstore.Encode(entry{
		JobTitle:        strings.TrimSpace(title),
		TechnicalSkills: breakdown.TechnicalSkills,
		SoftSkills:      breakdown.SoftSkills,
		ToolSkills:      breakdown.ToolSkills,
		CachedAt:        c.now().UTC(),
	})
	if err == nil {
		err = c.store.Put(ctx, c.collection, key, doc)
	}
	if err != nil {
		metrics.SkillCacheEvents.WithLabelValues(metrics.CacheWriteError).Inc()
		c.logger.Warn("skill cache write failed", zap.String("key", key), zap.Error(err))
		return
	}

	c.logger.Debug("skill cache entry stored", zap.String("key", key))
}
