// Package metrics registers the process wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache event labels.
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheStale      = "stale"
	CacheReadError  = "read_error"
	CacheWriteError = "write_error"
)

// Operation outcome labels.
const (
	OutcomeValidated = "validated"
	OutcomeFallback  = "fallback"
)

var (
	SkillCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_craft_skill_cache_events_total",
			Help: "Skill cache lookups and writes by event",
		},
		[]string{"event"},
	)

	AdvisorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_craft_advisor_runs_total",
			Help: "Advisor operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	AdvisorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_craft_advisor_failures_total",
			Help: "Generation or extraction failures by operation and kind",
		},
		[]string{"operation", "kind"},
	)

	ResumeTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_craft_resume_tier_total",
			Help: "Resume skill extraction results by the tier that produced them",
		},
		[]string{"tier"},
	)
)
