// Package advisor runs the career operations: it builds a prompt, calls the
// generator, extracts the expected shape and post-processes the value.
//
// Operations never return an error for generation or extraction failures. They
// log the failure and return the empty value of their type.
package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/ai"
	"github.com/spigell/career-craft/internal/career"
	"github.com/spigell/career-craft/internal/extract"
	"github.com/spigell/career-craft/internal/logger"
	"github.com/spigell/career-craft/internal/metrics"
	"github.com/spigell/career-craft/internal/utils"
)

const (
	opSkillGap       = "skill_gap"
	opSuggestJobs    = "suggest_jobs"
	opSkillBreakdown = "skill_breakdown"
	opCareerPath     = "career_path"
	opResumeSkills   = "resume_skills"

	defaultMaxLogLength = 200
)

var errNoGenerator = errors.New("generator is not configured")

// SkillCache is the read-through store used by GetSkillsForJob.
type SkillCache interface {
	Lookup(ctx context.Context, title string) (career.SkillBreakdown, bool)
	Store(ctx context.Context, title string, breakdown career.SkillBreakdown)
}

// DocumentReader converts an uploaded document into plain text.
type DocumentReader interface {
	ExtractText(data []byte, mimeType string) (string, error)
}

type Advisor struct {
	generator      ai.Generator
	cache          SkillCache
	reader         DocumentReader
	logger         *zap.Logger
	strictMatching bool
	newID          func() string
	maxLogLen      int
}

type Option func(*Advisor)

// WithStrictMatching drops matching skills that are not in the caller's skill list.
func WithStrictMatching(strict bool) Option {
	return func(a *Advisor) { a.strictMatching = strict }
}

func WithDocumentReader(reader DocumentReader) Option {
	return func(a *Advisor) { a.reader = reader }
}

// WithIDGenerator replaces the suggestion id source.
func WithIDGenerator(fn func() string) Option {
	return func(a *Advisor) {
		if fn != nil {
			a.newID = fn
		}
	}
}

func WithMaxLogLength(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.maxLogLen = n
		}
	}
}

// New builds an Advisor. A nil cache disables caching.
func New(generator ai.Generator, cache SkillCache, log *zap.Logger, opts ...Option) *Advisor {
	a := &Advisor{
		generator: generator,
		cache:     cache,
		logger:    logger.WithComponent(log, "advisor"),
		newID:     newSuggestionID,
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func newSuggestionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// AnalyzeSkillGap compares skills with the requirements of jobTitle.
func (a *Advisor) AnalyzeSkillGap(ctx context.Context, skills []string, jobTitle string) career.SkillGap {
	prompt := buildPrompt(skillGapPrompt, map[string]string{
		"JOB_TITLE": strings.TrimSpace(jobTitle),
		"SKILLS":    skillsJSON(skills),
	})

	res := generateAndExtract(ctx, a, opSkillGap, "structured", prompt, ai.ProfileAnalysis, extract.SkillGap)
	if !res.IsOK() {
		a.finish(opSkillGap, false)
		return career.SkillGap{}.Normalize()
	}

	gap := res.Value
	if a.strictMatching {
		kept := subsetOf(gap.MatchingSkills, skills)
		if dropped := len(gap.MatchingSkills) - len(kept); dropped > 0 {
			a.logger.Info("dropping matching skills absent from input",
				zap.String("operation", opSkillGap),
				zap.Int("dropped", dropped),
			)
		}
		gap.MatchingSkills = kept
	}

	a.finish(opSkillGap, true)
	return gap.Normalize()
}

// SuggestJobs suggests roles for free form candidate content. Every suggestion gets
// a fresh id regardless of what the generator returned.
func (a *Advisor) SuggestJobs(ctx context.Context, content string) career.JobSuggestionSet {
	content = strings.TrimSpace(content)
	if content == "" {
		a.logger.Info("no content to suggest jobs from", zap.String("operation", opSuggestJobs))
		a.finish(opSuggestJobs, false)
		return career.JobSuggestionSet{}.Normalize()
	}

	prompt := buildPrompt(jobSuggestionsPrompt, map[string]string{"CONTENT": content})

	res := generateAndExtract(ctx, a, opSuggestJobs, "structured", prompt, ai.ProfileSuggestion, extract.JobSuggestions)
	if !res.IsOK() {
		a.finish(opSuggestJobs, false)
		return career.JobSuggestionSet{}.Normalize()
	}

	suggestions := make([]career.JobSuggestion, 0, len(res.Value))
	for _, s := range res.Value {
		s.SuggestionID = a.newID()
		suggestions = append(suggestions, s)
	}

	a.finish(opSuggestJobs, true)
	return career.JobSuggestionSet{Suggestions: suggestions}.Normalize()
}

// GetSkillsForJob returns the categorized skills of jobTitle, from the cache when fresh.
// Only non-empty results are written back.
func (a *Advisor) GetSkillsForJob(ctx context.Context, jobTitle string) career.SkillBreakdown {
	if a.cache != nil {
		if cached, ok := a.cache.Lookup(ctx, jobTitle); ok {
			a.logger.Debug("skill breakdown served from cache", zap.String("job_title", jobTitle))
			a.finish(opSkillBreakdown, true)
			return cached
		}
	}

	prompt := buildPrompt(skillBreakdownPrompt, map[string]string{"JOB_TITLE": strings.TrimSpace(jobTitle)})

	res := generateAndExtract(ctx, a, opSkillBreakdown, "structured", prompt, ai.ProfileAnalysis, extract.SkillBreakdown)
	if !res.IsOK() {
		a.finish(opSkillBreakdown, false)
		return career.SkillBreakdown{}.Normalize()
	}

	breakdown := dedupeBreakdown(res.Value)
	if breakdown.IsEmpty() {
		a.logger.Info("skill breakdown is empty, not caching", zap.String("job_title", jobTitle))
		a.finish(opSkillBreakdown, false)
		return breakdown
	}

	if a.cache != nil {
		a.cache.Store(ctx, jobTitle, breakdown)
	}

	a.finish(opSkillBreakdown, true)
	return breakdown
}

// GenerateCareerPath plans the way from currentSkills to targetJob.
func (a *Advisor) GenerateCareerPath(ctx context.Context, currentSkills []string, targetJob string) career.CareerPath {
	prompt := buildPrompt(careerPathPrompt, map[string]string{
		"TARGET_JOB": strings.TrimSpace(targetJob),
		"SKILLS":     skillsJSON(currentSkills),
	})

	res := generateAndExtract(ctx, a, opCareerPath, "structured", prompt, ai.ProfileSuggestion, extract.CareerPath)
	if !res.IsOK() {
		a.finish(opCareerPath, false)
		return career.CareerPath{}.Normalize()
	}

	a.finish(opCareerPath, true)
	return res.Value.Normalize()
}

// generateAndExtract runs one generation and extraction and logs a failed result.
func generateAndExtract[T any](ctx context.Context, a *Advisor, op, tier, prompt string, profile ai.Profile, fn func(string) extract.Result[T]) extract.Result[T] {
	var res extract.Result[T]
	if a.generator == nil {
		res = extract.Transport[T](errNoGenerator)
	} else {
		raw, err := a.generator.Generate(ctx, prompt, profile)
		res = extract.FromGeneration(raw, err, fn)
	}

	if !res.IsOK() {
		a.logFailure(op, tier, res.Kind, res.Reason, res.Raw, res.Cause)
	}

	return res
}

func (a *Advisor) logFailure(op, tier string, kind extract.Kind, reason, raw string, cause error) {
	metrics.AdvisorFailures.WithLabelValues(op, kind.String()).Inc()

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("tier", tier),
		zap.String("kind", kind.String()),
	}
	if reason != "" {
		fields = append(fields, zap.String("reason", reason))
	}
	if raw != "" {
		fields = append(fields, zap.String("raw_preview", utils.TruncateForLog(raw, a.maxLogLen)))
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}

	a.logger.Warn("generation step failed, using fallback", fields...)
}

func (a *Advisor) finish(op string, validated bool) {
	outcome := metrics.OutcomeFallback
	if validated {
		outcome = metrics.OutcomeValidated
	}
	metrics.AdvisorRuns.WithLabelValues(op, outcome).Inc()
}
