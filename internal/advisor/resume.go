package advisor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/ai"
	"github.com/spigell/career-craft/internal/extract"
	"github.com/spigell/career-craft/internal/metrics"
)

const (
	tierStructured = "structured"
	tierFlat       = "flat"
	tierLineSplit  = "line_split"
)

// resumeTier is one strategy of the resume pipeline. Tiers run in order until one
// produces a non-empty skill list. A tier may name the tier to fall back to; an
// empty name means the next one.
type resumeTier interface {
	Name() string
	Apply(ctx context.Context, a *Advisor, text string) (res extract.Result[[]string], fallback string)
}

// Step describes the outcome of a single tier.
type Step struct {
	Tier   string
	Kind   extract.Kind
	Skills int
}

func defaultTiers() []resumeTier {
	return []resumeTier{structuredTier{}, flatTier{}, lineSplitTier{}}
}

// ExtractSkillsFromResume returns the skills found in raw resume text. It falls back
// from sectioned extraction to flat extraction over the raw text and finally to a
// plain line split, so non-empty text with a multi-character line always yields skills.
func (a *Advisor) ExtractSkillsFromResume(ctx context.Context, text string) []string {
	skills, _ := a.runResumeTiers(ctx, text, defaultTiers())
	return skills
}

func (a *Advisor) runResumeTiers(ctx context.Context, text string, tiers []resumeTier) ([]string, []Step) {
	steps := make([]Step, 0, len(tiers))
	if strings.TrimSpace(text) == "" {
		a.logger.Info("resume text is empty", zap.String("operation", opResumeSkills))
		a.finish(opResumeSkills, false)
		return []string{}, steps
	}

	for i := 0; i < len(tiers); i++ {
		tier := tiers[i]
		res, fallback := tier.Apply(ctx, a, text)

		step := Step{Tier: tier.Name(), Kind: res.Kind}
		if res.IsOK() {
			step.Skills = len(res.Value)
		}
		steps = append(steps, step)

		a.logger.Info("resume tier",
			zap.String("name", step.Tier),
			zap.String("kind", step.Kind.String()),
			zap.Int("skills", step.Skills),
		)

		if res.IsOK() && len(res.Value) > 0 {
			metrics.ResumeTier.WithLabelValues(step.Tier).Inc()
			a.finish(opResumeSkills, i == 0)
			return res.Value, steps
		}

		// Only forward jumps, so every tier runs at most once.
		if j := tierIndex(tiers, fallback); j > i+1 {
			i = j - 1
		}
	}

	a.finish(opResumeSkills, false)
	return []string{}, steps
}

// tierIndex returns the position of the tier called name, or -1.
func tierIndex(tiers []resumeTier, name string) int {
	if name == "" {
		return -1
	}
	for i, tier := range tiers {
		if tier.Name() == name {
			return i
		}
	}
	return -1
}

// structuredTier splits the resume into sections and extracts skills from the
// skills and experience sections only. Once sections were extracted, a failed
// skill pass falls back to the line split directly.
type structuredTier struct{}

func (structuredTier) Name() string { return tierStructured }

func (structuredTier) Apply(ctx context.Context, a *Advisor, text string) (extract.Result[[]string], string) {
	prompt := buildPrompt(resumeSectionsPrompt, map[string]string{"RESUME": strings.TrimSpace(text)})

	sections := generateAndExtract(ctx, a, opResumeSkills, tierStructured, prompt, ai.ProfileExtraction, extract.ResumeSections)
	if !sections.IsOK() {
		return extract.Result[[]string]{Kind: sections.Kind, Raw: sections.Raw, Reason: sections.Reason, Cause: sections.Cause}, ""
	}

	parts := make([]string, 0, len(sections.Value.Skills)+len(sections.Value.Experience))
	parts = append(parts, sections.Value.Skills...)
	parts = append(parts, sections.Value.Experience...)

	// Nothing to refine, let the flat tier look at the whole text.
	relevant := strings.TrimSpace(strings.Join(parts, "\n"))
	if relevant == "" {
		return extract.Empty[[]string](), ""
	}

	return flatSkills(ctx, a, tierStructured, relevant), tierLineSplit
}

// flatTier runs the comma separated extractor over the raw resume text.
type flatTier struct{}

func (flatTier) Name() string { return tierFlat }

func (flatTier) Apply(ctx context.Context, a *Advisor, text string) (extract.Result[[]string], string) {
	return flatSkills(ctx, a, tierFlat, strings.TrimSpace(text)), ""
}

func flatSkills(ctx context.Context, a *Advisor, tier, text string) extract.Result[[]string] {
	prompt := buildPrompt(skillListPrompt, map[string]string{"TEXT": text})
	return generateAndExtract(ctx, a, opResumeSkills, tier, prompt, ai.ProfileFlat, extract.CSV)
}

// lineSplitTier treats every line longer than one character as a skill.
type lineSplitTier struct{}

func (lineSplitTier) Name() string { return tierLineSplit }

func (lineSplitTier) Apply(_ context.Context, _ *Advisor, text string) (extract.Result[[]string], string) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return extract.Empty[[]string](), ""
	}
	return extract.OK(lines), ""
}
