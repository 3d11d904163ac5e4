package advisor

import (
	"strings"

	"github.com/spigell/career-craft/internal/career"
)

// skillKey folds case and inner whitespace so "Machine  learning" and
// "machine learning" compare equal.
func skillKey(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}

// dedupe keeps the first spelling of every skill and drops blank entries.
func dedupe(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		key := skillKey(skill)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(skill))
	}
	return out
}

func dedupeBreakdown(b career.SkillBreakdown) career.SkillBreakdown {
	return career.SkillBreakdown{
		TechnicalSkills: dedupe(b.TechnicalSkills),
		SoftSkills:      dedupe(b.SoftSkills),
		ToolSkills:      dedupe(b.ToolSkills),
	}
}

// subsetOf returns the candidates that appear in allowed, compared by skillKey.
func subsetOf(candidates, allowed []string) []string {
	keys := make(map[string]struct{}, len(allowed))
	for _, skill := range allowed {
		keys[skillKey(skill)] = struct{}{}
	}

	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := keys[skillKey(candidate)]; ok {
			out = append(out, candidate)
		}
	}
	return out
}

// SplitSkills splits a comma separated skill line, trimming tokens and dropping empty ones.
func SplitSkills(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitLines returns every trimmed line longer than one character.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len([]rune(line)) > 1 {
			out = append(out, line)
		}
	}
	return out
}
