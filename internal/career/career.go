// Package career holds the structured judgments produced from career data.
// List-valued fields are never nil once a value leaves the advisor; callers only
// check for emptiness.
package career

// SkillGap compares a candidate's skills with a job title.
type SkillGap struct {
	// MatchingSkills are taken from the caller supplied skills.
	MatchingSkills []string `json:"matching_skills"`
	// MissingSkills are ordered most critical first, as judged by the generation service.
	MissingSkills []string `json:"missing_skills"`
}

// JobSuggestion is a single suggested role.
type JobSuggestion struct {
	JobTitle     string `json:"job_title"`
	MatchScore   int    `json:"match_score"`
	SuggestionID string `json:"suggestion_id"`
}

// JobSuggestionSet keeps the relevance order of the generation service.
type JobSuggestionSet struct {
	Suggestions []JobSuggestion `json:"suggestions"`
	// ParsedSkills echoes the skill list the suggestions were derived from.
	ParsedSkills []string `json:"parsed_skills"`
}

// SkillBreakdown splits the skills required for a job into categories.
type SkillBreakdown struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	ToolSkills      []string `json:"tool_skills"`
}

// IsEmpty reports whether no category holds a skill.
func (b SkillBreakdown) IsEmpty() bool {
	return len(b.TechnicalSkills) == 0 && len(b.SoftSkills) == 0 && len(b.ToolSkills) == 0
}

// CareerPath is a plan from the current skills to a target job.
type CareerPath struct {
	NextSkills         []string `json:"next_skills"`
	Milestones         []string `json:"milestones"`
	RecommendedActions []string `json:"recommended_actions"`
}

// ResumeSections is the structured decomposition of a resume.
type ResumeSections struct {
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
	Skills     []string `json:"skills"`
}

// Normalize replaces nil lists with empty ones.
func (g SkillGap) Normalize() SkillGap {
	return SkillGap{
		MatchingSkills: orEmpty(g.MatchingSkills),
		MissingSkills:  orEmpty(g.MissingSkills),
	}
}

// Normalize replaces nil lists with empty ones.
func (s JobSuggestionSet) Normalize() JobSuggestionSet {
	if s.Suggestions == nil {
		s.Suggestions = []JobSuggestion{}
	}
	s.ParsedSkills = orEmpty(s.ParsedSkills)
	return s
}

// Normalize replaces nil lists with empty ones.
func (b SkillBreakdown) Normalize() SkillBreakdown {
	return SkillBreakdown{
		TechnicalSkills: orEmpty(b.TechnicalSkills),
		SoftSkills:      orEmpty(b.SoftSkills),
		ToolSkills:      orEmpty(b.ToolSkills),
	}
}

// Normalize replaces nil lists with empty ones.
func (p CareerPath) Normalize() CareerPath {
	return CareerPath{
		NextSkills:         orEmpty(p.NextSkills),
		Milestones:         orEmpty(p.Milestones),
		RecommendedActions: orEmpty(p.RecommendedActions),
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
