package advisor

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed prompts/skill_gap.md
	skillGapPrompt string
	//go:embed prompts/job_suggestions.md
	jobSuggestionsPrompt string
	//go:embed prompts/skill_breakdown.md
	skillBreakdownPrompt string
	//go:embed prompts/career_path.md
	careerPathPrompt string
	//go:embed prompts/resume_sections.md
	resumeSectionsPrompt string
	//go:embed prompts/skill_list.md
	skillListPrompt string
)

// buildPrompt replaces {{KEY}} placeholders in template.
func buildPrompt(template string, values map[string]string) string {
	prompt := template
	for key, value := range values {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", value)
	}
	return prompt
}

func skillsJSON(skills []string) string {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return "[]"
	}
	return string(data)
}
