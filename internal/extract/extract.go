// Package extract turns raw generation output into validated values.
//
// The generation service is asked for bare JSON or a bare comma separated line but
// may wrap its answer in prose or code fences. Extraction recovers structure only:
// it strips wrappers, locates the JSON object and validates it against the shape's
// schema. It never fills in or corrects data.
package extract

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/career-craft/internal/career"
)

// Shape is the closed set of outputs the extractor understands.
type Shape int

const (
	ShapeCSV Shape = iota + 1
	ShapeSkillGap
	ShapeJobSuggestions
	ShapeSkillBreakdown
	ShapeCareerPath
	ShapeResumeSections
)

func (s Shape) String() string {
	switch s {
	case ShapeCSV:
		return "csv"
	case ShapeSkillGap:
		return "skill_gap"
	case ShapeJobSuggestions:
		return "job_suggestions"
	case ShapeSkillBreakdown:
		return "skill_breakdown"
	case ShapeCareerPath:
		return "career_path"
	case ShapeResumeSections:
		return "resume_sections"
	default:
		return "unknown"
	}
}

//go:embed schemas/*.json
var schemaFS embed.FS

var schemaFiles = map[Shape]string{
	ShapeSkillGap:       "schemas/skill_gap.json",
	ShapeJobSuggestions: "schemas/job_suggestions.json",
	ShapeSkillBreakdown: "schemas/skill_breakdown.json",
	ShapeCareerPath:     "schemas/career_path.json",
	ShapeResumeSections: "schemas/resume_sections.json",
}

var schemas = mustCompileSchemas()

var (
	// A fence opening with a language identifier on its own line.
	fenceWithLang = regexp.MustCompile("```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n")
	fence         = "```"
)

func mustCompileSchemas() map[Shape]*gojsonschema.Schema {
	compiled := make(map[Shape]*gojsonschema.Schema, len(schemaFiles))
	for shape, path := range schemaFiles {
		data, err := schemaFS.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("read schema %s: %v", path, err))
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			panic(fmt.Sprintf("compile schema %s: %v", path, err))
		}
		compiled[shape] = schema
	}
	return compiled
}

// CSV extracts a comma separated list. Tokens are trimmed and empty tokens dropped.
// A list without any token is reported as empty output.
func CSV(raw string) Result[[]string] {
	if isBlank(raw) {
		return Empty[[]string]()
	}

	tokens := strings.Split(stripFences(raw), ",")
	values := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		values = append(values, token)
	}

	if len(values) == 0 {
		return Empty[[]string]()
	}

	return OK(values)
}

// SkillGap extracts a skill gap analysis.
func SkillGap(raw string) Result[career.SkillGap] {
	res := decodeObject[career.SkillGap](raw, ShapeSkillGap)
	if res.IsOK() {
		res.Value = res.Value.Normalize()
	}
	return res
}

// SkillBreakdown extracts categorized skills for a job.
func SkillBreakdown(raw string) Result[career.SkillBreakdown] {
	res := decodeObject[career.SkillBreakdown](raw, ShapeSkillBreakdown)
	if res.IsOK() {
		res.Value = res.Value.Normalize()
	}
	return res
}

// CareerPath extracts a career path.
func CareerPath(raw string) Result[career.CareerPath] {
	res := decodeObject[career.CareerPath](raw, ShapeCareerPath)
	if res.IsOK() {
		res.Value = res.Value.Normalize()
	}
	return res
}

// ResumeSections extracts the sectioned decomposition of a resume.
func ResumeSections(raw string) Result[career.ResumeSections] {
	res := decodeObject[career.ResumeSections](raw, ShapeResumeSections)
	if res.IsOK() {
		v := res.Value
		if v.Education == nil {
			v.Education = []string{}
		}
		if v.Experience == nil {
			v.Experience = []string{}
		}
		if v.Skills == nil {
			v.Skills = []string{}
		}
		res.Value = v
	}
	return res
}

type suggestionsWire struct {
	Suggestions []struct {
		JobTitle     string      `json:"job_title"`
		MatchScore   json.Number `json:"match_score"`
		SuggestionID string      `json:"suggestion_id"`
	} `json:"suggestions"`
}

// JobSuggestions extracts suggested jobs in the order the service ranked them.
// Scores such as 85.0 are accepted since the schema has already checked they are whole.
func JobSuggestions(raw string) Result[[]career.JobSuggestion] {
	wire := decodeObject[suggestionsWire](raw, ShapeJobSuggestions)
	if !wire.IsOK() {
		return Result[[]career.JobSuggestion]{Kind: wire.Kind, Raw: wire.Raw, Reason: wire.Reason, Cause: wire.Cause}
	}

	suggestions := make([]career.JobSuggestion, 0, len(wire.Value.Suggestions))
	for _, s := range wire.Value.Suggestions {
		score, err := s.MatchScore.Float64()
		if err != nil {
			return malformedBecause[[]career.JobSuggestion](raw, fmt.Sprintf("match_score: %v", err))
		}
		suggestions = append(suggestions, career.JobSuggestion{
			JobTitle:     s.JobTitle,
			MatchScore:   int(score),
			SuggestionID: s.SuggestionID,
		})
	}

	return OK(suggestions)
}

// Extract dispatches on shape and returns the value as any, for callers that only
// know the shape at run time.
func Extract(raw string, shape Shape) Result[any] {
	switch shape {
	case ShapeCSV:
		return widen(CSV(raw))
	case ShapeSkillGap:
		return widen(SkillGap(raw))
	case ShapeJobSuggestions:
		return widen(JobSuggestions(raw))
	case ShapeSkillBreakdown:
		return widen(SkillBreakdown(raw))
	case ShapeCareerPath:
		return widen(CareerPath(raw))
	case ShapeResumeSections:
		return widen(ResumeSections(raw))
	default:
		return malformedBecause[any](raw, fmt.Sprintf("unknown shape %d", shape))
	}
}

// FromGeneration classifies a generation call: a call error becomes a transport
// failure, otherwise the raw text goes through fn.
func FromGeneration[T any](raw string, err error, fn func(string) Result[T]) Result[T] {
	if err != nil {
		return Transport[T](err)
	}
	return fn(raw)
}

func widen[T any](r Result[T]) Result[any] {
	return Result[any]{Kind: r.Kind, Value: r.Value, Raw: r.Raw, Reason: r.Reason, Cause: r.Cause}
}

func decodeObject[T any](raw string, shape Shape) Result[T] {
	if isBlank(raw) {
		return Empty[T]()
	}

	candidate, ok := locateObject(stripFences(raw))
	if !ok {
		return malformedBecause[T](raw, "no json object found")
	}

	schema, ok := schemas[shape]
	if !ok {
		return malformedBecause[T](raw, fmt.Sprintf("no schema for shape %s", shape))
	}

	validation, err := schema.Validate(gojsonschema.NewStringLoader(candidate))
	if err != nil {
		return malformedBecause[T](raw, fmt.Sprintf("invalid json: %v", err))
	}
	if !validation.Valid() {
		return malformedBecause[T](raw, describe(validation.Errors()))
	}

	var value T
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return malformedBecause[T](raw, fmt.Sprintf("decode %s: %v", shape, err))
	}

	return OK(value)
}

// locateObject returns the text between the first '{' and the last '}' inclusive.
func locateObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// stripFences removes markdown code fence markers, including a language identifier
// that sits on the opening fence line.
func stripFences(text string) string {
	text = fenceWithLang.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, fence, "")
	return strings.TrimSpace(text)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
