package extract

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/career-craft/internal/career"
)

func TestSkillGapToleratesProseAndFences(t *testing.T) {
	t.Parallel()

	raw := "Sure! Here is the result: ```json\n{\"matching_skills\": [\"Python\"], \"missing_skills\": []}\n```"

	res := SkillGap(raw)
	if !res.IsOK() {
		t.Fatalf("expected ok, got %s (%s)", res.Kind, res.Reason)
	}

	want := career.SkillGap{MatchingSkills: []string{"Python"}, MissingSkills: []string{}}
	if !reflect.DeepEqual(res.Value, want) {
		t.Fatalf("unexpected value: %#v", res.Value)
	}
}

func TestEmptyAndMalformedInput(t *testing.T) {
	t.Parallel()

	shapes := []Shape{ShapeCSV, ShapeSkillGap, ShapeJobSuggestions, ShapeSkillBreakdown, ShapeCareerPath, ShapeResumeSections}

	for _, shape := range shapes {
		for _, raw := range []string{"", "   ", "\n\t"} {
			if got := Extract(raw, shape).Kind; got != KindEmpty {
				t.Fatalf("Extract(%q, %s) = %s, want empty_output", raw, shape, got)
			}
		}
	}

	for _, shape := range shapes[1:] {
		res := Extract("not json at all", shape)
		if res.Kind != KindMalformed {
			t.Fatalf("Extract(not json, %s) = %s, want malformed_output", shape, res.Kind)
		}
		if res.Raw != "not json at all" {
			t.Fatalf("malformed result must carry raw text, got %q", res.Raw)
		}
	}
}

func TestObjectShapesRejectSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shape Shape
		raw   string
	}{
		{name: "missing key", shape: ShapeSkillGap, raw: `{"matching_skills": ["Go"]}`},
		{name: "wrong element type", shape: ShapeSkillGap, raw: `{"matching_skills": [1], "missing_skills": []}`},
		{name: "list as string", shape: ShapeCareerPath, raw: `{"next_skills": "Go", "milestones": [], "recommended_actions": []}`},
		{name: "score above range", shape: ShapeJobSuggestions, raw: `{"suggestions": [{"job_title": "SRE", "match_score": 101}]}`},
		{name: "fractional score", shape: ShapeJobSuggestions, raw: `{"suggestions": [{"job_title": "SRE", "match_score": 72.5}]}`},
		{name: "empty title", shape: ShapeJobSuggestions, raw: `{"suggestions": [{"job_title": "", "match_score": 50}]}`},
		{name: "broken json", shape: ShapeSkillBreakdown, raw: `{"technical_skills": ["Go",}`},
		{name: "reversed braces", shape: ShapeSkillBreakdown, raw: `} nothing here {`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Extract(tt.raw, tt.shape)
			if res.Kind != KindMalformed {
				t.Fatalf("expected malformed_output, got %s", res.Kind)
			}
			if !errors.Is(res.Err(), ErrMalformedOutput) {
				t.Fatalf("expected ErrMalformedOutput, got %v", res.Err())
			}
		})
	}
}

func TestJobSuggestionsKeepsOrderAndWholeScores(t *testing.T) {
	t.Parallel()

	raw := "```\n{\"suggestions\": [" +
		"{\"job_title\": \"Data Engineer\", \"match_score\": 85.0}," +
		"{\"job_title\": \"Backend Developer\", \"match_score\": 70, \"suggestion_id\": \"abc\"}" +
		"]}\n```"

	res := JobSuggestions(raw)
	if !res.IsOK() {
		t.Fatalf("expected ok, got %s (%s)", res.Kind, res.Reason)
	}

	want := []career.JobSuggestion{
		{JobTitle: "Data Engineer", MatchScore: 85},
		{JobTitle: "Backend Developer", MatchScore: 70, SuggestionID: "abc"},
	}
	if !reflect.DeepEqual(res.Value, want) {
		t.Fatalf("unexpected suggestions: %#v", res.Value)
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
		kind Kind
	}{
		{raw: "Go, SQL ,  Kubernetes", want: []string{"Go", "SQL", "Kubernetes"}, kind: KindOK},
		{raw: "```\nGo,,Docker,\n```", want: []string{"Go", "Docker"}, kind: KindOK},
		{raw: "Python", want: []string{"Python"}, kind: KindOK},
		{raw: " , ,, ", kind: KindEmpty},
	}

	for _, tt := range tests {
		res := CSV(tt.raw)
		if res.Kind != tt.kind {
			t.Fatalf("CSV(%q) kind = %s, want %s", tt.raw, res.Kind, tt.kind)
		}
		if tt.kind == KindOK && !reflect.DeepEqual(res.Value, tt.want) {
			t.Fatalf("CSV(%q) = %#v, want %#v", tt.raw, res.Value, tt.want)
		}
	}
}

func TestRoundTripStability(t *testing.T) {
	t.Parallel()

	gap := SkillGap(`{"matching_skills": ["Go"], "missing_skills": ["Rust", "Kafka"]}`)
	assertRoundTrip(t, gap, func(v career.SkillGap) string { return mustJSON(t, v) }, SkillGap)

	breakdown := SkillBreakdown(`prefix {"technical_skills": ["Go"], "soft_skills": [], "tool_skills": ["Git"]} suffix`)
	assertRoundTrip(t, breakdown, func(v career.SkillBreakdown) string { return mustJSON(t, v) }, SkillBreakdown)

	path := CareerPath(`{"next_skills": ["Terraform"], "milestones": ["DevOps Engineer"], "recommended_actions": ["Build a homelab"]}`)
	assertRoundTrip(t, path, func(v career.CareerPath) string { return mustJSON(t, v) }, CareerPath)

	sections := ResumeSections(`{"education": ["BSc"], "experience": [], "skills": ["Go"]}`)
	assertRoundTrip(t, sections, func(v career.ResumeSections) string { return mustJSON(t, v) }, ResumeSections)

	suggestions := JobSuggestions(`{"suggestions": [{"job_title": "SRE", "match_score": 64, "suggestion_id": "id-1"}]}`)
	assertRoundTrip(t, suggestions, func(v []career.JobSuggestion) string {
		return mustJSON(t, map[string]any{"suggestions": v})
	}, JobSuggestions)

	csv := CSV("Go, SQL")
	assertRoundTrip(t, csv, func(v []string) string {
		out := ""
		for i, s := range v {
			if i > 0 {
				out += ","
			}
			out += s
		}
		return out
	}, CSV)
}

func TestFromGenerationClassifiesTransportErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	res := FromGeneration("", cause, SkillGap)
	if res.Kind != KindTransport {
		t.Fatalf("expected transport_failure, got %s", res.Kind)
	}
	if !errors.Is(res.Err(), ErrTransportFailure) || !errors.Is(res.Err(), cause) {
		t.Fatalf("expected wrapped cause, got %v", res.Err())
	}

	if got := FromGeneration("", nil, SkillGap).Kind; got != KindEmpty {
		t.Fatalf("expected empty_output for empty text, got %s", got)
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"```json\n{}\n```":  "{}",
		"```\r\n{}\r\n```":  "{}",
		"```{}```":          "{}",
		"plain text":        "plain text",
		"  ```go \n{}```  ": "{}",
	}

	for in, want := range tests {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func assertRoundTrip[T any](t *testing.T, first Result[T], render func(T) string, extract func(string) Result[T]) {
	t.Helper()

	if !first.IsOK() {
		t.Fatalf("expected ok, got %s (%s)", first.Kind, first.Reason)
	}

	second := extract(render(first.Value))
	if !second.IsOK() {
		t.Fatalf("re-extraction failed: %s (%s)", second.Kind, second.Reason)
	}
	if !reflect.DeepEqual(first.Value, second.Value) {
		t.Fatalf("round trip changed value: %#v != %#v", first.Value, second.Value)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
