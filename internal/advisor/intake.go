package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/career"
)

var (
	ErrMissingInput  = errors.New("either skills or a document is required")
	ErrEmptyDocument = errors.New("no text could be extracted from the document")
)

var validate = validator.New()

// SuggestRequest carries either a comma separated skill line or a document.
// The document wins when both are set.
type SuggestRequest struct {
	Skills   string `validate:"required_without=Document"`
	Document []byte `validate:"required_without=Skills"`
	MIMEType string
}

// Suggest suggests jobs for a request and reports the skills it was based on.
// Only input problems are returned as errors.
func (a *Advisor) Suggest(ctx context.Context, req SuggestRequest) (career.JobSuggestionSet, error) {
	req.Skills = strings.TrimSpace(req.Skills)
	if err := validate.Struct(req); err != nil {
		return career.JobSuggestionSet{}, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}

	if len(req.Document) > 0 {
		return a.suggestFromDocument(ctx, req.Document, req.MIMEType)
	}

	parsed := SplitSkills(req.Skills)
	set := a.SuggestJobs(ctx, req.Skills)
	set.ParsedSkills = parsed

	return set.Normalize(), nil
}

func (a *Advisor) suggestFromDocument(ctx context.Context, data []byte, mimeType string) (career.JobSuggestionSet, error) {
	if a.reader == nil {
		return career.JobSuggestionSet{}, errors.New("document reader is not configured")
	}

	text, err := a.reader.ExtractText(data, mimeType)
	if err != nil {
		return career.JobSuggestionSet{}, fmt.Errorf("read document: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return career.JobSuggestionSet{}, ErrEmptyDocument
	}

	a.logger.Debug("document converted to text",
		zap.String("mime_type", mimeType),
		zap.Int("bytes", len(data)),
		zap.Int("text_length", len(text)),
	)

	parsed := a.ExtractSkillsFromResume(ctx, text)
	set := a.SuggestJobs(ctx, text)
	set.ParsedSkills = parsed

	return set.Normalize(), nil
}
