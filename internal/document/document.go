// Package document converts uploaded resumes into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/logger"
)

const (
	MIMEPDF   = "application/pdf"
	MIMEDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPlain = "text/plain"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorrupt           = errors.New("corrupt document")
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	tabTag       = regexp.MustCompile(`<w:tab\s*/>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
)

type Reader struct {
	logger *zap.Logger
}

// NewReader returns a Reader. licenseKey is the UniDoc metered key used for PDF
// extraction; it may be empty when PDFs are not expected.
func NewReader(licenseKey string, log *zap.Logger) (*Reader, error) {
	if key := strings.TrimSpace(licenseKey); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			return nil, fmt.Errorf("set unidoc license: %w", err)
		}
	}

	return &Reader{logger: logger.WithComponent(log, "document")}, nil
}

// MIMETypeForExtension maps a file extension such as ".pdf" to a supported MIME type.
func MIMETypeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return MIMEPDF
	case "docx":
		return MIMEDOCX
	case "txt", "md", "text":
		return MIMEPlain
	default:
		return ""
	}
}

// ExtractText returns the text of data. Unknown MIME types yield ErrUnsupportedFormat
// and unreadable documents ErrCorrupt.
func (r *Reader) ExtractText(data []byte, mimeType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}

	switch mediaType {
	case MIMEPlain:
		return strings.TrimSpace(string(data)), nil
	case MIMEPDF:
		return r.pdfText(data)
	case MIMEDOCX:
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}
}

func (r *Reader) pdfText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrCorrupt, err)
	}

	pages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("%w: count pdf pages: %v", ErrCorrupt, err)
	}

	var builder strings.Builder
	for i := 1; i <= pages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			r.logger.Warn("skipping unreadable pdf page", zap.Int("page", i), zap.Error(err))
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			r.logger.Warn("skipping pdf page", zap.Int("page", i), zap.Error(err))
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			r.logger.Warn("extracting pdf page text failed", zap.Int("page", i), zap.Error(err))
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			builder.WriteString(text)
			builder.WriteString("\n")
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read docx: %v", ErrCorrupt, err)
	}
	defer doc.Close()

	return xmlToText(doc.Editable().GetContent()), nil
}

// xmlToText flattens WordprocessingML into lines, one per paragraph.
func xmlToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabTag.ReplaceAllString(content, "\t")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}
