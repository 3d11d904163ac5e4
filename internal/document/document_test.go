package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func newReader(t *testing.T) *Reader {
	t.Helper()

	r, err := NewReader("", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body +
			`</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	r := newReader(t)

	text, err := r.ExtractText([]byte("  Go\nSQL  \n"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Go\nSQL" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	r := newReader(t)

	for _, mimeType := range []string{"image/png", "", "application/msword"} {
		if _, err := r.ExtractText([]byte("data"), mimeType); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("ExtractText(%q) error = %v, want ErrUnsupportedFormat", mimeType, err)
		}
	}
}

func TestExtractDocx(t *testing.T) {
	r := newReader(t)

	data := buildDocx(t,
		`<w:p><w:r><w:t>Skills</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>R&amp;D</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t>Kubernetes</w:t></w:r></w:p>`,
	)

	text, err := r.ExtractText(data, MIMEDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Skills\nGo\tR&D\nKubernetes" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractCorruptDocuments(t *testing.T) {
	r := newReader(t)

	if _, err := r.ExtractText([]byte("definitely not a zip"), MIMEDOCX); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for docx, got %v", err)
	}
}

func TestMIMETypeForExtension(t *testing.T) {
	tests := map[string]string{
		".pdf":  MIMEPDF,
		"DOCX":  MIMEDOCX,
		".txt":  MIMEPlain,
		".jpeg": "",
	}

	for ext, want := range tests {
		if got := MIMETypeForExtension(ext); got != want {
			t.Fatalf("MIMETypeForExtension(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestXMLToText(t *testing.T) {
	got := xmlToText(`<w:p><w:r><w:t>a</w:t><w:br/><w:t>b &lt;c&gt;</w:t></w:r></w:p>`)
	if got != "a\nb <c>" {
		t.Fatalf("unexpected text: %q", got)
	}
}
