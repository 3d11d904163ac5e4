package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("CAREER_CRAFT_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{
			name:   "file wins over value and env",
			src:    Source{File: keyFile, Value: "inline", Env: "CAREER_CRAFT_TEST_SECRET"},
			expect: "from-file",
		},
		{
			name:   "value wins over env",
			src:    Source{Value: " inline ", Env: "CAREER_CRAFT_TEST_SECRET"},
			expect: "inline",
		},
		{
			name:   "env as last resort",
			src:    Source{Env: "CAREER_CRAFT_TEST_SECRET"},
			expect: "from-env",
		},
		{
			name:    "empty file",
			src:     Source{Name: "api key", File: emptyFile, Value: "inline"},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{Name: "api key", File: filepath.Join(dir, "missing")},
			wantErr: "reading api key",
		},
		{
			name:    "unset env",
			src:     Source{Name: "api key", Env: "CAREER_CRAFT_TEST_UNSET"},
			wantErr: "checked CAREER_CRAFT_TEST_UNSET",
		},
		{
			name:    "nothing configured",
			src:     Source{},
			wantErr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
