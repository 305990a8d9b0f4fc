package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json: wrong formatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("yaml: wrong formatter")
	}
	tf, ok := NewFormatter("unknown", true).(*TableFormatter)
	if !ok || !tf.Wide {
		t.Error("unknown: want wide table formatter")
	}
}

func sampleUser() *domain.User {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleUser, CreatedAt: domain.NewTimestamp(created)}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sampleUser()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"username": "alice"`, `"role": "user"`, `"created_at": "2026-01-02T03:04:05`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := (&YAMLFormatter{}).Format(&buf, []*domain.User{sampleUser()})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "- id: u-1\n") {
		t.Errorf("output does not start with the id key in JSON order:\n%s", out)
	}
	for _, want := range []string{"  username: alice\n", "  role: user\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "{") {
		t.Errorf("output uses flow style:\n%s", out)
	}
}

func TestYAMLFormatter_QuotesAmbiguousStrings(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, map[string]string{"id": "123", "flag": "true"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `id: "123"`) || !strings.Contains(out, `flag: "true"`) {
		t.Errorf("ambiguous strings not quoted:\n%s", out)
	}
}
