package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

type row struct {
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Details string  `json:"details" table:"wide"`
	Secret  string  `table:"-"`
	Note    *string `json:"note,omitempty"`
	hidden  string
}

func render(t *testing.T, f *TableFormatter, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return buf.String()
}

func TestTableFormatter_Slice(t *testing.T) {
	data := []row{
		{Name: "alice", Age: 30, Details: "d1", Secret: "s", hidden: "h"},
		{Name: "bob", Age: 25, Details: "d2"},
	}

	out := render(t, &TableFormatter{}, data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out)
	}
	if got := strings.Fields(lines[0]); !reflect.DeepEqual(got, []string{"NAME", "AGE", "NOTE"}) {
		t.Errorf("headers = %v", got)
	}
	if got := strings.Fields(lines[1]); !reflect.DeepEqual(got, []string{"alice", "30", "-"}) {
		t.Errorf("row = %v", got)
	}

	wide := render(t, &TableFormatter{Wide: true}, data)
	if !strings.Contains(wide, "DETAILS") || !strings.Contains(wide, "d1") {
		t.Errorf("wide output missing wide column:\n%s", wide)
	}
	if strings.Contains(wide, "SECRET") {
		t.Error(`table:"-" field rendered`)
	}
}

func TestTableFormatter_PointerSliceAndEmpty(t *testing.T) {
	out := render(t, &TableFormatter{}, []*row{{Name: "alice"}, nil, {Name: "bob"}})
	if !strings.Contains(out, "alice") || !strings.Contains(out, "bob") {
		t.Errorf("output:\n%s", out)
	}

	if out := render(t, &TableFormatter{}, []row{}); out != "" {
		t.Errorf("empty slice output = %q, want empty", out)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	u := &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin, CreatedAt: domain.NewTimestamp(created)}

	out := render(t, &TableFormatter{}, u)
	for _, want := range []string{"FIELD", "username", "alice", "role", "admin", "2026-01-02 03:04"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "last_login") {
		t.Errorf("nil timestamp row missing:\n%s", out)
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	out := render(t, &TableFormatter{NoHeaders: true}, map[string]int{"b": 2, "a": 1, "c": 3})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "a") || !strings.HasPrefix(lines[2], "c") {
		t.Errorf("rows not sorted:\n%s", out)
	}
}

type tabled struct{}

func (tabled) Table(wide bool) *Table {
	t := &Table{Headers: []string{"X"}}
	if wide {
		t.AddRow("wide")
	} else {
		t.AddRow("narrow")
	}
	return t
}

func TestTableFormatter_Tabler(t *testing.T) {
	if out := render(t, &TableFormatter{Wide: true}, tabled{}); !strings.Contains(out, "wide") {
		t.Errorf("Tabler not used:\n%s", out)
	}
}

func TestTableFormatter_FallbackToJSON(t *testing.T) {
	out := render(t, &TableFormatter{}, 42)
	if strings.TrimSpace(out) != "42" {
		t.Errorf("output = %q, want JSON 42", out)
	}
}

func TestFormatValue(t *testing.T) {
	s := "x"
	tests := []struct {
		in   any
		want string
	}{
		{"", "-"},
		{"abc", "abc"},
		{7, "7"},
		{uint8(3), "3"},
		{1.5, "1.50"},
		{true, "true"},
		{[]int{1, 2}, "[2 items]"},
		{map[string]int{}, "-"},
		{&s, "x"},
		{(*string)(nil), "-"},
		{domain.RoleAdmin, "admin"},
		{time.Time{}, "-"},
	}
	for _, tt := range tests {
		if got := formatValue(reflect.ValueOf(tt.in)); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{"Name": "name", "UserID": "user_i_d", "createdAt": "created_at"}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTable_Render(t *testing.T) {
	table := &Table{}
	table.SetHeaders("A", "LONGER")
	table.AddRow("1", "2")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if want := "A  LONGER\n1  2\n"; buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
}
