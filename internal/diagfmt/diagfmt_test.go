package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pystyle/internal/diag"
	"pystyle/internal/source"
)

func virtualFile(t *testing.T, name, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(content))
	return fs.Get(id)
}

func TestPretty_NoColor(t *testing.T) {
	file := virtualFile(t, "app.py", "x=1\n")
	items := []diag.Violation{
		diag.New(diag.MissingOpSpace, 1, 2, "Missing whitespace around operator \"=\""),
	}

	var buf bytes.Buffer
	opts := PrettyOpts{ShowSource: true, PathMode: PathModeBasename}
	if err := Pretty(&buf, file, items, opts, ""); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "app.py:1:2 E225") {
		t.Errorf("missing position header:\n%s", out)
	}
	if !strings.Contains(out, "| x=1") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "|  ^") {
		t.Errorf("missing caret:\n%s", out)
	}
}

func TestPretty_CaretRange(t *testing.T) {
	file := virtualFile(t, "app.py", "x+=1\n")
	items := []diag.Violation{
		diag.New(diag.MissingOpSpace, 1, 2, "Missing whitespace around operator \"+=\"").WithEndCol(4),
	}

	var buf bytes.Buffer
	if err := Pretty(&buf, file, items, PrettyOpts{ShowSource: true, PathMode: PathModeBasename}, ""); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "^^") {
		t.Errorf("caret does not span operator:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	file := virtualFile(t, "app.py", "y = 2   \n")
	items := []diag.Violation{
		diag.New(diag.TrailingWhitespace, 1, 6, "Trailing whitespace"),
	}

	var buf bytes.Buffer
	if err := Short(&buf, file, items, PathModeBasename, ""); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "app.py:1:6 W291 Trailing whitespace\n"
	if buf.String() != want {
		t.Errorf("Short = %q, want %q", buf.String(), want)
	}
}

func TestShort_EmptyWritesNothing(t *testing.T) {
	file := virtualFile(t, "app.py", "x = 1\n")
	var buf bytes.Buffer
	if err := Short(&buf, file, nil, PathModeBasename, ""); err != nil {
		t.Fatalf("Short: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestJSON(t *testing.T) {
	file := virtualFile(t, "app.py", "x=1\nclass my_class:\n    pass\n")
	items := []diag.Violation{
		diag.New(diag.MissingOpSpace, 1, 2, "Missing whitespace around operator \"=\""),
		diag.New(diag.ClassNaming, 2, 7, "Class name \"my_class\" should use CapWords convention"),
	}

	report := BuildReport(file, items, JSONOpts{PathMode: PathModeBasename}, "")
	if report.Count != 2 || report.Autofixable != 1 || report.Manual != 1 {
		t.Errorf("counters = %+v", report)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Violations) != 2 {
		t.Fatalf("violations = %d, want 2", len(decoded.Violations))
	}
	if decoded.Violations[0].Code != "E225" || decoded.Violations[0].Autofixable != true {
		t.Errorf("first violation = %+v", decoded.Violations[0])
	}
	if decoded.Violations[1].Category != "naming" {
		t.Errorf("category = %q, want naming", decoded.Violations[1].Category)
	}
}

func TestJSON_MaxTruncatesOutputNotCount(t *testing.T) {
	file := virtualFile(t, "app.py", "a=1\nb=2\nc=3\n")
	items := []diag.Violation{
		diag.New(diag.MissingOpSpace, 1, 2, "m"),
		diag.New(diag.MissingOpSpace, 2, 2, "m"),
		diag.New(diag.MissingOpSpace, 3, 2, "m"),
	}
	report := BuildReport(file, items, JSONOpts{Max: 2, PathMode: PathModeBasename}, "")
	if len(report.Violations) != 2 {
		t.Errorf("violations = %d, want 2", len(report.Violations))
	}
	if report.Count != 3 {
		t.Errorf("count = %d, want 3", report.Count)
	}
}

func TestMergeReports(t *testing.T) {
	a := ReportJSON{Count: 2, Autofixable: 1, Manual: 1, Violations: make([]ViolationJSON, 2)}
	b := ReportJSON{Count: 1, Autofixable: 1, Violations: make([]ViolationJSON, 1)}
	m := MergeReports(a, b)
	if m.Count != 3 || m.Autofixable != 2 || m.Manual != 1 || len(m.Violations) != 3 {
		t.Errorf("merged = %+v", m)
	}
}
