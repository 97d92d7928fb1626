package fix

import (
	"strings"
	"testing"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
	"pystyle/internal/rules"
)

func analyze(src string) (*pysrc.Document, []diag.Violation) {
	doc := pysrc.ParseText("test.py", []byte(src))
	return doc, rules.Analyze(doc, rules.DefaultOptions(), 1000).Items()
}

func correct(t *testing.T, src string) string {
	t.Helper()
	doc, report := analyze(src)
	res, err := Apply(doc, report, rules.DefaultOptions())
	if err == ErrNoFixes {
		return src
	}
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return res.Doc.Text()
}

func TestApply_OperatorSpacing(t *testing.T) {
	if got := correct(t, "x=1\n"); got != "x = 1\n" {
		t.Errorf("got %q, want %q", got, "x = 1\n")
	}
}

func TestApply_LongLineUntouched(t *testing.T) {
	src := strings.Repeat("a", 105) + "\n"
	if got := correct(t, src); got != src {
		t.Errorf("overlong line rewritten: %q", got)
	}
}

func TestApply_NamingUntouched(t *testing.T) {
	src := "class my_class:\n    pass\n"
	if got := correct(t, src); got != src {
		t.Errorf("manual-only violation rewritten: %q", got)
	}
}

func TestApply_TrailingWhitespace(t *testing.T) {
	if got := correct(t, "y = 2   \n"); got != "y = 2\n" {
		t.Errorf("got %q, want %q", got, "y = 2\n")
	}
}

func TestApply_Indentation(t *testing.T) {
	src := "def f():\n     x = 1\n"
	want := "def f():\n    x = 1\n"
	if got := correct(t, src); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_ImportOrder(t *testing.T) {
	src := "import sys\nimport os\n\nx = 1\n"
	want := "import os\nimport sys\n\nx = 1\n"
	if got := correct(t, src); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_ImportGrouping(t *testing.T) {
	src := "import requests\nimport os\n\nx = 1\n"
	want := "import os\n\nimport requests\n\nx = 1\n"
	if got := correct(t, src); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_CombinedPipeline(t *testing.T) {
	src := strings.Join([]string{
		"import sys",
		"import os",
		"",
		"def f():",
		"     x=1   ",
		"     return x",
	}, "\n") + "\n"
	want := strings.Join([]string{
		"import os",
		"import sys",
		"",
		"def f():",
		"    x = 1",
		"    return x",
	}, "\n") + "\n"
	if got := correct(t, src); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestApply_Idempotent(t *testing.T) {
	srcs := []string{
		"x=1\n",
		"y = 2   \n",
		"import sys\nimport os\n\nz = 3\n",
		"def f():\n     a=1\n",
	}
	for _, src := range srcs {
		once := correct(t, src)
		twice := correct(t, once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", src, once, twice)
		}
	}
}

func TestApply_Soundness(t *testing.T) {
	src := "import sys\nimport os\nclass my_class:\n  x=1   \n"
	doc, report := analyze(src)

	targeted := make(map[diag.Code]bool)
	for _, v := range report {
		if v.Code.Autofixable() {
			targeted[v.Code] = true
		}
	}

	res, err := Apply(doc, report, rules.DefaultOptions())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	_, after := analyze(res.Doc.Text())
	for _, v := range after {
		if targeted[v.Code] {
			t.Errorf("targeted %s reappears after correction at %d:%d", v.Code.ID(), v.Line, v.Col)
		}
	}
}

func TestApply_NonInterference(t *testing.T) {
	// Строки без авто-чинимых нарушений остаются байт-в-байт.
	src := strings.Join([]string{
		"def clean():",
		"    return 42",
		"",
		"x=1",
	}, "\n") + "\n"
	doc, report := analyze(src)
	res, err := Apply(doc, report, rules.DefaultOptions())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := res.Doc.Lines()
	if got[0].Text != "def clean():" || got[1].Text != "    return 42" || got[2].Text != "" {
		t.Error("clean lines were rewritten")
	}
	if got[3].Text != "x = 1" {
		t.Errorf("line 4 = %q, want %q", got[3].Text, "x = 1")
	}
}

func TestApply_NoAutofixable(t *testing.T) {
	doc, report := analyze("class my_class:\n    pass\n")
	if _, err := Apply(doc, report, rules.DefaultOptions()); err != ErrNoFixes {
		t.Errorf("err = %v, want ErrNoFixes", err)
	}
}

func TestApply_OnlyReportedCodesTouched(t *testing.T) {
	// В отчёте только W291: операторы не трогаем, даже если есть x=1.
	doc := pysrc.ParseText("test.py", []byte("x=1   \n"))
	report := []diag.Violation{
		diag.New(diag.TrailingWhitespace, 1, 4, "Trailing whitespace"),
	}
	res, err := Apply(doc, report, rules.DefaultOptions())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := res.Doc.Text(); got != "x=1\n" {
		t.Errorf("got %q, want %q", got, "x=1\n")
	}
}

func TestApply_StringInteriorsSafe(t *testing.T) {
	src := "s = 'a=b'  \n"
	want := "s = 'a=b'\n"
	if got := correct(t, src); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_CountsApplied(t *testing.T) {
	doc, report := analyze("a=1   \nb=2\n")
	res, err := Apply(doc, report, rules.DefaultOptions())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Один W291 и два E225.
	if res.Applied != 3 {
		t.Errorf("Applied = %d, want 3", res.Applied)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
}
