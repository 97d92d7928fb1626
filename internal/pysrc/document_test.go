package pysrc

import (
	"strings"
	"testing"
)

func TestParseText_Decls(t *testing.T) {
	src := strings.Join([]string{
		"import os",
		"from collections import OrderedDict",
		"",
		"MAX_SIZE = 100",
		"",
		"class Config:",
		"    def load(self):",
		"        pass",
		"",
		"def main():",
		"    pass",
	}, "\n") + "\n"

	doc := ParseText("app.py", []byte(src))
	if doc.Degraded() {
		t.Fatalf("unexpected degrade: %v", doc.ParseErr())
	}

	want := []struct {
		kind DeclKind
		name string
		line uint32
	}{
		{DeclImport, "os", 1},
		{DeclImport, "collections", 2},
		{DeclVar, "MAX_SIZE", 4},
		{DeclClass, "Config", 6},
		{DeclFunc, "load", 7},
		{DeclFunc, "main", 10},
	}

	decls := doc.Decls()
	if len(decls) != len(want) {
		t.Fatalf("decl count = %d, want %d", len(decls), len(want))
	}
	for i, w := range want {
		d := decls[i]
		if d.Kind != w.kind || d.Name != w.name || d.StartLine != w.line {
			t.Errorf("decl %d: %s %q at line %d, want %s %q at %d",
				i, d.Kind, d.Name, d.StartLine, w.kind, w.name, w.line)
		}
	}
}

func TestParseText_ClassEndLine(t *testing.T) {
	src := strings.Join([]string{
		"class A:",
		"    x = 1",
		"",
		"    def m(self):",
		"        pass",
		"",
		"top = 2",
	}, "\n") + "\n"

	doc := ParseText("a.py", []byte(src))
	var cls *Decl
	for i := range doc.Decls() {
		if doc.Decls()[i].Kind == DeclClass {
			cls = &doc.Decls()[i]
		}
	}
	if cls == nil {
		t.Fatal("class decl not found")
	}
	if cls.EndLine != 5 {
		t.Errorf("class EndLine = %d, want 5", cls.EndLine)
	}
}

func TestParseText_NestedFunctionIndent(t *testing.T) {
	src := "def outer():\n    def inner():\n        pass\n    return inner\n"
	doc := ParseText("n.py", []byte(src))

	decls := doc.Decls()
	if len(decls) != 2 {
		t.Fatalf("decl count = %d, want 2", len(decls))
	}
	if decls[0].Indent != 0 || decls[1].Indent != 4 {
		t.Errorf("indents = %d, %d, want 0, 4", decls[0].Indent, decls[1].Indent)
	}
	if decls[1].EndLine != 3 {
		t.Errorf("inner EndLine = %d, want 3", decls[1].EndLine)
	}
}

func TestParseText_LineFlags(t *testing.T) {
	src := strings.Join([]string{
		"x = 1",
		"",
		"# комментарий",
		`s = """doc`,
		`still inside""" `,
		"y = (1 +",
		"     2)",
	}, "\n") + "\n"

	doc := ParseText("f.py", []byte(src))

	tests := []struct {
		line uint32
		want LineFlags
	}{
		{1, 0},
		{2, LineBlank},
		{3, LineComment},
		{4, 0},
		{5, LineInString},
		{6, 0},
		{7, LineContinuation},
	}
	for _, tt := range tests {
		if got := doc.Flags(tt.line); got != tt.want {
			t.Errorf("line %d: flags = %b, want %b", tt.line, got, tt.want)
		}
	}
}

func TestParseText_CodeMaskExcludesStringsAndComments(t *testing.T) {
	doc := ParseText("m.py", []byte("x = 'a=b'  # c=d\n"))
	mask := doc.CodeMask(1)
	text := doc.Line(1)

	for i := range text {
		inString := i >= 4 && i <= 8
		inComment := i >= 11
		wantCode := !inString && !inComment
		if mask[i] != wantCode {
			t.Errorf("byte %d (%q): code = %v, want %v", i, text[i], mask[i], wantCode)
		}
	}
}

func TestParseText_UnterminatedTripleQuote(t *testing.T) {
	doc := ParseText("bad.py", []byte("class A:\n    s = \"\"\"oops\nnever closed\n"))
	if !doc.Degraded() {
		t.Fatal("expected degraded document")
	}
	if doc.ParseErr().Line != 2 {
		t.Errorf("error line = %d, want 2", doc.ParseErr().Line)
	}
	if len(doc.Decls()) != 0 {
		t.Errorf("decls = %d, want 0 after degrade", len(doc.Decls()))
	}
	if doc.LineCount() != 3 {
		t.Errorf("line count = %d, want 3", doc.LineCount())
	}
}

func TestDocument_TextRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"with final newline", "x = 1\ny = 2\n"},
		{"without final newline", "x = 1\ny = 2"},
		{"empty", ""},
		{"blank lines", "\n\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParseText("r.py", []byte(tt.src))
			if got := doc.Text(); got != tt.src {
				t.Errorf("Text() = %q, want %q", got, tt.src)
			}
		})
	}
}

func TestDocument_WithLineTexts(t *testing.T) {
	doc := ParseText("w.py", []byte("x=1\ny = 2\n"))
	next := doc.WithLineTexts([]string{"x = 1", "y = 2"})
	if got := next.Text(); got != "x = 1\ny = 2\n" {
		t.Errorf("Text() = %q", got)
	}
	// Исходный документ не меняется.
	if doc.Line(1) != "x=1" {
		t.Error("original document mutated")
	}
}

func TestDocument_WithReplacedRange(t *testing.T) {
	doc := ParseText("w.py", []byte("import sys\nimport os\n\nx = 1\n"))
	next := doc.WithReplacedRange(1, 2, []string{"import os", "import sys"})
	if got := next.Text(); got != "import os\nimport sys\n\nx = 1\n" {
		t.Errorf("Text() = %q", got)
	}
	if next.LineCount() != 4 {
		t.Errorf("line count = %d, want 4", next.LineCount())
	}
}

func TestExpandedWidth(t *testing.T) {
	tests := []struct {
		ws   string
		want int
	}{
		{"", 0},
		{"    ", 4},
		{"\t", 4},
		{"  \t", 4},
		{"\t  ", 6},
		{"\t\t", 8},
	}
	for _, tt := range tests {
		if got := ExpandedWidth(tt.ws, TabWidth); got != tt.want {
			t.Errorf("ExpandedWidth(%q) = %d, want %d", tt.ws, got, tt.want)
		}
	}
}

func TestRuneCol(t *testing.T) {
	text := "été = 1"
	// 'é' занимает два байта; байтовое смещение 4 --- начало "= 1"? нет:
	// é(2)+t(1)+é(2) = 5 байт до пробела.
	if got := RuneCol(text, 0); got != 1 {
		t.Errorf("RuneCol(0) = %d, want 1", got)
	}
	if got := RuneCol(text, 5); got != 4 {
		t.Errorf("RuneCol(5) = %d, want 4", got)
	}
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string // операторы с нарушением, по порядку
	}{
		{"assignment no spaces", "x=1", []string{"="}},
		{"assignment ok", "x = 1", nil},
		{"left only", "x =1", []string{"="}},
		{"right only", "x= 1", []string{"="}},
		{"comparison", "if a==b:", []string{"=="}},
		{"kwarg skipped", "f(x=1)", nil},
		{"default arg skipped", "def g(y=2):", nil},
		{"unary minus", "x = -1", nil},
		{"unary after open paren", "f(-1)", nil},
		{"unary after return", "return -1", nil},
		{"binary minus", "a-b", []string{"-"}},
		{"power skipped", "x**2", nil},
		{"floor div skipped", "x//2", nil},
		{"augmented", "x+=1", []string{"+="}},
		{"arrow", "def f(x)->int:", []string{"->"}},
		{"two hits", "a=b+c", []string{"=", "+"}},
		{"string interior ignored", `s = "a+b"`, nil},
		{"comment ignored", "x = 1  # a+b", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParseText("t.py", []byte(tt.src+"\n"))
			hits := ScanOperators(doc.Line(1), doc.CodeMask(1), doc.StartDepth(1))
			if len(hits) != len(tt.want) {
				t.Fatalf("hits = %v, want ops %v", hits, tt.want)
			}
			for i, h := range hits {
				if h.Op != tt.want[i] {
					t.Errorf("hit %d: op %q, want %q", i, h.Op, tt.want[i])
				}
			}
		})
	}
}

func TestScanOperators_EOLNoRightRequirement(t *testing.T) {
	doc := ParseText("t.py", []byte("x =\n"))
	hits := ScanOperators(doc.Line(1), doc.CodeMask(1), doc.StartDepth(1))
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none at EOL", hits)
	}
}
