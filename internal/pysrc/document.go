package pysrc

import (
	"fmt"
	"strings"

	"pystyle/internal/source"
)

// DeclKind classifies a declaration site.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclFunc
	DeclVar
	DeclImport
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclFunc:
		return "function"
	case DeclVar:
		return "variable"
	case DeclImport:
		return "import"
	}
	return "unknown"
}

// Decl is one declaration site: kind, name and the line range it spans.
// StartLine is the anchor line naming/import rules report against.
type Decl struct {
	Kind      DeclKind
	Name      string
	StartLine uint32
	EndLine   uint32
	Indent    int    // tab-expanded leading width of the declaring line
	Module    string // imports only: the module path used for ordering
	NameCol   uint32 // 1-based rune column of Name on StartLine
}

// LineFlags marks properties of a physical line the scanner derived.
type LineFlags uint8

const (
	// LineBlank: only whitespace.
	LineBlank LineFlags = 1 << iota
	// LineComment: first non-blank character is '#'.
	LineComment
	// LineInString: the line starts inside a triple-quoted string.
	LineInString
	// LineContinuation: the line starts inside an open bracket pair.
	LineContinuation
)

// Line is one physical line without its terminator.
type Line struct {
	Num  uint32 // 1-based
	Text string
}

// ParseError reports a structural parse failure. Line-based rules still
// run on the best-effort line split.
type ParseError struct {
	Line uint32
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Document owns the line sequence and the declaration list of one file.
type Document struct {
	name         string
	lines        []Line
	flags        []LineFlags
	masks        [][]bool // per-line: true where the byte is code
	depths       []int    // per-line: bracket depth at line start
	decls        []Decl
	finalNewline bool
	parseErr     *ParseError
}

// Parse builds a Document from a loaded source file.
func Parse(f *source.File) *Document {
	return ParseText(f.Path, f.Content)
}

// ParseText builds a Document from raw normalized text.
func ParseText(name string, text []byte) *Document {
	doc := &Document{
		name:         name,
		finalNewline: len(text) > 0 && text[len(text)-1] == '\n',
	}
	raw := splitLines(text)
	doc.lines = make([]Line, len(raw))
	for i, s := range raw {
		doc.lines[i] = Line{Num: uint32(i + 1), Text: s}
	}
	scan(doc)
	return doc
}

// splitLines разбивает текст на строки без терминаторов.
// Завершающий \n не порождает лишнюю пустую строку.
func splitLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	s := string(text)
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Name returns the document's display name.
func (d *Document) Name() string { return d.name }

// Lines returns the physical line sequence. Read-only.
func (d *Document) Lines() []Line { return d.lines }

// LineCount returns the number of physical lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the text of the 1-based line, or "" when out of range.
func (d *Document) Line(num uint32) string {
	if num == 0 || int(num) > len(d.lines) {
		return ""
	}
	return d.lines[num-1].Text
}

// Flags returns the scanner flags of the 1-based line.
func (d *Document) Flags(num uint32) LineFlags {
	if num == 0 || int(num) > len(d.flags) {
		return 0
	}
	return d.flags[num-1]
}

// CodeMask returns, for the 1-based line, a per-byte mask that is true
// where the byte belongs to code (not string or comment interior).
// Nil means the whole line is non-code.
func (d *Document) CodeMask(num uint32) []bool {
	if num == 0 || int(num) > len(d.masks) {
		return nil
	}
	return d.masks[num-1]
}

// StartDepth returns the bracket depth the 1-based line opens with.
func (d *Document) StartDepth(num uint32) int {
	if num == 0 || int(num) > len(d.depths) {
		return 0
	}
	return d.depths[num-1]
}

// Decls returns the declaration list. Empty after a structural failure.
func (d *Document) Decls() []Decl { return d.decls }

// ParseErr returns the structural failure, if any.
func (d *Document) ParseErr() *ParseError { return d.parseErr }

// Degraded reports whether structural parsing failed and only the line
// sequence is trustworthy.
func (d *Document) Degraded() bool { return d.parseErr != nil }

// Text re-serializes the lines, preserving the original presence or
// absence of the final terminator.
func (d *Document) Text() string {
	if len(d.lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, ln := range d.lines {
		b.WriteString(ln.Text)
		if i < len(d.lines)-1 || d.finalNewline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WithLineTexts returns a new Document parsed from the given replacement
// line texts. Used by fixers that only replace characters on existing
// lines; the line count must match.
func (d *Document) WithLineTexts(texts []string) *Document {
	if len(texts) != len(d.lines) {
		panic(fmt.Sprintf("pysrc: line count mismatch: %d != %d", len(texts), len(d.lines)))
	}
	return d.rebuild(texts)
}

// WithReplacedRange returns a new Document where lines [start, end]
// (1-based, inclusive) are replaced by the given texts. The line count
// may change; only block-level fixers use this.
func (d *Document) WithReplacedRange(start, end uint32, texts []string) *Document {
	if start == 0 || int(end) > len(d.lines) || start > end {
		panic(fmt.Sprintf("pysrc: bad replacement range %d-%d of %d", start, end, len(d.lines)))
	}
	out := make([]string, 0, len(d.lines)-int(end-start+1)+len(texts))
	for _, ln := range d.lines[:start-1] {
		out = append(out, ln.Text)
	}
	out = append(out, texts...)
	for _, ln := range d.lines[end:] {
		out = append(out, ln.Text)
	}
	return d.rebuild(out)
}

func (d *Document) rebuild(texts []string) *Document {
	var b strings.Builder
	for i, s := range texts {
		b.WriteString(s)
		if i < len(texts)-1 || d.finalNewline {
			b.WriteByte('\n')
		}
	}
	return ParseText(d.name, []byte(b.String()))
}
