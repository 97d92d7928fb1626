// Package fix rewrites a document to resolve autofixable violations.
// Fixers run in a fixed order chosen so earlier passes never re-break
// later ones: character edits, then token edits, then block reordering.
// Each fixer re-derives its targets from the current document instead
// of trusting line numbers captured before a prior fixer ran.
package fix

import (
	"errors"
	"strings"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
	"pystyle/internal/rules"
)

// ErrNoFixes means the report carried no autofixable violations.
var ErrNoFixes = errors.New("fix: no autofixable violations")

// Skipped is one instance a fixer refused to rewrite.
type Skipped struct {
	Line   uint32
	Code   diag.Code
	Reason string
}

// Result is the outcome of one correction pass.
type Result struct {
	Doc     *pysrc.Document
	Applied int
	Skipped []Skipped
}

type fixer struct {
	code  diag.Code
	apply func(doc *pysrc.Document, opts rules.Options) (*pysrc.Document, int, []Skipped)
}

// Порядок фиксирован: посимвольные правки, потом токенные,
// потом переупорядочивание блока импортов.
var pipeline = []fixer{
	{diag.TrailingWhitespace, fixTrailingWhitespace},
	{diag.BadIndentation, fixIndentation},
	{diag.MissingOpSpace, fixOperatorSpacing},
	{diag.ImportOrder, fixImportOrder},
}

// Apply resolves every autofixable violation present in the report.
// Codes absent from the report are not touched even if the document
// would trigger them: correction answers the report, not the file.
func Apply(doc *pysrc.Document, report []diag.Violation, opts rules.Options) (Result, error) {
	targets := make(map[diag.Code]bool)
	for _, v := range report {
		if v.Code.Autofixable() {
			targets[v.Code] = true
		}
	}
	if len(targets) == 0 {
		return Result{Doc: doc}, ErrNoFixes
	}

	res := Result{Doc: doc}
	for _, f := range pipeline {
		if !targets[f.code] {
			continue
		}
		next, applied, skipped := f.apply(res.Doc, opts)
		res.Doc = next
		res.Applied += applied
		res.Skipped = append(res.Skipped, skipped...)
	}
	return res, nil
}

// fixTrailingWhitespace: W291. Срезает хвостовые пробелы и табы.
func fixTrailingWhitespace(doc *pysrc.Document, _ rules.Options) (*pysrc.Document, int, []Skipped) {
	lines := doc.Lines()
	texts := make([]string, len(lines))
	applied := 0
	for i, ln := range lines {
		stripped := strings.TrimRight(ln.Text, " \t")
		if stripped != ln.Text {
			applied++
		}
		texts[i] = stripped
	}
	if applied == 0 {
		return doc, 0, nil
	}
	return doc.WithLineTexts(texts), applied, nil
}

// fixIndentation: E111. Отступ округляется вниз до кратного четырём и
// переводится в пробелы. Строки-продолжения и строки внутри тройных
// кавычек не трогаем.
func fixIndentation(doc *pysrc.Document, opts rules.Options) (*pysrc.Document, int, []Skipped) {
	lines := doc.Lines()
	texts := make([]string, len(lines))
	applied := 0
	for i, ln := range lines {
		texts[i] = ln.Text
		flags := doc.Flags(ln.Num)
		if flags&(pysrc.LineBlank|pysrc.LineComment|pysrc.LineInString|pysrc.LineContinuation) != 0 {
			continue
		}

		ws := ln.Text[:len(ln.Text)-len(strings.TrimLeft(ln.Text, " \t"))]
		mixed := strings.ContainsRune(ws, ' ') && strings.ContainsRune(ws, '\t')
		width := pysrc.ExpandedWidth(ws, opts.IndentWidth)
		if !mixed && width%opts.IndentWidth == 0 {
			continue // правило такую строку не отмечает, не трогаем
		}

		floored := width / opts.IndentWidth * opts.IndentWidth
		texts[i] = strings.Repeat(" ", floored) + ln.Text[len(ws):]
		if texts[i] != ln.Text {
			applied++
		}
	}
	if applied == 0 {
		return doc, 0, nil
	}
	return doc.WithLineTexts(texts), applied, nil
}

// fixOperatorSpacing: E225. Вставляет недостающие пробелы вокруг
// найденных операторов; строки и комментарии защищены маской кода.
func fixOperatorSpacing(doc *pysrc.Document, _ rules.Options) (*pysrc.Document, int, []Skipped) {
	lines := doc.Lines()
	texts := make([]string, len(lines))
	applied := 0
	for i, ln := range lines {
		texts[i] = ln.Text
		hits := pysrc.ScanOperators(ln.Text, doc.CodeMask(ln.Num), doc.StartDepth(ln.Num))
		if len(hits) == 0 {
			continue
		}

		var b strings.Builder
		pos := 0
		for _, h := range hits {
			b.WriteString(ln.Text[pos:h.Start])
			if h.NeedLeft {
				b.WriteByte(' ')
			}
			b.WriteString(h.Op)
			if h.NeedRight {
				b.WriteByte(' ')
			}
			pos = h.End
		}
		b.WriteString(ln.Text[pos:])
		texts[i] = b.String()
		applied += len(hits)
	}
	if applied == 0 {
		return doc, 0, nil
	}
	return doc.WithLineTexts(texts), applied, nil
}

// fixImportOrder: I100. Переписывает ведущий блок импортов в
// каноническом порядке. Если блока больше нет (документ изменился
// между проходами), инстанс пропускается, а не чинится наугад.
func fixImportOrder(doc *pysrc.Document, opts rules.Options) (*pysrc.Document, int, []Skipped) {
	plan := rules.PlanImports(doc, opts)
	if plan == nil {
		return doc, 0, []Skipped{{
			Line:   1,
			Code:   diag.ImportOrder,
			Reason: "import block not found in current document",
		}}
	}
	if plan.InOrder() {
		return doc, 0, nil
	}
	next := doc.WithReplacedRange(plan.Start, plan.End, plan.Want)
	return next, 1, nil
}
