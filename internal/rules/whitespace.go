package rules

import (
	"fmt"
	"strings"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

// checkOperatorSpacing: E225. Бинарный оператор без пробелов вокруг.
// Сканер сам исключает строки/комментарии (по маске кода), kwarg '='
// внутри скобок и унарные знаки.
func checkOperatorSpacing(doc *pysrc.Document, _ Options) []diag.Violation {
	var out []diag.Violation
	for _, ln := range doc.Lines() {
		hits := pysrc.ScanOperators(ln.Text, doc.CodeMask(ln.Num), doc.StartDepth(ln.Num))
		for _, h := range hits {
			out = append(out, diag.New(
				diag.MissingOpSpace,
				ln.Num,
				pysrc.RuneCol(ln.Text, h.Start),
				fmt.Sprintf("Missing whitespace around operator %q", h.Op),
			).WithEndCol(pysrc.RuneCol(ln.Text, h.End)))
		}
	}
	return out
}

// checkTrailingWhitespace: W291. Пробелы или табы перед концом строки.
func checkTrailingWhitespace(doc *pysrc.Document, _ Options) []diag.Violation {
	var out []diag.Violation
	for _, ln := range doc.Lines() {
		stripped := strings.TrimRight(ln.Text, " \t")
		if stripped == ln.Text {
			continue
		}
		out = append(out, diag.New(
			diag.TrailingWhitespace,
			ln.Num,
			pysrc.RuneCol(ln.Text, len(stripped)),
			"Trailing whitespace",
		))
	}
	return out
}
