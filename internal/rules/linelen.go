package rules

import (
	"fmt"
	"strings"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

// checkLineLength: E501. Длина меряется в кодовых точках с раскрытием
// табов; хвостовые пробелы не считаются (их ловит W291).
func checkLineLength(doc *pysrc.Document, opts Options) []diag.Violation {
	var out []diag.Violation
	for _, ln := range doc.Lines() {
		text := strings.TrimRight(ln.Text, " \t")
		if displayWidth(text) <= opts.MaxLineLen {
			continue
		}
		out = append(out, diag.New(
			diag.LineTooLong,
			ln.Num,
			uint32(opts.MaxLineLen+1),
			fmt.Sprintf("Line too long (exceeds %d characters)", opts.MaxLineLen),
		))
	}
	return out
}

// displayWidth считает кодовые точки, раскрывая табы до следующей
// кратной TabWidth позиции.
func displayWidth(text string) int {
	w := 0
	for _, r := range text {
		if r == '\t' {
			w = (w/pysrc.TabWidth + 1) * pysrc.TabWidth
		} else {
			w++
		}
	}
	return w
}
