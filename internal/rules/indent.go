package rules

import (
	"fmt"
	"strings"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

// checkIndentation: E111. Отступ логической строки должен быть кратен
// четырём и не смешивать табы с пробелами. Строки-продолжения и строки
// внутри тройных кавычек выравниваются свободно и не проверяются.
func checkIndentation(doc *pysrc.Document, opts Options) []diag.Violation {
	var out []diag.Violation
	for _, ln := range doc.Lines() {
		flags := doc.Flags(ln.Num)
		if flags&(pysrc.LineBlank|pysrc.LineComment|pysrc.LineInString|pysrc.LineContinuation) != 0 {
			continue
		}

		ws := leadingWS(ln.Text)
		mixed := strings.ContainsRune(ws, ' ') && strings.ContainsRune(ws, '\t')
		width := pysrc.ExpandedWidth(ws, opts.IndentWidth)

		switch {
		case mixed:
			out = append(out, diag.New(
				diag.BadIndentation, ln.Num, 1,
				"Indentation mixes tabs and spaces",
			))
		case width%opts.IndentWidth != 0:
			out = append(out, diag.New(
				diag.BadIndentation, ln.Num, 1,
				fmt.Sprintf("Indentation is not a multiple of %d", opts.IndentWidth),
			))
		}
	}
	return out
}

func leadingWS(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}
