package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

var (
	capWordsRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	snakeRe    = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// checkClassNaming: N801. Имя класса должно быть в CapWords.
// На деградированном документе деклараций нет, правило молчит.
func checkClassNaming(doc *pysrc.Document, _ Options) []diag.Violation {
	var out []diag.Violation
	for _, d := range doc.Decls() {
		if d.Kind != pysrc.DeclClass {
			continue
		}
		if capWordsRe.MatchString(d.Name) {
			continue
		}
		out = append(out, diag.New(
			diag.ClassNaming,
			d.StartLine,
			d.NameCol,
			fmt.Sprintf("Class name %q should use CapWords convention", d.Name),
		).WithEndCol(nameEndCol(&d)))
	}
	return out
}

// checkFuncNaming: N802. Функции и переменные — snake_case.
func checkFuncNaming(doc *pysrc.Document, _ Options) []diag.Violation {
	var out []diag.Violation
	for _, d := range doc.Decls() {
		var noun string
		switch d.Kind {
		case pysrc.DeclFunc:
			noun = "Function"
		case pysrc.DeclVar:
			noun = "Variable"
		default:
			continue
		}
		if snakeRe.MatchString(d.Name) {
			continue
		}
		out = append(out, diag.New(
			diag.FuncNaming,
			d.StartLine,
			d.NameCol,
			fmt.Sprintf("%s name %q should be lowercase", noun, d.Name),
		).WithEndCol(nameEndCol(&d)))
	}
	return out
}

// nameEndCol — колонка сразу за именем, для подчёркивания в отчёте.
func nameEndCol(d *pysrc.Decl) uint32 {
	return d.NameCol + uint32(utf8.RuneCountInString(d.Name))
}
