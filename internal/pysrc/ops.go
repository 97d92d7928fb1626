package pysrc

import "strings"

// OpHit is one binary-operator occurrence with missing surrounding
// whitespace. Offsets are byte positions into the line.
type OpHit struct {
	Op        string
	Start     int
	End       int
	NeedLeft  bool
	NeedRight bool
}

// Longest-first: составные операторы раньше одиночных.
var opCatalog = []string{
	"**=", "//=",
	"==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "->", "**", "//",
	"<", ">", "=", "+", "-", "*", "/",
}

// Символы, после которых +, -, * читаются как унарные
// (или как *args / **kwargs / распаковка).
const unaryContext = "([{,=<>+-*/%:~|&^"

// ScanOperators finds binary operators with missing surrounding
// whitespace on one line. mask is the line's code mask; startDepth is
// the bracket depth the line opens with. Keyword-argument '=' (inside
// brackets) and unary +, -, * are not operators here and are skipped.
func ScanOperators(text string, mask []bool, startDepth int) []OpHit {
	var hits []OpHit
	depth := startDepth

	i := 0
	for i < len(text) {
		if i >= len(mask) || !mask[i] {
			i++
			continue
		}
		c := text[i]
		switch c {
		case '(', '[', '{':
			depth++
			i++
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			i++
			continue
		}

		op := matchOp(text, mask, i)
		if op == "" {
			i++
			continue
		}

		if skipOp(text, op, i, depth) {
			i += len(op)
			continue
		}

		needLeft := i > 0 && text[i-1] != ' ' && text[i-1] != '\t'
		end := i + len(op)
		needRight := end < len(text) && text[end] != ' ' && text[end] != '\t'
		if needLeft || needRight {
			hits = append(hits, OpHit{
				Op:        op,
				Start:     i,
				End:       end,
				NeedLeft:  needLeft,
				NeedRight: needRight,
			})
		}
		i = end
	}
	return hits
}

// matchOp пробует сопоставить оператор из каталога начиная с позиции i.
// Все байты оператора должны лежать в коде.
func matchOp(text string, mask []bool, i int) string {
	for _, op := range opCatalog {
		if !strings.HasPrefix(text[i:], op) {
			continue
		}
		covered := true
		for j := i; j < i+len(op); j++ {
			if j >= len(mask) || !mask[j] {
				covered = false
				break
			}
		}
		if covered {
			return op
		}
	}
	return ""
}

func skipOp(text, op string, i, depth int) bool {
	switch op {
	case "**", "//":
		// Плотная запись степени и целочисленного деления допустима.
		return true
	case "=":
		// kwarg или значение по умолчанию: f(x=1), def g(y=2)
		return depth > 0
	case "+", "-", "*":
		prev := prevNonSpace(text, i)
		if prev == 0 {
			return true // начало выражения
		}
		if strings.IndexByte(unaryContext, prev) >= 0 {
			return true
		}
		// после ключевого слова: return -1, yield -x
		if isWordBoundaryKeyword(text, i) {
			return true
		}
	}
	return false
}

func prevNonSpace(text string, i int) byte {
	for j := i - 1; j >= 0; j-- {
		if text[j] != ' ' && text[j] != '\t' {
			return text[j]
		}
	}
	return 0
}

// Унарный контекст после ключевого слова: `return -1`, `in -x` и т.п.
var unaryKeywords = map[string]bool{
	"return": true, "yield": true, "in": true, "not": true,
	"and": true, "or": true, "if": true, "else": true,
	"while": true, "assert": true, "lambda": true,
}

func isWordBoundaryKeyword(text string, i int) bool {
	j := i
	for j > 0 && (text[j-1] == ' ' || text[j-1] == '\t') {
		j--
	}
	if j == i {
		return false // нет пробела перед оператором, слово прилипло
	}
	k := j
	for k > 0 && isIdentByte(text[k-1]) {
		k--
	}
	return unaryKeywords[text[k:j]]
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
