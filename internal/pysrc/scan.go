package pysrc

import (
	"regexp"
	"strings"
)

var (
	classRe  = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	defRe    = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`)
	importRe = regexp.MustCompile(`^(\s*)import\s+([A-Za-z_][\w.]*)`)
	fromRe   = regexp.MustCompile(`^(\s*)from\s+(\.+[\w.]*|[A-Za-z_][\w.]*)\s+import\b`)
	assignRe = regexp.MustCompile(`^(\s*)([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)?$`)
)

type openDecl struct {
	declIdx int
	indent  int
}

type scanner struct {
	doc *Document

	inString bool   // внутри тройной кавычки
	strDelim string // ``"""`` или ``'''``
	strStart uint32
	depth    int  // глубина открытых скобок
	backCont bool // предыдущая строка закончилась на '\'

	stack     []openDecl
	lastCode  uint32 // последняя непустая строка (для EndLine)
	multiline int    // индекс decl, ждущего закрытия скобок; -1 если нет
}

func scan(doc *Document) {
	s := &scanner{doc: doc, multiline: -1}
	doc.flags = make([]LineFlags, len(doc.lines))
	doc.masks = make([][]bool, len(doc.lines))
	doc.depths = make([]int, len(doc.lines))

	for i := range doc.lines {
		s.scanLine(uint32(i + 1))
	}

	// Закрываем незакрытые декларации на EOF.
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		doc.decls[top.declIdx].EndLine = s.endLineForPop()
	}
	if s.multiline >= 0 {
		doc.decls[s.multiline].EndLine = s.endLineForPop()
	}

	if s.inString {
		doc.parseErr = &ParseError{Line: s.strStart, Msg: "unterminated triple-quoted string"}
		// Структурное дерево недостоверно: правила по декларациям
		// не должны отчитываться о полупрочитанном файле.
		doc.decls = nil
	}
}

func (s *scanner) endLineForPop() uint32 {
	if s.lastCode > 0 {
		return s.lastCode
	}
	return uint32(len(s.doc.lines))
}

func (s *scanner) scanLine(num uint32) {
	doc := s.doc
	text := doc.lines[num-1].Text
	idx := num - 1

	var flags LineFlags
	startedInString := s.inString
	startedCont := s.depth > 0 || s.backCont
	s.backCont = false
	doc.depths[idx] = s.depth

	mask := s.maskLine(text)
	doc.masks[idx] = mask

	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		flags |= LineBlank
	case !startedInString && strings.HasPrefix(trimmed, "#"):
		flags |= LineComment
	}
	if startedInString {
		flags |= LineInString
	}
	if startedCont {
		flags |= LineContinuation
	}
	doc.flags[idx] = flags

	// Явное продолжение: код строки заканчивается на '\'.
	if codeEndsWithBackslash(text, mask) {
		s.backCont = true
	}

	logicalStart := flags&(LineBlank|LineComment|LineInString|LineContinuation) == 0

	// Многострочная декларация (import/assignment в скобках) закрывается,
	// когда глубина вернулась к нулю.
	if s.multiline >= 0 && s.depth == 0 && !s.inString {
		doc.decls[s.multiline].EndLine = num
		s.multiline = -1
	}

	if !logicalStart {
		if flags&(LineBlank|LineComment) == 0 {
			s.lastCode = num
		}
		return
	}

	indent := ExpandedWidth(leadingWhitespace(text), TabWidth)

	// Закрываем class/def, чей блок закончился. На этот момент
	// lastCode ещё указывает на последнюю кодовую строку ДО текущей.
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].indent >= indent {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		end := s.lastCode
		if end == 0 {
			end = num
		}
		doc.decls[top.declIdx].EndLine = end
	}

	s.extractDecl(num, text, indent)
	s.lastCode = num
}

// extractDecl распознаёт декларацию в начале логической строки.
func (s *scanner) extractDecl(num uint32, text string, indent int) {
	doc := s.doc

	if m := classRe.FindStringSubmatchIndex(text); m != nil {
		name := text[m[4]:m[5]]
		doc.decls = append(doc.decls, Decl{
			Kind:      DeclClass,
			Name:      name,
			StartLine: num,
			EndLine:   num,
			Indent:    indent,
			NameCol:   RuneCol(text, m[4]),
		})
		s.stack = append(s.stack, openDecl{declIdx: len(doc.decls) - 1, indent: indent})
		return
	}

	if m := defRe.FindStringSubmatchIndex(text); m != nil {
		name := text[m[4]:m[5]]
		doc.decls = append(doc.decls, Decl{
			Kind:      DeclFunc,
			Name:      name,
			StartLine: num,
			EndLine:   num,
			Indent:    indent,
			NameCol:   RuneCol(text, m[4]),
		})
		s.stack = append(s.stack, openDecl{declIdx: len(doc.decls) - 1, indent: indent})
		return
	}

	if m := fromRe.FindStringSubmatchIndex(text); m != nil {
		module := text[m[4]:m[5]]
		doc.decls = append(doc.decls, Decl{
			Kind:      DeclImport,
			Name:      module,
			Module:    module,
			StartLine: num,
			EndLine:   num,
			Indent:    indent,
			NameCol:   RuneCol(text, m[4]),
		})
		if s.depth > 0 {
			s.multiline = len(doc.decls) - 1
		}
		return
	}

	if m := importRe.FindStringSubmatchIndex(text); m != nil {
		module := text[m[4]:m[5]]
		doc.decls = append(doc.decls, Decl{
			Kind:      DeclImport,
			Name:      module,
			Module:    module,
			StartLine: num,
			EndLine:   num,
			Indent:    indent,
			NameCol:   RuneCol(text, m[4]),
		})
		return
	}

	if m := assignRe.FindStringSubmatchIndex(text); m != nil {
		name := text[m[4]:m[5]]
		doc.decls = append(doc.decls, Decl{
			Kind:      DeclVar,
			Name:      name,
			StartLine: num,
			EndLine:   num,
			Indent:    indent,
			NameCol:   RuneCol(text, m[4]),
		})
		if s.depth > 0 {
			s.multiline = len(doc.decls) - 1
		}
	}
}

// maskLine идёт по байтам строки, обновляя состояние строк/скобок,
// и возвращает маску кода: true там, где байт принадлежит коду.
func (s *scanner) maskLine(text string) []bool {
	mask := make([]bool, len(text))
	i := 0

	if s.inString {
		end := strings.Index(text, s.strDelim)
		if end < 0 {
			return mask // вся строка внутри тройной кавычки
		}
		i = end + len(s.strDelim)
		s.inString = false
		s.strDelim = ""
	}

	for i < len(text) {
		c := text[i]
		switch {
		case c == '#':
			return mask // хвост — комментарий

		case c == '\'' || c == '"':
			delim := text[i : i+1]
			if strings.HasPrefix(text[i:], delim+delim+delim) {
				triple := delim + delim + delim
				rest := text[i+3:]
				end := strings.Index(rest, triple)
				if end < 0 {
					s.inString = true
					s.strDelim = triple
					s.strStart = s.currentLine()
					return mask
				}
				i += 3 + end + 3
				continue
			}
			// Однострочный литерал: ищем закрытие с учётом экранирования.
			j := i + 1
			for j < len(text) {
				if text[j] == '\\' {
					j += 2
					continue
				}
				if text[j] == c {
					break
				}
				j++
			}
			if j >= len(text) {
				return mask // незакрытый однострочный литерал
			}
			i = j + 1
			continue

		case c == '(' || c == '[' || c == '{':
			s.depth++
			mask[i] = true
			i++

		case c == ')' || c == ']' || c == '}':
			if s.depth > 0 {
				s.depth--
			}
			mask[i] = true
			i++

		default:
			mask[i] = true
			i++
		}
	}
	return mask
}

// currentLine возвращает номер строки, обрабатываемой прямо сейчас.
func (s *scanner) currentLine() uint32 {
	for i := range s.doc.masks {
		if s.doc.masks[i] == nil {
			return uint32(i + 1)
		}
	}
	return uint32(len(s.doc.lines))
}

func codeEndsWithBackslash(text string, mask []bool) bool {
	for i := len(text) - 1; i >= 0; i-- {
		c := text[i]
		if c == ' ' || c == '\t' {
			continue
		}
		return c == '\\' && i < len(mask) && mask[i]
	}
	return false
}

func leadingWhitespace(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}
