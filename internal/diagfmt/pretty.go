// Package diagfmt renders violation reports: pretty terminal output,
// the stable short form and JSON for tooling.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pystyle/internal/diag"
	"pystyle/internal/source"
)

var (
	posColor     = color.New(color.FgCyan)
	codeColor    = color.New(color.FgYellow, color.Bold)
	manualColor  = color.New(color.FgRed, color.Bold)
	caretColor   = color.New(color.FgRed, color.Bold)
	gutterColor  = color.New(color.FgHiBlack)
	summaryColor = color.New(color.FgGreen, color.Bold)
)

// FormatPath renders a file path according to the mode.
func FormatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", baseDir)
	}
}

// Pretty renders the report for one file in the terminal form:
//
//	app.py:1:2 E225 Missing whitespace around operator "="
//	    1 | x=1
//	      |  ^
func Pretty(w io.Writer, file *source.File, items []diag.Violation, opts PrettyOpts, baseDir string) error {
	path := FormatPath(file, opts.PathMode, baseDir)

	for _, v := range items {
		pos := fmt.Sprintf("%s:%d:%d", path, v.Line, v.Col)
		code := v.Code.ID()
		if opts.Color {
			pos = posColor.Sprint(pos)
			if v.Code.Autofixable() {
				code = codeColor.Sprint(code)
			} else {
				code = manualColor.Sprint(code)
			}
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", pos, code, v.Message); err != nil {
			return err
		}

		if !opts.ShowSource || v.Line == 0 {
			continue
		}
		text := file.GetLine(v.Line)
		if text == "" && v.Line > uint32(file.LineCount()) {
			continue
		}
		if err := writeSourceLine(w, text, v, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeSourceLine(w io.Writer, text string, v diag.Violation, opts PrettyOpts) error {
	gutter := fmt.Sprintf("%5d | ", v.Line)
	blank := strings.Repeat(" ", 5) + " | "
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
		blank = gutterColor.Sprint(blank)
	}

	display := text
	if opts.Width > 0 {
		display = runewidth.Truncate(display, int(opts.Width), "...")
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", gutter, strings.ReplaceAll(display, "\t", "    ")); err != nil {
		return err
	}

	caret := caretLine(text, v)
	if opts.Color {
		caret = caretColor.Sprint(caret)
	}
	_, err := fmt.Fprintf(w, "%s%s\n", blank, caret)
	return err
}

// caretLine строит подчёркивание: пробелы до колонки (учитывая ширину
// рун и раскрытие табов), затем карётки по ширине диапазона.
func caretLine(text string, v diag.Violation) string {
	col := int(v.Col)
	if col < 1 {
		col = 1
	}
	pad := 0
	n := 1
	for _, r := range text {
		if n >= col {
			break
		}
		if r == '\t' {
			pad += 4
		} else {
			pad += runewidth.RuneWidth(r)
		}
		n++
	}

	width := 1
	if v.EndCol > v.Col {
		width = int(v.EndCol - v.Col)
	}
	return strings.Repeat(" ", pad) + strings.Repeat("^", width)
}

// Summary renders the closing line of a run.
func Summary(w io.Writer, total, autofixable, files int, useColor bool) error {
	var line string
	if total == 0 {
		line = fmt.Sprintf("no style issues in %d file(s)", files)
		if useColor {
			line = summaryColor.Sprint(line)
		}
	} else {
		line = fmt.Sprintf("%d issue(s) in %d file(s), %d auto-fixable", total, files, autofixable)
		if useColor {
			line = codeColor.Sprint(line)
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
