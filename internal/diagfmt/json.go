package diagfmt

import (
	"encoding/json"
	"io"

	"pystyle/internal/diag"
	"pystyle/internal/source"
)

// ViolationJSON представляет нарушение в JSON формате.
type ViolationJSON struct {
	File        string `json:"file"`
	Line        uint32 `json:"line"`
	Col         uint32 `json:"col"`
	EndCol      uint32 `json:"end_col,omitempty"`
	Code        string `json:"code"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	Autofixable bool   `json:"autofixable"`
}

// ReportJSON представляет корневую структуру JSON вывода.
type ReportJSON struct {
	Violations  []ViolationJSON `json:"violations"`
	Count       int             `json:"count"`
	Autofixable int             `json:"autofixable"`
	Manual      int             `json:"manual"`
}

// BuildReport формирует структуру JSON-вывода без сериализации.
func BuildReport(file *source.File, items []diag.Violation, opts JSONOpts, baseDir string) ReportJSON {
	path := FormatPath(file, opts.PathMode, baseDir)

	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	out := ReportJSON{Violations: make([]ViolationJSON, 0, maxItems)}
	for _, v := range items {
		if v.Code.Autofixable() {
			out.Autofixable++
		} else {
			out.Manual++
		}
		out.Count++
		if len(out.Violations) >= maxItems {
			continue
		}
		out.Violations = append(out.Violations, ViolationJSON{
			File:        path,
			Line:        v.Line,
			Col:         v.Col,
			EndCol:      v.EndCol,
			Code:        v.Code.ID(),
			Category:    v.Code.Category().String(),
			Message:     v.Message,
			Autofixable: v.Code.Autofixable(),
		})
	}
	return out
}

// WriteJSON сериализует отчёт с отступами.
func WriteJSON(w io.Writer, report ReportJSON) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// MergeReports объединяет пофайловые отчёты в один.
func MergeReports(reports ...ReportJSON) ReportJSON {
	var out ReportJSON
	for _, r := range reports {
		out.Violations = append(out.Violations, r.Violations...)
		out.Count += r.Count
		out.Autofixable += r.Autofixable
		out.Manual += r.Manual
	}
	if out.Violations == nil {
		out.Violations = []ViolationJSON{}
	}
	return out
}
