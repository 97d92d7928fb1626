package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders violations into a stable, single-line-per-entry
// representation suitable for golden files and the CLI short format:
//
//	<path>:<line>:<col> <CODE> <message>
//
// The input is expected to be sorted already (bag.Sort()).
func FormatShort(path string, violations []Violation) string {
	if len(violations) == 0 {
		return ""
	}

	var b strings.Builder
	for i, v := range violations {
		col := v.Col
		if col == 0 {
			col = 1
		}
		fmt.Fprintf(&b, "%s:%d:%d %s %s", path, v.Line, col, v.Code.ID(), sanitizeMessage(v.Message))
		if i < len(violations)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
