package diagfmt

import (
	"fmt"
	"io"

	"pystyle/internal/diag"
	"pystyle/internal/source"
)

// Short renders the one-line-per-violation form used by editors and
// golden tests: <path>:<line>:<col> <CODE> <message>.
func Short(w io.Writer, file *source.File, items []diag.Violation, mode PathMode, baseDir string) error {
	if len(items) == 0 {
		return nil
	}
	path := FormatPath(file, mode, baseDir)
	out := diag.FormatShort(path, items)
	_, err := fmt.Fprintln(w, out)
	return err
}
