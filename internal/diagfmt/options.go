package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of violations.
type PrettyOpts struct {
	Color      bool
	PathMode   PathMode
	ShowSource bool  // печатать строку кода с кареткой
	Width      uint8 // максимальная ширина вывода, 0 - не ограничено
}

// JSONOpts configures JSON output of violations.
type JSONOpts struct {
	PathMode PathMode
	Max      int // обрезка вывода, не отчёта
}
