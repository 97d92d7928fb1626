package diag

// Code identifies one rule of the fixed catalog. The numeric ranges group
// codes by category; ID() maps them to the canonical pycodestyle names.
type Code uint16

const (
	UnknownCode Code = 0

	// Стилевые
	LineTooLong    Code = 1001
	BadIndentation Code = 1002

	// Пробельные
	MissingOpSpace     Code = 2001
	TrailingWhitespace Code = 2002

	// Именование
	ClassNaming Code = 3001
	FuncNaming  Code = 3002

	// Импорты
	ImportOrder Code = 4001
)

// Category classifies a violation for reporting purposes.
type Category uint8

const (
	CategoryStyle Category = iota
	CategoryWhitespace
	CategoryNaming
	CategoryImportOrder
)

func (c Category) String() string {
	switch c {
	case CategoryStyle:
		return "style"
	case CategoryWhitespace:
		return "whitespace"
	case CategoryNaming:
		return "naming"
	case CategoryImportOrder:
		return "import-order"
	}
	return "unknown"
}

var codeIDs = map[Code]string{
	LineTooLong:        "E501",
	BadIndentation:     "E111",
	MissingOpSpace:     "E225",
	TrailingWhitespace: "W291",
	ClassNaming:        "N801",
	FuncNaming:         "N802",
	ImportOrder:        "I100",
}

var codeDescription = map[Code]string{
	UnknownCode:        "unknown violation",
	LineTooLong:        "line too long",
	BadIndentation:     "indentation is not a multiple of four",
	MissingOpSpace:     "missing whitespace around operator",
	TrailingWhitespace: "trailing whitespace",
	ClassNaming:        "class name should use CapWords convention",
	FuncNaming:         "name should be lowercase with underscores",
	ImportOrder:        "import statements are not grouped and sorted",
}

// ID returns the canonical display identifier (E501, W291, ...).
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return "E0000"
}

// Category derives the reporting category from the code range.
func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return CategoryStyle
	case ic >= 2000 && ic < 3000:
		return CategoryWhitespace
	case ic >= 3000 && ic < 4000:
		return CategoryNaming
	case ic >= 4000 && ic < 5000:
		return CategoryImportOrder
	}
	return CategoryStyle
}

// Autofixable reports whether a deterministic, semantics-preserving
// rewrite exists for this code. Naming and line-length stay manual.
func (c Code) Autofixable() bool {
	switch c {
	case BadIndentation, MissingOpSpace, TrailingWhitespace, ImportOrder:
		return true
	}
	return false
}

// Title returns a short description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}

// Catalog returns every code of the fixed taxonomy in report order.
func Catalog() []Code {
	return []Code{
		LineTooLong,
		BadIndentation,
		MissingOpSpace,
		TrailingWhitespace,
		ClassNaming,
		FuncNaming,
		ImportOrder,
	}
}
