package diag

// Violation is a single reported instance of a style rule not being
// satisfied. Line and columns always refer to the original document,
// never to post-correction positions.
type Violation struct {
	Line    uint32 // 1-based
	Col     uint32 // 1-based; 0 when the whole line is the subject
	EndCol  uint32 // exclusive; 0 when unknown
	Code    Code
	Message string
}

// New constructs a violation anchored at line:col.
func New(code Code, line, col uint32, msg string) Violation {
	return Violation{
		Line:    line,
		Col:     col,
		Code:    code,
		Message: msg,
	}
}

// WithEndCol attaches an underline end column.
func (v Violation) WithEndCol(endCol uint32) Violation {
	v.EndCol = endCol
	return v
}

// Category returns the reporting category of the violation's code.
func (v Violation) Category() Category {
	return v.Code.Category()
}

// Autofixable reports whether the violation's code has a safe rewrite.
func (v Violation) Autofixable() bool {
	return v.Code.Autofixable()
}
