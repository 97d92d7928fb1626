package pysrc

import "unicode/utf8"

// TabWidth is the tab stop used when expanding indentation.
const TabWidth = 4

// ExpandedWidth returns the display width of a whitespace prefix with
// tabs expanded to the next multiple of the tab stop.
func ExpandedWidth(ws string, tab int) int {
	w := 0
	for i := 0; i < len(ws); i++ {
		if ws[i] == '\t' {
			w = (w/tab + 1) * tab
		} else {
			w++
		}
	}
	return w
}

// RuneCol converts a byte offset inside text into a 1-based rune column.
func RuneCol(text string, byteOff int) uint32 {
	if byteOff > len(text) {
		byteOff = len(text)
	}
	return uint32(utf8.RuneCountInString(text[:byteOff]) + 1)
}
