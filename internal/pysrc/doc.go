// Package pysrc builds the dual representation of one analyzed Python
// file: the ordered physical line sequence used by whitespace and length
// rules, and the flat declaration list used by naming and import rules.
//
// The scan is line-oriented: it tracks triple-quoted strings, comments
// and bracket continuation so that later passes never mistake string or
// comment interiors for code. A structural failure (an unterminated
// triple-quoted string) degrades the document to lines-only; it never
// aborts the run.
package pysrc
