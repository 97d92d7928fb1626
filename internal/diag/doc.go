// Package diag defines the violation model shared by the rule registry,
// the corrector and the CLI: the closed code catalog, categories,
// the Bag accumulator and the reporter contract.
package diag
