// Package rules holds the fixed rule registry: seven checks, each a pure
// function from a parsed document to a violation list. Registration order
// is fixed at compile time; report order is restored by sorting, so the
// registry can run rules in parallel without losing determinism.
package rules

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pystyle/internal/diag"
	"pystyle/internal/pysrc"
)

// Options tunes the thresholds shared by several rules.
type Options struct {
	MaxLineLen    int      // E501
	IndentWidth   int      // E111
	LocalPrefixes []string // I100: module roots treated as local
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MaxLineLen:  100,
		IndentWidth: 4,
	}
}

// Rule is one registered check.
type Rule struct {
	Code  diag.Code
	Check func(doc *pysrc.Document, opts Options) []diag.Violation
}

// Registry returns the full rule set in registration order.
func Registry() []Rule {
	return []Rule{
		{Code: diag.LineTooLong, Check: checkLineLength},
		{Code: diag.BadIndentation, Check: checkIndentation},
		{Code: diag.MissingOpSpace, Check: checkOperatorSpacing},
		{Code: diag.TrailingWhitespace, Check: checkTrailingWhitespace},
		{Code: diag.ImportOrder, Check: checkImportOrder},
		{Code: diag.ClassNaming, Check: checkClassNaming},
		{Code: diag.FuncNaming, Check: checkFuncNaming},
	}
}

// Run evaluates every registered rule sequentially and reports into r.
func Run(doc *pysrc.Document, opts Options, r diag.Reporter) {
	for _, rule := range Registry() {
		for _, v := range rule.Check(doc, opts) {
			r.Report(v)
		}
	}
}

// RunParallel evaluates the registry concurrently. Results land in
// per-rule slots, so the merged order matches the sequential Run.
func RunParallel(ctx context.Context, doc *pysrc.Document, opts Options, r diag.Reporter) error {
	registry := Registry()
	results := make([][]diag.Violation, len(registry))

	g, _ := errgroup.WithContext(ctx)
	for i, rule := range registry {
		i, rule := i, rule
		g.Go(func() error {
			results[i] = rule.Check(doc, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, vs := range results {
		for _, v := range vs {
			r.Report(v)
		}
	}
	return nil
}

// Analyze is the sorted-report convenience used by the engine: run all
// rules, dedup and order by (line, code).
func Analyze(doc *pysrc.Document, opts Options, max int) *diag.Bag {
	bag := diag.NewBag(max)
	Run(doc, opts, diag.BagReporter{Bag: bag})
	bag.Dedup()
	bag.Sort()
	return bag
}
