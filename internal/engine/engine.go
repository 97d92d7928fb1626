// Package engine ties the pipeline together: load, parse, analyze, fix.
// The pure boundary lives in Analyze and Correct; the file and directory
// runners add I/O, caching and parallelism on top of it.
package engine

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"pystyle/internal/cache"
	"pystyle/internal/diag"
	"pystyle/internal/fix"
	"pystyle/internal/observ"
	"pystyle/internal/pysrc"
	"pystyle/internal/rules"
	"pystyle/internal/source"
)

// Options configures one run.
type Options struct {
	Rules         rules.Options
	MaxViolations int
	Jobs          int          // 0 — по числу процессоров
	Cache         *cache.Cache // nil — без кэша
}

// DefaultOptions returns the standard run configuration.
func DefaultOptions() Options {
	return Options{
		Rules:         rules.DefaultOptions(),
		MaxViolations: 1000,
	}
}

// Analyze runs the full rule registry over a document and returns the
// deduplicated report ordered by (line, code).
func Analyze(doc *pysrc.Document, o Options) *diag.Bag {
	return rules.Analyze(doc, o.Rules, o.MaxViolations)
}

// Correct applies the fixer pipeline to the document for the given
// report. Pure: the caller decides what to do with the new text.
func Correct(doc *pysrc.Document, report *diag.Bag, o Options) (fix.Result, error) {
	return fix.Apply(doc, report.Items(), o.Rules)
}

// CheckResult is the analysis outcome for one file.
type CheckResult struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	Degraded  bool
	FromCache bool
	Timing    observ.Report
	Err       error // ошибка загрузки; остальные поля тогда пустые
}

// CheckFile loads, parses and analyzes a single file. When the cache
// holds a report for the same content and the same effective options,
// the stored report is reused and the parse is skipped entirely.
func CheckFile(fileSet *source.FileSet, path string, o Options) (CheckResult, error) {
	timer := observ.NewTimer()

	phase := timer.Begin("load")
	fileID, err := fileSet.Load(path)
	if err != nil {
		timer.End(phase, "")
		return CheckResult{Path: path}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fileSet.Get(fileID)
	timer.End(phase, "")

	key := cacheKey(file.Hash, o)
	if hit, ok, err := cacheGet(o.Cache, key); err == nil && ok {
		bag := diag.NewBag(o.MaxViolations)
		for _, v := range hit.Items {
			bag.Add(v)
		}
		return CheckResult{
			Path:      path,
			FileID:    fileID,
			Bag:       bag,
			Degraded:  hit.Degraded,
			FromCache: true,
			Timing:    timer.Report(),
		}, nil
	}

	phase = timer.Begin("parse")
	doc := pysrc.Parse(file)
	timer.End(phase, "")

	phase = timer.Begin("analyze")
	bag := Analyze(doc, o)
	timer.End(phase, fmt.Sprintf("%d violations", bag.Len()))

	cachePut(o.Cache, key, path, doc.Degraded(), bag.Items())

	return CheckResult{
		Path:     path,
		FileID:   fileID,
		Bag:      bag,
		Degraded: doc.Degraded(),
		Timing:   timer.Report(),
	}, nil
}

// FixOutcome is the correction outcome for one file.
type FixOutcome struct {
	Path    string
	Before  *diag.Bag // отчёт до правок
	After   *diag.Bag // отчёт по исправленному тексту
	Result  fix.Result
	Changed bool
	Timing  observ.Report
}

// FixFile analyzes a file, applies every safe rewrite and re-analyzes
// the result. With write set, the corrected text replaces the file.
func FixFile(fileSet *source.FileSet, path string, o Options, write bool) (FixOutcome, error) {
	timer := observ.NewTimer()

	phase := timer.Begin("load")
	fileID, err := fileSet.Load(path)
	if err != nil {
		timer.End(phase, "")
		return FixOutcome{Path: path}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fileSet.Get(fileID)
	timer.End(phase, "")

	phase = timer.Begin("parse")
	doc := pysrc.Parse(file)
	timer.End(phase, "")

	phase = timer.Begin("analyze")
	before := Analyze(doc, o)
	timer.End(phase, fmt.Sprintf("%d violations", before.Len()))

	outcome := FixOutcome{Path: path, Before: before}

	phase = timer.Begin("fix")
	res, err := Correct(doc, before, o)
	if err == fix.ErrNoFixes {
		timer.End(phase, "nothing to fix")
		outcome.Result = res
		outcome.After = before
		outcome.Timing = timer.Report()
		return outcome, nil
	}
	if err != nil {
		timer.End(phase, "")
		return outcome, err
	}
	timer.End(phase, fmt.Sprintf("%d applied", res.Applied))

	phase = timer.Begin("verify")
	after := Analyze(res.Doc, o)
	timer.End(phase, fmt.Sprintf("%d remain", after.Len()))

	outcome.Result = res
	outcome.After = after
	outcome.Changed = res.Doc.Text() != string(file.Content)

	if write && outcome.Changed {
		if err := os.WriteFile(path, []byte(res.Doc.Text()), 0o644); err != nil {
			return outcome, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	outcome.Timing = timer.Report()
	return outcome, nil
}

// cacheKey вмешивает действующие настройки правил в хэш содержимого:
// отчёт, посчитанный при одном лимите, не должен отдаваться при другом.
func cacheKey(contentHash cache.Digest, o Options) cache.Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	fmt.Fprintf(h, "|%d|%d|%d|%s",
		o.Rules.MaxLineLen,
		o.Rules.IndentWidth,
		o.MaxViolations,
		strings.Join(o.Rules.LocalPrefixes, ","),
	)
	var key cache.Digest
	copy(key[:], h.Sum(nil))
	return key
}

func cacheGet(c *cache.Cache, key cache.Digest) (cache.Hit, bool, error) {
	if c == nil {
		return cache.Hit{}, false, nil
	}
	return c.Get(key)
}

func cachePut(c *cache.Cache, key cache.Digest, path string, degraded bool, items []diag.Violation) {
	if c == nil {
		return
	}
	// Ошибка записи кэша не должна ронять проверку.
	_ = c.Put(key, path, degraded, items)
}
