package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pystyle/internal/diagfmt"
	"pystyle/internal/engine"
	"pystyle/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.py|directory]",
	Short: "Apply safe rewrites to a file or directory",
	Long:  "Analyze the target, rewrite every violation that has a deterministic fix and re-verify the result. Violations without a safe rewrite are reported for manual attention.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing files")
	fixCmd.Flags().String("format", "", "output format for remaining violations (pretty|short|json)")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	settings, err := collectSettings(cmd, target, format)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	var outcomes []engine.FixOutcome
	if info.IsDir() {
		outcomes, err = engine.FixDir(cmd.Context(), target, settings.Engine, !dryRun, nil)
	} else {
		fileSet := source.NewFileSetWithBase(parentDir(target))
		var out engine.FixOutcome
		out, err = engine.FixFile(fileSet, target, settings.Engine, !dryRun)
		outcomes = []engine.FixOutcome{out}
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	manual, err := renderOutcomes(outcomes, settings, dryRun)
	if err != nil {
		return err
	}
	if manual > 0 {
		cmd.SilenceErrors = true
		return fmt.Errorf("%d violation(s) need manual attention", manual)
	}
	return nil
}

// renderOutcomes печатает итог правок и оставшиеся ручные нарушения.
// Возвращает число нарушений, требующих ручного вмешательства.
func renderOutcomes(outcomes []engine.FixOutcome, s runSettings, dryRun bool) (int, error) {
	applied := 0
	changed := 0
	manual := 0

	for _, out := range outcomes {
		applied += out.Result.Applied
		if out.Changed {
			changed++
		}
		for _, sk := range out.Result.Skipped {
			manual++
			if !s.Quiet {
				fmt.Fprintf(os.Stderr, "pystyle: %s:%d: %s skipped: %s\n", out.Path, sk.Line, sk.Code.ID(), sk.Reason)
			}
		}

		if out.After == nil {
			continue
		}
		out.After.Sort()
		for _, v := range out.After.Items() {
			if v.Code.Autofixable() {
				// Скипнутые инстансы уже посчитаны выше.
				continue
			}
			manual++
		}
		if err := renderRemaining(out, s); err != nil {
			return manual, err
		}

		if s.Timings {
			printTimings(out.Timing)
		}
	}

	if !s.Quiet && s.Format != "json" {
		verb := "applied"
		if dryRun {
			verb = "would apply"
		}
		fmt.Printf("%s %d fix(es) in %d file(s)\n", verb, applied, changed)
		if manual > 0 {
			fmt.Printf("%d violation(s) need manual attention\n", manual)
		}
	}
	return manual, nil
}

// renderRemaining печатает нарушения, оставшиеся после правок.
func renderRemaining(out engine.FixOutcome, s runSettings) error {
	items := out.After.Items()
	if len(items) == 0 {
		return nil
	}

	// Для вывода используем исправленный текст: позиции актуальны
	// именно для него.
	text := ""
	if out.Result.Doc != nil {
		text = out.Result.Doc.Text()
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(out.Path, []byte(text))
	file := fs.Get(id)

	switch s.Format {
	case "json":
		report := diagfmt.BuildReport(file, items, diagfmt.JSONOpts{PathMode: diagfmt.PathModeBasename}, "")
		return diagfmt.WriteJSON(os.Stdout, report)
	case "short":
		return diagfmt.Short(os.Stdout, file, items, diagfmt.PathModeBasename, "")
	default:
		opts := prettyOpts(s)
		if text == "" {
			opts.ShowSource = false
		}
		return diagfmt.Pretty(os.Stdout, file, items, opts, "")
	}
}
