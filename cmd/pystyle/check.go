package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pystyle/internal/diagfmt"
	"pystyle/internal/engine"
	"pystyle/internal/source"
	"pystyle/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.py|directory]",
	Short: "Analyze Python sources and report style violations",
	Long:  "Run the full rule set over a file or directory and print the ordered violation report. Exits non-zero when any violation is found.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|short|json)")
	checkCmd.Flags().Bool("no-progress", false, "disable the interactive progress view")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}

	settings, err := collectSettings(cmd, target, format)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	var (
		fileSet *source.FileSet
		results []engine.CheckResult
	)
	if info.IsDir() {
		fileSet, results, err = checkDir(cmd.Context(), target, settings, noProgress)
	} else {
		fileSet = source.NewFileSetWithBase(parentDir(target))
		var res engine.CheckResult
		res, err = engine.CheckFile(fileSet, target, settings.Engine)
		results = []engine.CheckResult{res}
	}
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	total, err := renderResults(fileSet, results, settings)
	if err != nil {
		return err
	}
	if total > 0 {
		cmd.SilenceErrors = true
		return fmt.Errorf("found %d style issue(s)", total)
	}
	return nil
}

// checkDir запускает разбор директории; в интерактивном режиме рядом
// крутится progress-модель, читающая события из канала.
func checkDir(ctx context.Context, dir string, s runSettings, noProgress bool) (*source.FileSet, []engine.CheckResult, error) {
	interactive := !noProgress && !s.Quiet && s.Format == "pretty" && isTerminal(os.Stdout)
	if !interactive {
		return engine.CheckDir(ctx, dir, s.Engine, nil)
	}

	files, err := engine.ListPyFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	events := make(chan engine.Event, len(files)*2)
	model := ui.NewProgressModel("checking "+dir, files, events)
	prog := tea.NewProgram(model)

	var (
		fileSet *source.FileSet
		results []engine.CheckResult
		runErr  error
	)
	go func() {
		fileSet, results, runErr = engine.CheckDir(ctx, dir, s.Engine, events)
		close(events)
	}()

	if _, err := prog.Run(); err != nil {
		return nil, nil, err
	}
	return fileSet, results, runErr
}

// renderResults печатает отчёты в выбранном формате и возвращает общее
// число нарушений.
func renderResults(fileSet *source.FileSet, results []engine.CheckResult, s runSettings) (int, error) {
	total := 0
	autofixable := 0
	jsonReports := make([]diagfmt.ReportJSON, 0, len(results))

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "pystyle: %v\n", res.Err)
			continue
		}
		res.Bag.Sort()
		items := res.Bag.Items()
		total += len(items)
		for _, v := range items {
			if v.Code.Autofixable() {
				autofixable++
			}
		}

		if res.Degraded && !s.Quiet {
			fmt.Fprintf(os.Stderr, "pystyle: %s: structural parse failed, naming and import rules skipped\n", res.Path)
		}

		file := fileSet.Get(res.FileID)
		switch s.Format {
		case "json":
			jsonReports = append(jsonReports, diagfmt.BuildReport(file, items, diagfmt.JSONOpts{PathMode: diagfmt.PathModeRelative}, fileSet.BaseDir()))
		case "short":
			if err := diagfmt.Short(os.Stdout, file, items, diagfmt.PathModeRelative, fileSet.BaseDir()); err != nil {
				return total, err
			}
		default:
			if err := diagfmt.Pretty(os.Stdout, file, items, prettyOpts(s), fileSet.BaseDir()); err != nil {
				return total, err
			}
		}

		if s.Timings {
			printTimings(res.Timing)
		}
	}

	if s.Format == "json" {
		if err := diagfmt.WriteJSON(os.Stdout, diagfmt.MergeReports(jsonReports...)); err != nil {
			return total, err
		}
	} else if !s.Quiet {
		if err := diagfmt.Summary(os.Stdout, total, autofixable, len(results), s.UseColor); err != nil {
			return total, err
		}
	}
	return total, nil
}
