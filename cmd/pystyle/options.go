package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pystyle/internal/cache"
	"pystyle/internal/config"
	"pystyle/internal/diagfmt"
	"pystyle/internal/engine"
	"pystyle/internal/observ"
)

const cacheAppName = "pystyle"

// runSettings — собранные настройки одного запуска: флаги поверх
// pystyle.toml поверх дефолтов.
type runSettings struct {
	Engine   engine.Options
	Format   string
	UseColor bool
	Quiet    bool
	Timings  bool
}

// collectSettings merges the manifest found near target with the
// command-line flags. Flags win when explicitly set.
func collectSettings(cmd *cobra.Command, target string, format string) (runSettings, error) {
	startDir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		startDir = parentDir(target)
	}

	manifest, _, err := config.Load(startDir)
	if err != nil {
		return runSettings{}, err
	}
	cfg := manifest.Config

	flags := cmd.Root().PersistentFlags()

	maxViolations := cfg.Style.MaxViolations
	if flags.Changed("max-violations") {
		maxViolations, _ = flags.GetInt("max-violations")
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return runSettings{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return runSettings{}, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return runSettings{}, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return runSettings{}, err
	}
	colorMode, err := flags.GetString("color")
	if err != nil {
		return runSettings{}, err
	}
	if !flags.Changed("color") && cfg.Output.Color != "" {
		colorMode = normalizeColorMode(cfg.Output.Color)
	}

	if format == "" {
		format = cfg.Output.Format
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return runSettings{}, fmt.Errorf("unknown format %q (pretty|short|json)", format)
	}

	o := engine.Options{
		Rules:         cfg.RuleOptions(),
		MaxViolations: maxViolations,
		Jobs:          jobs,
	}
	if !noCache {
		// Недоступный кэш не мешает проверке, просто работаем без него.
		if c, err := cache.Open(cacheAppName); err == nil {
			o.Cache = c
		}
	}

	return runSettings{
		Engine:   o,
		Format:   format,
		UseColor: resolveColor(colorMode),
		Quiet:    quiet,
		Timings:  timings,
	}, nil
}

func normalizeColorMode(mode string) string {
	switch mode {
	case "always":
		return "on"
	case "never":
		return "off"
	}
	return mode
}

func resolveColor(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	// auto: только терминал и без NO_COLOR
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(os.Stdout)
}

func parentDir(path string) string {
	return filepath.Dir(path)
}

func prettyOpts(s runSettings) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:      s.UseColor,
		PathMode:   diagfmt.PathModeRelative,
		ShowSource: true,
	}
}

func printTimings(report observ.Report) {
	fmt.Fprint(os.Stderr, report.Summary())
}
