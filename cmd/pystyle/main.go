package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pystyle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "pystyle",
	Short:        "PEP 8 style analyzer and auto-corrector for Python sources",
	Long:         `pystyle checks Python files against a fixed PEP 8 rule set and can rewrite the violations that have a safe, deterministic fix.`,
	SilenceUsage: true,
}

// main wires the subcommands and persistent flags, then executes the
// root command. A non-nil error exits with status code 1.
func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-violations", 1000, "maximum number of violations to report per file")
	rootCmd.PersistentFlags().Int("jobs", 0, "number of parallel workers (0 = all CPUs)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk report cache")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
