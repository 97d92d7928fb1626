package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pystyle/internal/diag"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalog",
	Long:  "Print every registered rule with its code, category and whether it has a safe automatic fix.",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	useColor := false
	if mode, err := cmd.Root().PersistentFlags().GetString("color"); err == nil {
		useColor = resolveColor(mode)
	}

	autoColor := color.New(color.FgGreen)
	manualColor := color.New(color.FgYellow)

	for _, c := range diag.Catalog() {
		fixLabel := "manual"
		if c.Autofixable() {
			fixLabel = "auto-fix"
		}
		if useColor {
			if c.Autofixable() {
				fixLabel = autoColor.Sprint(fixLabel)
			} else {
				fixLabel = manualColor.Sprint(fixLabel)
			}
		}
		fmt.Printf("%-6s %-13s %-8s %s\n", c.ID(), c.Category(), fixLabel, c.Title())
	}
	return nil
}
