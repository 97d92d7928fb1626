package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pystyle/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pystyle %s\n", version.Version)
		if version.GitCommit != "" {
			fmt.Printf("commit: %s", version.GitCommit)
			if version.GitMessage != "" {
				fmt.Printf(" (%s)", version.GitMessage)
			}
			fmt.Println()
		}
		if version.BuildDate != "" {
			fmt.Printf("built:  %s\n", version.BuildDate)
		}
	},
}
