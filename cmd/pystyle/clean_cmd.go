package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pystyle/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the on-disk report cache",
	Long:  "Remove every cached analysis report. The next check run re-analyzes all files from scratch.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	c, err := cache.Open(cacheAppName)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	if err := c.DropAll(); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	fmt.Println("report cache cleared")
	return nil
}
