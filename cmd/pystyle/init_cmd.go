package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pystyle/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a starter pystyle.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path, err := config.WriteDefault(dir)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}
