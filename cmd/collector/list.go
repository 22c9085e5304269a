package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collector/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List layout presets",
	Long:  `Shows every registered preset and the layout strategy it uses.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No presets available.")
		return
	}

	fmt.Println("Available presets:")
	fmt.Println()

	maxIDLen := 2
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Printf("Configured layout: %s (world %dx%d)\n", loaded.InitLocatorType, loaded.WorldDim, loaded.WorldDim)
	fmt.Println("Run 'collector play <id>' to play.")
}
