package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/platform/tui"
	"github.com/vovakirdan/collector/internal/registry"
	"github.com/vovakirdan/collector/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Play in the terminal",
	Long: `Play a preset directly, or pick one from a menu when none is given.

Controls:
  W/Up       - Thrust
  S/Down     - Reverse thrust
  A/Left     - Turn left
  D/Right    - Turn right
  P/Esc      - Pause
  R          - New level (next seed)
  B          - Back to menu (paused or finished)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Examples:
  collector play
  collector play collector_symmetric --seed 42
  collector play collector_random --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = tickRate()
	cfg.Seed = flagSeed

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		store = nil
	}

	var runErr error
	if len(args) == 0 {
		runErr = tui.RunSession(store, cfg)
	} else {
		game, err := registry.Create(args[0])
		if err != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintln(os.Stderr, "Run 'collector list' to see available presets.")
			fail("%v", err)
		}
		runErr = tui.Run(game, store, cfg)
	}

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
