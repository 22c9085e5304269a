package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/collector/internal/platform/tui"
	"github.com/vovakirdan/collector/internal/registry"
	"github.com/vovakirdan/collector/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagBySeed int64
	flagStats  bool
	flagBoard  bool
	flagClear  bool
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [preset]",
	Short: "Show stored episodes",
	Long: `Display stored episodes: the best of a preset by default, the most recent
across presets, every episode of one seed, or aggregate statistics.

Examples:
  collector episodes
  collector episodes collector_random --limit 20
  collector episodes --recent
  collector episodes --by-seed 42
  collector episodes --stats
  collector episodes --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEpisodes,
}

func init() {
	episodesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum rows")
	episodesCmd.Flags().BoolVar(&flagRecent, "recent", false, "Most recent episodes across presets")
	episodesCmd.Flags().Int64Var(&flagBySeed, "by-seed", 0, "Every episode played on this seed")
	episodesCmd.Flags().BoolVar(&flagStats, "stats", false, "Per-preset statistics")
	episodesCmd.Flags().BoolVar(&flagBoard, "tui", false, "Browse episodes interactively")
	episodesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored episodes of the preset")
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening episode database: %w", err)
	}
	defer store.Close()

	id := presetArg(args)

	switch {
	case flagBoard:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)

	case flagStats:
		return printStats(store)

	case flagClear:
		if err := store.ClearEpisodes(id); err != nil {
			return err
		}
		fmt.Printf("Cleared episodes of %s.\n", id)
		return nil

	case flagRecent:
		eps, err := store.RecentEpisodes(flagLimit)
		if err != nil {
			return err
		}
		fmt.Println("Recent episodes")
		printEpisodes(eps, true)
		return nil

	case cmd.Flags().Changed("by-seed"):
		eps, err := store.EpisodesBySeed(flagBySeed)
		if err != nil {
			return err
		}
		fmt.Printf("Episodes on seed %d\n", flagBySeed)
		printEpisodes(eps, true)
		return nil
	}

	if !registry.Exists(id) {
		return fmt.Errorf("unknown preset %q (see 'collector list')", id)
	}
	eps, err := store.TopEpisodes(id, flagLimit)
	if err != nil {
		return err
	}
	fmt.Printf("Best episodes - %s\n", id)
	printEpisodes(eps, false)
	if best, ok, err := store.BestReward(id); err == nil && ok {
		fmt.Println()
		fmt.Printf("Best: %.1f\n", best)
	}
	return nil
}

func printEpisodes(eps []storage.EpisodeEntry, withPreset bool) {
	fmt.Println()
	if len(eps) == 0 {
		fmt.Println("No episodes recorded yet.")
		return
	}

	if withPreset {
		fmt.Printf("  %-4s  %-20s  %10s  %6s  %-4s  %-20s  %s\n", "#", "Preset", "Reward", "Ticks", "Done", "Seed", "Date")
	} else {
		fmt.Printf("  %-4s  %10s  %6s  %-4s  %-20s  %s\n", "Rank", "Reward", "Ticks", "Done", "Seed", "Date")
	}
	for i, e := range eps {
		done := "-"
		if e.LevelComplete {
			done = "yes"
		}
		date := e.CreatedAt.Format("2006-01-02 15:04")
		if withPreset {
			fmt.Printf("  %-4d  %-20s  %10.1f  %6d  %-4s  %-20d  %s\n", i+1, e.GameID, e.TotalReward, e.Ticks, done, e.Seed, date)
		} else {
			fmt.Printf("  %-4d  %10.1f  %6d  %-4s  %-20d  %s\n", i+1, e.TotalReward, e.Ticks, done, e.Seed, date)
		}
	}
}

func printStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No episodes recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-20s  %8s  %9s  %10s  %10s  %9s  %s\n", "Preset", "Episodes", "Complete", "Best", "Mean", "Ticks", "Last played")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-20s  %8d  %8.0f%%  %10.1f  %10.1f  %9.0f  %s\n",
			id, st.Episodes, st.CompletionRate()*100, st.BestReward, st.AvgReward, st.AvgTicks,
			st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
