package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collector/internal/games/collector"
	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/recording"
)

var (
	flagVerify bool
	flagSteps  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Inspect a recorded trajectory",
	Long: `Print the layout and result of a trajectory written by 'collector run
--record-dir'. With --verify the recorded actions are played again on a fresh
level from the same seed, using the current options, and every tick is
compared against the recording.

Examples:
  collector replay ./traj/collector-seed42.jsonl.zst
  collector replay ./traj/collector-seed42.jsonl.zst --steps
  collector replay ./traj/collector-seed42.jsonl.zst --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-run the actions and compare every tick")
	replayCmd.Flags().BoolVar(&flagSteps, "steps", false, "Print every recorded tick")
}

func runReplay(_ *cobra.Command, args []string) error {
	lines, err := recording.ReadFile(args[0])
	if err != nil {
		return err
	}
	hdr, err := recording.Header(lines)
	if err != nil {
		return err
	}

	fmt.Printf("Preset:   %s\n", hdr.GameID)
	fmt.Printf("Seed:     %d\n", hdr.Seed)
	fmt.Printf("Layout:   %s, world %d (%dx%d cells)\n", hdr.Locator, hdr.WorldDim, hdr.Width, hdr.Height)
	kinds := map[string]int{}
	for _, e := range hdr.Entities {
		kinds[e.Kind]++
	}
	fmt.Printf("Entities: %d agent, %d goals, %d resources, %d fuel, %d obstacles\n",
		kinds["agent"], kinds["goal_green"]+kinds["goal_red"],
		kinds["resource_green"]+kinds["resource_red"], kinds["fuel"], kinds["obstacle"])

	steps := 0
	for _, l := range lines {
		switch {
		case l.Step != nil:
			steps++
			if flagSteps {
				s := l.Step
				fmt.Printf("  %5d  a=%d  r=%8.2f  pos=(%6.2f,%6.2f)  rot=%6.2f  fuel=%6.2f  cargo=%6.2f  %v\n",
					s.Tick, s.Action, s.Reward, s.X, s.Y, s.Rot, s.Fuel, s.Cargo, s.Contacts)
			}
		case l.Result != nil:
			r := l.Result
			fmt.Printf("Result:   %d ticks, reward %.1f, complete %v, fuel left %.1f\n",
				r.Ticks, r.TotalReward, r.LevelComplete, r.FuelLeft)
		}
	}
	fmt.Printf("Steps:    %d\n", steps)

	if !flagVerify {
		return nil
	}
	opts, err := collector.PresetOptions(hdr.GameID)
	if err != nil {
		return err
	}
	ep, err := core.NewEpisode(opts)
	if err != nil {
		return err
	}
	if err := ep.Reset(hdr.Seed); err != nil {
		return err
	}
	n, err := recording.Replay(ep, lines)
	if err != nil {
		return err
	}
	fmt.Printf("Verified: %d ticks match\n", n)
	return nil
}
