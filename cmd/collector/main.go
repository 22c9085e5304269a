// collector runs the Collector environment: procedurally generated arenas
// where a fuel-limited ship gathers resources and delivers them to goals.
//
// Usage:
//
//	collector list                - List layout presets
//	collector play [preset]       - Play in the terminal (menu without a preset)
//	collector gen [preset]        - Print the level generated for a seed
//	collector run [preset]        - Run headless episodes with a scripted policy
//	collector episodes [preset]   - Show stored episodes
//	collector replay <file>       - Inspect or verify a recorded trajectory
//	collector options             - Show, validate or install option files
//	collector serve               - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>        - Episode seed (0 = time based)
//	--config <path>       - Options YAML (default search: ~/.collector/configs, ./configs)
//	--difficulty <name>   - Difficulty preset: easy, normal, hard
//	--db <path>           - Episode database (default: ~/.collector/episodes.db)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/collector/internal/config"
	"github.com/vovakirdan/collector/internal/games/collector"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

// loaded is the configuration every command runs with, filled in before any
// subcommand starts.
var loaded config.CollectorConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Collector - procedurally generated resource gathering",
	Long: `Collector generates seeded arenas holding resources, fuel, goals and
obstacles. A ship with limited fuel and cargo collects resources and delivers
them to goals of the matching color until every goal is full.

Available commands:
  list      - Show layout presets
  play      - Play in the terminal
  gen       - Print the level a seed generates
  run       - Run headless episodes
  episodes  - Show stored episodes
  replay    - Inspect a recorded trajectory
  options   - Manage option files
  serve     - Start SSH server for remote play

Examples:
  collector play collector_symmetric --seed 42
  collector gen collector_inline --seed 7
  collector run --episodes 100 --policy seek --record-dir ./traj
  collector serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadOptions,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate for interactive play (0 = play.tick_rate from options)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Episode seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.collector/episodes.db", "Path to episode database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to options YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadOptions reads the options file, applies the difficulty preset and
// hands the result to every preset.
func loadOptions(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadCollector(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyCollectorPreset(&cfg, preset)

	opts, err := collector.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	collector.SetOptions(opts)
	loaded = cfg
	return nil
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

func tickRate() int {
	if flagFPS > 0 {
		return flagFPS
	}
	if loaded.Play.TickRate > 0 {
		return loaded.Play.TickRate
	}
	return 30
}

func presetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "collector"
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
