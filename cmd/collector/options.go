package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/collector/internal/config"
	"github.com/vovakirdan/collector/internal/games/collector"
)

var flagForce bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show, validate or install option files",
	Long: `Options control the arena size, entity counts, goal and ship capacities,
the episode timeout and resource respawning. They are read from --config, then
~/.collector/configs/collector.yaml, then ./configs/collector.yaml, falling
back to built-in defaults. --difficulty adjusts whatever was loaded.`,
}

var optionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the options in effect",
	RunE: func(_ *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(loaded)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var optionsDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in option file",
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.GetDefaultYAML())
	},
}

var optionsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema option files are validated against",
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.GetSchema())
	},
}

var optionsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an option file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		cfg, err := config.ParseCollector(data)
		if err != nil {
			return err
		}
		if _, err := collector.OptionsFromConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", args[0])
		return nil
	},
}

var optionsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the options in effect to the user config file",
	RunE: func(_ *cobra.Command, _ []string) error {
		path := config.UserConfigPath()
		if path == "" {
			return errors.New("no home directory to write to")
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, loaded); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	optionsInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	optionsCmd.AddCommand(optionsShowCmd)
	optionsCmd.AddCommand(optionsDefaultsCmd)
	optionsCmd.AddCommand(optionsSchemaCmd)
	optionsCmd.AddCommand(optionsValidateCmd)
	optionsCmd.AddCommand(optionsInitCmd)
}
