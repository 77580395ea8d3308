package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/arbor/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor ticks behavior trees",
	Long: `Arbor builds behavior trees with a fluent builder and ticks them, optionally
persisting the blackboard to Redis and exposing metrics and live state over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("demo", "basic", "Demo tree to use (basic, guard)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}

// loadConfig reads --config, if given, and applies the persistent flags the user set on top
// of it. apply, when given, copies command-specific flags.
func loadConfig(cmd *cobra.Command, apply ...func(*pflag.FlagSet, *config.Config)) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("demo") {
		cfg.Demo, _ = flags.GetString("demo")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	for _, fn := range apply {
		fn(flags, &cfg)
	}
	return cfg, cfg.Validate()
}
