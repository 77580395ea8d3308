package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tick a demo tree",
	Long: `Builds the selected demo tree and ticks it until a stop state is reached, the tick
budget is spent, or the process is interrupted. With --addr the introspection server
keeps running after the last tick until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, applyRunFlags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		quiet, _ := cmd.Flags().GetBool("quiet")
		return cli.Run(ctx, cli.RunOptions{
			Config:  cfg,
			Out:     os.Stdout,
			Err:     os.Stderr,
			Version: arbor.Version,
			Banner:  !quiet && tui.IsTerminal(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64P("ticks", "n", 1, "Maximum number of ticks (0 = unlimited)")
	runCmd.Flags().Duration("interval", 0, "Delay between ticks")
	runCmd.Flags().StringSlice("stop-on", nil, "Root states that end the run (success, failure, running)")
	runCmd.Flags().String("tree-id", "", "Tree id used for snapshots and metrics (default: random)")
	runCmd.Flags().String("addr", "", "Serve metrics and introspection on this address, e.g. :8080")
	runCmd.Flags().String("redis-addr", "", "Persist blackboard snapshots to this Redis server")
	runCmd.Flags().Bool("lock", false, "Hold a Redis lock around every tick")
	runCmd.Flags().Bool("trace", false, "Print tick spans to stderr")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}

func applyRunFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("ticks") {
		cfg.Ticks, _ = flags.GetUint64("ticks")
	}
	if flags.Changed("interval") {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("stop-on") {
		cfg.StopOn, _ = flags.GetStringSlice("stop-on")
	}
	if flags.Changed("tree-id") {
		cfg.TreeID, _ = flags.GetString("tree-id")
	}
	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("lock") {
		cfg.Redis.Lock, _ = flags.GetBool("lock")
	}
	if flags.Changed("trace") {
		cfg.Trace, _ = flags.GetBool("trace")
	}
}
