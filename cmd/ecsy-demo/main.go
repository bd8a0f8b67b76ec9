// Command ecsy-demo drives a tiny simulation on top of the ecs package,
// standing in for the frame-timer/host loop that the library itself
// deliberately leaves to its caller.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edsilv/ecsy/internal/sim"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var pretty bool

	root := &cobra.Command{
		Use:   "ecsy-demo",
		Short: "Run and inspect a sample ecsy world",
	}
	root.PersistentFlags().BoolVar(&pretty, "pretty", true, "use human-readable console logging instead of JSON")

	var ticks int
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Tick a sample world forward and print its final stats table",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(pretty)
			world := sim.NewWorld(log)
			sim.Seed(world)

			const dt = 1.0 / 60.0
			simTime := 0.0
			for i := 0; i < ticks; i++ {
				world.Tick(dt, simTime)
				simTime += dt
			}

			sim.PrintStats(world, os.Stdout)
			return nil
		},
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 120, "number of fixed-timestep ticks to run")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Tick a sample world once and print its stats table",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(pretty)
			world := sim.NewWorld(log)
			sim.Seed(world)
			world.Tick(1.0/60.0, 0)
			sim.PrintStats(world, os.Stdout)
			return nil
		},
	}

	root.AddCommand(runCmd, statsCmd)
	return root
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
