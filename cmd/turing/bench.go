package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure throughput over growing inputs",
	Long: `Runs a machine on words of growing length (the pad repeated n times, then the
suffix) and reports steps, tape cells and steps per second for each length.
Unset flags fall back to the bench section of the config.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		opts := cli.BenchOptions{Styled: tui.IsTerminal(os.Stdout)}
		opts.Machine, _ = cmd.Flags().GetString("machine")
		opts.Pad, _ = cmd.Flags().GetString("pad")
		opts.Suffix, _ = cmd.Flags().GetString("suffix")
		opts.Start, _ = cmd.Flags().GetInt("start")
		opts.Stop, _ = cmd.Flags().GetInt("stop")
		opts.Step, _ = cmd.Flags().GetInt("step")
		opts.HaltOrder, _ = cmd.Flags().GetString("halt-order")
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			opts.Styled = false
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := cli.Bench(ctx, svc, opts, cmd.OutOrStdout()); err != nil {
			die(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().String("machine", "", "Machine to benchmark")
	benchCmd.Flags().String("pad", "", "Symbol repeated n times at the start of each word")
	benchCmd.Flags().String("suffix", "", "Symbols appended to each word")
	benchCmd.Flags().Int("start", 0, "First length")
	benchCmd.Flags().Int("stop", 0, "Length to stop before")
	benchCmd.Flags().Int("step", 0, "Length increment")
	benchCmd.Flags().String("halt-order", "", "When a halting step stops: 'decision' or 'move'")
	benchCmd.Flags().Bool("plain", false, "Print the raw Markdown report")
}
