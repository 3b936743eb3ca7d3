package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <machine> [word]",
	Short: "Run a machine on an input word",
	Long: `Runs a registered machine on a word and prints how it halted.

With --run-id the run is checkpointed to the configured store and can be
continued with 'turing resume' after an interruption.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		opts := cli.RunOptions{
			Machine: args[0],
			Limits:  limitsFromFlags(cmd, svc),
		}
		if len(args) > 1 {
			opts.Word = args[1]
		}
		opts.HaltOrder, _ = cmd.Flags().GetString("halt-order")
		opts.RunID, _ = cmd.Flags().GetString("run-id")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			opts.Trace = os.Stderr
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := cli.Run(ctx, svc, opts, cmd.OutOrStdout()); err != nil {
			die(err)
		}
	},
}

// limitsFromFlags takes the configured limits and applies explicit flags.
func limitsFromFlags(cmd *cobra.Command, svc *cli.Services) domain.Limits {
	limits := svc.Limits()
	if cmd.Flags().Changed("time-limit") {
		limits.Time, _ = cmd.Flags().GetInt("time-limit")
	}
	if cmd.Flags().Changed("space-limit") {
		limits.Space, _ = cmd.Flags().GetInt("space-limit")
	}
	return limits
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("time-limit", 0, "Maximum number of steps (0 for none)")
	runCmd.Flags().Int("space-limit", 0, "Maximum number of tape cells (0 for none)")
	runCmd.Flags().String("halt-order", "", "When a halting step stops: 'decision' or 'move'")
	runCmd.Flags().String("run-id", "", "Persist the run under this ID so it can be resumed")
	runCmd.Flags().Bool("trace", false, "Print every configuration to stderr")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
}
