package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <run-id>",
	Short: "Continue a persisted run",
	Long:  `Loads the latest checkpoint of a run from the configured store and runs it until it halts.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := cli.Resume(ctx, svc, args[0], jsonMode, cmd.OutOrStdout()); err != nil {
			die(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.Flags().Bool("json", false, "Print the result as JSON")
}
