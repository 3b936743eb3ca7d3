package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage persisted runs",
	Long:  `List, inspect, and remove run checkpoints held by the configured store.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all persisted runs",
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		ids, err := svc.Store.List(cmd.Context())
		if err != nil {
			die(fmt.Errorf("listing runs: %w", err))
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No persisted runs found.")
			return
		}

		fmt.Fprintln(out, "Persisted Runs:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print the checkpoint of a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]
		svc := loadServices(cmd)
		defer svc.Close()

		snap, err := svc.Store.Load(cmd.Context(), runID)
		if err != nil {
			die(fmt.Errorf("loading run '%s': %w", runID, err))
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			die(fmt.Errorf("marshaling snapshot: %w", err))
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()
		hasError := false

		for _, runID := range args {
			if err := svc.Store.Delete(cmd.Context(), runID); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", runID, err)
				hasError = true
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed run '%s'\n", runID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsRmCmd)
}
