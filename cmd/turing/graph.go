package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state diagram of a machine",
	Long: `Outputs a Mermaid diagram (graph LR) of the machine's transition table.
With --word the machine is run on the word first and its final state is highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		def, err := svc.Engine.Machine(args[0])
		if err != nil {
			die(err)
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("word") {
			word, _ := cmd.Flags().GetString("word")
			exec, err := def.Start(word, limitsFromFlags(cmd, svc))
			if err != nil {
				die(err)
			}
			if err := exec.RunContext(cmd.Context()); err != nil {
				die(err)
			}
			overlay = graph.Overlay(exec)
			fmt.Fprintln(os.Stderr, graph.Status(exec))
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("word", "", "Run the machine on this word and highlight where it stops")
	graphCmd.Flags().Int("time-limit", 0, "Maximum number of steps for --word (0 for none)")
	graphCmd.Flags().Int("space-limit", 0, "Maximum number of tape cells for --word (0 for none)")
}
