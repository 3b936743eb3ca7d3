package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var machinesCmd = &cobra.Command{
	Use:   "machines",
	Short: "List the registered machines",
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTATES\tLANGUAGE\tSTART")
		for _, name := range svc.Engine.Machines() {
			def, err := svc.Engine.Machine(name)
			if err != nil {
				die(err)
			}
			d := def.Describe(name, false)
			symbols := make([]string, len(d.LanguageSymbols))
			for i, s := range d.LanguageSymbols {
				symbols[i] = string(s)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, len(d.States), strings.Join(symbols, " "), d.Start)
		}
		if err := tw.Flush(); err != nil {
			die(err)
		}
	},
}

var machinesDescribeCmd = &cobra.Command{
	Use:   "describe <machine>",
	Short: "Print a machine's states, alphabets and transitions as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd)
		defer svc.Close()

		def, err := svc.Engine.Machine(args[0])
		if err != nil {
			die(err)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(def.Describe(args[0], true)); err != nil {
			die(err)
		}
		if err := enc.Close(); err != nil {
			die(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(machinesCmd)
	machinesCmd.AddCommand(machinesDescribeCmd)
}
