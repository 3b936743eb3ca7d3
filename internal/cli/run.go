package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	Machine   string
	Word      string
	Limits    domain.Limits
	HaltOrder string
	// RunID persists the run to the configured store when set.
	RunID string
	// Trace receives one line per step when set.
	Trace io.Writer
	JSON  bool
}

// Output is what run and resume print in JSON mode.
type Output struct {
	*runner.Result
	Configuration string `json:"configuration,omitempty"`
	Interrupted   bool   `json:"interrupted,omitempty"`
}

// Run starts opts.Machine on opts.Word and prints the result to w.
// An interruption is not an error: the partial result is printed, and a
// persisted run can be resumed later.
func Run(ctx context.Context, svc *Services, opts RunOptions, w io.Writer) (*runner.Result, error) {
	machineOpts, err := svc.MachineOptions(opts.HaltOrder)
	if err != nil {
		return nil, err
	}
	exec, err := svc.Engine.Start(opts.Machine, opts.Word, opts.Limits, machineOpts...)
	if err != nil {
		return nil, err
	}

	var extra []runner.Option
	if opts.Trace != nil {
		extra = append(extra, runner.WithTrace(opts.Trace))
	}
	r := svc.Runner(opts.RunID != "", extra...)

	res, err := r.Execute(ctx, opts.RunID, opts.Machine, exec)
	interrupted := err != nil && res != nil && isInterrupted(err)
	if err != nil && !interrupted {
		return nil, err
	}

	out := Output{Result: res, Configuration: exec.String(), Interrupted: interrupted}
	if err := writeOutput(w, out, opts.JSON); err != nil {
		return nil, err
	}
	if interrupted && !opts.JSON {
		if opts.RunID != "" {
			printSystemMessage(w, "Interrupted at step %d. Resume with 'turing resume %s'.", res.Clock.Time, opts.RunID)
		} else {
			printSystemMessage(w, "Interrupted at step %d.", res.Clock.Time)
		}
	}
	return res, nil
}

// Resume continues the persisted run runID and prints the result to w.
func Resume(ctx context.Context, svc *Services, runID string, asJSON bool, w io.Writer) (*runner.Result, error) {
	r := svc.Runner(true)
	res, err := r.Resume(ctx, runID, svc.Engine.Registry())
	interrupted := err != nil && res != nil && isInterrupted(err)
	if err != nil && !interrupted {
		return nil, err
	}

	out := Output{Result: res, Configuration: configuration(svc, runID), Interrupted: interrupted}
	if err := writeOutput(w, out, asJSON); err != nil {
		return nil, err
	}
	if interrupted && !asJSON {
		printSystemMessage(w, "Interrupted at step %d.", res.Clock.Time)
	}
	return res, nil
}

// configuration renders the stored snapshot of runID, or "" if it cannot.
func configuration(svc *Services, runID string) string {
	snap, err := svc.Store.Load(context.Background(), runID)
	if err != nil {
		return ""
	}
	def, err := svc.Engine.Machine(snap.Machine)
	if err != nil {
		return ""
	}
	exec, err := def.Restore(snap)
	if err != nil {
		return ""
	}
	return exec.String()
}

func writeOutput(w io.Writer, out Output, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if out.RunID != "" {
		fmt.Fprintf(tw, "run:\t%s\n", out.RunID)
	}
	fmt.Fprintf(tw, "machine:\t%s\n", out.Machine)
	fmt.Fprintf(tw, "status:\t%s\n", out.Status)
	fmt.Fprintf(tw, "state:\t%s\n", out.State)
	fmt.Fprintf(tw, "head:\t%d\n", out.Head)
	fmt.Fprintf(tw, "steps:\t%d\n", out.Clock.Time)
	fmt.Fprintf(tw, "cells:\t%d\n", out.Clock.Space)
	fmt.Fprintf(tw, "word:\t%s\n", out.Word)
	if out.Configuration != "" {
		fmt.Fprintf(tw, "tape:\t%s\n", out.Configuration)
	}
	return tw.Flush()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
