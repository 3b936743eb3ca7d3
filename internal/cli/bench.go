package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/runner"
)

// BenchOptions describes a throughput sweep. Zero values fall back to the
// bench section of the config.
type BenchOptions struct {
	Machine   string
	Pad       string
	Suffix    string
	Start     int
	Stop      int
	Step      int
	HaltOrder string
	// Styled renders the report through glamour.
	Styled bool
}

func (o BenchOptions) withDefaults(svc *Services) BenchOptions {
	cfg := svc.Config.Bench
	if o.Machine == "" {
		o.Machine = cfg.Machine
	}
	if o.Pad == "" {
		o.Pad = cfg.Pad
	}
	if o.Suffix == "" {
		o.Suffix = cfg.Suffix
	}
	if o.Start == 0 {
		o.Start = cfg.Start
	}
	if o.Stop == 0 {
		o.Stop = cfg.Stop
	}
	if o.Step == 0 {
		o.Step = cfg.Step
	}
	return o
}

// Bench runs the sweep and writes a Markdown report to w. An interrupted
// sweep still reports the samples collected so far.
func Bench(ctx context.Context, svc *Services, opts BenchOptions, w io.Writer) ([]runner.Sample, error) {
	opts = opts.withDefaults(svc)

	def, err := svc.Engine.Machine(opts.Machine)
	if err != nil {
		return nil, err
	}
	machineOpts, err := svc.MachineOptions(opts.HaltOrder)
	if err != nil {
		return nil, err
	}

	samples, err := runner.Sweep(ctx, def, runner.SweepConfig{
		Pad:    opts.Pad,
		Suffix: opts.Suffix,
		Start:  opts.Start,
		Stop:   opts.Stop,
		Step:   opts.Step,
		Limits: svc.Limits(),
		Opts:   machineOpts,
		OnSample: func(s runner.Sample) {
			svc.Logger.Debug("Bench sample", "length", s.Length, "steps", s.Steps, "elapsed", s.Elapsed)
		},
	})
	if err != nil && !isInterrupted(err) {
		return samples, err
	}

	title := fmt.Sprintf("%s: %q* %q, lengths %d..%d step %d",
		opts.Machine, opts.Pad, opts.Suffix, opts.Start, opts.Stop, opts.Step)
	rendered, rerr := tui.NewRenderer(opts.Styled)(runner.Report(title, samples))
	if rerr != nil {
		return samples, rerr
	}
	if _, werr := io.WriteString(w, rendered); werr != nil {
		return samples, werr
	}
	if err != nil {
		printSystemMessage(w, "Interrupted after %d samples.", len(samples))
	}
	return samples, nil
}
