package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// SweepConfig describes a throughput benchmark over growing inputs.
// The word for length n is Pad repeated n times followed by Suffix.
type SweepConfig struct {
	Pad    string
	Suffix string
	Start  int
	Stop   int // exclusive
	Step   int
	Limits domain.Limits
	Opts   []machine.Option

	// OnSample is called after each word. It may be nil.
	OnSample func(Sample)
}

// Sample is the measurement for one word of a sweep.
type Sample struct {
	Length         int           `json:"length"`
	Steps          int           `json:"steps"`
	Cells          int           `json:"cells"`
	Status         domain.Status `json:"status"`
	Elapsed        time.Duration `json:"elapsed"`
	StepsPerSecond float64       `json:"steps_per_second"`
}

// Sweep runs def on every word of cfg in order and returns the samples.
// It stops between words when ctx ends, returning the samples so far with ctx.Err().
func Sweep(ctx context.Context, def *machine.Definition, cfg SweepConfig) ([]Sample, error) {
	if cfg.Step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %d", cfg.Step)
	}
	if cfg.Start < 0 {
		return nil, fmt.Errorf("sweep start must not be negative, got %d", cfg.Start)
	}

	var samples []Sample
	for n := cfg.Start; n < cfg.Stop; n += cfg.Step {
		if err := ctx.Err(); err != nil {
			return samples, err
		}

		word := strings.Repeat(cfg.Pad, n) + cfg.Suffix
		exec, err := def.Start(word, cfg.Limits, cfg.Opts...)
		if err != nil {
			return samples, fmt.Errorf("length %d: %w", n, err)
		}

		began := time.Now()
		if err := exec.RunContext(ctx); err != nil {
			return samples, err
		}
		elapsed := time.Since(began)

		s := Sample{
			Length:  n,
			Steps:   exec.Clock().Time,
			Cells:   exec.Clock().Space,
			Status:  exec.Status(),
			Elapsed: elapsed,
		}
		if elapsed > 0 {
			s.StepsPerSecond = float64(s.Steps) / elapsed.Seconds()
		}

		samples = append(samples, s)
		if cfg.OnSample != nil {
			cfg.OnSample(s)
		}
	}
	return samples, nil
}
