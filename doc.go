/*
Package turing is a deterministic single-tape Turing machine interpreter.

A machine is an immutable table of transitions over two alphabets: tape-control
symbols (blank, left-end marker, and any extras) and language symbols. Input
words are encoded onto a tape whose first cell holds the left-end marker, and an
execution steps the machine until it accepts, rejects, or exhausts an optional
time or space budget.

# Concept

The core lives in two packages. pkg/machine holds the definition and the step
loop and never allocates goroutines, talks to I/O or logs. pkg/runner wraps an
execution with cancellation, durable snapshots, tracing and lifecycle hooks.
This package ties them to a registry of named machines.

# Usage

	eng, err := turing.New(turing.WithFixtures())
	if err != nil {
		log.Fatal(err)
	}

	exec, err := eng.Start("last-symbol", "1110", domain.Limits{Time: 1000})
	if err != nil {
		log.Fatal(err)
	}
	exec.Run()
	fmt.Println(exec.Status()) // accept

Custom machines are written with pkg/dsl and registered with WithMachine.

# Halting

By default a step that enters the accept or reject state writes its symbol
and stops without moving the head. machine.WithHaltOrder(machine.HaltAfterMove)
applies the move and any tape growth first, so a halting step can still run
out of space.
*/
package turing
