/*
Package runner drives executions to completion outside the core step loop.

The machine package only knows how to step. The Runner adds what long or
shared runs need around that loop: cancellation between chunks of steps,
periodic snapshots to a store, per-step tracing, lifecycle hooks and logs.
Sweep and Report implement the throughput benchmark.
*/
package runner
