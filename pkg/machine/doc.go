/*
Package machine implements the deterministic single-tape Turing machine.

A Definition is an immutable, validated transition table over a combined
alphabet: the tape-control symbols (blank first, left-end marker second)
followed by the language symbols. Tape cells and table columns are indices
into that combined alphabet.

An Execution binds one Definition to one encoded word. It owns its tape, head,
current state, clock and status, and advances by Step. A Definition may be
shared by any number of Executions across goroutines; an Execution has exactly
one owner.

	def, err := machine.New(machine.Config{...})
	if err != nil {
		return err
	}

	exec, err := def.BoundedCompute("1110", domain.Limits{Time: 1000})
	if err != nil {
		return err // *domain.UnknownSymbolError
	}
	exec.Run()
	fmt.Println(exec.Status(), exec)
*/
package machine
