/*
Package domain contains the core domain models of the turing interpreter.

It defines the vocabulary shared by the machine definition, the execution engine
and every adapter around them. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - State and Symbol: human-readable labels. Identity is positional (the index in
    the machine's state list or combined alphabet), never the label itself.
  - Transition: the (next state, write symbol, move offset) triple stored in a
    transition table.
  - Status: the run status state machine (Running and its four terminal outcomes).
  - Clock and Limits: elapsed steps and tape length, checked against optional bounds.
*/
package domain
