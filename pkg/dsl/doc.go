/*
Package dsl provides a Go DSL for programmatically constructing Turing machines.

It lets machines be written with labels instead of raw table indices, using a
fluent builder. Unspecified cells of a state's row can be covered by an
Otherwise rule, and a rule that does not say what to write keeps the symbol it
read. Build resolves everything to indices and hands the table to
machine.New for validation.

Example usage:

	b := dsl.New().
		Control("_", ">").
		Language("0", "1").
		States("start", "accept", "reject", "scan").
		Start("start").Accept("accept").Reject("reject")

	b.From("start").Otherwise().Right().Go("scan")
	b.From("scan").On("0", "1").Right().Go("scan")
	b.From("scan").On("_").Go("accept")
	b.From("scan").Otherwise().Go("reject")

	def, err := b.Build()
*/
package dsl
