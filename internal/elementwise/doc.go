// Package elementwise adapts scalar functors into operators of fixed arity.
//
// Unary operators take one input and one output; Binary operators take two
// inputs and one output. Every operand must hold the same number of elements
// of the same floating point type. Run validates all operands, including
// storage aliasing against the schema's in-place pairs, before it writes
// anything, then applies the functor over disjoint index ranges.
//
// Float16 operands are widened to float32, computed, and narrowed back.
package elementwise
