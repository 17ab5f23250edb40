package registry

import (
	"slices"
)

// InplacePair permits output slot Output to reuse the storage of input slot
// Input.
type InplacePair struct {
	Input  int
	Output int
}

// SlotDoc documents one input or output slot.
type SlotDoc struct {
	Index       int
	Name        string
	Description string
}

// Schema is the backend-independent shape contract of an operator.
// Schemas are immutable once registered.
type Schema struct {
	Name       string
	NumInputs  int
	NumOutputs int
	Inplace    []InplacePair
	Doc        string
	Inputs     []SlotDoc
	Outputs    []SlotDoc
}

// AllowsInplace reports whether output slot out may alias input slot in.
func (s *Schema) AllowsInplace(in, out int) bool {
	return slices.Contains(s.Inplace, InplacePair{Input: in, Output: out})
}

// Validate checks the schema is self-consistent: counts are positive and all
// in-place pairs and slot docs refer to existing slots.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return &OpError{Op: "<unnamed>", Constraint: "empty name", Err: ErrInvalidSchema}
	}
	if s.NumInputs < 0 || s.NumOutputs < 1 {
		return Errorf(s.Name, ErrInvalidSchema, "inputs=%d outputs=%d", s.NumInputs, s.NumOutputs)
	}
	for _, p := range s.Inplace {
		if p.Input < 0 || p.Input >= s.NumInputs || p.Output < 0 || p.Output >= s.NumOutputs {
			return Errorf(s.Name, ErrInvalidSchema, "in-place pair (%d, %d) out of range", p.Input, p.Output)
		}
	}
	for _, d := range s.Inputs {
		if d.Index < 0 || d.Index >= s.NumInputs {
			return Errorf(s.Name, ErrInvalidSchema, "input doc index %d out of range", d.Index)
		}
	}
	for _, d := range s.Outputs {
		if d.Index < 0 || d.Index >= s.NumOutputs {
			return Errorf(s.Name, ErrInvalidSchema, "output doc index %d out of range", d.Index)
		}
	}
	return nil
}

// Verify checks an operator definition against the schema: slot counts must
// match, and an output named after an input is only legal for a declared
// in-place pair.
func (s *Schema) Verify(def OperatorDef) error {
	if len(def.Inputs) != s.NumInputs {
		return Errorf(s.Name, ErrArity, "inputs: want %d, got %d", s.NumInputs, len(def.Inputs))
	}
	if len(def.Outputs) != s.NumOutputs {
		return Errorf(s.Name, ErrArity, "outputs: want %d, got %d", s.NumOutputs, len(def.Outputs))
	}
	for out, outName := range def.Outputs {
		for in, inName := range def.Inputs {
			if outName == inName && !s.AllowsInplace(in, out) {
				return Errorf(s.Name, ErrInplaceNotAllowed, "input %d and output %d both name %q", in, out, outName)
			}
		}
	}
	return nil
}

// InputDoc returns the documentation for input slot i, if any.
func (s *Schema) InputDoc(i int) (SlotDoc, bool) {
	return findDoc(s.Inputs, i)
}

// OutputDoc returns the documentation for output slot i, if any.
func (s *Schema) OutputDoc(i int) (SlotDoc, bool) {
	return findDoc(s.Outputs, i)
}

func findDoc(docs []SlotDoc, i int) (SlotDoc, bool) {
	for _, d := range docs {
		if d.Index == i {
			return d, true
		}
	}
	return SlotDoc{}, false
}
