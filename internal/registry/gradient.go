package registry

import (
	"fmt"
	"slices"

	"github.com/born-ml/opset/internal/tensor"
)

// GradientSuffix is appended to a blob name to form its gradient's name.
const GradientSuffix = "_grad"

// OperatorDef is a symbolic operator invocation: an operator type applied to
// named input blobs, producing named output blobs.
type OperatorDef struct {
	Type    string
	Name    string // Optional, for diagnostics
	Inputs  []string
	Outputs []string
	Device  tensor.Device
}

// String renders the def as "Type(in, ...) -> (out, ...)".
func (d OperatorDef) String() string {
	return fmt.Sprintf("%s(%v) -> %v", d.Type, d.Inputs, d.Outputs)
}

// GradientRequest carries the recorded forward def and the names of the
// gradients flowing into its outputs. An empty OutputGrads entry means that
// output receives no gradient.
type GradientRequest struct {
	Def         OperatorDef
	OutputGrads []string
}

// I returns the name of forward input i.
func (r GradientRequest) I(i int) string { return r.Def.Inputs[i] }

// O returns the name of forward output i.
func (r GradientRequest) O(i int) string { return r.Def.Outputs[i] }

// GO returns the name of the gradient of forward output i.
func (r GradientRequest) GO(i int) string { return r.OutputGrads[i] }

// GI returns the name under which the gradient of forward input i is
// published.
func (r GradientRequest) GI(i int) string { return r.Def.Inputs[i] + GradientSuffix }

// GradientResult lists the backward ops to run and, per forward input, the
// blob holding its gradient ("" when the input gets none).
type GradientResult struct {
	Ops        []OperatorDef
	InputGrads []string
}

// GradientMaker derives the backward ops for one forward def. Makers must be
// pure and deterministic.
type GradientMaker func(req GradientRequest) (GradientResult, error)

// SingleGradientDef is the common case of a gradient made of one op whose
// outputs are the published input gradients, in input order.
func SingleGradientDef(req GradientRequest, opType string, inputs, outputs []string) GradientResult {
	return GradientResult{
		Ops: []OperatorDef{{
			Type:    opType,
			Inputs:  inputs,
			Outputs: outputs,
			Device:  req.Def.Device,
		}},
		InputGrads: slices.Clone(outputs),
	}
}

// GradientRegistry maps forward operator names to gradient makers.
type GradientRegistry struct {
	makers map[string]GradientMaker
	sealed bool
}

// NewGradientRegistry creates an empty gradient registry.
func NewGradientRegistry() *GradientRegistry {
	return &GradientRegistry{makers: make(map[string]GradientMaker)}
}

// RegisterGradient binds maker to the forward operator name.
func (g *GradientRegistry) RegisterGradient(forward string, maker GradientMaker) error {
	if g.sealed {
		return &OpError{Op: forward, Err: ErrSealed}
	}
	if _, ok := g.makers[forward]; ok {
		return &OpError{Op: forward, Constraint: "gradient rule already registered", Err: ErrDuplicateGradientRule}
	}
	g.makers[forward] = maker
	return nil
}

// Seal makes the registry read-only.
func (g *GradientRegistry) Seal() {
	g.sealed = true
}

// ResolveGradient returns the maker registered for forward.
// ErrNoGradientDefined means the operator stops gradient flow.
func (g *GradientRegistry) ResolveGradient(forward string) (GradientMaker, error) {
	m, ok := g.makers[forward]
	if !ok {
		return nil, &OpError{Op: forward, Err: ErrNoGradientDefined}
	}
	return m, nil
}

// Make resolves the maker for req.Def.Type and runs it, checking that it
// publishes one entry per forward input.
func (g *GradientRegistry) Make(req GradientRequest) (GradientResult, error) {
	maker, err := g.ResolveGradient(req.Def.Type)
	if err != nil {
		return GradientResult{}, err
	}
	res, err := maker(req)
	if err != nil {
		return GradientResult{}, fmt.Errorf("%s gradient: %w", req.Def.Type, err)
	}
	if len(res.InputGrads) != len(req.Def.Inputs) {
		return GradientResult{}, Errorf(req.Def.Type, ErrArity,
			"gradient publishes %d input gradients for %d inputs", len(res.InputGrads), len(req.Def.Inputs))
	}
	return res, nil
}
