package autodiff

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/born-ml/opset/internal/registry"
)

// BackwardNet is the result of a gradient pass.
type BackwardNet struct {
	// Ops are the backward ops in execution order.
	Ops []registry.OperatorDef
	// Grads maps each blob that received a gradient to the blob holding it.
	// Gradients of blobs consumed by the forward net describe the blob as the
	// net's first op saw it.
	Grads map[string]string
	// DeadEnds lists forward op types that received a gradient but have no
	// gradient rule, in the order they were met.
	DeadEnds []string
}

// pass holds the state of one Build call.
type pass struct {
	grads     map[string]string // forward blob -> current gradient blob
	produced  map[string]bool   // every name already in use
	lastWrite map[string]int    // forward blob -> index of the last op writing it
	ops      []registry.OperatorDef
}

// Build derives the backward ops for forward. seeds maps forward output blobs
// to the blobs holding their incoming gradients.
func (b *Builder) Build(forward []registry.OperatorDef, seeds map[string]string) (*BackwardNet, error) {
	p := &pass{
		grads:     maps.Clone(seeds),
		produced:  make(map[string]bool),
		lastWrite: make(map[string]int),
	}
	if p.grads == nil {
		p.grads = make(map[string]string)
	}
	for i, def := range forward {
		for _, name := range def.Inputs {
			p.produced[name] = true
		}
		for _, name := range def.Outputs {
			p.produced[name] = true
			p.lastWrite[name] = i
		}
	}
	for _, g := range seeds {
		p.produced[g] = true
	}

	var deadEnds []string
	for i := len(forward) - 1; i >= 0; i-- {
		def := forward[i]

		outputGrads := make([]string, len(def.Outputs))
		hasGrad := false
		for j, name := range def.Outputs {
			if g, ok := p.grads[name]; ok {
				outputGrads[j] = g
				hasGrad = true
			}
		}
		if !hasGrad {
			continue
		}
		// Blobs written by this op cannot be read by earlier ops; their
		// gradients are consumed here.
		for _, name := range def.Outputs {
			delete(p.grads, name)
		}

		res, err := b.grads.Make(registry.GradientRequest{Def: def, OutputGrads: outputGrads})
		if errors.Is(err, registry.ErrNoGradientDefined) {
			b.logger.Warn().Str("op", def.Type).Int("index", i).Msg("no gradient rule, stopping gradient flow")
			deadEnds = append(deadEnds, def.Type)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, def.Type, err)
		}
		if err := p.checkReads(i, def, outputGrads, res); err != nil {
			return nil, err
		}

		inputGrads := p.emit(res)
		for k, g := range inputGrads {
			if g == "" {
				continue
			}
			p.accumulate(def.Inputs[k], g, def)
		}
		for _, op := range res.Ops {
			b.logger.Debug().Str("forward", def.Type).Stringer("backward", op).Msg("gradient op")
		}
	}

	return &BackwardNet{Ops: p.ops, Grads: p.grads, DeadEnds: deadEnds}, nil
}

// checkReads fails when a gradient op of forward op i reads a forward blob
// that a later forward op rewrote. Blobs hold only their latest value. A blob
// written by op i itself reads as op i's output; any other blob must not be
// written at or after i.
func (p *pass) checkReads(i int, def registry.OperatorDef, outputGrads []string, res registry.GradientResult) error {
	for _, op := range res.Ops {
		for _, name := range op.Inputs {
			if slices.Contains(outputGrads, name) {
				continue
			}
			last, ok := p.lastWrite[name]
			if !ok {
				continue
			}
			limit := i - 1
			if slices.Contains(def.Outputs, name) {
				limit = i
			}
			if last > limit {
				return registry.Errorf(def.Type, registry.ErrOverwrittenInput,
					"gradient op %s of forward op %d reads %q, rewritten by forward op %d", op.Type, i, name, last)
			}
		}
	}
	return nil
}

// emit appends res.Ops, renaming outputs that would overwrite a name already
// in use, and returns res.InputGrads with the renames applied.
func (p *pass) emit(res registry.GradientResult) []string {
	renamed := make(map[string]string)
	rename := func(name string) string {
		if r, ok := renamed[name]; ok {
			return r
		}
		return name
	}

	for _, op := range res.Ops {
		op.Inputs = mapNames(op.Inputs, rename)
		outputs := make([]string, len(op.Outputs))
		for j, name := range op.Outputs {
			if p.produced[name] {
				fresh := p.unique(name)
				renamed[name] = fresh
				name = fresh
			}
			p.produced[name] = true
			outputs[j] = name
		}
		op.Outputs = outputs
		p.ops = append(p.ops, op)
	}
	return mapNames(res.InputGrads, rename)
}

// accumulate records g as a gradient of blob, summing with any gradient the
// blob already has.
func (p *pass) accumulate(blob, g string, def registry.OperatorDef) {
	prev, ok := p.grads[blob]
	if !ok {
		p.grads[blob] = g
		return
	}
	sum := p.unique(blob + registry.GradientSuffix)
	p.produced[sum] = true
	p.ops = append(p.ops, registry.OperatorDef{
		Type:    AccumulateOp,
		Inputs:  []string{prev, g},
		Outputs: []string{sum},
		Device:  def.Device,
	})
	p.grads[blob] = sum
}

// unique returns name with the first free "_autosplit_<k>" suffix.
func (p *pass) unique(name string) string {
	for k := 0; ; k++ {
		candidate := fmt.Sprintf("%s_autosplit_%d", name, k)
		if !p.produced[candidate] {
			return candidate
		}
	}
}

func mapNames(names []string, f func(string) string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		if n != "" {
			out[i] = f(n)
		}
	}
	return out
}
