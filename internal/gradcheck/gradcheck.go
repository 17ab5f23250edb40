// Package gradcheck compares registered gradients against finite
// differences.
package gradcheck

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/born-ml/opset/internal/workspace"
)

// Result holds the gradients computed at each point.
type Result struct {
	Op        string
	X         []float64
	Analytic  []float64 // From the registered gradient ops, with dy = 1
	Numeric   []float64 // Central differences of the forward op
	MaxAbsErr float64
}

// Passed reports whether every analytic gradient is within tol of its
// numeric estimate.
func (r *Result) Passed(tol float64) bool {
	return r.MaxAbsErr <= tol
}

// Check differentiates the single-input, single-output operator opType at
// each point of xs, in float64 on the CPU.
func Check(ctx context.Context, cat *catalog.Catalog, opType string, xs []float64) (*Result, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("gradcheck %s: no points", opType)
	}

	w := workspace.New(cat, workspace.WithParallel(parallel.Sequential()))
	x, err := tensor.FromFloat64(xs)
	if err != nil {
		return nil, err
	}
	w.SetBlob("X", x)

	net := &workspace.Net{Name: "gradcheck_" + opType, Ops: []registry.OperatorDef{
		{Type: opType, Inputs: []string{"X"}, Outputs: []string{"Y"}},
	}}
	if err := w.RunNet(ctx, net); err != nil {
		return nil, err
	}
	bw, err := w.RunGradient(ctx, net, []string{"Y"})
	if err != nil {
		return nil, err
	}
	gradName, ok := bw.Grads["X"]
	if !ok {
		return nil, registry.Errorf(opType, registry.ErrNoGradientDefined, "no gradient reached the input")
	}
	grad, err := w.Blob(gradName)
	if err != nil {
		return nil, err
	}

	f, err := scalarFunc(cat, opType)
	if err != nil {
		return nil, err
	}
	numeric := make([]float64, len(xs))
	for i, xi := range xs {
		numeric[i] = fd.Derivative(f, xi, &fd.Settings{Formula: fd.Central})
	}

	analytic := grad.Float64s()
	return &Result{
		Op:        opType,
		X:         append([]float64(nil), xs...),
		Analytic:  analytic,
		Numeric:   numeric,
		MaxAbsErr: floats.Distance(analytic, numeric, math.Inf(1)),
	}, nil
}

// scalarFunc wraps the forward operator as a float64 -> float64 function.
func scalarFunc(cat *catalog.Catalog, opType string) (func(float64) float64, error) {
	op, err := cat.Operators.Create(opType, tensor.CPU)
	if err != nil {
		return nil, err
	}
	rctx := registry.NewContext(tensor.CPU, parallel.Sequential())
	in, _ := tensor.NewRaw(tensor.Shape{1}, tensor.Float64, tensor.CPU)
	out, _ := tensor.NewRaw(tensor.Shape{1}, tensor.Float64, tensor.CPU)

	return func(v float64) float64 {
		in.AsFloat64()[0] = v
		if err := op.Run(rctx, []*tensor.RawTensor{in}, []*tensor.RawTensor{out}); err != nil {
			return math.NaN()
		}
		return out.AsFloat64()[0]
	}, nil
}
