package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/opset/internal/gradcheck"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/born-ml/opset/internal/workspace"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		values   []string
		dtype    string
		backward bool
	)
	cmd := &cobra.Command{
		Use:   "run OPERATOR",
		Short: "Run a unary operator on a vector and, optionally, its gradient with dy = 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := parseFloats(values)
			if err != nil {
				return err
			}
			x, err := newInput(xs, dtype)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), args[0], x, backward)
		},
	}
	cmd.Flags().StringSliceVar(&values, "values", []string{"0", "1", "-1"}, "Input values")
	cmd.Flags().StringVar(&dtype, "dtype", "float32", "Element type (float32, float64, float16)")
	cmd.Flags().BoolVar(&backward, "backward", true, "Also run the gradient net")
	return cmd
}

func newGradcheckCmd(a *app) *cobra.Command {
	var (
		points []string
		tol    float64
	)
	cmd := &cobra.Command{
		Use:   "gradcheck OPERATOR",
		Short: "Compare an operator's registered gradient with finite differences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, err := parseFloats(points)
			if err != nil {
				return err
			}
			res, err := gradcheck.Check(cmd.Context(), a.catalog, args[0], xs)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"X", "ANALYTIC", "NUMERIC"})
			table.SetBorder(false)
			for i := range res.X {
				table.Append([]string{
					strconv.FormatFloat(res.X[i], 'g', -1, 64),
					strconv.FormatFloat(res.Analytic[i], 'g', 10, 64),
					strconv.FormatFloat(res.Numeric[i], 'g', 10, 64),
				})
			}
			table.Render()

			if !res.Passed(tol) {
				return fmt.Errorf("gradcheck %s failed: max abs error %g > %g", args[0], res.MaxAbsErr, tol)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: max abs error %g\n", res.MaxAbsErr)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&points, "points", []string{"-2", "-0.5", "0", "0.5", "2"}, "Points to check")
	cmd.Flags().Float64Var(&tol, "tol", 1e-6, "Maximum absolute error")
	return cmd
}

func (a *app) run(ctx context.Context, w io.Writer, opType string, x *tensor.RawTensor, backward bool) error {
	ws := workspace.New(a.catalog,
		workspace.WithParallel(a.cfg.ParallelConfig()),
		workspace.WithLogger(log.Logger),
	)
	ws.SetBlob("X", x)

	net := &workspace.Net{Name: opType, Ops: []registry.OperatorDef{
		{Type: opType, Inputs: []string{"X"}, Outputs: []string{"Y"}, Device: a.cfg.Device},
	}}
	if err := ws.RunNet(ctx, net); err != nil {
		return err
	}
	y, err := ws.Blob("Y")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "x  = %s\n", formatFloats(x.Float64s()))
	fmt.Fprintf(w, "y  = %s\n", formatFloats(y.Float64s()))

	if !backward {
		return nil
	}
	bw, err := ws.RunGradient(ctx, net, []string{"Y"})
	if err != nil {
		return err
	}
	for _, dead := range bw.DeadEnds {
		fmt.Fprintf(w, "no gradient through %s\n", dead)
	}
	if name, ok := bw.Grads["X"]; ok {
		dx, err := ws.Blob(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "dx = %s\n", formatFloats(dx.Float64s()))
	}
	return nil
}

func newInput(xs []float64, dtype string) (*tensor.RawTensor, error) {
	switch dtype {
	case "float32":
		f := make([]float32, len(xs))
		for i, v := range xs {
			f[i] = float32(v)
		}
		return tensor.FromFloat32(f)
	case "float64":
		return tensor.FromFloat64(xs)
	case "float16":
		f := make([]float32, len(xs))
		for i, v := range xs {
			f[i] = float32(v)
		}
		return tensor.FromFloat16(f)
	default:
		return nil, fmt.Errorf("unsupported --dtype %q", dtype)
	}
}

func parseFloats(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, s := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', 8, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
