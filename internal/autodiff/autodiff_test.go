package autodiff_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/opset/internal/autodiff"
	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/registry"
)

func newBuilder(t *testing.T) *autodiff.Builder {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return autodiff.NewBuilder(cat.Gradients)
}

func def(typ string, inputs []string, outputs ...string) registry.OperatorDef {
	return registry.OperatorDef{Type: typ, Inputs: inputs, Outputs: outputs}
}

func TestBuild_SingleTanh(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{def("Tanh", []string{"X"}, "Y")},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	want := []registry.OperatorDef{def("TanhGradient", []string{"Y", "Y_grad"}, "X_grad")}
	if diff := cmp.Diff(want, bw.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]string{"X": "X_grad"}, bw.Grads)
	assert.Empty(t, bw.DeadEnds)
}

func TestBuild_Chain(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "H"),
			def("Tanh", []string{"H"}, "Y"),
		},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	want := []registry.OperatorDef{
		def("TanhGradient", []string{"Y", "Y_grad"}, "H_grad"),
		def("TanhGradient", []string{"H", "H_grad"}, "X_grad"),
	}
	if diff := cmp.Diff(want, bw.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]string{"X": "X_grad"}, bw.Grads)
}

func TestBuild_FanOutAccumulates(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "A"),
			def("Tanh", []string{"X"}, "B"),
			def("Add", []string{"A", "B"}, "Y"),
		},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	want := []registry.OperatorDef{
		def("TanhGradient", []string{"B", "Y_grad"}, "X_grad"),
		def("TanhGradient", []string{"A", "Y_grad"}, "X_grad_autosplit_0"),
		def("Add", []string{"X_grad", "X_grad_autosplit_0"}, "X_grad_autosplit_1"),
	}
	if diff := cmp.Diff(want, bw.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "X_grad_autosplit_1", bw.Grads["X"])
}

func TestBuild_SameInputTwice(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{def("Add", []string{"X", "X"}, "Y")},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	want := []registry.OperatorDef{
		def("Add", []string{"Y_grad", "Y_grad"}, "X_grad_autosplit_0"),
	}
	if diff := cmp.Diff(want, bw.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "X_grad_autosplit_0", bw.Grads["X"])
}

func TestBuild_DeadEnd(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "H"),
			def("StopGradient", []string{"H"}, "Y"),
		},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	assert.Empty(t, bw.Ops)
	assert.Empty(t, bw.Grads)
	assert.Equal(t, []string{"StopGradient"}, bw.DeadEnds)
}

func TestBuild_InplaceForward(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{def("Tanh", []string{"X"}, "X")},
		map[string]string{"X": "X_grad"},
	)
	require.NoError(t, err)

	want := []registry.OperatorDef{
		def("TanhGradient", []string{"X", "X_grad"}, "X_grad_autosplit_0"),
	}
	if diff := cmp.Diff(want, bw.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]string{"X": "X_grad_autosplit_0"}, bw.Grads)
}

func TestBuild_SkipsOpsWithoutGradient(t *testing.T) {
	b := newBuilder(t)

	bw, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "Y"),
			def("Tanh", []string{"Z"}, "W"),
		},
		map[string]string{"Y": "Y_grad"},
	)
	require.NoError(t, err)

	require.Len(t, bw.Ops, 1)
	assert.Equal(t, []string{"X_grad"}, bw.Ops[0].Outputs)
	assert.NotContains(t, bw.Grads, "Z")
}

func TestBuild_Deterministic(t *testing.T) {
	b := newBuilder(t)
	forward := []registry.OperatorDef{
		def("Tanh", []string{"X"}, "A"),
		def("Tanh", []string{"X"}, "B"),
		def("Add", []string{"A", "B"}, "Y"),
	}
	seeds := map[string]string{"Y": "Y_grad"}

	first, err := b.Build(forward, seeds)
	require.NoError(t, err)
	second, err := b.Build(forward, seeds)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
	assert.Equal(t, map[string]string{"Y": "Y_grad"}, seeds, "seeds must not be modified")
}

func TestBuild_ChainedInplaceRejected(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "X"),
			def("Tanh", []string{"X"}, "X"),
		},
		map[string]string{"X": "X_grad"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrOverwrittenInput)

	var opErr *registry.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Tanh", opErr.Op)
	assert.Contains(t, opErr.Constraint, "rewritten by forward op 1")
}

func TestBuild_OutputRewrittenLaterRejected(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "H"),
			def("Tanh", []string{"H"}, "H"),
		},
		map[string]string{"H": "H_grad"},
	)
	assert.ErrorIs(t, err, registry.ErrOverwrittenInput)
}

func TestBuild_RewriteOfUnreadBlobAllowed(t *testing.T) {
	b := newBuilder(t)

	// The tanh gradient reads only the forward output, so rewriting X after
	// its last use is harmless.
	bw, err := b.Build(
		[]registry.OperatorDef{
			def("Tanh", []string{"X"}, "Y"),
			def("Tanh", []string{"Y"}, "Z"),
			def("Tanh", []string{"W"}, "X"),
		},
		map[string]string{"Z": "Z_grad"},
	)
	require.NoError(t, err)
	assert.Equal(t, "X_grad", bw.Grads["X"])
}
