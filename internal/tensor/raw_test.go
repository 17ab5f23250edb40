package tensor

import (
	"math"
	"testing"
)

func TestNewRawZeroed(t *testing.T) {
	raw, err := NewRaw(Shape{3, 2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	data := raw.AsFloat32()

	if len(data) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(data))
	}
	for i, v := range data {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("expected error for zero dimension")
	}
}

func TestFromFloat16RoundTrip(t *testing.T) {
	raw, err := FromFloat16([]float32{0, 1, -1, 0.5})
	if err != nil {
		t.Fatalf("FromFloat16: %v", err)
	}
	if raw.ByteSize() != 8 {
		t.Errorf("ByteSize = %d, want 8", raw.ByteSize())
	}
	got := raw.Float64s()
	want := []float64{0, 1, -1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Float64s()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := FromFloat64([]float64{1, 2, 3})
	b := a.Clone()
	b.AsFloat64()[0] = 9

	if a.AsFloat64()[0] != 1 {
		t.Error("Clone should not share storage")
	}
	if _, overlaps := a.Overlap(b); overlaps {
		t.Error("Clone should not overlap the original")
	}
}

func TestViewOverlap(t *testing.T) {
	base, _ := FromFloat32([]float32{0, 1, 2, 3, 4, 5})

	head, err := base.View(0, 6)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	exact, overlaps := base.Overlap(head)
	if !exact || !overlaps {
		t.Errorf("full view: exact=%v overlaps=%v, want true/true", exact, overlaps)
	}

	left, _ := base.View(0, 3)
	right, _ := base.View(3, 3)
	if _, overlaps := left.Overlap(right); overlaps {
		t.Error("disjoint views should not overlap")
	}

	mid, _ := base.View(2, 3)
	exact, overlaps = left.Overlap(mid)
	if exact || !overlaps {
		t.Errorf("partial view: exact=%v overlaps=%v, want false/true", exact, overlaps)
	}

	right.AsFloat32()[0] = 30
	if base.AsFloat32()[3] != 30 {
		t.Error("View should share storage with its parent")
	}
}

func TestViewOutOfRange(t *testing.T) {
	base, _ := FromFloat32([]float32{0, 1, 2})
	if _, err := base.View(2, 2); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := base.View(0, 0); err == nil {
		t.Error("expected error for empty view")
	}
}

func TestNewRawOverflow(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		dtype DataType
	}{
		{"element count", Shape{1 << 40, 1 << 40}, Float32},
		{"element count max int", Shape{math.MaxInt, 2}, Float16},
		{"byte size", Shape{math.MaxInt / 2}, Float64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRaw(tt.shape, tt.dtype, CPU); err == nil {
				t.Errorf("NewRaw(%v, %s) should fail", tt.shape, tt.dtype)
			}
		})
	}
}

func TestShapeValidateOverflow(t *testing.T) {
	if err := (Shape{1 << 31, 1 << 31, 4}).Validate(); err == nil {
		t.Error("expected overflow error")
	}
	if err := (Shape{1 << 20, 1 << 20}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAsWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int32, CPU)
	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on int32 tensor should panic")
		}
	}()
	_ = raw.AsFloat32()
}

func TestParseDevice(t *testing.T) {
	for d := CPU; d <= WebGPU; d++ {
		got, err := ParseDevice(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDevice(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDevice("TPU"); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
	}{
		{Float32, 4},
		{Float64, 8},
		{Float16, 2},
		{Int32, 4},
		{Int64, 8},
	}
	for _, tt := range tests {
		if got := tt.dt.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dt, got, tt.size)
		}
	}
}

func TestFill(t *testing.T) {
	for _, dt := range []DataType{Float32, Float64, Float16} {
		raw, _ := NewRaw(Shape{3}, dt, CPU)
		raw.Fill(1)
		for i, v := range raw.Float64s() {
			if v != 1 {
				t.Errorf("%s: element %d = %v, want 1", dt, i, v)
			}
		}
	}
}
