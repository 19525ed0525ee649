package tabular

import (
	"math"
	"testing"
)

func TestBuildColumnInference(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  ColumnType
	}{
		{"ints", []string{"1", "2", "-3"}, TypeInt},
		{"floats", []string{"1.5", "2", "3e2"}, TypeFloat},
		{"ints with missing", []string{"1", "", "3"}, TypeFloat},
		{"bools", []string{"true", "False", "TRUE"}, TypeBool},
		{"bools with missing", []string{"true", ""}, TypeString},
		{"mixed", []string{"1", "x"}, TypeString},
		{"all empty", []string{"", ""}, TypeFloat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := buildColumn("c", tt.cells)
			if col.Type != tt.want {
				t.Errorf("type = %v, want %v", col.Type, tt.want)
			}
			if col.Len() != len(tt.cells) {
				t.Errorf("Len() = %d, want %d", col.Len(), len(tt.cells))
			}
		})
	}
}

func TestMissingFloatIsNaN(t *testing.T) {
	col := buildColumn("c", []string{"1", "", "3"})
	if !math.IsNaN(col.floats[1]) {
		t.Errorf("missing cell = %v, want NaN", col.floats[1])
	}
	if got := col.Format(1); got != "NaN" {
		t.Errorf("Format(1) = %q, want NaN", got)
	}
	if got := col.Format(2); got != "3" {
		t.Errorf("Format(2) = %q, want 3", got)
	}
}

func TestFrameFootprint(t *testing.T) {
	b := newFrameBuilder([]string{"id", "name", "ok"})
	b.add([]string{"1", "x", "true"})
	b.add([]string{"2", "yy", "false"})
	f := b.build()

	// index + 2 ints + 2 string headers and 3 payload bytes + 2 bools
	want := int64(indexBytes + 2*numericBytes + 2*stringHeaderBytes + 3 + 2*boolBytes)
	if got := f.FootprintBytes(); got != want {
		t.Errorf("FootprintBytes() = %d, want %d", got, want)
	}
	if got := f.FootprintMB(); got != float64(want)/1024/1024 {
		t.Errorf("FootprintMB() = %v", got)
	}
}

func TestFrameHead(t *testing.T) {
	b := newFrameBuilder([]string{"n"})
	for _, v := range []string{"1", "2", "3"} {
		b.add([]string{v})
	}
	f := b.build()

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{2, 2},
		{5, 3},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := f.Head(tt.n).Rows(); got != tt.want {
			t.Errorf("Head(%d).Rows() = %d, want %d", tt.n, got, tt.want)
		}
	}
	if got := f.Head(2).Row(1)[0]; got != "2" {
		t.Errorf("Head(2).Row(1) = %q, want 2", got)
	}
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"a", "", "a", "a", "a.1"})
	want := []string{"a", "Unnamed: 1", "a.1", "a.2", "a.1.1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
