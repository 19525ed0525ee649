package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Footprint constants, in bytes.
const (
	// indexBytes stands in for the row index metadata every frame carries.
	indexBytes = 128
	// stringHeaderBytes is the size of a Go string header (pointer + length).
	stringHeaderBytes = 16
	numericBytes      = 8
	boolBytes         = 1
)

// ColumnType is the inferred element type of a column.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeFloat
	TypeBool
	TypeString
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int64"
	case TypeFloat:
		return "float64"
	case TypeBool:
		return "bool"
	default:
		return "string"
	}
}

// Column is one typed column. Only the slice matching Type is populated.
type Column struct {
	Name string
	Type ColumnType

	ints    []int64
	floats  []float64
	bools   []bool
	strings []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case TypeInt:
		return len(c.ints)
	case TypeFloat:
		return len(c.floats)
	case TypeBool:
		return len(c.bools)
	default:
		return len(c.strings)
	}
}

// Format renders the value at row i for display. Missing floats render as NaN.
func (c *Column) Format(i int) string {
	switch c.Type {
	case TypeInt:
		return strconv.FormatInt(c.ints[i], 10)
	case TypeFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(c.bools[i])
	default:
		return c.strings[i]
	}
}

// FootprintBytes estimates the memory held by the column's values. String
// columns are inspected value by value: header plus payload bytes.
func (c *Column) FootprintBytes() int64 {
	switch c.Type {
	case TypeInt, TypeFloat:
		return int64(c.Len()) * numericBytes
	case TypeBool:
		return int64(c.Len()) * boolBytes
	default:
		total := int64(len(c.strings)) * stringHeaderBytes
		for _, s := range c.strings {
			total += int64(len(s))
		}
		return total
	}
}

func (c *Column) slice(n int) *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	switch c.Type {
	case TypeInt:
		out.ints = c.ints[:n]
	case TypeFloat:
		out.floats = c.floats[:n]
	case TypeBool:
		out.bools = c.bools[:n]
	default:
		out.strings = c.strings[:n]
	}
	return out
}

// Frame is an in-memory table: the whole file or one chunk of it.
type Frame struct {
	columns []*Column
	rows    int
}

// Columns returns the frame's columns in file order.
func (f *Frame) Columns() []*Column {
	return f.columns
}

// Header returns the column names.
func (f *Frame) Header() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return f.rows
}

// Row renders row i as display strings.
func (f *Frame) Row(i int) []string {
	out := make([]string, len(f.columns))
	for j, c := range f.columns {
		out[j] = c.Format(i)
	}
	return out
}

// Head returns a frame sharing the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.rows {
		n = f.rows
	}
	if n < 0 {
		n = 0
	}
	out := &Frame{rows: n, columns: make([]*Column, len(f.columns))}
	for i, c := range f.columns {
		out.columns[i] = c.slice(n)
	}
	return out
}

// FootprintBytes sums the per-column estimates plus the index overhead.
func (f *Frame) FootprintBytes() int64 {
	total := int64(indexBytes)
	for _, c := range f.columns {
		total += c.FootprintBytes()
	}
	return total
}

// FootprintMB is FootprintBytes in megabytes.
func (f *Frame) FootprintMB() float64 {
	return float64(f.FootprintBytes()) / 1024 / 1024
}

// frameBuilder accumulates raw cells column by column until build infers types.
type frameBuilder struct {
	header []string
	cells  [][]string
	rows   int
}

func newFrameBuilder(header []string) *frameBuilder {
	return &frameBuilder{header: header, cells: make([][]string, len(header))}
}

// add appends a record that is already padded to the header width.
func (b *frameBuilder) add(record []string) {
	for i := range b.cells {
		b.cells[i] = append(b.cells[i], record[i])
	}
	b.rows++
}

func (b *frameBuilder) build() *Frame {
	f := &Frame{rows: b.rows, columns: make([]*Column, len(b.header))}
	for i, name := range b.header {
		f.columns[i] = buildColumn(name, b.cells[i])
	}
	return f
}

// buildColumn picks the narrowest type every non-empty cell fits:
// int64, then float64, then bool, else string. Empty cells make an int
// column float (NaN) and keep bool columns as strings.
func buildColumn(name string, cells []string) *Column {
	hasEmpty := false
	isInt, isFloat, isBool := true, true, true
	nonEmpty := 0
	for _, raw := range cells {
		v := strings.TrimSpace(raw)
		if v == "" {
			hasEmpty = true
			continue
		}
		nonEmpty++
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat && !isInt {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(v); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}

	col := &Column{Name: name}
	switch {
	case nonEmpty == 0:
		// An all-empty column holds nothing but missing values.
		col.Type = TypeFloat
		col.floats = make([]float64, len(cells))
		for i := range col.floats {
			col.floats[i] = math.NaN()
		}
	case isInt && !hasEmpty:
		col.Type = TypeInt
		col.ints = make([]int64, len(cells))
		for i, raw := range cells {
			col.ints[i], _ = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		}
	case isInt || isFloat:
		col.Type = TypeFloat
		col.floats = make([]float64, len(cells))
		for i, raw := range cells {
			v := strings.TrimSpace(raw)
			if v == "" {
				col.floats[i] = math.NaN()
				continue
			}
			col.floats[i], _ = strconv.ParseFloat(v, 64)
		}
	case isBool && !hasEmpty:
		col.Type = TypeBool
		col.bools = make([]bool, len(cells))
		for i, raw := range cells {
			col.bools[i], _ = parseBool(strings.TrimSpace(raw))
		}
	default:
		col.Type = TypeString
		col.strings = cells
	}
	return col
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
