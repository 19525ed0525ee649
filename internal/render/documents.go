package render

import (
	"github.com/johndauphine/db-volumetry/internal/tabular"
)

// ColumnDocument describes one inferred column.
type ColumnDocument struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FileDocument is the JSON form of a file measurement. Whole-file loads fill
// Rows, FootprintMB and Preview; chunked reads fill Chunks and Summary.
type FileDocument struct {
	Name        string           `json:"name"`
	Format      string           `json:"format"`
	Columns     []ColumnDocument `json:"columns"`
	Rows        int64            `json:"rows"`
	FootprintMB float64          `json:"footprint_mb,omitempty"`
	Preview     [][]string       `json:"preview,omitempty"`
	Chunks      []ChunkDocument  `json:"chunks,omitempty"`
	Summary     *ChunkStats      `json:"summary,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ChunkDocument is the JSON form of one chunk.
type ChunkDocument struct {
	Index       int        `json:"index"`
	Offset      int64      `json:"offset"`
	Rows        int        `json:"rows"`
	FootprintMB float64    `json:"footprint_mb"`
	Preview     [][]string `json:"preview"`
}

// NewFileDocument converts a whole-file load.
func NewFileDocument(res *tabular.Result) FileDocument {
	return FileDocument{
		Name:        res.Name,
		Format:      res.Format.String(),
		Columns:     ColumnsOf(res.Frame),
		Rows:        int64(res.Rows()),
		FootprintMB: res.FootprintMB(),
		Preview:     rows(res.Preview),
	}
}

// NewChunkDocument converts one chunk.
func NewChunkDocument(c *tabular.Chunk) ChunkDocument {
	return ChunkDocument{
		Index:       c.Index,
		Offset:      c.Offset,
		Rows:        c.Rows(),
		FootprintMB: c.FootprintMB(),
		Preview:     rows(c.Preview),
	}
}

// ColumnsOf describes the columns of f.
func ColumnsOf(f *tabular.Frame) []ColumnDocument {
	out := make([]ColumnDocument, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		out = append(out, ColumnDocument{Name: c.Name, Type: c.Type.String()})
	}
	return out
}

func rows(f *tabular.Frame) [][]string {
	out := make([][]string, f.Rows())
	for i := range out {
		out[i] = f.Row(i)
	}
	return out
}
