package tabular

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/johndauphine/db-volumetry/internal/fault"
)

const (
	// DefaultChunkSize is the number of rows per chunk in chunked mode.
	DefaultChunkSize = 100000
	// DefaultPreviewRows is the number of rows kept in each preview.
	DefaultPreviewRows = 5

	progressEvery = 10000
)

// Options controls loading. Zero values pick the defaults.
type Options struct {
	// ChunkSize is the row count per chunk for chunked reads.
	ChunkSize int
	// PreviewRows is the number of leading rows kept as a preview.
	PreviewRows int
	// Sheet selects the XLSX sheet; empty means the first one.
	Sheet string
	// Progress, if set, is called with the running row count while reading.
	Progress func(rowsRead int64)
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.PreviewRows <= 0 {
		o.PreviewRows = DefaultPreviewRows
	}
	return o
}

// Result is a whole-file load.
type Result struct {
	Name    string
	Format  Format
	Frame   *Frame
	Preview *Frame
}

// Rows returns the number of data rows in the file.
func (r *Result) Rows() int {
	return r.Frame.Rows()
}

// FootprintMB returns the in-memory size of the parsed file in megabytes.
func (r *Result) FootprintMB() float64 {
	return r.Frame.FootprintMB()
}

// Load parses the whole file at path into memory. The extension is checked
// before the file is opened.
func Load(path string, opts Options) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.New(fault.FileParseFailure, "load "+filepath.Base(path), err)
	}
	defer f.Close()
	return load(filepath.Base(path), format, f, opts)
}

// LoadReader parses uploaded content whose format is given by name.
func LoadReader(name string, r io.Reader, opts Options) (*Result, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return load(filepath.Base(name), format, r, opts)
}

func load(name string, format Format, r io.Reader, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	src, err := openSource(format, r, opts)
	if err != nil {
		return nil, parseFailure(name, err)
	}
	defer src.Close()

	b := newFrameBuilder(src.Header())
	for {
		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseFailure(name, err)
		}
		b.add(record)
		if opts.Progress != nil && b.rows%progressEvery == 0 {
			opts.Progress(int64(b.rows))
		}
	}
	if opts.Progress != nil {
		opts.Progress(int64(b.rows))
	}

	frame := b.build()
	return &Result{
		Name:    name,
		Format:  format,
		Frame:   frame,
		Preview: frame.Head(opts.PreviewRows),
	}, nil
}

func parseFailure(name string, err error) error {
	return fault.New(fault.FileParseFailure, "parse "+name, err)
}

// Chunk is one bounded group of rows, in file order.
type Chunk struct {
	// Index is the zero-based chunk number.
	Index int
	// Offset is the zero-based number of the chunk's first data row.
	Offset int64
	Frame  *Frame
	// Preview holds the chunk's leading rows.
	Preview *Frame
}

// Rows returns the number of rows in the chunk.
func (c *Chunk) Rows() int {
	return c.Frame.Rows()
}

// FootprintMB returns this chunk's own in-memory size in megabytes.
func (c *Chunk) FootprintMB() float64 {
	return c.Frame.FootprintMB()
}

// ChunkReader reads a file lazily in chunks of Options.ChunkSize rows.
// It is single-pass: once Next returns false it stays exhausted.
//
//	cr, err := tabular.OpenChunks("big.csv", tabular.Options{})
//	defer cr.Close()
//	for cr.Next() {
//	    c := cr.Chunk()
//	}
//	if err := cr.Err(); err != nil { ... }
type ChunkReader struct {
	name   string
	format Format
	src    recordSource
	closer io.Closer
	opts   Options

	chunk  *Chunk
	err    error
	done   bool
	index  int
	offset int64
}

// OpenChunks opens the file at path for chunked reading. The extension is
// checked before the file is opened.
func OpenChunks(path string, opts Options) (*ChunkReader, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.New(fault.FileParseFailure, "load "+filepath.Base(path), err)
	}
	cr, err := newChunkReader(filepath.Base(path), format, f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	cr.closer = f
	return cr, nil
}

// NewChunkReader reads uploaded content in chunks; name decides the format.
func NewChunkReader(name string, r io.Reader, opts Options) (*ChunkReader, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return newChunkReader(filepath.Base(name), format, r, opts)
}

func newChunkReader(name string, format Format, r io.Reader, opts Options) (*ChunkReader, error) {
	opts = opts.withDefaults()
	src, err := openSource(format, r, opts)
	if err != nil {
		return nil, parseFailure(name, err)
	}
	return &ChunkReader{name: name, format: format, src: src, opts: opts}, nil
}

// Name returns the base name of the file being read.
func (c *ChunkReader) Name() string {
	return c.name
}

// Format returns the detected file format.
func (c *ChunkReader) Format() Format {
	return c.format
}

// Header returns the column names shared by every chunk.
func (c *ChunkReader) Header() []string {
	return c.src.Header()
}

// Next reads the next chunk. It returns false at end of file or on error;
// check Err to tell them apart. Chunks already returned stay valid.
func (c *ChunkReader) Next() bool {
	c.chunk = nil
	if c.done {
		return false
	}

	b := newFrameBuilder(c.src.Header())
	for b.rows < c.opts.ChunkSize {
		record, err := c.src.Next()
		if errors.Is(err, io.EOF) {
			c.done = true
			break
		}
		if err != nil {
			c.done = true
			c.err = parseFailure(c.name, fmt.Errorf("chunk %d: %w", c.index, err))
			return false
		}
		b.add(record)
		if c.opts.Progress != nil && (c.offset+int64(b.rows))%progressEvery == 0 {
			c.opts.Progress(c.offset + int64(b.rows))
		}
	}
	if b.rows == 0 {
		return false
	}

	frame := b.build()
	c.chunk = &Chunk{
		Index:   c.index,
		Offset:  c.offset,
		Frame:   frame,
		Preview: frame.Head(c.opts.PreviewRows),
	}
	c.index++
	c.offset += int64(b.rows)
	return true
}

// Chunk returns the chunk read by the last successful Next.
func (c *ChunkReader) Chunk() *Chunk {
	return c.chunk
}

// Err returns the error that stopped iteration, if any.
func (c *ChunkReader) Err() error {
	return c.err
}

// RowsRead returns the number of data rows yielded so far.
func (c *ChunkReader) RowsRead() int64 {
	return c.offset
}

// Close releases the underlying reader. Next returns false afterwards.
func (c *ChunkReader) Close() error {
	c.done = true
	c.chunk = nil
	err := c.src.Close()
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
		c.closer = nil
	}
	return err
}
