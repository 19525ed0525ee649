package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// recordSource yields header-width records until io.EOF.
type recordSource interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

func openSource(format Format, r io.Reader, opts Options) (recordSource, error) {
	switch format {
	case FormatCSV:
		return newCSVSource(r)
	case FormatXLSX:
		return newXLSXSource(r, opts.Sheet)
	default:
		return nil, fmt.Errorf("no reader for format %s", format)
	}
}

type csvSource struct {
	r      *csv.Reader
	header []string
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkUTF8(header, 1); err != nil {
		return nil, err
	}
	return &csvSource{r: cr, header: normalizeHeader(header)}, nil
}

func (s *csvSource) Header() []string {
	return s.header
}

func (s *csvSource) Next() ([]string, error) {
	record, err := s.r.Read()
	if err != nil {
		return nil, err
	}
	line, _ := s.r.FieldPos(0)
	if err := checkUTF8(record, line); err != nil {
		return nil, err
	}
	return fitRecord(record, len(s.header), line)
}

func (s *csvSource) Close() error {
	return nil
}

type xlsxSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

// rawValues skips cell number formats so "#,##0.00" or date styles do not
// turn numeric cells into display text.
var rawValues = excelize.Options{RawCellValue: true}

func newXLSXSource(r io.Reader, sheet string) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, errors.New("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("sheet %q not found (available: %v)", sheet, sheets)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	s := &xlsxSource{file: f, rows: rows}
	if !rows.Next() {
		err := rows.Error()
		s.Close()
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		return nil, errors.New("no columns to parse from file")
	}
	header, err := rows.Columns(rawValues)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) == 0 {
		s.Close()
		return nil, errors.New("no columns to parse from file")
	}
	s.line = 1
	s.header = normalizeHeader(header)
	return s, nil
}

func (s *xlsxSource) Header() []string {
	return s.header
}

func (s *xlsxSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	s.line++
	record, err := s.rows.Columns(rawValues)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", s.line, err)
	}
	return fitRecord(record, len(s.header), s.line)
}

func (s *xlsxSource) Close() error {
	var err error
	if s.rows != nil {
		err = s.rows.Close()
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// fitRecord pads short records with empty cells. Records wider than the
// header are malformed.
func fitRecord(record []string, width, line int) ([]string, error) {
	switch {
	case len(record) == width:
		return record, nil
	case len(record) < width:
		padded := make([]string, width)
		copy(padded, record)
		return padded, nil
	default:
		return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, width, len(record))
	}
}

func checkUTF8(record []string, line int) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			return fmt.Errorf("line %d, column %d: invalid UTF-8", line, i+1)
		}
	}
	return nil
}

// normalizeHeader names blank columns "Unnamed: i" and suffixes duplicates
// with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for used[candidate] {
			suffix[name]++
			candidate = name + "." + strconv.Itoa(suffix[name])
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
