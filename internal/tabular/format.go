// Package tabular loads CSV and XLSX files into typed in-memory frames and
// measures their footprint, either for the whole file or chunk by chunk.
package tabular

import (
	"path/filepath"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/fault"
)

// Format is a supported tabular file format.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// DetectFormat picks the format from the file name extension alone.
// Anything other than .csv or .xlsx is a fault.UnsupportedFileType.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return 0, fault.Newf(fault.UnsupportedFileType, "load "+filepath.Base(name),
			"unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(name))
	}
}
