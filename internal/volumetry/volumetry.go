// Package volumetry runs the catalog size queries for a connected engine and
// assembles them into a report.
package volumetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johndauphine/db-volumetry/internal/driver"
	"github.com/johndauphine/db-volumetry/internal/fault"
)

// Querier is the subset of *sql.DB the size queries need.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableSize is the storage size of one table, in megabytes.
type TableSize struct {
	Name      string  `json:"name"`
	Megabytes float64 `json:"size_mb"`
}

// TotalSize is the size of the whole target. Known is false when the catalog
// returned no row or a NULL aggregate.
type TotalSize struct {
	Megabytes float64 `json:"size_mb"`
	Known     bool    `json:"known"`
}

// String renders the total in megabytes, or "unknown".
func (t TotalSize) String() string {
	if !t.Known {
		return "unknown"
	}
	return fmt.Sprintf("%.2f MB", t.Megabytes)
}

// Report is the result of one database volumetry request.
type Report struct {
	ID          uuid.UUID   `json:"id"`
	Engine      string      `json:"engine"`
	Database    string      `json:"database"`
	Target      string      `json:"target,omitempty"`
	Tables      []TableSize `json:"tables"`
	Total       TotalSize   `json:"total"`
	CollectedAt time.Time   `json:"collected_at"`
}

// TablesMB sums the per-table sizes. It need not match Total: the two
// queries do not share a snapshot.
func (r *Report) TablesMB() float64 {
	var sum float64
	for _, t := range r.Tables {
		sum += t.Megabytes
	}
	return sum
}

// Collect runs the per-table and total size queries of d against q.
// Either query failing returns a fault.QueryFailure and no partial rows.
func Collect(ctx context.Context, q Querier, d driver.Dialect, target string) ([]TableSize, TotalSize, error) {
	tables, err := TableSizes(ctx, q, d, target)
	if err != nil {
		return nil, TotalSize{}, err
	}
	total, err := Total(ctx, q, d, target)
	if err != nil {
		return nil, TotalSize{}, err
	}
	return tables, total, nil
}

// TableSizes returns one entry per table, in catalog order. A NULL size
// counts as zero.
func TableSizes(ctx context.Context, q Querier, d driver.Dialect, target string) ([]TableSize, error) {
	query, args := d.TableSizesQuery(target)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.New(fault.QueryFailure, "query table sizes", err)
	}
	defer rows.Close()

	var tables []TableSize
	for rows.Next() {
		var name string
		var size sql.NullFloat64
		if err := rows.Scan(&name, &size); err != nil {
			return nil, fault.New(fault.QueryFailure, "query table sizes", fmt.Errorf("scanning row: %w", err))
		}
		tables = append(tables, TableSize{Name: name, Megabytes: size.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, fault.New(fault.QueryFailure, "query table sizes", err)
	}
	if tables == nil {
		tables = []TableSize{}
	}
	return tables, nil
}

// Total returns the aggregate size of the target.
func Total(ctx context.Context, q Querier, d driver.Dialect, target string) (TotalSize, error) {
	query, args := d.TotalSizeQuery(target)
	var size sql.NullFloat64
	err := q.QueryRowContext(ctx, query, args...).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return TotalSize{}, nil
	}
	if err != nil {
		return TotalSize{}, fault.New(fault.QueryFailure, "query total size", err)
	}
	if !size.Valid {
		return TotalSize{}, nil
	}
	return TotalSize{Megabytes: size.Float64, Known: true}, nil
}
