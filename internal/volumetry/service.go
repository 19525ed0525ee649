package volumetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/logging"
)

// Opener opens a connection handle; *connect.Factory satisfies it.
type Opener interface {
	Open(ctx context.Context, req connect.Request) (*connect.Handle, error)
}

// Service produces reports, one connection per request.
type Service struct {
	opener Opener
	now    func() time.Time
}

// NewService creates a service that opens connections through opener.
func NewService(opener Opener) *Service {
	return &Service{opener: opener, now: time.Now}
}

// Report opens a connection for req, collects the sizes and closes the
// connection on every path.
func (s *Service) Report(ctx context.Context, req connect.Request) (*Report, error) {
	h, err := s.opener.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	logging.Debug("Collecting sizes for %s (target %q)", h.Kind().Label(), h.Target())
	start := s.now()

	tables, total, err := Collect(ctx, h.DB(), h.Dialect(), h.Target())
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New(),
		Engine:      h.Kind().Label(),
		Database:    req.Database,
		Target:      h.Target(),
		Tables:      tables,
		Total:       total,
		CollectedAt: start.UTC(),
	}
	logging.Info("Collected %d tables from %s in %s, total %s",
		len(tables), h.Kind().Label(), s.now().Sub(start).Round(time.Millisecond), total)
	return report, nil
}
