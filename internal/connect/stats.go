package connect

import (
	"fmt"
	"time"
)

// PoolStats summarizes the handle's database/sql pool for logging.
type PoolStats struct {
	Engine    string
	MaxConns  int
	InUse     int
	Idle      int
	WaitCount int64
	WaitTime  time.Duration
}

// String returns a formatted string for logging pool stats.
func (s PoolStats) String() string {
	avg := time.Duration(0)
	if s.WaitCount > 0 {
		avg = s.WaitTime / time.Duration(s.WaitCount)
	}
	return fmt.Sprintf("%s: %d/%d in use, %d idle, %d waits (%s avg)",
		s.Engine, s.InUse, s.MaxConns, s.Idle, s.WaitCount, avg.Round(time.Microsecond))
}

// Stats reads the current pool statistics.
func (h *Handle) Stats() PoolStats {
	st := h.db.Stats()
	return PoolStats{
		Engine:    h.kind.Label(),
		MaxConns:  st.MaxOpenConnections,
		InUse:     st.InUse,
		Idle:      st.Idle,
		WaitCount: st.WaitCount,
		WaitTime:  st.WaitDuration,
	}
}
