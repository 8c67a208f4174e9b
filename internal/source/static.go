package source

import (
	"context"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// Static serves a fixed in-memory record list. Used by tests and fixtures.
type Static struct {
	Records []core.Record
	Err     error
	Label   string
}

// NewStatic returns a Static source over records.
func NewStatic(records []core.Record) *Static {
	return &Static{Records: records, Label: "static"}
}

// Name identifies the source in logs and status output.
func (s *Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Load returns the configured records or error.
func (s *Static) Load(ctx context.Context) ([]core.Record, core.LoadStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.LoadStats{}, err
	}
	if s.Err != nil {
		return nil, core.LoadStats{}, s.Err
	}

	stats := core.LoadStats{Rows: len(s.Records)}
	for _, rec := range s.Records {
		if rec.ID() == "" {
			stats.Flagged++
		}
	}
	return s.Records, stats, nil
}
