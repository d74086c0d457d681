// Package store persists calibrated curves as snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/config"
	"github.com/meenmo/mcurve/swap/curve"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one calibrated curve with its fit diagnostics.
type Snapshot struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CurveDate  time.Time `json:"curve_date"`
	Knots      []float64 `json:"knots"`
	Nodes      []float64 `json:"nodes"`
	FinalNorm  float64   `json:"final_norm"`
	Iterations int       `json:"iterations"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewSnapshot captures c and the diagnostics of the run that produced it.
// Iterations holds the reported count, so capped runs store the sentinel.
func NewSnapshot(name string, curveDate time.Time, c *curve.Curve, res calibration.Result) Snapshot {
	return Snapshot{
		Name:       name,
		CurveDate:  curveDate,
		Knots:      c.Knots(),
		Nodes:      c.Nodes(),
		FinalNorm:  res.FinalNorm,
		Iterations: res.ReportedIterations(),
		Status:     res.Status.String(),
	}
}

// Curve rebuilds the stored curve.
func (s Snapshot) Curve() (*curve.Curve, error) {
	return curve.New(s.Knots, s.Nodes)
}

func (s Snapshot) clone() Snapshot {
	s.Knots = append([]float64(nil), s.Knots...)
	s.Nodes = append([]float64(nil), s.Nodes...)
	return s
}

// stamp fills in a missing ID and creation time.
func (s *Snapshot) stamp() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}

// Store saves and retrieves snapshots. Implementations are safe for concurrent use.
type Store interface {
	// Save assigns an ID and creation time when unset and makes s the latest snapshot for s.Name.
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Latest(ctx context.Context, name string) (Snapshot, error)
	Close() error
}

// Open connects to the backend selected in cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
