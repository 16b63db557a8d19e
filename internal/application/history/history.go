// Package history persists finished calculations so operators can review
// what was designed for which panel. Persistence is optional: with no
// repository configured the service degrades to a no-op.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"
)

// Kind tags which calculation path produced a record.
type Kind string

const (
	KindManual Kind = "manual"
	KindExact  Kind = "exact"
	KindAuto   Kind = "auto"
)

// Record is one persisted calculation outcome.
type Record struct {
	ID               uuid.UUID       `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	Kind             Kind            `json:"kind"`
	Spec             panel.PanelSpec `json:"spec"`
	TargetPowerWm2   float64         `json:"target_power_w_m2"`
	AchievedPowerWm2 float64         `json:"achieved_power_w_m2"`
	ResistanceOhm    float64         `json:"resistance_ohm"`
	Multiplier       float64         `json:"multiplier"`
	DeviationPercent float64         `json:"deviation_percent"`
	Converged        bool            `json:"converged"`
}

// Repository stores records. Implementations must be safe for concurrent
// use.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context, limit, offset int) ([]Record, error)
}

// Service fills in identity fields, counts writes and absorbs repository
// failures: a failed history write is logged, never surfaced to the
// calculation caller.
type Service struct {
	repo    Repository
	metrics *prometheus.AppMetrics
	log     logging.Logger
	now     func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics wires history write metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the service. A nil repo disables persistence.
func NewService(repo Repository, log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Service{
		repo: repo,
		log:  log.Named("history"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether records are actually persisted.
func (s *Service) Enabled() bool { return s.repo != nil }

// Record persists one outcome. The record's ID and CreatedAt are assigned
// here.
func (s *Service) Record(ctx context.Context, rec Record) {
	if s.repo == nil {
		return
	}
	rec.ID = uuid.New()
	rec.CreatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, &rec); err != nil {
		s.countWrite("error")
		s.log.Error("history write failed",
			logging.String("kind", string(rec.Kind)),
			logging.Err(err))
		return
	}
	s.countWrite("ok")
}

// List returns the most recent records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) countWrite(status string) {
	if s.metrics != nil {
		s.metrics.HistoryWritesTotal.WithLabelValues(status).Inc()
	}
}
