package risk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/welldoc/riskdash/internal/domain/roster"
)

// ErrPatientNotFound reports an assessment request for an id that is not in
// the roster.
var ErrPatientNotFound = fmt.Errorf("patient not found")

// Scorer is the slice of the scoring client the service depends on.
type Scorer interface {
	Predict(ctx context.Context, patientID string, clinicalData map[string]interface{}) (*Result, error)
	ModelInfo(ctx context.Context) (*ModelInfo, error)
	Health(ctx context.Context) error
}

// Service runs risk assessments for roster patients and keeps the results
// in the prediction cache.
type Service struct {
	dir    *roster.Directory
	scorer Scorer
	cache  *Cache
	logger zerolog.Logger
}

func NewService(dir *roster.Directory, scorer Scorer, cache *Cache, logger zerolog.Logger) *Service {
	return &Service{
		dir:    dir,
		scorer: scorer,
		cache:  cache,
		logger: logger.With().Str("component", "risk_service").Logger(),
	}
}

// Assess scores one roster patient and caches the result. The cache entry
// is keyed by the patient id the scoring service echoes back, not by the
// requested id, so a service that rewrites the id produces an entry under
// the rewritten one.
func (s *Service) Assess(ctx context.Context, patientID string) (*Result, error) {
	p, ok := s.dir.Get(patientID)
	if !ok {
		return nil, ErrPatientNotFound
	}

	result, err := s.scorer.Predict(ctx, p.ID, p.ClinicalData)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Upsert(ctx, result); err != nil {
		// The prediction itself succeeded; a persistence failure should
		// not hide it from the caller.
		s.logger.Error().Err(err).Str("patient_id", result.PatientID).Msg("failed to persist prediction")
	}
	return result, nil
}

// List returns every cached prediction in insertion order.
func (s *Service) List() []*Result {
	return s.cache.All()
}

// Lookup returns the cached prediction for one patient, if any.
func (s *Service) Lookup(patientID string) (*Result, bool) {
	return s.cache.Get(patientID)
}

// ClearAll drops every cached prediction.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// ModelInfo proxies the scoring service's model description.
func (s *Service) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	return s.scorer.ModelInfo(ctx)
}

// ScoringHealth reports whether the scoring service is reachable.
func (s *Service) ScoringHealth(ctx context.Context) error {
	return s.scorer.Health(ctx)
}

// CohortStats aggregates the cache into the dashboard summary numbers.
func (s *Service) CohortStats() CohortStats {
	stats := CohortStats{TotalPatients: s.dir.Count()}

	var sum float64
	for _, r := range s.cache.All() {
		stats.Predicted++
		sum += r.RiskAssessment.DeteriorationProbability
		switch r.RiskAssessment.RiskLevel {
		case "high":
			stats.HighRisk++
		case "medium":
			stats.MediumRisk++
		case "low":
			stats.LowRisk++
		}
	}
	if stats.Predicted > 0 {
		stats.AverageRisk = sum / float64(stats.Predicted)
	}
	return stats
}
