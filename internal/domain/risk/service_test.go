package risk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welldoc/riskdash/internal/domain/roster"
)

type stubScorer struct {
	result    *Result
	err       error
	info      *ModelInfo
	healthErr error

	lastPatientID string
	lastClinical  map[string]interface{}
}

func (s *stubScorer) Predict(_ context.Context, patientID string, clinicalData map[string]interface{}) (*Result, error) {
	s.lastPatientID = patientID
	s.lastClinical = clinicalData
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubScorer) ModelInfo(context.Context) (*ModelInfo, error) {
	return s.info, s.err
}

func (s *stubScorer) Health(context.Context) error {
	return s.healthErr
}

func testRoster(t *testing.T) *roster.Directory {
	t.Helper()
	d, err := roster.Parse([]byte(`{
		"patients": [
			{"id":"P1","name":"John Mitchell","age":70,
			 "clinicalData":{"age":70,"glucose":180}},
			{"id":"P2","name":"Sarah Chen","age":54,
			 "clinicalData":{"age":54}}
		]
	}`))
	require.NoError(t, err)
	return d
}

func newTestService(t *testing.T, scorer Scorer) *Service {
	t.Helper()
	cache := newTestCache(t, filepath.Join(t.TempDir(), "state.json"))
	return NewService(testRoster(t), scorer, cache, zerolog.Nop())
}

func TestAssessScoresAndCaches(t *testing.T) {
	scorer := &stubScorer{result: testResult("P1", 0.82, "high")}
	svc := newTestService(t, scorer)

	result, err := svc.Assess(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "high", result.RiskAssessment.RiskLevel)

	// The roster's clinical attributes went out on the wire.
	assert.Equal(t, "P1", scorer.lastPatientID)
	assert.EqualValues(t, 180, scorer.lastClinical["glucose"])

	cached, ok := svc.Lookup("P1")
	require.True(t, ok)
	assert.InDelta(t, 0.82, cached.RiskAssessment.DeteriorationProbability, 1e-9)
}

func TestAssessUnknownPatient(t *testing.T) {
	svc := newTestService(t, &stubScorer{})

	_, err := svc.Assess(context.Background(), "P999")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestAssessScoringFailureLeavesCacheUntouched(t *testing.T) {
	scorer := &stubScorer{err: &RequestError{Endpoint: "/predict", Status: 500}}
	svc := newTestService(t, scorer)

	_, err := svc.Assess(context.Background(), "P1")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Empty(t, svc.List())
}

func TestAssessCachesUnderEchoedID(t *testing.T) {
	// A scoring service that rewrites the id produces an entry under the
	// rewritten one, not the requested one.
	scorer := &stubScorer{result: testResult("P1-canonical", 0.4, "medium")}
	svc := newTestService(t, scorer)

	_, err := svc.Assess(context.Background(), "P1")
	require.NoError(t, err)

	_, ok := svc.Lookup("P1")
	assert.False(t, ok)
	_, ok = svc.Lookup("P1-canonical")
	assert.True(t, ok)
}

func TestCohortStats(t *testing.T) {
	svc := newTestService(t, &stubScorer{})
	ctx := context.Background()

	assert.Equal(t, CohortStats{TotalPatients: 2}, svc.CohortStats())

	require.NoError(t, svc.cache.Upsert(ctx, testResult("P1", 0.8, "high")))
	require.NoError(t, svc.cache.Upsert(ctx, testResult("P2", 0.2, "low")))

	stats := svc.CohortStats()
	assert.Equal(t, 2, stats.TotalPatients)
	assert.Equal(t, 2, stats.Predicted)
	assert.Equal(t, 1, stats.HighRisk)
	assert.Equal(t, 1, stats.LowRisk)
	assert.Zero(t, stats.MediumRisk)
	assert.InDelta(t, 0.5, stats.AverageRisk, 1e-9)
}

func TestClearAll(t *testing.T) {
	scorer := &stubScorer{result: testResult("P1", 0.8, "high")}
	svc := newTestService(t, scorer)
	ctx := context.Background()

	_, err := svc.Assess(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, svc.List(), 1)

	require.NoError(t, svc.ClearAll(ctx))
	assert.Empty(t, svc.List())
}
