package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// RequestError reports a failed call to the scoring service. Transport
// failures, non-success statuses, and malformed payloads all map here: the
// user-facing message is the same generic one either way, but the fields
// keep the distinction for diagnostics.
type RequestError struct {
	Endpoint string
	Status   int // zero when the request never completed
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("scoring service %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("scoring service %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Client talks to the external risk scoring service. Every operation is a
// single attempt with no retries: a failed call surfaces immediately to
// the caller.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient builds a Client for the scoring service at baseURL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger.With().Str("component", "scoring_client").Logger(),
	}
}

// Predict sends one patient's clinical attributes to POST /predict and
// returns the decoded, validated Result. The request body is the flat
// union of the patient identifier and every clinical attribute, untouched.
func (c *Client) Predict(ctx context.Context, patientID string, clinicalData map[string]interface{}) (*Result, error) {
	body := make(map[string]interface{}, len(clinicalData)+1)
	for k, v := range clinicalData {
		body[k] = v
	}
	body["patient_id"] = patientID

	var result Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/predict")
	if err != nil {
		c.logger.Error().Err(err).Str("patient_id", patientID).Msg("predict request failed")
		return nil, &RequestError{Endpoint: "/predict", Err: err}
	}
	if !resp.IsSuccess() {
		c.logger.Error().Int("status", resp.StatusCode()).Str("patient_id", patientID).Msg("predict returned non-success status")
		return nil, &RequestError{Endpoint: "/predict", Status: resp.StatusCode()}
	}
	if err := result.Validate(); err != nil {
		c.logger.Error().Err(err).Str("patient_id", patientID).Msg("predict returned malformed payload")
		return nil, &RequestError{Endpoint: "/predict", Err: fmt.Errorf("malformed prediction: %w", err)}
	}

	c.logger.Info().
		Str("patient_id", result.PatientID).
		Str("risk_level", result.RiskAssessment.RiskLevel).
		Float64("probability", result.RiskAssessment.DeteriorationProbability).
		Msg("prediction received")
	return &result, nil
}

// ModelInfo fetches the deployed model's feature importance, clinical name
// mapping, and aggregate performance metrics from GET /model/info.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/model/info")
	if err != nil {
		c.logger.Error().Err(err).Msg("model info request failed")
		return nil, &RequestError{Endpoint: "/model/info", Err: err}
	}
	if !resp.IsSuccess() {
		c.logger.Error().Int("status", resp.StatusCode()).Msg("model info returned non-success status")
		return nil, &RequestError{Endpoint: "/model/info", Status: resp.StatusCode()}
	}
	return &info, nil
}

// Health reports whether the scoring service answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return &RequestError{Endpoint: "/health", Err: err}
	}
	if !resp.IsSuccess() {
		return &RequestError{Endpoint: "/health", Status: resp.StatusCode()}
	}
	return nil
}
