package classifier

import (
	"bytes"
	"context"
	"crop-recommendation-service/internal/models"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Prediction is one classifier output: a crop label and its raw probability.
type Prediction struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// Client talks to a single crop classifier inference endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Features models.FeatureVector `json:"features"`
	TopK     int                  `json:"top_k"`
}

type predictResponse struct {
	Predictions  []Prediction `json:"predictions"`
	ModelVersion string       `json:"model_version"`
}

// Predict posts a feature vector and returns the top-k predictions.
func (c *Client) Predict(ctx context.Context, features models.FeatureVector, k int) ([]Prediction, error) {
	payload, err := json.Marshal(predictRequest{Features: features, TopK: k})
	if err != nil {
		return nil, fmt.Errorf("failed to encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call classifier at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Classifier returned non-200 status",
			"base_url", c.baseURL,
			"status", resp.StatusCode,
			"body", string(body))
		return nil, fmt.Errorf("classifier at %s returned status %d", c.baseURL, resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("classifier at %s returned no predictions", c.baseURL)
	}

	slog.Info("Classifier prediction succeeded",
		"base_url", c.baseURL,
		"model_version", parsed.ModelVersion,
		"predictions", len(parsed.Predictions))

	return parsed.Predictions, nil
}
