package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external FER inference service. It is constructed once
// at bootstrap and shared by reference; there is no lazy global state.
// Raw frames pass through this client only on the REST analyze path; the
// stream gateway never sees them.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResult mirrors the inference service response.
type AnalyzeResult struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	FaceDetected bool               `json:"face_detected"`
	AllEmotions  map[string]float64 `json:"all_emotions"`
}

// Analyze submits a base64-encoded still frame for emotion classification.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) (*AnalyzeResult, error) {
	body, err := json.Marshal(analyzeRequest{Image: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Keep a short error body excerpt for diagnostics.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, excerpt)
	}

	var result AnalyzeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	return &result, nil
}
