package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ZnJhbWU=", req.Image)

		json.NewEncoder(w).Encode(AnalyzeResult{
			Emotion:      "happy",
			Confidence:   0.91,
			FaceDetected: true,
			AllEmotions:  map[string]float64{"happy": 0.91, "neutral": 0.09},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Analyze(context.Background(), "ZnJhbWU=")
	require.NoError(t, err)

	assert.Equal(t, "happy", result.Emotion)
	assert.InDelta(t, 0.91, result.Confidence, 0.001)
	assert.True(t, result.FaceDetected)
	assert.Len(t, result.AllEmotions, 2)
}

func TestAnalyzeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no face detected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Analyze(context.Background(), "ZnJhbWU=")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "422")
}

func TestAnalyzeUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.Analyze(context.Background(), "ZnJhbWU=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
