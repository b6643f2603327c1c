package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func newTestInferrer(t *testing.T, mode models.ProcessingMode, url string) Inferrer {
	t.Helper()
	inf, err := NewInferrer(mode, url, 5*time.Second, utils.NewNopLogger())
	require.NoError(t, err)
	return inf
}

func TestNewInferrerRejectsUnknownMode(t *testing.T) {
	_, err := NewInferrer("cloud", "", time.Second, utils.NewNopLogger())
	assert.Error(t, err)
}

func TestLocalModeReturnsCannedSuggestions(t *testing.T) {
	inf := newTestInferrer(t, models.ModeLocal, "http://127.0.0.1:0")

	s := inf.Suggest(context.Background(), "Headache, fever 38.5C")
	assert.Equal(t, models.ModeLocal, s.Mode)
	assert.Len(t, s.Recommendations, 3)
	assert.NotEmpty(t, s.Summary)
}

func TestServerModePostsPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req PredictRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, 2048, req.MaxLength)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		assert.Contains(t, req.Prompt, "Headache, fever 38.5C")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PredictResponse{
			Summary:         "Febrile illness",
			Recommendations: []string{"Rest", "Fluids"},
		})
	}))
	defer srv.Close()

	inf := newTestInferrer(t, models.ModeServer, srv.URL)
	s := inf.Suggest(context.Background(), "Headache, fever 38.5C")

	assert.Equal(t, models.ModeServer, s.Mode)
	assert.Equal(t, "Febrile illness", s.Summary)
	assert.Equal(t, []string{"Rest", "Fluids"}, s.Recommendations)
	assert.Empty(t, s.Analysis)
}

func TestServerModeFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error status", http.StatusServiceUnavailable, `{"summary":"x"}`},
		{"not json", http.StatusOK, `model is warming up`},
		{"wrong types", http.StatusOK, `{"summary":"x","recommendations":"rest"}`},
		{"no known fields", http.StatusOK, `{"answer":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := newTestInferrer(t, models.ModeServer, srv.URL).Suggest(context.Background(), "text")
			assert.Equal(t, models.ModeFallback, s.Mode)
			assert.Len(t, s.Recommendations, 1)
		})
	}
}

func TestServerModeAcceptsFencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"analysis\":\"Mild anaemia\"}\n```"))
	}))
	defer srv.Close()

	s := newTestInferrer(t, models.ModeServer, srv.URL).Suggest(context.Background(), "text")
	assert.Equal(t, models.ModeServer, s.Mode)
	assert.Equal(t, "Mild anaemia", s.Analysis)
}

func TestSetMode(t *testing.T) {
	inf := newTestInferrer(t, models.ModeLocal, "")

	require.NoError(t, inf.SetMode(models.ModeServer))
	assert.Equal(t, models.ModeServer, inf.Mode())

	assert.Error(t, inf.SetMode(models.ModeFallback))
	assert.Equal(t, models.ModeServer, inf.Mode())
}

func TestBuildPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("血", maxPromptText+10)
	p := buildPrompt(long)
	assert.Contains(t, p, strings.Repeat("血", maxPromptText)+"...")
	assert.NotContains(t, p, strings.Repeat("血", maxPromptText+1))
}

func TestExtractJSON(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"bare":              {`{"a":1}`, `{"a":1}`},
		"json fence":        {"```json\n{\"a\":1}\n```", "{\"a\":1}\n"},
		"plain fence":       {"```\n{\"a\":1}```", `{"a":1}`},
		"unclosed fence":    {"```json\n{\"a\":1}", `{"a":1}`},
		"fence on one line": {"```{\"a\":1}```", "```{\"a\":1}```"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
