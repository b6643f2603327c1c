package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/medical-record-assistant/internal/config"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func TestRunScriptedSession(t *testing.T) {
	var (
		mu    sync.Mutex
		modes []models.ProcessingMode
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/upload":
			json.NewEncoder(w).Encode(models.UploadResult{
				Success: true,
				Result: &models.Result{
					Text:        "Cholesterol 4.2 mmol/L",
					Suggestions: &models.Suggestions{Summary: "Lipids fine"},
				},
			})
		case r.URL.Path == "/api/inference-mode" && r.Method == http.MethodPost:
			var req models.ModeRequest
			json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			modes = append(modes, req.Mode)
			mu.Unlock()
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ModeResponse{Error: "Invalid mode", Mode: models.ModeLocal})
		default:
			json.NewEncoder(w).Encode(models.ModeResponse{Mode: models.ModeLocal})
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	scan := filepath.Join(dir, "scan.gif")
	require.NoError(t, os.WriteFile(scan, []byte("GIF89a"), 0o600))

	cfg := &config.IntakeConfig{
		ServerURL:   srv.URL,
		Language:    "en",
		HTTPTimeout: 5 * time.Second,
	}
	in := strings.NewReader(strings.Join([]string{
		"tab suggestions",
		"mode turbo",
		"wait",
		"open " + filepath.Join(dir, "notes.txt"),
		"bogus",
		"quit",
	}, "\n"))
	var out bytes.Buffer

	err := run(context.Background(), cfg, []string{scan}, in, &out, utils.NewNopLogger())
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "── extracted-text ──\nCholesterol 4.2 mmol/L\n")
	assert.Contains(t, got, "── suggestions ──\nLipids fine\n")
	assert.Contains(t, got, `unknown command "bogus"`)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.ProcessingMode{"turbo"}, modes)
}
