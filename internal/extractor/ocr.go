package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

// OCRResponse is what the recognition service answers. Services that return
// one entry per detected line fill Lines instead of Text.
type OCRResponse struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
	Error string   `json:"error"`
}

type ocrClient struct {
	url    string
	client *http.Client
	logger *utils.Logger
}

func newOCRClient(url string, timeout time.Duration, logger *utils.Logger) *ocrClient {
	return &ocrClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Recognize posts the raw image bytes and joins the recognised lines.
func (c *ocrClient) Recognize(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach OCR service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}
	c.logger.Debug("OCR response", "status", resp.StatusCode, "bytes", len(body), "elapsed_ms", time.Since(start).Milliseconds())

	var out OCRResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("OCR service returned status %d with unreadable body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("OCR service returned status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("OCR service returned status %d", resp.StatusCode)
	}

	if out.Text != "" {
		return out.Text, nil
	}
	return strings.Join(out.Lines, "\n"), nil
}
