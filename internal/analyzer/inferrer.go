package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

const (
	maxPromptText = 4000
	maxLength     = 2048
	temperature   = 0.7
)

// Inferrer turns extracted record text into suggestions. Suggest never fails:
// when the remote model cannot be used the fallback suggestions are returned.
type Inferrer interface {
	Suggest(ctx context.Context, text string) *models.Suggestions
	Mode() models.ProcessingMode
	SetMode(mode models.ProcessingMode) error
}

type inferrer struct {
	mu   sync.RWMutex
	mode models.ProcessingMode

	apiURL string
	logger *utils.Logger
	client *http.Client
	schema *jsonschema.Schema
}

type PredictRequest struct {
	Prompt      string  `json:"prompt"`
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type PredictResponse struct {
	Summary         string   `json:"summary"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	LifestyleAdvice string   `json:"lifestyle_advice"`
}

func NewInferrer(mode models.ProcessingMode, apiURL string, timeout time.Duration, logger *utils.Logger) (Inferrer, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid inference mode %q", mode)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	return &inferrer{
		mode:   mode,
		apiURL: apiURL,
		logger: logger,
		client: &http.Client{
			Timeout: timeout,
		},
		schema: schema,
	}, nil
}

func (a *inferrer) Mode() models.ProcessingMode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *inferrer) SetMode(mode models.ProcessingMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid inference mode %q", mode)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
	return nil
}

func (a *inferrer) Suggest(ctx context.Context, text string) *models.Suggestions {
	prompt := buildPrompt(text)

	if a.Mode() == models.ModeLocal {
		a.logger.Debug("Local inference", "prompt_length", len(prompt))
		return localSuggestions()
	}

	s, err := a.predict(ctx, prompt)
	if err != nil {
		a.logger.Warn("Server inference failed, using fallback suggestions", "url", a.apiURL, "error", err)
		return fallbackSuggestions()
	}
	return s
}

func (a *inferrer) predict(ctx context.Context, prompt string) (*models.Suggestions, error) {
	jsonData, err := json.Marshal(PredictRequest{
		Prompt:      prompt,
		MaxLength:   maxLength,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("Inference API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	content := []byte(extractJSON(strings.TrimSpace(string(body))))
	if err := a.validate(content); err != nil {
		return nil, err
	}

	var out PredictResponse
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %w", err)
	}

	return &models.Suggestions{
		Summary:         out.Summary,
		Analysis:        out.Analysis,
		Recommendations: out.Recommendations,
		LifestyleAdvice: out.LifestyleAdvice,
		Mode:            models.ModeServer,
	}, nil
}

func buildPrompt(text string) string {
	if r := []rune(text); len(r) > maxPromptText {
		text = string(r[:maxPromptText]) + "..."
	}

	return fmt.Sprintf(`You are a professional medical advisor. Based on the medical record below, give professional and accurate advice.

Medical record:
%s

Provide:
1. A brief summary of the record
2. An analysis of possible health issues
3. Recommended next steps
4. Lifestyle adjustments, if applicable

Respond ONLY with a JSON object with the keys "summary", "analysis", "recommendations" (an array of strings) and "lifestyle_advice".
Your answer is for reference only and is not a medical diagnosis; remind the user to consult a professional physician.`, text)
}

func localSuggestions() *models.Suggestions {
	return &models.Suggestions{
		Summary:  "Brief summary of the medical record (simulated)",
		Analysis: "Analysis of health issues based on the medical record (simulated)",
		Recommendations: []string{
			"Recommendation 1: keep observing how the symptoms change",
			"Recommendation 2: maintain healthy daily habits",
			"Recommendation 3: see a doctor promptly if symptoms get worse",
		},
		LifestyleAdvice: "Healthy lifestyle advice (simulated)",
		Mode:            models.ModeLocal,
	}
}

func fallbackSuggestions() *models.Suggestions {
	return &models.Suggestions{
		Summary:         "Unable to analyze the medical record, please check the input or try again",
		Analysis:        "The system cannot provide a detailed analysis at the moment",
		Recommendations: []string{"Please consult a professional physician for an accurate diagnosis"},
		LifestyleAdvice: "Maintaining a healthy lifestyle is very important for recovery",
		Mode:            models.ModeFallback,
	}
}

// extractJSON strips a markdown fence from around a model reply. Replies
// without a fence pass through unchanged.
func extractJSON(content string) string {
	body, ok := strings.CutPrefix(content, "```")
	if !ok {
		return content
	}
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return content
	}
	body = body[nl+1:]
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return body
}
