package models

import (
	"time"
)

// ProcessingMode selects how the backend produces suggestions.
type ProcessingMode string

const (
	ModeLocal  ProcessingMode = "local"
	ModeServer ProcessingMode = "server"

	// ModeFallback only ever appears on Suggestions, never as a settable mode.
	ModeFallback ProcessingMode = "fallback"

	DefaultMode = ModeLocal
)

// Valid reports whether m is one of the settable modes.
func (m ProcessingMode) Valid() bool {
	return m == ModeLocal || m == ModeServer
}

type Suggestions struct {
	Summary         string         `json:"summary,omitempty"`
	Analysis        string         `json:"analysis,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	LifestyleAdvice string         `json:"lifestyle_advice,omitempty"`
	Mode            ProcessingMode `json:"mode,omitempty"`
}

type Result struct {
	Text        string       `json:"text"`
	Disclaimer  string       `json:"disclaimer,omitempty"`
	Suggestions *Suggestions `json:"suggestions,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// UploadResult is the body of POST /api/upload.
type UploadResult struct {
	Success bool    `json:"success"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type ModeRequest struct {
	Mode ProcessingMode `json:"mode"`
}

// ModeResponse is the body of both GET and POST /api/inference-mode. GET only
// fills Mode.
type ModeResponse struct {
	Success bool           `json:"success,omitempty"`
	Mode    ProcessingMode `json:"mode,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

// AnalysisRecord is one processed upload as persisted by the backend.
type AnalysisRecord struct {
	ID            string         `json:"id" db:"id"`
	Filename      string         `json:"filename" db:"filename"`
	StorageKey    string         `json:"storage_key" db:"storage_key"`
	ContentType   string         `json:"content_type" db:"content_type"`
	FileSize      int64          `json:"file_size" db:"file_size"`
	ExtractedText string         `json:"extracted_text" db:"extracted_text"`
	Suggestions   string         `json:"suggestions" db:"suggestions"`
	Mode          ProcessingMode `json:"mode" db:"mode"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
