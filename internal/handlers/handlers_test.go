package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

type stubAnalysis struct {
	got *models.UploadRequest
	err error
}

func (s *stubAnalysis) Process(ctx context.Context, req *models.UploadRequest) (*models.Result, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Result{Text: "extracted", Disclaimer: "see a doctor"}, nil
}

type stubModes struct {
	mode models.ProcessingMode
	err  error
}

func (s *stubModes) Current() models.ProcessingMode { return s.mode }

func (s *stubModes) Set(ctx context.Context, mode models.ProcessingMode) error {
	if s.err != nil {
		return s.err
	}
	if !mode.Valid() {
		return utils.NewBadRequestError("Invalid inference mode, must be local or server")
	}
	s.mode = mode
	return nil
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestUploadSuccess(t *testing.T) {
	svc := &stubAnalysis{}
	h := NewUploadHandler(svc, 16<<20, utils.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartRequest(t, "file", "Scan.JPEG", []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res models.UploadResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, "extracted", res.Result.Text)

	require.NotNil(t, svc.got)
	assert.Equal(t, "Scan.JPEG", svc.got.Filename)
	assert.Equal(t, "image/jpeg", svc.got.ContentType)
	assert.Equal(t, []byte("jpeg-bytes"), svc.got.File)
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
		want string
	}{
		{
			name: "no file part",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "document", "scan.png", []byte("x"))
			},
			want: "No file part",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
			},
			want: "No file part",
		},
		{
			name: "empty filename",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "", []byte("x"))
			},
			want: "No file selected",
		},
		{
			name: "unsupported extension",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "notes.docx", []byte("x"))
			},
			want: "Unsupported file type",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "scan.png", bytes.Repeat([]byte("x"), 2<<20))
			},
			want: "File size exceeds 1 MB limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAnalysis{}
			h := NewUploadHandler(svc, 1<<20, utils.NewNopLogger())

			rec := httptest.NewRecorder()
			h.Upload(rec, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.want}, decodeBody(t, rec))
			assert.Nil(t, svc.got)
		})
	}
}

func TestUploadProcessingFailure(t *testing.T) {
	svc := &stubAnalysis{err: utils.WrapInternalError("Error processing file: OCR down", errors.New("OCR down"))}
	h := NewUploadHandler(svc, 16<<20, utils.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartRequest(t, "file", "scan.gif", []byte("gif")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Error processing file: OCR down"}, decodeBody(t, rec))
}

func TestGetMode(t *testing.T) {
	h := NewModeHandler(&stubModes{mode: models.ModeServer}, utils.NewNopLogger())

	rec := httptest.NewRecorder()
	h.GetMode(rec, httptest.NewRequest(http.MethodGet, "/api/inference-mode", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"mode": "server"}, decodeBody(t, rec))
}

func TestSetMode(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		want   map[string]any
	}{
		{
			name:   "valid",
			body:   `{"mode":"server"}`,
			status: http.StatusOK,
			want:   map[string]any{"success": true, "mode": "server"},
		},
		{
			name:   "invalid mode",
			body:   `{"mode":"cloud"}`,
			status: http.StatusBadRequest,
			want:   map[string]any{"error": "Invalid inference mode, must be local or server", "mode": "local"},
		},
		{
			name:   "malformed body",
			body:   `mode=server`,
			status: http.StatusBadRequest,
			want:   map[string]any{"error": "Invalid request body", "mode": "local"},
		},
		{
			name:   "persist failure",
			body:   `{"mode":"server"}`,
			err:    errors.New("disk I/O error"),
			status: http.StatusInternalServerError,
			want:   map[string]any{"error": "Internal server error", "mode": "local"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewModeHandler(&stubModes{mode: models.ModeLocal, err: tt.err}, utils.NewNopLogger())

			rec := httptest.NewRecorder()
			h.SetMode(rec, httptest.NewRequest(http.MethodPost, "/api/inference-mode", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, decodeBody(t, rec))
		})
	}
}
