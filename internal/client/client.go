// Package client talks to the record analysis backend: the upload endpoint and
// the processing mode endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
	"github.com/google/uuid"
)

const (
	uploadPath = "/api/upload"
	modePath   = "/api/inference-mode"
)

// ErrServerResponse is wrapped by every *StatusError.
var ErrServerResponse = errors.New("server response error")

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrServerResponse, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrServerResponse
}

// File is the minimum the client needs to send an upload.
type File interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *utils.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func New(baseURL string, logger *utils.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Upload posts the file as multipart field "file". A non-2xx status returns a
// *StatusError whatever the body says; a 2xx body is decoded and returned
// as-is, including success=false payloads.
func (c *Client) Upload(ctx context.Context, f File) (*models.UploadResult, error) {
	body, contentType, err := multipartBody(f)
	if err != nil {
		return nil, err
	}

	raw, status, err := c.do(ctx, http.MethodPost, uploadPath, body, contentType)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, &StatusError{StatusCode: status, Body: raw}
	}

	var result models.UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

// GetMode fetches the server's current processing mode.
func (c *Client) GetMode(ctx context.Context) (*models.ModeResponse, error) {
	raw, status, err := c.do(ctx, http.MethodGet, modePath, nil, "")
	if err != nil {
		return nil, err
	}

	var resp models.ModeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if status/100 != 2 {
			return nil, &StatusError{StatusCode: status, Body: raw}
		}
		return nil, fmt.Errorf("decode mode response: %w", err)
	}
	if status/100 != 2 {
		return &resp, &StatusError{StatusCode: status, Body: raw}
	}
	return &resp, nil
}

// SetMode asks the server to switch mode. The server answers rejections with a
// non-2xx status and a JSON body naming its current mode, so the decoded body
// is returned whenever it parses, regardless of status.
func (c *Client) SetMode(ctx context.Context, mode models.ProcessingMode) (*models.ModeResponse, error) {
	bs, err := json.Marshal(models.ModeRequest{Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("encode mode request: %w", err)
	}

	raw, status, err := c.do(ctx, http.MethodPost, modePath, bytes.NewReader(bs), "application/json")
	if err != nil {
		return nil, err
	}

	var resp models.ModeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if status/100 != 2 {
			return nil, &StatusError{StatusCode: status, Body: raw}
		}
		return nil, fmt.Errorf("decode mode response: %w", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Debug("client.http.request", "req_id", reqID, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("client.http.send_error", "req_id", reqID, "path", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("client.http.response",
		"req_id", reqID,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	return raw, resp.StatusCode, nil
}

func multipartBody(f File) (io.Reader, string, error) {
	src, err := f.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	// CreateFormFile always declares application/octet-stream; keep the
	// file's own media type instead.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name()))
	h.Set("Content-Type", f.MediaType())

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
