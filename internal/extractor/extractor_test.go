package extractor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func newTestExtractor(url string) Extractor {
	return New(url, 5*time.Second, utils.NewNopLogger())
}

func TestExtractImageUsesOCRText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("png-bytes"), body)
		w.Write([]byte(`{"text":"WBC 6.2"}`))
	}))
	defer srv.Close()

	text, err := newTestExtractor(srv.URL).Extract(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "WBC 6.2", text)
}

func TestExtractImageJoinsOCRLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lines":["Name: Li Wei","BP 130/85"]}`))
	}))
	defer srv.Close()

	text, err := newTestExtractor(srv.URL).Extract(context.Background(), []byte("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Name: Li Wei\nBP 130/85", text)
}

func TestExtractImageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"service error", http.StatusInternalServerError, `{"error":"model not loaded"}`, "model not loaded"},
		{"unreadable", http.StatusBadGateway, `<html>`, "status 502"},
		{"empty", http.StatusOK, `{"lines":[]}`, ErrNoText.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestExtractor(srv.URL).Extract(context.Background(), []byte("gif"), "image/gif")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	_, err := newTestExtractor("http://127.0.0.1:0").Extract(context.Background(), []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := ExtractPDF([]byte("definitely not a pdf"))
	assert.Error(t, err)
}
