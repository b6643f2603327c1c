package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

var (
	ErrNoText          = errors.New("no text could be extracted")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ContentTypes maps accepted upload extensions to the content type they are
// processed as.
var ContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}

type extractor struct {
	ocr    *ocrClient
	logger *utils.Logger
}

// New returns an Extractor reading PDFs locally and sending images to the
// OCR service at ocrURL.
func New(ocrURL string, timeout time.Duration, logger *utils.Logger) Extractor {
	return &extractor{
		ocr:    newOCRClient(ocrURL, timeout, logger),
		logger: logger,
	}
}

func (e *extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return ExtractPDF(data)
	case strings.HasPrefix(contentType, "image/"):
		text, err := e.ocr.Recognize(ctx, data, contentType)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", ErrNoText
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}
