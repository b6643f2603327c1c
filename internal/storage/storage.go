package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/BerylCAtieno/medical-record-assistant/internal/config"
)

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New picks the backend named by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStorage(cfg.UploadDir)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// UploadKey names a stored upload: uploads/<timestamp>_<safe filename>.
func UploadKey(now time.Time, filename string) string {
	return fmt.Sprintf("uploads/%s_%s", now.Format("20060102150405"), SafeFilename(filename))
}

// SafeFilename reduces a client supplied name to ASCII letters, digits, '.',
// '-' and '_' so it can never escape the upload prefix.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return "upload"
	}
	return safe
}
