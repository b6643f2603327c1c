package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrClosed               = errors.New("controller closed")
)

var acceptedMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Accepts reports whether a declared media type may enter the pipeline.
func Accepts(mediaType string) bool {
	return acceptedMediaTypes[mediaType]
}

// SelectedFile is a user supplied blob. Content is opened on demand so the
// preview and the upload each read their own copy.
type SelectedFile struct {
	name      string
	mediaType string
	open      func() (io.ReadCloser, error)
}

func NewFile(name, mediaType string, data []byte) SelectedFile {
	return SelectedFile{
		name:      name,
		mediaType: mediaType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// OpenFile declares the media type from the extension, the way a browser
// fills File.type.
func OpenFile(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}

	return SelectedFile{
		name:      filepath.Base(path),
		mediaType: mediaTypeByExtension(path),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func mediaTypeByExtension(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return t
	}
	return mt
}

func (f SelectedFile) Name() string      { return f.name }
func (f SelectedFile) MediaType() string { return f.mediaType }

func (f SelectedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errors.New("file has no content")
	}
	return f.open()
}
