package intake

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// DataURI encodes the file content as a data: URI for the preview image.
func DataURI(f SelectedFile) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer src.Close()

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(f.MediaType())
	b.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, src); err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// preview never affects the upload: failures are only logged.
func (c *Controller) preview(tok uint64, f SelectedFile) {
	defer c.done()

	uri, err := DataURI(f)
	if err != nil {
		c.logger.Debug("preview failed", "file", f.Name(), "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token || c.closed {
		return
	}
	c.el.PreviewImage.SetSource(uri)
	c.el.PreviewImage.SetVisible(true)
}
