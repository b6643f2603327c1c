package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("image/png"))
	assert.True(t, Accepts("image/jpeg"))
	assert.True(t, Accepts("image/gif"))
	assert.False(t, Accepts("image/jpg"))
	assert.False(t, Accepts("application/pdf"))
	assert.False(t, Accepts(""))
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(NewFile("a.gif", "image/gif", []byte("GIF89a")))
	require.NoError(t, err)
	assert.Equal(t, "data:image/gif;base64,R0lGODlh", uri)
}

func TestOpenFileDeclaresTypeFromExtension(t *testing.T) {
	dir := t.TempDir()
	for name, want := range map[string]string{
		"scan.PNG":   "image/png",
		"photo.jpg":  "image/jpeg",
		"report.pdf": "application/pdf",
		"notes":      "",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		f, err := OpenFile(path)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
		assert.Equal(t, want, f.MediaType(), name)

		rc, err := f.Open()
		require.NoError(t, err)
		rc.Close()
	}

	_, err := OpenFile(dir)
	assert.Error(t, err)
	_, err = OpenFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
