package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "newsroom/internal/errors"
)

// fileHeader builds a real multipart header the way echo hands it to handlers.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewStore(dir)
	require.NoError(t, err)

	now := time.UnixMilli(1700000000123)
	path, err := store.Save(fileHeader(t, "Photo.PNG", []byte("png-bytes")), now)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000123.png", path)

	data, err := os.ReadFile(filepath.Join(dir, "1700000000123.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	second, err := store.Save(fileHeader(t, "other.png", []byte("x")), now)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000124.png", second)
}

func TestStore_RejectsNonImages(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"script.php", "notes.txt", "noext", "image.png.exe"} {
		_, err := store.Save(fileHeader(t, name, []byte("x")), time.Now())
		assert.ErrorIs(t, err, apperr.ErrInvalidImage, name)
	}
}

func TestStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path, err := store.Save(fileHeader(t, "a.jpg", []byte("x")), time.UnixMilli(42))
	require.NoError(t, err)
	require.NoError(t, store.Remove(path))
	_, err = os.Stat(filepath.Join(dir, "42.jpg"))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Remove(path))

	for _, bad := range []string{"", "/uploads/", "/etc/passwd", "/uploads/../secret.png", "42.jpg"} {
		assert.Error(t, store.Remove(bad), bad)
	}
}
