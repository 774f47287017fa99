package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t,
		"https://x.supabase.co/storage/v1/object/public/artwork-images",
		PublicBase("https://x.supabase.co/", "artwork-images"))
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := ObjectName("artworks", "My Sunset Painting.JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^artworks/1700000000123-my-sunset-painting-[0-9a-f]{8}\.jpg$`), name)

	name = ObjectName("artworks", "???.png", now)
	assert.Regexp(t, `^artworks/1700000000123-file-[0-9a-f]{8}\.png$`, name)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "http://localhost:8080", "artwork-images")
	l.now = func() time.Time { return time.UnixMilli(42) }

	obj, err := l.Save(fileHeader(t, "Blue Lagoon.png", "image/png", []byte("png-bytes")), "")
	require.NoError(t, err)
	assert.Regexp(t, `^artworks/42-blue-lagoon-[0-9a-f]{8}\.png$`, obj.Path)
	assert.Equal(t, "http://localhost:8080/storage/v1/object/public/artwork-images/"+obj.Path, obj.URL)
	assert.Equal(t, int64(9), obj.Size)
	assert.False(t, obj.IsVideo)

	data, err := os.ReadFile(filepath.Join(l.Root(), filepath.FromSlash(obj.Path)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_Video(t *testing.T) {
	l := NewLocal(t.TempDir(), "http://localhost:8080", "artwork-images")
	obj, err := l.Save(fileHeader(t, "process.MOV", "video/quicktime", []byte("v")), "Process Videos")
	require.NoError(t, err)
	assert.True(t, obj.IsVideo)
	assert.Regexp(t, `^process-videos/`, obj.Path)
}
