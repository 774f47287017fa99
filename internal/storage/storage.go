// Package storage stores uploaded artwork media and builds their public URLs.
package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/artyaffairs/storefront/internal/media"
)

// PublicPrefix is the URL path public objects are served under.
const PublicPrefix = "/storage/v1/object/public"

// MaxUploadSize caps a single upload.
const MaxUploadSize = 50 << 20

// PublicBase is the URL prefix of every object in bucket.
func PublicBase(storageURL, bucket string) string {
	return strings.TrimRight(storageURL, "/") + PublicPrefix + "/" + bucket
}

// Object describes a stored file.
type Object struct {
	Path    string `json:"path"`
	URL     string `json:"url"`
	Size    int64  `json:"size"`
	IsVideo bool   `json:"is_video"`
}

// Local keeps objects on disk below Dir. Files are served back by the router
// at PublicBase.
type Local struct {
	Dir        string
	StorageURL string
	Bucket     string

	now func() time.Time
}

// NewLocal returns a disk store rooted at dir.
func NewLocal(dir, storageURL, bucket string) *Local {
	return &Local{Dir: dir, StorageURL: storageURL, Bucket: bucket, now: time.Now}
}

// PublicBase is the public URL prefix of the bucket.
func (l *Local) PublicBase() string {
	return PublicBase(l.StorageURL, l.Bucket)
}

// PublicURL resolves an object path to its public URL.
func (l *Local) PublicURL(objectPath string) string {
	return l.PublicBase() + "/" + strings.TrimLeft(objectPath, "/")
}

// ObjectName builds "<dir>/<unix-ms>-<slug>-<short id><ext>" for an uploaded filename.
func ObjectName(dir, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	short := strings.Split(uuid.NewString(), "-")[0]
	return path.Join(dir, fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), base, short, ext))
}

// Save copies an uploaded file into dir (default media.DefaultDir).
func (l *Local) Save(file *multipart.FileHeader, dir string) (*Object, error) {
	if file.Size > MaxUploadSize {
		return nil, fmt.Errorf("file %s is %d bytes, limit is %d", file.Filename, file.Size, MaxUploadSize)
	}
	if dir == "" {
		dir = media.DefaultDir
	}
	dir = slug.Make(dir)

	name := ObjectName(dir, file.Filename, l.now())
	dst := filepath.Join(l.Dir, l.Bucket, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	log.Printf("storage: saved %s (%d bytes)", name, n)
	return &Object{
		Path:    name,
		URL:     l.PublicURL(name),
		Size:    n,
		IsVideo: media.IsVideo(file),
	}, nil
}

// Root is the directory served at PublicBase.
func (l *Local) Root() string {
	return filepath.Join(l.Dir, l.Bucket)
}
