package media

import (
	"mime/multipart"
	"regexp"
	"strings"
)

var videoExt = regexp.MustCompile(`(?i)\.(mp4|webm|mov|avi|mkv|m4v|ogv|flv|wmv)(\?.*)?$`)

// File describes an uploaded file by name and declared MIME type.
type File struct {
	Name string
	Type string
}

// IsVideo reports whether a URL, path or file is a video, by declared MIME
// type or by file extension (optionally followed by a query string).
func IsVideo(v any) bool {
	switch t := v.(type) {
	case string:
		return t != "" && videoExt.MatchString(t)
	case File:
		return strings.HasPrefix(strings.ToLower(t.Type), "video/") || IsVideo(t.Name)
	case *File:
		return t != nil && IsVideo(*t)
	case *multipart.FileHeader:
		if t == nil {
			return false
		}
		return IsVideo(File{Name: t.Filename, Type: t.Header.Get("Content-Type")})
	default:
		return false
	}
}
