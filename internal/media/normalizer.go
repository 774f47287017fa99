// Package media turns the heterogeneous image and video references stored on
// artwork rows into fetchable URLs.
package media

import (
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/artyaffairs/storefront/internal/models"
)

// Placeholder is returned whenever a reference cannot be resolved.
const Placeholder = "/placeholder-art.jpg"

// DefaultDir is the storage folder assumed for bare filenames.
const DefaultDir = "artworks"

// Normalizer resolves storage-relative paths against a public object-storage base.
type Normalizer struct {
	// PublicBase is the public URL prefix of the artwork bucket,
	// e.g. https://project.example.co/storage/v1/object/public/artwork-images
	PublicBase string
	// DefaultDir is prepended to paths without a folder.
	DefaultDir string
}

// NewNormalizer creates a Normalizer for the given public bucket URL.
func NewNormalizer(publicBase string) *Normalizer {
	return &Normalizer{
		PublicBase: strings.TrimRight(publicBase, "/"),
		DefaultDir: DefaultDir,
	}
}

// Media is the canonical media of one artwork. ImageURL is nil when the
// artwork has no usable reference.
type Media struct {
	ImageURLs []string `json:"image_urls"`
	ImageURL  *string  `json:"image_url"`
}

// ImageURL resolves a single raw reference to one URL, or Placeholder.
func (n *Normalizer) ImageURL(raw any) string {
	switch t := raw.(type) {
	case nil:
		return Placeholder
	case string:
		return n.resolve(t)
	case *string:
		if t == nil {
			return Placeholder
		}
		return n.resolve(*t)
	case map[string]any, Ref, *Ref:
		r := Parse(t)
		if r.Kind != KindObject {
			return Placeholder
		}
		return n.ImageURL(r.Ref)
	case []string, []any:
		candidates := Parse(t).Candidates()
		if len(candidates) == 0 {
			return Placeholder
		}
		return n.resolve(candidates[0])
	default:
		return n.resolve(fmt.Sprint(t))
	}
}

func (n *Normalizer) resolve(s string) string {
	s = StripQuotes(s)
	if s == "" || isNullish(s) {
		return Placeholder
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if isHEIC(s) {
			log.Printf("media: HEIC/HEIF image %q may not render in a browser", s)
		}
		return s
	}
	if strings.HasPrefix(s, "data:") {
		return s
	}

	clean := strings.TrimLeft(s, "/")
	if clean == "" {
		return Placeholder
	}
	if !strings.Contains(clean, "/") {
		clean = n.DefaultDir + "/" + clean
	}
	if isHEIC(clean) {
		log.Printf("media: HEIC/HEIF image %q may not render in a browser", clean)
	}

	segments := strings.Split(clean, "/")
	for i, segment := range segments {
		segments[i] = escapeSegment(segment)
	}
	return n.PublicBase + "/" + strings.Join(segments, "/")
}

// ImageURLs flattens any supported representation and resolves each entry.
// Unresolvable entries are dropped; order and duplicates are kept.
func (n *Normalizer) ImageURLs(raw any) []string {
	urls := []string{}
	for _, candidate := range Parse(raw).Candidates() {
		if resolved := n.ImageURL(candidate); resolved != Placeholder {
			urls = append(urls, resolved)
		}
	}
	return urls
}

// Artwork combines the gallery and the legacy primary field. The primary image
// leads the gallery unless already present; duplicates keep their first position.
func (n *Normalizer) Artwork(a *models.Artwork) Media {
	if a == nil {
		return Media{ImageURLs: []string{}}
	}

	gallery := n.ImageURLs(a.ImageURLs)
	primary := n.ImageURL(a.ImageURL)

	combined := gallery
	if primary != Placeholder && !contains(gallery, primary) {
		combined = append([]string{primary}, gallery...)
	}

	seen := make(map[string]struct{}, len(combined))
	urls := make([]string, 0, len(combined))
	for _, u := range combined {
		if _, dup := seen[u]; dup || u == "" {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	m := Media{ImageURLs: urls}
	if len(urls) > 0 {
		m.ImageURL = &urls[0]
	}
	return m
}

// PrimaryOrPlaceholder returns the first canonical URL of an artwork, or Placeholder.
func (n *Normalizer) PrimaryOrPlaceholder(a *models.Artwork) string {
	if m := n.Artwork(a); m.ImageURL != nil {
		return *m.ImageURL
	}
	return Placeholder
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isHEIC(p string) bool {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	return ext == ".heic" || ext == ".heif"
}

// componentUnescaped are the characters url.QueryEscape encodes but a URI
// component encoder leaves as they are.
var componentUnescaped = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*", "+", "%20")

// escapeSegment percent-encodes one path segment as a URI component: only
// letters, digits and -_.!~*'() are kept.
func escapeSegment(segment string) string {
	return componentUnescaped.Replace(url.QueryEscape(segment))
}
