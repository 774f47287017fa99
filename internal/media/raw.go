package media

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Kind tags the stored representation a raw media value arrived in.
type Kind int

const (
	KindEmpty Kind = iota
	KindPlain
	KindDataURL
	KindJSON
	KindArrayLiteral
	KindCSV
	KindList
	KindObject
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPlain:
		return "plain"
	case KindDataURL:
		return "data-url"
	case KindJSON:
		return "json"
	case KindArrayLiteral:
		return "array-literal"
	case KindCSV:
		return "csv"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Ref is a media reference object exposing one of url, path or src.
type Ref struct {
	URL  string `json:"url,omitempty"`
	Path string `json:"path,omitempty"`
	Src  string `json:"src,omitempty"`
}

func (r Ref) value() string {
	switch {
	case r.URL != "":
		return r.URL
	case r.Path != "":
		return r.Path
	default:
		return r.Src
	}
}

// Raw is one parsed media value. Text carries the payload for string kinds
// (the inner text for array literals), Items for lists, Ref for objects.
type Raw struct {
	Kind  Kind
	Text  string
	Items []any
	Ref   any
}

// Parse classifies a stored media value without resolving it.
func Parse(v any) Raw {
	switch t := v.(type) {
	case nil:
		return Raw{Kind: KindEmpty}
	case string:
		return parseString(t)
	case *string:
		if t == nil {
			return Raw{Kind: KindEmpty}
		}
		return parseString(*t)
	case json.RawMessage:
		return parseString(string(t))
	case []byte:
		return parseString(string(t))
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return Raw{Kind: KindList, Items: items}
	case []any:
		return Raw{Kind: KindList, Items: t}
	case map[string]any:
		if ref, ok := objectRef(t); ok {
			return Raw{Kind: KindObject, Ref: ref}
		}
		return Raw{Kind: KindEmpty}
	case Ref:
		if ref := t.value(); ref != "" {
			return Raw{Kind: KindObject, Ref: ref}
		}
		return Raw{Kind: KindEmpty}
	case *Ref:
		if t == nil {
			return Raw{Kind: KindEmpty}
		}
		return Parse(*t)
	case fmt.Stringer:
		return parseString(t.String())
	default:
		return Raw{Kind: KindEmpty}
	}
}

// objectRef picks the first truthy url, path or src property.
func objectRef(m map[string]any) (any, bool) {
	for _, key := range []string{"url", "path", "src"} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func parseString(s string) Raw {
	s = StripQuotes(s)
	switch {
	case s == "" || isNullish(s):
		return Raw{Kind: KindEmpty}
	case strings.HasPrefix(s, "data:"):
		return Raw{Kind: KindDataURL, Text: s}
	case isWrapped(s, '[', ']') || isWrapped(s, '{', '}'):
		if json.Valid([]byte(s)) {
			return Raw{Kind: KindJSON, Text: s}
		}
		// Not JSON: a Postgres text[] literal or a bracketed list with bare values.
		return Raw{Kind: KindArrayLiteral, Text: s[1 : len(s)-1]}
	case strings.Contains(s, ","):
		return Raw{Kind: KindCSV, Text: s}
	default:
		return Raw{Kind: KindPlain, Text: s}
	}
}

// isNullish matches the strings a client writes when it stringifies a missing
// or object value.
func isNullish(s string) bool {
	switch strings.ToLower(s) {
	case "null", "undefined", "[object object]":
		return true
	}
	return false
}

func isWrapped(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

// Candidates flattens the value into unresolved path or URL strings, in order.
func (r Raw) Candidates() []string {
	switch r.Kind {
	case KindPlain, KindDataURL:
		return []string{r.Text}
	case KindJSON:
		var decoded any
		if err := json.Unmarshal([]byte(r.Text), &decoded); err != nil {
			return []string{r.Text}
		}
		return Parse(decoded).Candidates()
	case KindArrayLiteral, KindCSV:
		var out []string
		for _, part := range splitUnquoted(r.Text) {
			out = append(out, Parse(StripQuotes(part)).Candidates()...)
		}
		return out
	case KindList:
		var out []string
		for _, item := range r.Items {
			out = append(out, Parse(item).Candidates()...)
		}
		return out
	case KindObject:
		if s, ok := r.Ref.(string); ok {
			return Parse(StripQuotes(s)).Candidates()
		}
		return Parse(r.Ref).Candidates()
	default:
		return nil
	}
}

// splitUnquoted splits on commas that sit outside double quotes.
func splitUnquoted(s string) []string {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ',' && !quoted:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(parts, current.String())
}

var (
	escapedDouble = regexp.MustCompile(`\\+"`)
	escapedSingle = regexp.MustCompile(`\\+'`)
)

// StripQuotes trims the value, unescapes backslash-escaped quotes and then
// removes matching wrapping quote characters until none remain.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = escapedDouble.ReplaceAllString(s, `"`)
	s = escapedSingle.ReplaceAllString(s, `'`)

	for len(s) > 1 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'' && first != '`') {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
