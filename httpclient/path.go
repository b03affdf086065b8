package httpclient

import (
	"fmt"
	"strings"
)

// Path is an immutable, ordered list of URL path segments.
//
// Rendering never produces a doubled separator, and a path with no
// non-empty segments renders as the empty string.
//
//	NewPath("one", "two").String()    // "/one/two"
//	NewPath("/one/two/three").String() // "/one/two/three"
//	NewPath("").String()              // ""
type Path struct {
	segments []string
}

// NewPath creates a Path from segments. A single leading "/" is stripped
// from each segment before it is stored.
func NewPath(segments ...string) Path {
	p := Path{segments: make([]string, 0, len(segments))}
	for _, s := range segments {
		p.segments = append(p.segments, strings.TrimPrefix(s, "/"))
	}
	return p
}

// PathSegment formats v (typically an identifier) as a path segment.
func PathSegment(v any) string {
	return fmt.Sprint(v)
}

// Append returns a new Path with segments added to the end.
func (p Path) Append(segments ...string) Path {
	return p.Join(NewPath(segments...))
}

// Join returns a new Path containing p's segments followed by other's.
func (p Path) Join(other Path) Path {
	out := Path{segments: make([]string, 0, len(p.segments)+len(other.segments))}
	out.segments = append(out.segments, p.segments...)
	out.segments = append(out.segments, other.segments...)
	return out
}

// Segments returns a copy of the stored segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsEmpty reports whether the path renders as the empty string.
func (p Path) IsEmpty() bool {
	return p.String() == ""
}

// Equal reports whether both paths render identically.
func (p Path) Equal(other Path) bool {
	return p.String() == other.String()
}

// String renders the path.
func (p Path) String() string {
	parts := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		for _, piece := range strings.Split(s, "/") {
			if piece != "" {
				parts = append(parts, piece)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}
