// Package pathutil maps request paths onto a bounded set of route templates
// for use as metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// UnmatchedLabel is returned for paths that match no known route.
const UnmatchedLabel = "/other"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// Patterns are evaluated in order.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/posts/[^/]+$`), Template: "/posts/:id"},
	{Pattern: regexp.MustCompile(`^/media/.+$`), Template: "/media/:key"},
	{Pattern: regexp.MustCompile(`^/swagger/.*$`), Template: "/swagger/*"},
}

var staticPaths = map[string]struct{}{
	"/":            {},
	"/signup":      {},
	"/login":       {},
	"/logout":      {},
	"/verify":      {},
	"/posts":       {},
	"/health":      {},
	"/health/live": {},
	"/metrics":     {},
}

// NormalizePath converts a request path into its route template:
//
//	NormalizePath("/posts/0b5c3f0e-3f4e-4f5a-9d55-6f1c2a9f1e11") // "/posts/:id"
//	NormalizePath("/media/articles/1700000000000-ab.jpg")       // "/media/:key"
//	NormalizePath("/login")                                     // "/login"
//	NormalizePath("/wp-admin.php")                              // "/other"
//
// Query strings and a trailing slash are ignored.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' && !strings.HasPrefix(path, "/swagger/") {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return UnmatchedLabel
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
