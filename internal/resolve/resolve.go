// Package resolve maps a request onto the filesystem under a root directory.
//
// Resolve is the only security boundary of the server: every candidate path
// is cleaned first and then required to stay inside the root.
package resolve

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/f4ah6o/servedir/internal/probe"
)

// IndexFile is served in place of a listing when a directory contains it.
const IndexFile = "index.html"

// Resolve decides how to answer method rawURL against root. root must be an
// absolute, clean path (config.Config.Validate guarantees this).
//
// The steps run in order and the first one that produces a target wins:
// method and URL checks, containment, a regular file, the trailing-slash
// redirect for directories, index.html, and finally the directory listing.
func Resolve(root, method, rawURL string) Target {
	if method != http.MethodGet || rawURL == "" {
		return notFound(ReasonBadRequest)
	}

	// Request targets never carry fragments; drop one if a caller passes it.
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Path == "" {
		return notFound(ReasonBadURL)
	}
	pathname := u.Path

	candidate := filepath.Join(root, filepath.FromSlash(pathname))
	if !Contains(root, candidate) {
		return notFound(ReasonEscape)
	}

	// Join drops a trailing slash; keep it for the lookups so that "/a.txt/"
	// does not resolve to the file a.txt.
	lookup := candidate
	if strings.HasSuffix(pathname, "/") && candidate != root {
		lookup += string(filepath.Separator)
	}

	if data, ok := probe.ReadFile(lookup); ok {
		return Target{Kind: File, Path: candidate, Ext: filepath.Ext(candidate), Body: data}
	}

	info, ok := probe.StatDirectory(lookup)
	if !ok || !info.IsDir {
		return notFound(ReasonMissing)
	}

	expected := CanonicalDirPath(root, candidate)
	if pathname != expected {
		return Target{Kind: Redirect, Location: expected}
	}

	index := filepath.Join(candidate, IndexFile)
	if data, ok := probe.ReadFile(index); ok {
		return Target{Kind: File, Path: index, Ext: ".html", Body: data}
	}

	entries, ok := probe.ReadDirectory(candidate)
	if !ok {
		return notFound(ReasonReadFailed)
	}
	return Target{Kind: Listing, Path: candidate, URLPath: expected, Entries: entries}
}

// Contains reports whether the cleaned path candidate lies inside root.
// A plain string prefix is not enough: "/srv/www" must not admit
// "/srv/wwwevil", so the byte after the prefix has to be a separator.
func Contains(root, candidate string) bool {
	if candidate == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(candidate, prefix)
}

// CanonicalDirPath returns the URL path a directory must be requested by:
// root-relative, slash separated, with a leading and trailing slash.
// The root itself is "/".
func CanonicalDirPath(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel) + "/"
}
