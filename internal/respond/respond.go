// Package respond writes the HTTP responses chosen by the resolver.
//
// Each writer sends exactly one response; calling two writers for the same
// request is a bug in the caller.
package respond

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/f4ah6o/servedir/internal/probe"
)

// InternalErrorBody is the fixed body of every 500 response.
const InternalErrorBody = "Internal server error"

// Writer holds the per-server response settings.
type Writer struct {
	// ETag enables content hashing and 304 answers.
	ETag bool
	// Expires is added to Now for the Expires header; zero disables it.
	Expires time.Duration
	// ShowReasons appends the reason code to 404 bodies.
	ShowReasons bool
	// Logger receives warnings. Nil uses the standard logger.
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (wr *Writer) logf(format string, args ...any) {
	if wr.Logger != nil {
		wr.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (wr *Writer) now() time.Time {
	if wr.Now != nil {
		return wr.Now()
	}
	return time.Now()
}

// File sends body as the representation of a file with extension ext,
// honoring If-None-Match when ETags are enabled.
func (wr *Writer) File(w http.ResponseWriter, r *http.Request, ext string, body []byte) {
	h := w.Header()

	ct, known := ContentType(ext)
	if !known {
		wr.logf("WARN: no content type for extension %q", ext)
	}
	if ct != "" {
		h.Set("Content-Type", ct)
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))

	if wr.Expires > 0 {
		h.Set("Expires", wr.now().Add(wr.Expires).UTC().Format(http.TimeFormat))
	}

	if wr.ETag {
		tag := ETag(body)
		h.Set("ETag", tag)
		if matchesETag(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		wr.logf("write response: %v", err)
	}
}

// Directory renders entries as an HTML listing of urlPath and sends it
// through File, so ETag and Expires apply to listings as well. Nothing is
// written when rendering fails.
func (wr *Writer) Directory(w http.ResponseWriter, r *http.Request, urlPath string, entries []probe.DirEntry) error {
	page, err := renderListing(urlPath, entries)
	if err != nil {
		return fmt.Errorf("render listing %s: %w", urlPath, err)
	}
	wr.File(w, r, ".html", page)
	return nil
}

// Redirect answers 302 to location, an unescaped absolute URL path.
func (wr *Writer) Redirect(w http.ResponseWriter, location string) {
	escaped := (&url.URL{Path: location}).EscapedPath()
	w.Header().Set("Location", escaped)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusFound)
	fmt.Fprintf(w, "Redirecting to %s\n", escaped)
}

// NotFound answers 404. reason is only shown when ShowReasons is set.
func (wr *Writer) NotFound(w http.ResponseWriter, reason string) {
	body := "Not found"
	if wr.ShowReasons && reason != "" {
		body += ": " + reason
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(body))
}

// InternalError answers 500 with a fixed body.
func InternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(InternalErrorBody)))
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(InternalErrorBody))
}

// ETag returns the quoted SHA-256 hex digest of body.
func ETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// matchesETag reports whether an If-None-Match header value selects tag.
// Comparison is weak, and a bare unquoted digest also matches.
func matchesETag(header, tag string) bool {
	if header == "" {
		return false
	}
	bare := strings.Trim(tag, `"`)
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == tag || candidate == bare {
			return true
		}
	}
	return false
}
