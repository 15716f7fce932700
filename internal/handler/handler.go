// Package handler exposes the static file server as an http.Handler.
package handler

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/f4ah6o/servedir/internal/config"
	"github.com/f4ah6o/servedir/internal/resolve"
	"github.com/f4ah6o/servedir/internal/respond"
)

// Handler serves files below a fixed root directory. It is safe for
// concurrent use; nothing in it changes after New returns.
type Handler struct {
	cfg    config.Config
	writer *respond.Writer
	logger *log.Logger
}

// New validates cfg and builds a Handler. It fails when the root directory
// does not exist or is not a directory. A nil logger writes to stderr.
func New(cfg config.Config, logger *log.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create handler: %w", err)
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Handler{
		cfg:    cfg,
		logger: logger,
		writer: &respond.Writer{
			ETag:        cfg.ETag,
			Expires:     cfg.Expires.Duration(),
			ShowReasons: cfg.ShowReasons,
			Logger:      logger,
		},
	}, nil
}

// Root returns the canonical root directory being served.
func (h *Handler) Root() string {
	return h.cfg.RootDir
}

// ServeHTTP resolves the request and writes exactly one response. Panics
// and writer errors become a logged 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w}

	defer func() {
		if v := recover(); v != nil {
			h.fail(sw, r, fmt.Errorf("panic: %v", v))
		}
		h.logger.Printf("%s %s -> %d (%s)", r.Method, r.RequestURI, sw.status(), time.Since(start).Round(time.Microsecond))
	}()

	if err := h.serve(sw, r); err != nil {
		h.fail(sw, r, err)
	}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) error {
	// r.URL rather than r.RequestURI, so wrappers such as http.StripPrefix
	// that rewrite the URL are honored.
	var rawURL string
	if r.URL != nil {
		rawURL = r.URL.RequestURI()
	}

	target := resolve.Resolve(h.cfg.RootDir, r.Method, rawURL)
	switch target.Kind {
	case resolve.File:
		h.writer.File(w, r, target.Ext, target.Body)
	case resolve.Listing:
		return h.writer.Directory(w, r, target.URLPath, target.Entries)
	case resolve.Redirect:
		h.writer.Redirect(w, target.Location)
	case resolve.NotFound:
		h.writer.NotFound(w, target.Reason)
	default:
		return fmt.Errorf("unhandled target kind %v", target.Kind)
	}
	return nil
}

// fail logs err and sends a 500 unless a response was already started, in
// which case the connection is left to finish as is.
func (h *Handler) fail(w *statusWriter, r *http.Request, err error) {
	h.logger.Printf("ERROR: %s %s: %v", r.Method, r.RequestURI, err)
	if w.wroteHeader {
		return
	}
	// Drop whatever the failed writer had staged.
	for k := range w.Header() {
		delete(w.Header(), k)
	}
	respond.InternalError(w)
}

// statusWriter remembers whether and with which status a response started.
type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) status() int {
	if !w.wroteHeader {
		return http.StatusOK
	}
	return w.code
}
