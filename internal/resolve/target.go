package resolve

import "github.com/f4ah6o/servedir/internal/probe"

// Kind selects which response writer handles a Target.
type Kind int

const (
	// NotFound answers 404.
	NotFound Kind = iota
	// Redirect answers 302 to Location.
	Redirect
	// File serves Body with a content type derived from Ext.
	File
	// Listing renders Entries as an HTML index of Path.
	Listing
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case Redirect:
		return "redirect"
	case File:
		return "file"
	case Listing:
		return "listing"
	default:
		return "unknown"
	}
}

// Reason codes attached to NotFound targets. They are diagnostics only.
const (
	ReasonBadRequest = "bad-request"
	ReasonBadURL     = "bad-url"
	ReasonEscape     = "escape"
	ReasonMissing    = "missing"
	ReasonReadFailed = "empty-read-failed"
)

// Target is the outcome of resolving one request. Only the fields relevant
// to Kind are set.
type Target struct {
	Kind Kind

	// Reason is set for NotFound.
	Reason string
	// Location is the unescaped canonical path for Redirect.
	Location string

	// Path is the filesystem path of the file or listed directory.
	Path string
	// Ext is the extension used for the content type, including the dot.
	Ext string
	// Body holds the bytes already read for File.
	Body []byte

	// URLPath is the root-relative slash path of a listed directory,
	// with leading and trailing slashes.
	URLPath string
	// Entries holds the unsorted directory contents for Listing.
	Entries []probe.DirEntry
}

func notFound(reason string) Target {
	return Target{Kind: NotFound, Reason: reason}
}
