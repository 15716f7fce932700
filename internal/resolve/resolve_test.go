package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

// newTree builds:
//
//	<base>/www/a.txt
//	<base>/www/sub/index.html
//	<base>/www/list/b.txt
//	<base>/www/list/a/
//	<base>/www/with space/
//	<base>/wwwevil/secret.txt
func newTree(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	root := filepath.Join(base, "www")

	dirs := []string{
		root,
		filepath.Join(root, "sub"),
		filepath.Join(root, "list", "a"),
		filepath.Join(root, "with space"),
		filepath.Join(base, "wwwevil"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	files := map[string]string{
		filepath.Join(root, "a.txt"):                 "hello",
		filepath.Join(root, "sub", "index.html"):     "<h1>sub</h1>",
		filepath.Join(root, "list", "b.txt"):         "b",
		filepath.Join(base, "wwwevil", "secret.txt"): "secret",
	}
	for p, c := range files {
		if err := os.WriteFile(p, []byte(c), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}
	return root
}

func TestResolve(t *testing.T) {
	root := newTree(t)

	tests := []struct {
		name         string
		method       string
		url          string
		wantKind     Kind
		wantReason   string
		wantLocation string
		wantPath     string
		wantExt      string
	}{
		{name: "POST is rejected", method: "POST", url: "/a.txt", wantKind: NotFound, wantReason: ReasonBadRequest},
		{name: "HEAD is rejected", method: "HEAD", url: "/a.txt", wantKind: NotFound, wantReason: ReasonBadRequest},
		{name: "Empty URL", method: "GET", url: "", wantKind: NotFound, wantReason: ReasonBadRequest},
		{name: "Relative URL", method: "GET", url: "a.txt", wantKind: NotFound, wantReason: ReasonBadURL},
		{name: "Traversal", method: "GET", url: "/../../etc/passwd", wantKind: NotFound, wantReason: ReasonEscape},
		{name: "Encoded traversal", method: "GET", url: "/%2e%2e/%2e%2e/etc/passwd", wantKind: NotFound, wantReason: ReasonEscape},
		{name: "Prefix sibling", method: "GET", url: "/../wwwevil/secret.txt", wantKind: NotFound, wantReason: ReasonEscape},
		{name: "File", method: "GET", url: "/a.txt", wantKind: File, wantPath: filepath.Join(root, "a.txt"), wantExt: ".txt"},
		{name: "File with query", method: "GET", url: "/a.txt?v=1#frag", wantKind: File, wantPath: filepath.Join(root, "a.txt"), wantExt: ".txt"},
		{name: "Dot segments inside root", method: "GET", url: "/sub/../a.txt", wantKind: File, wantPath: filepath.Join(root, "a.txt"), wantExt: ".txt"},
		{name: "File with trailing slash", method: "GET", url: "/a.txt/", wantKind: NotFound, wantReason: ReasonMissing},
		{name: "Missing", method: "GET", url: "/nope.txt", wantKind: NotFound, wantReason: ReasonMissing},
		{name: "Directory without slash", method: "GET", url: "/sub", wantKind: Redirect, wantLocation: "/sub/"},
		{name: "Directory with doubled slash", method: "GET", url: "//sub/", wantKind: Redirect, wantLocation: "/sub/"},
		{name: "Non-normalized directory", method: "GET", url: "/list/a/../", wantKind: Redirect, wantLocation: "/list/"},
		{name: "Encoded directory name", method: "GET", url: "/with%20space", wantKind: Redirect, wantLocation: "/with space/"},
		{name: "Index file", method: "GET", url: "/sub/", wantKind: File, wantPath: filepath.Join(root, "sub", "index.html"), wantExt: ".html"},
		{name: "Listing", method: "GET", url: "/list/", wantKind: Listing, wantPath: filepath.Join(root, "list")},
		{name: "Root listing", method: "GET", url: "/", wantKind: Listing, wantPath: root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(root, tt.method, tt.url)
			if got.Kind != tt.wantKind {
				t.Fatalf("Resolve(%q).Kind = %v, want %v (reason %q)", tt.url, got.Kind, tt.wantKind, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got.Location, tt.wantLocation)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Ext != tt.wantExt {
				t.Errorf("Ext = %q, want %q", got.Ext, tt.wantExt)
			}
		})
	}
}

func TestResolveFileBody(t *testing.T) {
	root := newTree(t)

	got := Resolve(root, "GET", "/a.txt")
	if string(got.Body) != "hello" {
		t.Errorf("Body = %q, want %q", got.Body, "hello")
	}
}

func TestResolveListingEntries(t *testing.T) {
	root := newTree(t)

	got := Resolve(root, "GET", "/list/")
	if got.URLPath != "/list/" {
		t.Errorf("URLPath = %q, want %q", got.URLPath, "/list/")
	}
	seen := map[string]bool{}
	for _, e := range got.Entries {
		seen[e.Name] = e.IsDir
	}
	if isDir, ok := seen["a"]; !ok || !isDir {
		t.Errorf("Entries = %+v, want directory %q", got.Entries, "a")
	}
	if isDir, ok := seen["b.txt"]; !ok || isDir {
		t.Errorf("Entries = %+v, want file %q", got.Entries, "b.txt")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name      string
		root      string
		candidate string
		want      bool
	}{
		{name: "Root itself", root: "/srv/www", candidate: "/srv/www", want: true},
		{name: "Child", root: "/srv/www", candidate: "/srv/www/a.txt", want: true},
		{name: "Parent", root: "/srv/www", candidate: "/srv", want: false},
		{name: "Sibling with shared prefix", root: "/srv/www", candidate: "/srv/wwwevil", want: false},
		{name: "Filesystem root", root: "/", candidate: "/etc/passwd", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.FromSlash(tt.root)
			candidate := filepath.FromSlash(tt.candidate)
			if got := Contains(root, candidate); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", root, candidate, got, tt.want)
			}
		})
	}
}

func TestCanonicalDirPath(t *testing.T) {
	root := filepath.FromSlash("/srv/www")

	tests := []struct {
		dir  string
		want string
	}{
		{dir: "/srv/www", want: "/"},
		{dir: "/srv/www/sub", want: "/sub/"},
		{dir: "/srv/www/a/b", want: "/a/b/"},
	}
	for _, tt := range tests {
		if got := CanonicalDirPath(root, filepath.FromSlash(tt.dir)); got != tt.want {
			t.Errorf("CanonicalDirPath(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := Listing.String(); got != "listing" {
		t.Errorf("Listing.String() = %q, want %q", got, "listing")
	}
}

func TestResolveUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory read permissions")
	}
	root := newTree(t)
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0o311); err != nil {
		t.Fatalf("Failed to create locked dir: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	got := Resolve(root, "GET", "/locked/")
	if got.Kind != NotFound || got.Reason != ReasonReadFailed {
		t.Errorf("Resolve(/locked/) = %v %q, want %v %q", got.Kind, got.Reason, NotFound, ReasonReadFailed)
	}
}
