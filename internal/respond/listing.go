package respond

import (
	"bytes"
	"net/url"
	"slices"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/f4ah6o/servedir/internal/probe"
)

// SortEntries returns a copy of entries with directories first, each group
// ordered by collated name. Names that collate equal fall back to byte order
// so the result is deterministic.
func SortEntries(entries []probe.DirEntry) []probe.DirEntry {
	sorted := slices.Clone(entries)

	// Collators keep internal buffers; one per call keeps this goroutine-safe.
	// The root collator weighs case only at the tertiary level, so "Zeta"
	// sorts after "b.txt" rather than before it as in byte order.
	c := collate.New(language.Und)
	slices.SortStableFunc(sorted, func(a, b probe.DirEntry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return sorted
}

// renderListing builds the HTML index page for the directory served at
// urlPath. Entry links are relative, so urlPath must end in a slash.
func renderListing(urlPath string, entries []probe.DirEntry) ([]byte, error) {
	list := element(atom.Ul)
	for _, e := range SortEntries(entries) {
		name := e.Name
		href := "./" + url.PathEscape(e.Name)
		if e.IsDir {
			name += "/"
			href += "/"
		}
		a := element(atom.A, html.Attribute{Key: "href", Val: href})
		a.AppendChild(text(name))
		li := element(atom.Li)
		li.AppendChild(a)
		list.AppendChild(li)
	}

	title := element(atom.Title)
	title.AppendChild(text(urlPath))
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(title)

	h1 := element(atom.H1)
	h1.AppendChild(text(urlPath))
	body := element(atom.Body)
	body.AppendChild(h1)
	body.AppendChild(list)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
