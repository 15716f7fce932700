// Package probe classifies filesystem paths without surfacing I/O errors.
//
// Every function here is total: a missing path, a permission error and a
// read on a directory all collapse to the negative result, so callers only
// branch on presence.
package probe

import "os"

// DirEntry is a single name read from a directory.
type DirEntry struct {
	// Name is the base name of the entry.
	Name string
	// IsDir reports whether the entry is itself a directory.
	IsDir bool
}

// DirInfo is the result of StatDirectory for a path that exists.
type DirInfo struct {
	IsDir bool
}

// Exists reports whether anything can be stat'ed at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StatDirectory stats path. ok is false when the path is missing or
// inaccessible.
func StatDirectory(path string) (info DirInfo, ok bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return DirInfo{}, false
	}
	return DirInfo{IsDir: fi.IsDir()}, true
}

// ReadFile returns the contents of path. ok is false on any error,
// including path being a directory.
func ReadFile(path string) (data []byte, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ReadDirectory lists path. The order of the returned entries is not
// specified; callers that render them must sort.
func ReadDirectory(path string) (entries []DirEntry, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	// ReadDir on *os.File keeps directory order, unlike os.ReadDir.
	des, err := f.ReadDir(-1)
	if err != nil {
		return nil, false
	}
	entries = make([]DirEntry, 0, len(des))
	for _, de := range des {
		entries = append(entries, DirEntry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, true
}
