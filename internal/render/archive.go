package render

import (
	"archive/zip"
	"fmt"
	"io"
)

// Entry is one named blob inside the output archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive is the ordered collection of rendered documents. Entries keep
// insertion order (table row order); nothing re-sorts them.
type Archive struct {
	entries []Entry
	names   map[string]struct{}
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{names: make(map[string]struct{})}
}

// Add appends an entry.
func (a *Archive) Add(name string, data []byte) {
	a.entries = append(a.entries, Entry{Name: name, Data: data})
	a.names[name] = struct{}{}
}

// Contains reports whether an entry with the given name exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.names[name]
	return ok
}

// Len returns the number of entries.
func (a *Archive) Len() int { return len(a.entries) }

// Entries returns the entries in insertion order.
func (a *Archive) Entries() []Entry { return a.entries }

// WriteZip serializes the archive as a zip stream.
func (a *Archive) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range a.entries {
		// The entries are themselves zip packages; Store avoids
		// recompressing them.
		f, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", e.Name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
