// Package docx reads and rewrites .docx template packages. A template is
// treated as an opaque zip of XML parts; only the text-bearing parts
// (document body, headers, footers) are inspected, and only their
// paragraph text is rewritten, so all styling and every other part pass
// through byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Document is one opened template package. Open parses a fresh Document
// from the template blob, so the blob itself is never mutated and can be
// reused across rows.
type Document struct {
	parts []part
}

type part struct {
	name string
	data []byte
}

// Open reads a .docx blob into a Document.
func Open(blob []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("failed to open document package: %w", err)
	}

	doc := &Document{parts: make([]part, 0, len(zr.File))}
	found := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		if f.Name == "word/document.xml" {
			found = true
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: data})
	}
	if !found {
		return nil, fmt.Errorf("not a word document: missing word/document.xml")
	}
	return doc, nil
}

// Substitute rewrites every [[name]] token in the document's text-bearing
// parts from the field map. Unknown tokens are replaced with the empty
// string; after one pass no token syntax remains, so a second pass is a
// no-op.
func (d *Document) Substitute(fields map[string]string) {
	for i := range d.parts {
		if !textBearing(d.parts[i].name) {
			continue
		}
		d.parts[i].data = rewriteParagraphs(d.parts[i].data, fields)
	}
}

// Bytes serializes the document back into a .docx blob.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document package: %w", err)
	}
	return buf.Bytes(), nil
}

// textBearing reports whether a part holds substitutable paragraphs:
// the main body plus header and footer parts.
func textBearing(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}
