package cssom

import (
	"net/url"
	"slices"
	"weak"

	"golang.org/x/net/html"
)

// Document is the owner of an ordered collection of style sheets, together
// with the HTML tree they have been found in. The document holds its sheets
// strongly; sheets refer back to the document with weak pointers only.
type Document struct {
	root   *html.Node
	url    *url.URL
	compat CompatMode
	sheets []*Sheet
}

// NewDocument creates a document for an HTML parse tree. Both arguments may
// be nil.
func NewDocument(root *html.Node, docURL *url.URL) *Document {
	return &Document{root: root, url: docURL}
}

// Root returns the HTML root node of d.
func (d *Document) Root() *html.Node {
	return d.root
}

// URL returns the URL of d, which is the base URL for its sheets.
func (d *Document) URL() *url.URL {
	return d.url
}

// CompatMode returns the compatibility mode of d.
func (d *Document) CompatMode() CompatMode {
	return d.compat
}

// SetCompatMode sets the compatibility mode of d.
func (d *Document) SetCompatMode(m CompatMode) {
	d.compat = m
}

// AddSheet appends s to the sheets of d. s must have completed the load
// protocol, otherwise an error of kind NotReady is returned. If s has no
// owning document yet, d becomes its owner.
func (d *Document) AddSheet(s *Sheet) error {
	if s == nil || s.closed {
		return NewError(NotReady, "add-sheet", "sheet is closed")
	}
	if st := s.State(); st == Unloaded {
		return NewError(NotReady, "add-sheet", "sheet is %s", st)
	}
	if slices.Contains(d.sheets, s) {
		return nil
	}
	if s.OwningDocument() == nil {
		s.document = weak.Make(d)
	}
	d.sheets = append(d.sheets, s)
	return nil
}

// RemoveSheet removes s from d without closing it. It returns false if s is
// not a sheet of d.
func (d *Document) RemoveSheet(s *Sheet) bool {
	i := slices.Index(d.sheets, s)
	if i < 0 {
		return false
	}
	d.sheets = slices.Delete(d.sheets, i, i+1)
	return true
}

// StyleSheets returns the sheets of d, in document order.
func (d *Document) StyleSheets() []*Sheet {
	return slices.Clone(d.sheets)
}

// EnabledSheets returns the sheets of d which are neither disabled nor
// alternate, in document order.
func (d *Document) EnabledSheets() []*Sheet {
	var enabled []*Sheet
	for _, s := range d.sheets {
		if !s.disabled && !s.alternate {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Close closes all sheets of d and forgets about them.
func (d *Document) Close() {
	for _, s := range d.sheets {
		s.Close()
	}
	d.sheets = nil
}
