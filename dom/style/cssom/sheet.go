package cssom

import (
	"runtime"
	"strings"
	"weak"

	"golang.org/x/net/html"
)

// CompatMode is the compatibility mode of a document.
type CompatMode int8

// Compatibility modes.
const (
	Standards CompatMode = iota
	AlmostStandards
	Quirks
)

func (m CompatMode) String() string {
	switch m {
	case AlmostStandards:
		return "almost-standards"
	case Quirks:
		return "quirks"
	}
	return "standards"
}

// ParseCompatMode parses a compatibility mode name. The empty string maps
// to Standards.
func ParseCompatMode(s string) (CompatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standards", "no-quirks":
		return Standards, nil
	case "almost-standards", "limited-quirks":
		return AlmostStandards, nil
	case "quirks":
		return Quirks, nil
	}
	return Standards, &ValueError{Type: "CompatMode", Value: s}
}

// ParsingMode is the origin of a sheet.
type ParsingMode int8

// Parsing modes.
const (
	AuthorSheet ParsingMode = iota
	UserSheet
	AgentSheet
)

func (m ParsingMode) String() string {
	switch m {
	case UserSheet:
		return "user"
	case AgentSheet:
		return "agent"
	}
	return "author"
}

// Sheet is a CSS style sheet object. It is a handle for a compiled
// document, which it shares with all its clones.
//
// A Sheet has to complete the load protocol (see ParseSheet and LoadFailed)
// before it may be queried.
type Sheet struct {
	engine    Engine
	inner     *Inner
	rules     *RuleList                // built lazily
	parent    weak.Pointer[Sheet]      // parent sheet for @import children
	ownerRule weak.Pointer[ImportRule] // @import rule referencing this sheet
	document  weak.Pointer[Document]   // owning document
	node      weak.Pointer[html.Node]  // owning <style> or <link> element
	mode      ParsingMode
	disabled  bool
	alternate bool
	title     string
	media     string
	imports   []*ImportRule
	importsOK bool   // imports are in line with the document
	importGen uint64 // generation of the document imports were synced with
	cleanup   runtime.Cleanup
	closed    bool
}

// NewSheet creates an unloaded sheet. The sheet will use engine to parse
// its text.
func NewSheet(engine Engine, mode ParsingMode, cors CORSMode, referrer ReferrerPolicy,
	integrity Integrity) *Sheet {
	//
	return newSheet(engine, mode, NewInner(cors, referrer, integrity))
}

func newSheet(engine Engine, mode ParsingMode, inner *Inner) *Sheet {
	s := &Sheet{engine: engine, inner: inner, mode: mode}
	inner.retain()
	// A sheet nobody closes still has to give back its share of the inner.
	// The cleanup must not reference s.
	s.cleanup = runtime.AddCleanup(s, func(in *Inner) { in.release() }, inner)
	return s
}

// State returns the load state of the sheet.
func (s *Sheet) State() LoadState {
	return s.inner.State()
}

// Inner returns the shared inner data of s.
func (s *Sheet) Inner() *Inner {
	return s.inner
}

// RawDocument returns the compiled document, or nil if s is not loaded.
func (s *Sheet) RawDocument() Compiled {
	if s.closed {
		return nil
	}
	return s.inner.Document().WithDefault(nil)
}

// URLData returns URL information of a completed load, or nil.
func (s *Sheet) URLData() *URLData {
	return s.inner.URLData()
}

// Href returns the URL of the sheet, or the empty string for inline sheets.
func (s *Sheet) Href() string {
	if d := s.inner.URLData(); d != nil && d.SheetURL != nil {
		return d.SheetURL.String()
	}
	return ""
}

// ParsingMode returns the origin of the sheet.
func (s *Sheet) ParsingMode() ParsingMode {
	return s.mode
}

// Parent returns the parent sheet of an @import child, or nil. nil is
// also returned if the parent is gone.
func (s *Sheet) Parent() *Sheet {
	return s.parent.Value()
}

// OwnerRule returns the @import rule referencing s, or nil.
func (s *Sheet) OwnerRule() *ImportRule {
	return s.ownerRule.Value()
}

// OwningDocument returns the document s belongs to, or nil.
func (s *Sheet) OwningDocument() *Document {
	return s.document.Value()
}

// OwningNode returns the HTML element s belongs to, or nil.
func (s *Sheet) OwningNode() *html.Node {
	return s.node.Value()
}

// SetOwningNode links s to a <style> or <link> element.
func (s *Sheet) SetOwningNode(n *html.Node) {
	s.node = weak.Make(n)
}

// Disabled reports whether s is disabled.
func (s *Sheet) Disabled() bool {
	return s.disabled
}

// SetDisabled enables or disables s.
func (s *Sheet) SetDisabled(disabled bool) {
	s.disabled = disabled
}

// Title returns the advisory title of s.
func (s *Sheet) Title() string {
	return s.title
}

// SetTitle sets the advisory title of s.
func (s *Sheet) SetTitle(title string) {
	s.title = title
}

// Media returns the media query list of s.
func (s *Sheet) Media() string {
	return s.media
}

// SetMedia sets the media query list of s.
func (s *Sheet) SetMedia(media string) {
	s.media = media
}

// IsAlternate reports whether s is an alternate style sheet.
func (s *Sheet) IsAlternate() bool {
	return s.alternate
}

// SetAlternate marks s as an alternate style sheet.
func (s *Sheet) SetAlternate(alternate bool) {
	s.alternate = alternate
}

// IsModified is always false. Modification tracking is not implemented.
func (s *Sheet) IsModified() bool {
	return false
}

// HasRules reports whether s is loaded and contains at least one rule.
// It may be called in any state.
func (s *Sheet) HasRules() bool {
	if s.closed {
		return false
	}
	doc, ok := s.inner.Document().Get()
	return ok && doc.Len() > 0
}

// Closed reports whether Close has been called.
func (s *Sheet) Closed() bool {
	return s.closed
}

// Close finalizes s: its rule list is dropped and its share of the inner
// data is released. Closing the last sheet referencing an inner releases the
// compiled document. Close also closes all @import children. Sheets may be
// closed in any state, including Unloaded.
func (s *Sheet) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.dropRuleList()
	for _, imp := range s.imports {
		if imp.sheet != nil {
			imp.sheet.Close()
		}
	}
	s.cleanup.Stop()
	if n := s.inner.release(); n == 0 {
		tracer().P("state", s.inner.State()).Debugf("sheet closed, compiled document released")
	} else {
		tracer().P("state", s.inner.State()).Debugf("sheet closed, %d references left", n)
	}
}

func (s *Sheet) String() string {
	href := s.Href()
	if href == "" {
		href = "inline"
	}
	return "Sheet(" + href + ", " + s.State().String() + ")"
}
