package cssom

import (
	"net/url"
	"weak"
)

// ImportSource is implemented by rules of a compiled document which
// reference another sheet, i.e. @import rules.
type ImportSource interface {
	Rule
	Href() string      // URL as written in the rule
	MediaList() string // media query list following the URL
	Key() any          // identity of the underlying rule; comparable and stable
}

// ImportRule is an @import rule of a sheet. It owns the child sheet it
// references. The child points back to the rule and to its parent sheet
// with weak pointers only.
type ImportRule struct {
	key    any // Key() of the rule in the compiled document
	href   string
	media  string
	parent weak.Pointer[Sheet]
	sheet  *Sheet
}

// Href returns the URL as written in the @import rule.
func (r *ImportRule) Href() string {
	return r.href
}

// Media returns the media query list of the @import rule.
func (r *ImportRule) Media() string {
	return r.media
}

// ParentStyleSheet returns the sheet containing r, or nil if it is gone.
func (r *ImportRule) ParentStyleSheet() *Sheet {
	return r.parent.Value()
}

// StyleSheet returns the child sheet r references.
func (r *ImportRule) StyleSheet() *Sheet {
	return r.sheet
}

// URL resolves the href of r against the base URL of the parent sheet.
func (r *ImportRule) URL() (*url.URL, error) {
	ref, err := url.Parse(r.href)
	if err != nil {
		return nil, err
	}
	if p := r.ParentStyleSheet(); p != nil {
		if d := p.URLData(); d != nil && d.BaseURL != nil {
			return d.BaseURL.ResolveReference(ref), nil
		}
	}
	return ref, nil
}

// Imports returns the @import rules of s, in document order.
func (s *Sheet) Imports() []*ImportRule {
	s.syncImports()
	return s.imports
}

// PendingImports returns the number of @import children which have not yet
// completed loading.
func (s *Sheet) PendingImports() int {
	s.syncImports()
	n := 0
	for _, imp := range s.imports {
		if imp.sheet.State() == Unloaded {
			n++
		}
	}
	return n
}

// ImportsComplete is true if s is loaded and all of its @import children
// have completed loading (successfully or not).
func (s *Sheet) ImportsComplete() bool {
	return s.State() != Unloaded && s.PendingImports() == 0
}

// syncImports brings the @import children of s in line with the leading
// @import rules of the compiled document. Rules are matched to children by
// their key, not by position, as other clones may have inserted or deleted
// rules in the meantime. Children of rules no longer in the document are
// closed.
func (s *Sheet) syncImports() {
	if s.closed || (s.importsOK && s.importGen == s.inner.Generation()) {
		return
	}
	doc, ok := s.inner.Document().Get()
	if !ok {
		return
	}
	old := make(map[any]*ImportRule, len(s.imports))
	for _, imp := range s.imports {
		old[imp.key] = imp
	}
	sources := leadingImports(doc)
	keys := make(map[any]bool, len(sources))
	imports := make([]*ImportRule, 0, len(sources))
	for _, src := range sources {
		key := src.Key()
		keys[key] = true
		if imp, ok := old[key]; ok {
			delete(old, key)
			imports = append(imports, imp)
			continue
		}
		imports = append(imports, s.newImport(src))
	}
	for _, imp := range old {
		tracer().P("import", imp.href).Debugf("@import rule is gone, closing child sheet")
		imp.sheet.Close()
	}
	s.inner.pruneChildren(keys)
	s.imports = imports
	s.importGen, s.importsOK = s.inner.Generation(), true
}

// leadingImports returns the @import rules of doc which precede all other
// rules except @charset. @import rules following other rules are invalid
// and ignored.
func leadingImports(doc Compiled) []ImportSource {
	var sources []ImportSource
	i := 0
	for ; i < doc.Len(); i++ {
		r := doc.Rule(i)
		if src, ok := r.(ImportSource); ok {
			sources = append(sources, src)
			continue
		}
		if r != nil && r.Name() == "@charset" {
			continue
		}
		break
	}
	for ; i < doc.Len(); i++ {
		if _, ok := doc.Rule(i).(ImportSource); ok {
			tracer().Infof("ignoring misplaced @import at index %d", i)
		}
	}
	return sources
}

// newImport creates an @import rule of s, together with its child sheet.
// The child shares its inner data with the children of all clones of s.
func (s *Sheet) newImport(src ImportSource) *ImportRule {
	rule := &ImportRule{key: src.Key(), href: src.Href(), media: src.MediaList()}
	child := newSheet(s.engine, s.mode, s.inner.childInner(rule.key))
	child.media = rule.media
	s.link(rule, child)
	return rule
}

// link connects rule and its child sheet to s.
func (s *Sheet) link(rule *ImportRule, child *Sheet) {
	rule.parent = weak.Make(s)
	rule.sheet = child
	child.parent = weak.Make(s)
	child.ownerRule = weak.Make(rule)
	child.document = s.document
}
