package cssom

import (
	"weak"

	"golang.org/x/net/html"
)

// Clone creates a new sheet sharing the inner data, and therefore the
// compiled document and the load state, of s. The clone gets its own rule
// list (built lazily), copies of the wrapper-local flags of s, and the
// back-references given as arguments. Any of the arguments may be nil.
//
// @import children of s are cloned as well, with the clone as their parent.
//
// Clone never re-runs the load protocol: a clone of a loaded sheet is
// loaded, a clone of a failed sheet has failed, and a clone of an unloaded
// sheet will complete loading together with s, @import children included.
//
// A closed sheet has given up its share of the inner data and cannot be
// cloned; Clone returns nil for it.
func (s *Sheet) Clone(parent *Sheet, ownerRule *ImportRule, doc *Document, node *html.Node) *Sheet {
	if s.closed {
		tracer().P("sheet", s).Errorf("cannot clone a closed sheet")
		return nil
	}
	s.syncImports()
	c := newSheet(s.engine, s.mode, s.inner)
	c.parent = weak.Make(parent)
	c.ownerRule = weak.Make(ownerRule)
	c.document = weak.Make(doc)
	c.node = weak.Make(node)
	c.disabled = s.disabled
	c.alternate = s.alternate
	c.title = s.title
	c.media = s.media
	for _, imp := range s.imports {
		rule := &ImportRule{key: imp.key, href: imp.href, media: imp.media}
		c.link(rule, imp.sheet.Clone(c, rule, doc, nil))
		c.imports = append(c.imports, rule)
	}
	c.importsOK, c.importGen = s.importsOK, s.importGen
	tracer().P("sheet", s).Debugf("cloned sheet, inner now shared by %d sheets", s.inner.Refs())
	return c
}
