package cssom

import "unsafe"

// SizeOf returns the approximate memory consumed by s, including its rule
// list and its @import children. The inner data is counted only the first
// time it is seen; pass the same map for all sheets of a document to avoid
// counting shared documents twice. seen may be nil.
//
// The result is for diagnostics only.
func (s *Sheet) SizeOf(seen map[*Inner]bool) int {
	if seen == nil {
		seen = make(map[*Inner]bool)
	}
	n := int(unsafe.Sizeof(*s)) + len(s.title) + len(s.media)
	if !seen[s.inner] {
		seen[s.inner] = true
		n += s.inner.SizeOf()
	}
	if s.rules != nil {
		n += int(unsafe.Sizeof(*s.rules)) + cap(s.rules.rules)*int(unsafe.Sizeof(Rule(nil)))
	}
	for _, imp := range s.imports {
		n += int(unsafe.Sizeof(*imp)) + len(imp.href) + len(imp.media)
		n += imp.sheet.SizeOf(seen)
	}
	return n
}
