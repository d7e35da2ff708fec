package cssom

import "slices"

// RuleList is a view of the top-level rules of a compiled document.
//
// A RuleList is a snapshot taken at construction time. It is stamped with
// the generation of the sheet's inner data. Mutations through the RuleList
// of one sheet advance the generation, and the RuleLists of all other
// clones sharing the same inner go stale. A stale RuleList keeps showing
// its snapshot; Sheet.GetRules will build a fresh one.
type RuleList struct {
	inner      *Inner
	doc        Compiled
	rules      []Rule
	generation uint64
}

func newRuleList(in *Inner, doc Compiled) *RuleList {
	rl := &RuleList{inner: in, doc: doc}
	rl.snapshot()
	return rl
}

func (rl *RuleList) snapshot() {
	rl.rules = make([]Rule, rl.doc.Len())
	for i := range rl.rules {
		rl.rules[i] = rl.doc.Rule(i)
	}
	rl.generation = rl.inner.Generation()
}

// Len returns the number of rules in the list.
func (rl *RuleList) Len() int {
	return len(rl.rules)
}

// Item returns the rule at index i, or nil if i is out of range.
func (rl *RuleList) Item(i int) Rule {
	if i < 0 || i >= len(rl.rules) {
		return nil
	}
	return rl.rules[i]
}

// Rules returns a copy of the rules of the list.
func (rl *RuleList) Rules() []Rule {
	return slices.Clone(rl.rules)
}

// Generation returns the generation of the inner data rl has been built from.
func (rl *RuleList) Generation() uint64 {
	return rl.generation
}

// Stale is true if the compiled document has been changed through another
// sheet since rl has been built.
func (rl *RuleList) Stale() bool {
	return rl.generation != rl.inner.Generation()
}

func (rl *RuleList) insertRule(text string, index int) (int, error) {
	if index < 0 || index > len(rl.rules) {
		return -1, IndexError("insert-rule", index, len(rl.rules))
	}
	i, err := rl.doc.InsertRule(text, index)
	if err != nil {
		return -1, err
	}
	rl.changed()
	return i, nil
}

func (rl *RuleList) deleteRule(index int) error {
	if index < 0 || index >= len(rl.rules) {
		return IndexError("delete-rule", index, len(rl.rules))
	}
	if err := rl.doc.DeleteRule(index); err != nil {
		return err
	}
	rl.changed()
	return nil
}

func (rl *RuleList) insertRuleIntoGroup(text string, group GroupRule, index int) (int, error) {
	if group == nil {
		return -1, NewError(HierarchyRequest, "insert-rule", "no group rule")
	}
	if index < 0 || index > group.Len() {
		return -1, IndexError("insert-rule", index, group.Len())
	}
	i, err := rl.doc.InsertRuleIntoGroup(text, group, index)
	if err != nil {
		return -1, err
	}
	rl.changed()
	return i, nil
}

func (rl *RuleList) changed() {
	rl.inner.touch()
	rl.snapshot()
}

// --- Sheet API -------------------------------------------------------------

// GetRules returns the rule list of s. The list is built on first call and
// rebuilt whenever it has gone stale. s must be loaded, otherwise an error of
// kind NotReady is returned.
func (s *Sheet) GetRules() (*RuleList, error) {
	if s.closed {
		return nil, NewError(NotReady, "get-rules", "sheet is closed")
	}
	var doc Compiled
	switch m := s.inner.Document().Match(); m {
	case m.Nothing():
		return nil, NewError(NotReady, "get-rules", "sheet is %s", s.inner.State())
	case m.Just(&doc):
	}
	s.syncImports()
	if s.rules != nil && !s.rules.Stale() {
		return s.rules, nil
	}
	if s.rules != nil {
		tracer().Debugf("rule list is stale, rebuilding")
	}
	s.rules = newRuleList(s.inner, doc)
	return s.rules, nil
}

func (s *Sheet) dropRuleList() {
	s.rules = nil
}

// InsertRule parses text as a single rule and inserts it at index, which
// must be in the range [0…n] for a sheet with n rules. It returns the index
// of the new rule.
//
// The change is visible to all clones of s.
func (s *Sheet) InsertRule(text string, index int) (int, error) {
	rl, err := s.GetRules()
	if err != nil {
		return -1, err
	}
	i, err := rl.insertRule(text, index)
	if err != nil {
		return -1, err
	}
	s.syncImports()
	return i, nil
}

// DeleteRule removes the rule at index, which must be in the range
// [0…n-1] for a sheet with n rules.
//
// The change is visible to all clones of s.
func (s *Sheet) DeleteRule(index int) error {
	rl, err := s.GetRules()
	if err != nil {
		return err
	}
	if err := rl.deleteRule(index); err != nil {
		return err
	}
	s.syncImports()
	return nil
}

// InsertRuleIntoGroup parses text as a single rule and inserts it into a
// grouping rule of s (e.g., @media), at index. group must have been
// obtained from the rules of s.
//
// The change is visible to all clones of s.
func (s *Sheet) InsertRuleIntoGroup(text string, group GroupRule, index int) (int, error) {
	rl, err := s.GetRules()
	if err != nil {
		return -1, err
	}
	return rl.insertRuleIntoGroup(text, group, index)
}
