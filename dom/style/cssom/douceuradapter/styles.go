package douceuradapter

import (
	"slices"
	"unsafe"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/stylo/dom/style/cssom"
)

// CSSStyles is an adapter for interface cssom.Compiled.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.Engine.
type CSSStyles struct {
	css    *css.Stylesheet
	engine *Engine
}

// Wrap a douceur.css.Stylesheet into CSSStyles.
// The stylesheet is now managed by the wrapper. Rules inserted later on are
// parsed by engine; engine may be nil, in which case a default engine is
// used.
func Wrap(sheet *css.Stylesheet, engine *Engine) *CSSStyles {
	if sheet == nil {
		sheet = css.NewStylesheet()
	}
	if engine == nil {
		engine = NewEngine()
	}
	return &CSSStyles{css: sheet, engine: engine}
}

// Stylesheet returns the underlying douceur stylesheet.
func (sheet *CSSStyles) Stylesheet() *css.Stylesheet {
	return sheet.css
}

// Len returns the number of top-level rules.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) Len() int {
	return len(sheet.css.Rules)
}

// Rule returns the top-level rule at index i.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) Rule(i int) cssom.Rule {
	return wrapRule(sheet.css.Rules[i])
}

// InsertRule parses text and inserts the rule at index.
//
// @import rules may only be inserted in front of all other rules, except
// @charset and other @imports. Conversely, no other rule may be inserted in
// front of an @import.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) InsertRule(text string, index int) (int, error) {
	rules := sheet.css.Rules
	if index < 0 || index > len(rules) {
		return -1, cssom.IndexError("insert-rule", index, len(rules))
	}
	r, err := sheet.engine.parseRule(text)
	if err != nil {
		return -1, err
	}
	if isImport(r) {
		for _, prev := range rules[:index] {
			if !isImport(prev) && prev.Name != "@charset" {
				return -1, cssom.NewError(cssom.HierarchyRequest, "insert-rule",
					"@import must precede all other rules")
			}
		}
	} else {
		for _, next := range rules[index:] {
			if isImport(next) {
				return -1, cssom.NewError(cssom.HierarchyRequest, "insert-rule",
					"cannot insert %s in front of @import", ruleKind(r))
			}
		}
	}
	setEmbedLevel(r, 0)
	sheet.css.Rules = slices.Insert(rules, index, r)
	return index, nil
}

// DeleteRule removes the top-level rule at index.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) DeleteRule(index int) error {
	rules := sheet.css.Rules
	if index < 0 || index >= len(rules) {
		return cssom.IndexError("delete-rule", index, len(rules))
	}
	sheet.css.Rules = slices.Delete(rules, index, index+1)
	return nil
}

// InsertRuleIntoGroup parses text and inserts the rule into a grouping rule
// at index. group has to be a rule of sheet.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) InsertRuleIntoGroup(text string, group cssom.GroupRule, index int) (int, error) {
	g, ok := group.(*GroupRule)
	if !ok || !contains(sheet.css.Rules, g.rule()) {
		return -1, cssom.NewError(cssom.HierarchyRequest, "insert-rule",
			"group rule does not belong to this sheet")
	}
	parent := g.rule()
	if index < 0 || index > len(parent.Rules) {
		return -1, cssom.IndexError("insert-rule", index, len(parent.Rules))
	}
	r, err := sheet.engine.parseRule(text)
	if err != nil {
		return -1, err
	}
	if isImport(r) {
		return -1, cssom.NewError(cssom.HierarchyRequest, "insert-rule",
			"@import not allowed in %s", parent.Name)
	}
	setEmbedLevel(r, parent.EmbedLevel+1)
	parent.Rules = slices.Insert(parent.Rules, index, r)
	return index, nil
}

// Size returns the approximate memory used by the rules.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) Size() int {
	return int(unsafe.Sizeof(*sheet)) + int(unsafe.Sizeof(*sheet.css)) + rulesSize(sheet.css.Rules)
}

// String serializes the sheet to CSS text.
//
// Interface cssom.Compiled
func (sheet *CSSStyles) String() string {
	return sheet.css.String()
}

var _ cssom.Compiled = &CSSStyles{}

// --- Helpers ---------------------------------------------------------------

func contains(rules []*css.Rule, r *css.Rule) bool {
	for _, x := range rules {
		if x == r || contains(x.Rules, r) {
			return true
		}
	}
	return false
}

func setEmbedLevel(r *css.Rule, level int) {
	r.EmbedLevel = level
	for _, child := range r.Rules {
		setEmbedLevel(child, level+1)
	}
}

func ruleKind(r *css.Rule) string {
	if r.Kind == css.AtRule {
		return r.Name
	}
	return "style rule"
}

func rulesSize(rules []*css.Rule) int {
	n := cap(rules) * int(unsafe.Sizeof(rules[0]))
	for _, r := range rules {
		n += int(unsafe.Sizeof(*r)) + len(r.Name) + len(r.Prelude)
		for _, sel := range r.Selectors {
			n += int(unsafe.Sizeof(sel)) + len(sel)
		}
		for _, d := range r.Declarations {
			n += int(unsafe.Sizeof(*d)) + len(d.Property) + len(d.Value)
		}
		n += rulesSize(r.Rules)
	}
	return n
}
