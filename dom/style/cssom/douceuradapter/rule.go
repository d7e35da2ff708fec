package douceuradapter

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/gorilla/css/scanner"
	"github.com/npillmayer/stylo/dom/style/cssom"
)

// Rule is an adapter for interface cssom.Rule.
type Rule struct {
	css *css.Rule
}

func wrapRule(r *css.Rule) cssom.Rule {
	switch {
	case isGroup(r):
		return &GroupRule{r: &Rule{r}}
	case isImport(r):
		href, media := parseImportPrelude(r.Prelude)
		return &ImportRule{Rule: &Rule{r}, href: href, media: media}
	}
	return &Rule{r}
}

// Name returns the at-rule keyword, e.g. "@media", or "" for style rules.
func (r *Rule) Name() string {
	return r.css.Name
}

// Selector returns the prelude / selectors of the rule.
func (r *Rule) Selector() string {
	return r.css.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "margin-top"
func (r *Rule) Properties() []string {
	decl := r.css.Declarations
	props := make([]string, 0, len(decl))
	for _, d := range decl {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property values for given key with this rule, e.g. "15px"
func (r *Rule) Value(key string) string {
	for _, d := range r.css.Declarations {
		if d.Property == key {
			return d.Value
		}
	}
	return ""
}

// IsImportant returns true if a style key is marked as important ("!").
func (r *Rule) IsImportant(key string) bool {
	for _, d := range r.css.Declarations {
		if d.Property == key {
			return d.Important
		}
	}
	return false
}

// CSSText serializes the rule.
func (r *Rule) CSSText() string {
	return r.css.String()
}

var _ cssom.Rule = &Rule{}

// --- Grouping rules --------------------------------------------------------

// GroupRule is an adapter for interface cssom.GroupRule.
type GroupRule struct {
	r *Rule
}

func (g *GroupRule) rule() *css.Rule {
	return g.r.css
}

func (g *GroupRule) Name() string                { return g.r.Name() }
func (g *GroupRule) Selector() string            { return g.r.Selector() }
func (g *GroupRule) Properties() []string        { return g.r.Properties() }
func (g *GroupRule) Value(key string) string     { return g.r.Value(key) }
func (g *GroupRule) IsImportant(key string) bool { return g.r.IsImportant(key) }
func (g *GroupRule) CSSText() string             { return g.r.CSSText() }

// Len returns the number of nested rules.
func (g *GroupRule) Len() int {
	return len(g.r.css.Rules)
}

// Rule returns the nested rule at index i.
func (g *GroupRule) Rule(i int) cssom.Rule {
	return wrapRule(g.r.css.Rules[i])
}

var _ cssom.GroupRule = &GroupRule{}

var groupRules = map[string]bool{
	"@media":    true,
	"@supports": true,
	"@document": true,
}

func isGroup(r *css.Rule) bool {
	return r.Kind == css.AtRule && groupRules[r.Name]
}

// --- @import ---------------------------------------------------------------

// ImportRule is an adapter for interface cssom.ImportSource.
type ImportRule struct {
	*Rule
	href  string
	media string
}

// Href returns the URL of the imported sheet as written.
func (r *ImportRule) Href() string {
	return r.href
}

// MediaList returns the media queries following the URL.
func (r *ImportRule) MediaList() string {
	return r.media
}

// Key identifies the underlying douceur rule.
func (r *ImportRule) Key() any {
	return r.css
}

var _ cssom.ImportSource = &ImportRule{}

func isImport(r *css.Rule) bool {
	return r.Kind == css.AtRule && r.Name == "@import"
}

// parseImportPrelude splits the prelude of an @import rule, e.g.
//
//     url("print.css") print, screen
//
// into href and media list.
func parseImportPrelude(prelude string) (href, media string) {
	s := scanner.New(prelude)
	found := false
	var rest strings.Builder
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		if found {
			rest.WriteString(tok.Value)
			continue
		}
		switch tok.Type {
		case scanner.TokenS, scanner.TokenComment:
			continue
		case scanner.TokenURI:
			v := tok.Value
			if i := strings.IndexByte(v, '('); i >= 0 && strings.HasSuffix(v, ")") {
				href = unquote(strings.TrimSpace(v[i+1 : len(v)-1]))
			}
		case scanner.TokenString:
			href = unquote(tok.Value)
		default:
			return "", ""
		}
		found = true
	}
	return href, strings.TrimSpace(rest.String())
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
