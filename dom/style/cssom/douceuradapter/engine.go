package douceuradapter

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/stylo/dom/style/cssom"
	"github.com/npillmayer/stylo/result"
)

// Engine parses CSS with douceur.
type Engine struct {
	validate bool
}

// Option configures an Engine.
type Option func(*Engine)

// ValidateSelectors switches selector checking on or off (default is on).
func ValidateSelectors(on bool) Option {
	return func(e *Engine) {
		e.validate = on
	}
}

// NewEngine creates a style engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{validate: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse compiles CSS text.
// Douceur neither resolves URLs nor has a quirks mode, therefore base and
// mode do not influence the result.
//
// Interface cssom.Engine
func (e *Engine) Parse(text string, base *url.URL, mode cssom.CompatMode) result.Result[cssom.Compiled] {
	parsed := result.Try(parser.Parse(text))
	if !parsed.IsOk() {
		_, err := parsed.Get()
		return result.Err[cssom.Compiled](cssom.WrapError(cssom.ParseFailure, "parse", err))
	}
	return result.Map(func(sheet *css.Stylesheet) cssom.Compiled {
		if e.validate {
			sheet.Rules = dropInvalid(sheet.Rules, false)
		}
		tracer().P("mode", mode).Debugf("parsed %d rules", len(sheet.Rules))
		return Wrap(sheet, e)
	}, parsed)
}

var _ cssom.Engine = &Engine{}

// parseRule parses text as exactly one rule.
func (e *Engine) parseRule(text string) (*css.Rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, cssom.WrapError(cssom.ParseFailure, "insert-rule", err)
	}
	if len(sheet.Rules) != 1 {
		return nil, cssom.NewError(cssom.ParseFailure, "insert-rule",
			"expected a single rule, have %d", len(sheet.Rules))
	}
	r := sheet.Rules[0]
	if e.validate {
		if r.Kind == css.QualifiedRule && !validSelector(r.Prelude) {
			return nil, cssom.NewError(cssom.ParseFailure, "insert-rule", "invalid selector %q", r.Prelude)
		}
		r.Rules = dropInvalid(r.Rules, isKeyframes(r))
	}
	return r, nil
}

// dropInvalid removes style rules with selectors cascadia cannot parse.
// Keyframe selectors ("from", "50%") are not checked.
func dropInvalid(rules []*css.Rule, keyframes bool) []*css.Rule {
	if len(rules) == 0 {
		return rules
	}
	valid := rules[:0]
	for _, r := range rules {
		switch {
		case r.Kind == css.QualifiedRule && !keyframes && !validSelector(r.Prelude):
			tracer().P("selector", r.Prelude).Infof("dropping rule with invalid selector")
			continue
		case r.Kind == css.AtRule && len(r.Rules) > 0:
			r.Rules = dropInvalid(r.Rules, isKeyframes(r))
		}
		valid = append(valid, r)
	}
	return valid
}

func validSelector(prelude string) bool {
	_, err := cascadia.ParseGroup(prelude)
	return err == nil
}

func isKeyframes(r *css.Rule) bool {
	return r.Kind == css.AtRule && strings.HasSuffix(r.Name, "keyframes")
}
