package cssom

import (
	"net/url"

	"github.com/npillmayer/stylo/result"
)

// Engine is an interface to abstract away a style engine.
// In order to de-couple the parsing of CSS from the management of
// stylesheet objects, we introduce an interface for the engine. Clients
// will have to provide a concrete implementation of this interface (e.g.,
// see package douceuradapter).
//
// Parse compiles CSS text. Relative URLs within text are interpreted
// relative to base. Malformed text results in an Err, which should carry an
// *Error of kind ParseFailure.
type Engine interface {
	Parse(text string, base *url.URL, mode CompatMode) result.Result[Compiled]
}

// Compiled is a compiled style document, as produced by an Engine.
//
// A Compiled document is shared between all clones of a sheet. Package
// cssom will never mutate it, except through InsertRule, DeleteRule and
// InsertRuleIntoGroup, and only after having checked the index.
// Implementations are nevertheless expected to re-check indices and report
// errors of type *Error.
//
// See interface Rule.
type Compiled interface {
	Len() int                                                // number of top-level rules
	Rule(int) Rule                                           // top-level rule at index
	InsertRule(text string, index int) (int, error)          // insert a single rule
	DeleteRule(index int) error                              // remove a top-level rule
	InsertRuleIntoGroup(string, GroupRule, int) (int, error) // insert into a nested group
	Size() int                                               // approx. memory in bytes, for diagnostics
	String() string                                          // serialized CSS text
}

// Rule is the type compiled documents consist of.
//
// See interface Compiled.
type Rule interface {
	Name() string            // at-rule keyword, e.g. "@media"; empty for style rules
	Selector() string        // the prelude / selectors of the rule
	Properties() []string    // property keys, e.g. "margin-top"
	Value(string) string     // property value for key, e.g. "15px"
	IsImportant(string) bool // is property key marked as important?
	CSSText() string         // serialized rule
}

// GroupRule is a rule containing nested rules, e.g. @media or @supports.
type GroupRule interface {
	Rule
	Len() int      // number of nested rules
	Rule(int) Rule // nested rule at index
}

// LoaderObserver is notified when a sheet has completed loading.
// It is called exactly once per call to ParseSheet or LoadFailed, after the
// sheet has transitioned to its final state. status is nil for a successful
// load.
type LoaderObserver interface {
	SheetLoaded(sheet *Sheet, wasAlternate bool, status error)
}

// ObserverFunc adapts a function to interface LoaderObserver.
type ObserverFunc func(*Sheet, bool, error)

// SheetLoaded calls f.
func (f ObserverFunc) SheetLoaded(sheet *Sheet, wasAlternate bool, status error) {
	f(sheet, wasAlternate, status)
}

var _ LoaderObserver = ObserverFunc(nil)
