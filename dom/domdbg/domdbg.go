/*
Package domdbg implements helpers to debug the style sheets of a document.

Dump prints the sheets of a document, together with their @import children
and rules, as a tree. Diff produces a unified diff of two serialized
style sheets, which comes in handy in tests.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/stylo/dom/style/cssom"
	"github.com/pmezard/go-difflib/difflib"
	tp "github.com/xlab/treeprint"
)

// Dump outputs the sheets of a document as a tree:
//
//     .
//     └── Sheet(file:///main.css, loaded) [2 rules]
//         ├── @import "base.css"
//         │   └── Sheet(file:///base.css, loaded) [1 rule]
//         │       └── p
//         └── div { color: red }
//
func Dump(doc *cssom.Document) string {
	printer := tp.New()
	for _, sheet := range doc.StyleSheets() {
		dumpSheet(printer, sheet)
	}
	return printer.String()
}

// DumpSheet outputs a single sheet as a tree, see Dump.
func DumpSheet(sheet *cssom.Sheet) string {
	printer := tp.New()
	dumpSheet(printer, sheet)
	return printer.String()
}

func dumpSheet(printer tp.Tree, sheet *cssom.Sheet) {
	var flags []string
	if sheet.Disabled() {
		flags = append(flags, "disabled")
	}
	if sheet.IsAlternate() {
		flags = append(flags, "alternate")
	}
	if n := sheet.PendingImports(); n > 0 {
		flags = append(flags, fmt.Sprintf("%d pending", n))
	}
	doc := sheet.RawDocument()
	if doc != nil {
		flags = append(flags, plural(doc.Len(), "rule"))
	}
	branch := printer.AddBranch(sheet.String() + " [" + strings.Join(flags, ", ") + "]")
	imported := make(map[string]bool)
	for _, imp := range sheet.Imports() {
		ib := branch.AddMetaBranch("@import", fmt.Sprintf("%q", imp.Href()))
		imported[imp.Href()] = true
		dumpSheet(ib, imp.StyleSheet())
	}
	if doc == nil {
		return
	}
	for i := 0; i < doc.Len(); i++ {
		if src, ok := doc.Rule(i).(cssom.ImportSource); ok && imported[src.Href()] {
			continue
		}
		dumpRule(branch, doc.Rule(i))
	}
}

func dumpRule(printer tp.Tree, rule cssom.Rule) {
	label := strings.TrimSpace(rule.Name() + " " + rule.Selector())
	if g, ok := rule.(cssom.GroupRule); ok {
		branch := printer.AddBranch(label)
		for i := 0; i < g.Len(); i++ {
			dumpRule(branch, g.Rule(i))
		}
		return
	}
	props := rule.Properties()
	if len(props) == 0 {
		printer.AddNode(label)
		return
	}
	decls := make([]string, len(props))
	for i, p := range props {
		decls[i] = p + ": " + rule.Value(p)
		if rule.IsImportant(p) {
			decls[i] += " !important"
		}
	}
	printer.AddNode(label + " { " + strings.Join(decls, "; ") + " }")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Diff returns a unified diff between two CSS texts, or the empty string if
// they are equal.
func Diff(aName, bName, a, b string) string {
	if a == b {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n(diff failed: %v)\n", aName, bName, err)
	}
	return s
}

// Serialize returns the CSS text of a loaded sheet, or the empty string.
func Serialize(sheet *cssom.Sheet) string {
	if doc := sheet.RawDocument(); doc != nil {
		return doc.String()
	}
	return ""
}

// ExpectText is a helper for testing. It compares the serialization of a
// sheet with the CSS text expected. If they differ, t.Error(…) will be set,
// including a diff, causing the test to fail.
//
func ExpectText(t *testing.T, sheet *cssom.Sheet, expected string) {
	t.Helper()
	if d := Diff("expected", "sheet", expected, Serialize(sheet)); d != "" {
		t.Errorf("style sheet text differs from expected:\n%s", d)
	}
}
