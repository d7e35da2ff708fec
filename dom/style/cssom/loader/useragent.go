package loader

import (
	"fmt"
	"strings"

	"github.com/npillmayer/stylo/dom/style/cssom"
)

// Default display values for HTML elements. Elements not listed are
// displayed inline.
var displayDefaults = []struct {
	display  string
	elements []string
}{
	{"none", []string{"head", "link", "meta", "script", "style", "title"}},
	{"block", []string{"html", "body", "address", "article", "aside", "blockquote",
		"div", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hr", "main", "nav", "ol", "p", "pre", "section", "ul"}},
	{"list-item", []string{"li"}},
	{"table", []string{"table"}},
	{"table-row", []string{"tr"}},
	{"table-cell", []string{"td", "th"}},
}

// boxDefaults are user-agent margins and fonts, applied after display.
var boxDefaults = []struct {
	selector string
	decls    string
}{
	{"body", "margin: 8px"},
	{"p, blockquote, figure, ol, ul", "margin-top: 1em; margin-bottom: 1em"},
	{"h1", "font-size: 2em; font-weight: bold; margin-top: 0.67em; margin-bottom: 0.67em"},
	{"h2", "font-size: 1.5em; font-weight: bold; margin-top: 0.83em; margin-bottom: 0.83em"},
	{"h3", "font-size: 1.17em; font-weight: bold; margin-top: 1em; margin-bottom: 1em"},
	{"b, strong, th", "font-weight: bold"},
	{"i, em", "font-style: italic"},
	{"pre", "white-space: pre; font-family: monospace"},
	{"ol, ul", "padding-left: 40px"},
}

// UserAgentCSS returns the CSS text of the user-agent sheet.
func UserAgentCSS() string {
	var b strings.Builder
	for _, d := range displayDefaults {
		fmt.Fprintf(&b, "%s { display: %s }\n", strings.Join(d.elements, ", "), d.display)
	}
	for _, d := range boxDefaults {
		fmt.Fprintf(&b, "%s { %s }\n", d.selector, d.decls)
	}
	return b.String()
}

// UserAgentSheet returns the user-agent sheet of l, which holds the default
// styles for HTML elements. It is compiled on first use; later calls return
// clones sharing the compiled document.
//
// The user-agent sheet does not belong to any document and is not reported
// to observers.
func (l *Loader) UserAgentSheet() (*cssom.Sheet, error) {
	if l.agent != nil && !l.agent.Closed() {
		return l.agent.Clone(nil, nil, nil, nil), nil
	}
	sheet := cssom.NewSheet(l.engine, cssom.AgentSheet, cssom.CORSNone, "", cssom.Integrity{})
	info := cssom.LoadInfo{BaseURL: l.conf.base, Compat: l.conf.compat}
	if err := sheet.ParseSheet(nil, UserAgentCSS(), info); err != nil {
		return nil, err
	}
	if sheet.State() != cssom.Loaded {
		return nil, fmt.Errorf("loader: user-agent sheet failed to compile")
	}
	tracer().Debugf("compiled user-agent sheet")
	l.agent = sheet
	return sheet.Clone(nil, nil, nil, nil), nil
}
