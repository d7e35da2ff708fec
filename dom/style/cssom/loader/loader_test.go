package loader

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stylo/dom/style/cssom"
	"github.com/npillmayer/stylo/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var site = fstest.MapFS{
	"css/main.css":          {Data: []byte("@import 'base.css';\np { color: red }")},
	"css/base.css":          {Data: []byte("@import url(missing.css);\nbody { margin: 0 }")},
	"css/loop.css":          {Data: []byte("@import 'loop.css';")},
	"css/broken.css":        {Data: []byte("p { color: red } }")},
	"site/styles/main.css":  {Data: []byte("body { font-family: serif }")},
	"site/styles/print.css": {Data: []byte("body { font-family: sans-serif }")},
	"site/styles/base.css":  {Data: []byte("h2 { color: gray }")},
}

type completion struct {
	sheet  *cssom.Sheet
	status error
}

func record(l *Loader) *[]completion {
	var calls []completion
	l.Observe(cssom.ObserverFunc(func(sheet *cssom.Sheet, _ bool, status error) {
		calls = append(calls, completion{sheet, status})
	}))
	return &calls
}

func TestReadConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	yml := `
base_url: https://example.com/book/
compat_mode: quirks
cors: anonymous
referrer_policy: no-referrer
preferred_title: Default
max_import_depth: 3
`
	conf, err := ReadConfig(strings.NewReader(yml))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/book/", conf.BaseURL)
	assert.True(t, conf.ValidateSelectors, "missing settings keep defaults")
	s, err := conf.resolve()
	require.NoError(t, err)
	assert.Equal(t, cssom.Quirks, s.compat)
	assert.Equal(t, cssom.CORSAnonymous, s.cors)
	assert.Equal(t, cssom.ReferrerPolicy("no-referrer"), s.referrer)
	assert.Equal(t, "https://example.com", s.principal)
	assert.Equal(t, 3, s.maxDepth)
	//
	conf, err = ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)
}

func TestReadConfigErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	_, err := ReadConfig(strings.NewReader("cors: sometimes\n"))
	var verr *cssom.ValueError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CORSMode", verr.Type)
	_, err = ReadConfig(strings.NewReader("base_url: relative/path\n"))
	assert.ErrorAs(t, err, &verr)
	_, err = ReadConfig(strings.NewReader("max_import_depth: [1, 2]\n"))
	assert.Error(t, err)
	_, err = New(site, Config{BaseURL: "file:///", CompatMode: "sloppy"})
	assert.ErrorAs(t, err, &verr)
}

func TestLoadSheetWithImports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	calls := record(l)
	sheet, err := l.LoadSheet("css/main.css", nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, cssom.Loaded, sheet.State())
	assert.Equal(t, "file:///css/main.css", sheet.Href())
	assert.True(t, sheet.ImportsComplete())
	//
	require.Len(t, sheet.Imports(), 1)
	base := sheet.Imports()[0].StyleSheet()
	assert.Equal(t, cssom.Loaded, base.State())
	assert.Equal(t, 0, base.PendingImports())
	require.Len(t, base.Imports(), 1)
	missing := base.Imports()[0].StyleSheet()
	assert.Equal(t, cssom.Failed, missing.State())
	//
	require.Len(t, *calls, 3)
	assert.Same(t, sheet, (*calls)[0].sheet)
	assert.Same(t, base, (*calls)[1].sheet)
	assert.Same(t, missing, (*calls)[2].sheet)
	assert.ErrorIs(t, (*calls)[2].status, cssom.ErrLoadFailed)
	loaded, failed := l.Stats()
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 1, failed)
}

func TestLoadSheetUsesCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	first, err := l.LoadSheet("/css/main.css", nil, nil, "")
	require.NoError(t, err)
	doc := cssom.NewDocument(nil, nil)
	second, err := l.LoadSheet("css/../css/main.css", doc, nil, "")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Same(t, first.Inner(), second.Inner())
	assert.Same(t, doc, second.OwningDocument())
	assert.Len(t, doc.StyleSheets(), 1)
	assert.Len(t, second.Imports(), 1)
	loaded, _ := l.Stats()
	assert.Equal(t, 2, loaded, "clones do not run the load protocol")
	//
	first.Close()
	third, err := l.LoadSheet("css/main.css", nil, nil, "")
	require.NoError(t, err)
	assert.NotSame(t, first.Inner(), third.Inner(), "closed sheets are not reused")
}

func TestLoadSheetFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	calls := record(l)
	foreign, err := l.LoadSheet("https://example.com/x.css", nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, cssom.Failed, foreign.State())
	broken, err := l.LoadSheet("css/broken.css", nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, cssom.Failed, broken.State())
	require.Len(t, *calls, 2)
	assert.ErrorIs(t, (*calls)[0].status, cssom.ErrLoadFailed)
	assert.ErrorIs(t, (*calls)[1].status, cssom.ErrParse)
	_, failed := l.Stats()
	assert.Equal(t, 2, failed)
}

func TestImportDepthIsLimited(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.MaxImportDepth = 2
	l, err := New(site, conf)
	require.NoError(t, err)
	sheet, err := l.LoadSheet("css/loop.css", nil, nil, "")
	require.NoError(t, err)
	var states []cssom.LoadState
	for s := sheet; len(s.Imports()) > 0; {
		s = s.Imports()[0].StyleSheet()
		states = append(states, s.State())
	}
	assert.Equal(t, []cssom.LoadState{cssom.Loaded, cssom.Loaded, cssom.Failed}, states)
	assert.True(t, sheet.ImportsComplete())
}

func TestLoadImportsAfterInsert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	sheet, err := l.LoadSheet("css/base.css", nil, nil, "")
	require.NoError(t, err)
	_, err = sheet.InsertRule("@import 'main.css';", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, sheet.PendingImports())
	require.NoError(t, l.LoadImports(sheet))
	assert.Equal(t, 0, sheet.PendingImports())
	assert.Equal(t, cssom.Loaded, sheet.Imports()[0].StyleSheet().State())
}

const page = `<!DOCTYPE html>
<html><head>
<base href="styles/">
<link rel="stylesheet" href="main.css" title="Default">
<link rel="alternate stylesheet" href="print.css" title="Print" media="print">
<link rel="icon" href="favicon.png">
<style media="screen">@import "base.css"; h1 { color: green }</style>
</head><body><p>Hello</p></body></html>`

func TestLoadStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	root, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	docURL, _ := url.Parse("file:///site/index.html")
	doc := cssom.NewDocument(root, docURL)
	conf := DefaultConfig()
	conf.PreferredTitle = "Default"
	l, err := New(site, conf)
	require.NoError(t, err)
	sheets, err := l.LoadStyleElements(doc)
	require.NoError(t, err)
	require.Len(t, sheets, 3)
	assert.Equal(t, sheets, doc.StyleSheets())
	//
	mainSheet, printSheet, inline := sheets[0], sheets[1], sheets[2]
	assert.Equal(t, "file:///site/styles/main.css", mainSheet.Href())
	assert.Equal(t, cssom.Loaded, mainSheet.State())
	assert.False(t, mainSheet.IsAlternate())
	assert.Equal(t, "Default", mainSheet.Title())
	assert.Equal(t, atom.Link, mainSheet.OwningNode().DataAtom)
	assert.True(t, printSheet.IsAlternate())
	assert.Equal(t, "print", printSheet.Media())
	assert.Equal(t, cssom.Loaded, printSheet.State())
	//
	assert.Equal(t, "screen", inline.Media())
	assert.Equal(t, atom.Style, inline.OwningNode().DataAtom)
	assert.Same(t, doc, inline.OwningDocument())
	require.Len(t, inline.Imports(), 1)
	u, err := inline.Imports()[0].URL()
	require.NoError(t, err)
	assert.Equal(t, "file:///site/styles/base.css", u.String())
	assert.Equal(t, cssom.Loaded, inline.Imports()[0].StyleSheet().State())
	rules, err := inline.GetRules()
	require.NoError(t, err)
	assert.Equal(t, 2, rules.Len())
	//
	assert.Equal(t, []*cssom.Sheet{mainSheet, inline}, doc.EnabledSheets())
}

func TestLoadStyleElementsWithoutTree(t *testing.T) {
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	sheets, err := l.LoadStyleElements(cssom.NewDocument(nil, nil))
	assert.NoError(t, err)
	assert.Empty(t, sheets)
}

func TestLoaderWithCustomEngine(t *testing.T) {
	l, err := New(site, DefaultConfig(), WithEngine(failingEngine{}))
	require.NoError(t, err)
	sheet, err := l.LoadSheet("css/main.css", nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, cssom.Failed, sheet.State())
}

type failingEngine struct{}

func (failingEngine) Parse(string, *url.URL, cssom.CompatMode) result.Result[cssom.Compiled] {
	return result.Err[cssom.Compiled](errors.New("no engine"))
}

func TestUserAgentSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylo.loader")
	defer teardown()
	//
	l, err := New(site, DefaultConfig())
	require.NoError(t, err)
	calls := record(l)
	ua, err := l.UserAgentSheet()
	require.NoError(t, err)
	assert.Equal(t, cssom.AgentSheet, ua.ParsingMode())
	rules, err := ua.GetRules()
	require.NoError(t, err)
	assert.Equal(t, len(displayDefaults)+len(boxDefaults), rules.Len())
	assert.Equal(t, "none", rules.Item(0).Value("display"))
	again, err := l.UserAgentSheet()
	require.NoError(t, err)
	assert.NotSame(t, ua, again)
	assert.Same(t, ua.Inner(), again.Inner())
	assert.Empty(t, *calls)
}
