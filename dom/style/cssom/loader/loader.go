package loader

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/npillmayer/stylo/dom/style/cssom"
	"github.com/npillmayer/stylo/dom/style/cssom/douceuradapter"
	"golang.org/x/net/html"
)

// Loader loads style sheets from a file system.
// A Loader is itself a cssom.LoaderObserver: it receives the completion of
// every sheet it loads and forwards it to its registered observers.
type Loader struct {
	conf      settings
	fsys      fs.FS
	engine    cssom.Engine
	cache     map[string]*cssom.Sheet
	agent     *cssom.Sheet
	observers []cssom.LoaderObserver
	loaded    int
	failed    int
}

// Option configures a Loader.
type Option func(*Loader)

// WithEngine sets the style engine. The default is a douceur engine.
func WithEngine(engine cssom.Engine) Option {
	return func(l *Loader) {
		l.engine = engine
	}
}

// New creates a loader reading sheets from fsys. The root of fsys
// corresponds to the root path of the origin of the configured base URL.
func New(fsys fs.FS, conf Config, opts ...Option) (*Loader, error) {
	s, err := conf.resolve()
	if err != nil {
		return nil, err
	}
	l := &Loader{
		conf:  s,
		fsys:  fsys,
		cache: make(map[string]*cssom.Sheet),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.engine == nil {
		l.engine = douceuradapter.NewEngine(douceuradapter.ValidateSelectors(s.validate))
	}
	return l, nil
}

// Observe registers an observer for sheet completions.
func (l *Loader) Observe(observer cssom.LoaderObserver) {
	l.observers = append(l.observers, observer)
}

// SheetLoaded counts completed loads and notifies the observers of l.
//
// Interface cssom.LoaderObserver
func (l *Loader) SheetLoaded(sheet *cssom.Sheet, wasAlternate bool, status error) {
	if status != nil {
		l.failed++
	} else {
		l.loaded++
	}
	tracer().P("sheet", sheet).Debugf("sheet completed, status = %v", status)
	for _, observer := range l.observers {
		observer.SheetLoaded(sheet, wasAlternate, status)
	}
}

var _ cssom.LoaderObserver = &Loader{}

// Stats returns the number of sheets which completed loading successfully
// and the number of sheets which failed.
func (l *Loader) Stats() (loaded, failed int) {
	return l.loaded, l.failed
}

// BaseURL returns the base URL of l.
func (l *Loader) BaseURL() *url.URL {
	return l.conf.base
}

// LoadSheet loads the sheet at href, which is resolved against the base
// URL, and adds it to doc. doc and node may be nil. If the sheet at href has
// been loaded before, a clone of it is returned.
//
// A sheet which cannot be read is not an error: it is returned in state
// Failed. Errors are returned for invalid URLs and protocol violations only.
func (l *Loader) LoadSheet(href string, doc *cssom.Document, node *html.Node, title string) (*cssom.Sheet, error) {
	return l.loadSheet(href, doc, node, title, false)
}

func (l *Loader) loadSheet(href string, doc *cssom.Document, node *html.Node, title string,
	alternate bool) (*cssom.Sheet, error) {
	//
	u, err := l.resolve(href, doc)
	if err != nil {
		return nil, err
	}
	key := u.String()
	if cached, ok := l.cache[key]; ok && !cached.Closed() {
		tracer().P("url", key).Debugf("using cached style sheet")
		sheet := cached.Clone(nil, nil, doc, node)
		l.setup(sheet, title, alternate)
		return sheet, l.attach(doc, sheet)
	}
	sheet := l.newSheet()
	sheet.SetOwningNode(node)
	l.setup(sheet, title, alternate)
	if err := l.load(sheet, u, l, 0); err != nil {
		return nil, err
	}
	l.cache[key] = sheet
	return sheet, l.attach(doc, sheet)
}

// LoadImports loads all @import children of sheet which are still
// unloaded, e.g. after inserting an @import rule.
func (l *Loader) LoadImports(sheet *cssom.Sheet) error {
	return l.loadImports(sheet, 1)
}

func (l *Loader) newSheet() *cssom.Sheet {
	return cssom.NewSheet(l.engine, cssom.AuthorSheet, l.conf.cors, l.conf.referrer, cssom.Integrity{})
}

// setup sets title and alternate flag. A sheet is an alternate sheet if
// requested by rel="alternate stylesheet", or if it is titled differently
// from the preferred title.
func (l *Loader) setup(sheet *cssom.Sheet, title string, alternate bool) {
	sheet.SetTitle(title)
	if title != "" && l.conf.preferred != "" && title != l.conf.preferred {
		alternate = true
	}
	sheet.SetAlternate(alternate)
}

func (l *Loader) attach(doc *cssom.Document, sheet *cssom.Sheet) error {
	if doc == nil {
		return nil
	}
	return doc.AddSheet(sheet)
}

func (l *Loader) resolve(href string, doc *cssom.Document) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, fmt.Errorf("loader: invalid style sheet URL %q: %w", href, err)
	}
	base := l.conf.base
	if doc != nil && doc.URL() != nil {
		base = doc.URL()
	}
	return base.ResolveReference(ref), nil
}

// load runs the load protocol for sheet and then loads its imports.
func (l *Loader) load(sheet *cssom.Sheet, u *url.URL, observer cssom.LoaderObserver, depth int) error {
	text, err := l.fetch(u)
	if err != nil {
		return sheet.LoadFailed(observer, err)
	}
	info := cssom.LoadInfo{
		SheetURL:  u,
		Principal: l.conf.principal,
		Compat:    l.conf.compat,
	}
	if err := sheet.ParseSheet(observer, text, info); err != nil {
		return err
	}
	return l.loadImports(sheet, depth+1)
}

func (l *Loader) loadImports(sheet *cssom.Sheet, depth int) error {
	for _, imp := range sheet.Imports() {
		child := imp.StyleSheet()
		if child.State() != cssom.Unloaded {
			continue
		}
		observer := l.childObserver(sheet)
		if depth > l.conf.maxDepth {
			err := fmt.Errorf("@import nesting deeper than %d", l.conf.maxDepth)
			if e := child.LoadFailed(observer, err); e != nil {
				return e
			}
			continue
		}
		u, err := imp.URL()
		if err != nil {
			if e := child.LoadFailed(observer, err); e != nil {
				return e
			}
			continue
		}
		if err := l.load(child, u, observer, depth); err != nil {
			return err
		}
	}
	return nil
}

// childObserver notifies the parent sheet first and l second.
func (l *Loader) childObserver(parent *cssom.Sheet) cssom.LoaderObserver {
	return cssom.ObserverFunc(func(sheet *cssom.Sheet, wasAlternate bool, status error) {
		parent.SheetLoaded(sheet, wasAlternate, status)
		l.SheetLoaded(sheet, wasAlternate, status)
	})
}

// fetch reads the text of a sheet. Sheets from another origin than the base
// URL are not accessible.
func (l *Loader) fetch(u *url.URL) (string, error) {
	if origin(u) != origin(l.conf.base) {
		return "", fmt.Errorf("loader: %s is cross-origin", u)
	}
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
