package loader

import (
	"net/url"
	"slices"
	"strings"

	"github.com/npillmayer/stylo/dom/style/cssom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LoadStyleElements visits the HTML parse tree of doc and loads the sheets
// of embedded <style> elements and of <link rel="stylesheet"> elements, in
// document order. The sheets are added to doc.
//
// A <base href> in the document head changes the base URL for all of them.
func (l *Loader) LoadStyleElements(doc *cssom.Document) ([]*cssom.Sheet, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	base := l.documentBase(doc)
	var sheets []*cssom.Sheet
	var err error
	walk(root, func(n *html.Node) bool {
		var sheet *cssom.Sheet
		switch n.DataAtom {
		case atom.Style:
			sheet, err = l.loadInline(doc, n, base)
		case atom.Link:
			rel := strings.Fields(strings.ToLower(attr(n, "rel")))
			if !slices.Contains(rel, "stylesheet") || attr(n, "href") == "" {
				return true
			}
			ref, e := url.Parse(attr(n, "href"))
			if e != nil {
				tracer().P("href", attr(n, "href")).Infof("ignoring <link> with invalid href")
				return true
			}
			href := base.ResolveReference(ref).String()
			sheet, err = l.loadSheet(href, doc, n, attr(n, "title"), slices.Contains(rel, "alternate"))
		default:
			return true
		}
		if err != nil {
			return false
		}
		sheet.SetMedia(attr(n, "media"))
		sheets = append(sheets, sheet)
		return true
	})
	return sheets, err
}

func (l *Loader) loadInline(doc *cssom.Document, n *html.Node, base *url.URL) (*cssom.Sheet, error) {
	sheet := l.newSheet()
	sheet.SetOwningNode(n)
	l.setup(sheet, attr(n, "title"), false)
	info := cssom.LoadInfo{
		BaseURL:   base,
		Principal: l.conf.principal,
		Compat:    doc.CompatMode(),
	}
	if err := sheet.ParseSheet(l, textContent(n), info); err != nil {
		return nil, err
	}
	if err := l.loadImports(sheet, 1); err != nil {
		return nil, err
	}
	return sheet, l.attach(doc, sheet)
}

func (l *Loader) documentBase(doc *cssom.Document) *url.URL {
	base := l.conf.base
	if doc.URL() != nil {
		base = doc.URL()
	}
	head := findElement(atom.Head, doc.Root())
	if b := findElement(atom.Base, head); b != nil {
		if ref, err := url.Parse(attr(b, "href")); err == nil && attr(b, "href") != "" {
			base = base.ResolveReference(ref)
		}
	}
	return base
}

// walk visits n and its descendents in document order, as long as f returns
// true.
func walk(n *html.Node, f func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !f(n) {
		return false
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if !walk(ch, f) {
			return false
		}
	}
	return true
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	ch := h.FirstChild
	for ch != nil {
		r := findElement(a, ch)
		if r != nil && r.DataAtom == a {
			return r
		}
		ch = ch.NextSibling
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			b.WriteString(ch.Data)
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
