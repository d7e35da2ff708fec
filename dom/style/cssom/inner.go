package cssom

import (
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/npillmayer/stylo/maybe"
)

// CORSMode is the CORS mode a sheet has been requested with.
type CORSMode int8

// CORS modes.
const (
	CORSNone CORSMode = iota
	CORSAnonymous
	CORSUseCredentials
)

func (m CORSMode) String() string {
	switch m {
	case CORSAnonymous:
		return "anonymous"
	case CORSUseCredentials:
		return "use-credentials"
	}
	return "none"
}

// ParseCORSMode parses the value of a crossorigin attribute.
// The empty string maps to CORSNone.
func ParseCORSMode(s string) (CORSMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CORSNone, nil
	case "anonymous":
		return CORSAnonymous, nil
	case "use-credentials":
		return CORSUseCredentials, nil
	}
	return CORSNone, &ValueError{Type: "CORSMode", Value: s}
}

// ReferrerPolicy is a referrer policy token, e.g. "no-referrer".
// The empty policy means "use the document's default".
type ReferrerPolicy string

var referrerPolicies = map[ReferrerPolicy]bool{
	"": true, "no-referrer": true, "no-referrer-when-downgrade": true,
	"origin": true, "origin-when-cross-origin": true, "same-origin": true,
	"strict-origin": true, "strict-origin-when-cross-origin": true,
	"unsafe-url": true,
}

// ParseReferrerPolicy checks s against the known referrer policy tokens.
func ParseReferrerPolicy(s string) (ReferrerPolicy, error) {
	p := ReferrerPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !referrerPolicies[p] {
		return "", &ValueError{Type: "ReferrerPolicy", Value: s}
	}
	return p, nil
}

// Integrity is subresource integrity metadata, e.g. "sha384-oqVuAfXR…".
// It is carried along as provenance only; checking it is the loader's
// business.
type Integrity struct {
	Algorithm string
	Digest    string
}

// ParseIntegrity parses the value of an integrity attribute. Only the first
// hash token is kept. The empty string results in a zero Integrity.
func ParseIntegrity(s string) (Integrity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Integrity{}, nil
	}
	alg, digest, ok := strings.Cut(fields[0], "-")
	switch alg {
	case "sha256", "sha384", "sha512":
	default:
		ok = false
	}
	if !ok || digest == "" {
		return Integrity{}, &ValueError{Type: "Integrity", Value: s}
	}
	return Integrity{Algorithm: alg, Digest: digest}, nil
}

// IsEmpty is true for sheets without integrity metadata.
func (i Integrity) IsEmpty() bool {
	return i.Algorithm == ""
}

func (i Integrity) String() string {
	if i.IsEmpty() {
		return ""
	}
	return i.Algorithm + "-" + i.Digest
}

// URLData is the URL information needed to interpret relative URLs inside a
// compiled document.
type URLData struct {
	SheetURL  *url.URL   // where the sheet text came from; nil for inline sheets
	BaseURL   *url.URL   // base for relative URLs
	Principal string     // origin the sheet is attributed to
	Line      int        // line number of the sheet within its owning document
	Compat    CompatMode // document compatibility mode the sheet was parsed in
}

// LoadState is the state of the load protocol.
type LoadState int8

// Load states.
const (
	Unloaded LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unloaded"
}

// --- Inner -----------------------------------------------------------------

// Inner holds the compiled document of a sheet, together with its
// provenance. It is shared by all clones of a sheet.
//
// The compiled document is set at most once. A sheet which failed to load
// never gets a document.
//
// The document slot is guarded by a mutex, as the last reference to an
// inner may be dropped on the runtime's cleanup goroutine. All other fields
// belong to the styling goroutine.
type Inner struct {
	mu         sync.Mutex
	document   maybe.Maybe[Compiled] // set once by the load protocol
	state      LoadState             // Unloaded → Loaded | Failed
	urlData    *URLData              // set together with state
	cors       CORSMode
	referrer   ReferrerPolicy
	integrity  Integrity
	generation uint64         // bumped on every structural mutation
	refs       atomic.Int32   // number of sheets sharing this inner
	children   map[any]*Inner // inners of @import children, by rule key
}

// NewInner creates an inner without a document.
func NewInner(cors CORSMode, referrer ReferrerPolicy, integrity Integrity) *Inner {
	return &Inner{
		document:  maybe.Nothing[Compiled](),
		cors:      cors,
		referrer:  referrer,
		integrity: integrity,
	}
}

// SetDocument installs the compiled document. It is an error to call this
// more than once; the load protocol guarantees this never happens.
func (in *Inner) SetDocument(doc Compiled, data *URLData) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.document.IsJust() || in.state != Unloaded {
		return NewError(AlreadySet, "set-document", "inner already has a compiled document")
	}
	in.document = maybe.Just(doc)
	in.urlData = data
	in.state = Loaded
	return nil
}

// fail moves the inner to the Failed state, leaving the document unset.
func (in *Inner) fail(data *URLData) error {
	if in.state != Unloaded {
		return NewError(AlreadySet, "load-failed", "sheet has already been loaded (%s)", in.state)
	}
	in.urlData = data
	in.state = Failed
	return nil
}

// Document returns the compiled document, if any.
func (in *Inner) Document() maybe.Maybe[Compiled] {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.document
}

// State returns the load state.
func (in *Inner) State() LoadState {
	return in.state
}

// URLData returns the URL data of a completed load, or nil.
func (in *Inner) URLData() *URLData {
	return in.urlData
}

// CORSMode returns the CORS mode the sheet was requested with.
func (in *Inner) CORSMode() CORSMode {
	return in.cors
}

// ReferrerPolicy returns the referrer policy the sheet was requested with.
func (in *Inner) ReferrerPolicy() ReferrerPolicy {
	return in.referrer
}

// Integrity returns the subresource integrity metadata.
func (in *Inner) Integrity() Integrity {
	return in.integrity
}

// Generation counts structural mutations of the compiled document.
func (in *Inner) Generation() uint64 {
	return in.generation
}

// Refs returns the number of sheets sharing in.
func (in *Inner) Refs() int {
	return int(in.refs.Load())
}

func (in *Inner) touch() {
	in.generation++
}

func (in *Inner) retain() {
	in.refs.Add(1)
}

// release drops one reference. The last reference releases the compiled
// document. release may run on the runtime's cleanup goroutine and must not
// trace.
func (in *Inner) release() int {
	n := in.refs.Add(-1)
	if n == 0 {
		in.mu.Lock()
		in.document = maybe.Nothing[Compiled]()
		in.mu.Unlock()
	} else if n < 0 {
		in.refs.Store(0)
		n = 0
	}
	return int(n)
}

// childInner returns the inner for the @import child of the rule with the
// given key. All clones of a sheet share the inners of their children, so
// that a child loaded through one clone is loaded for all of them.
func (in *Inner) childInner(key any) *Inner {
	if child, ok := in.children[key]; ok {
		return child
	}
	if in.children == nil {
		in.children = make(map[any]*Inner)
	}
	child := NewInner(in.cors, in.referrer, Integrity{})
	in.children[key] = child
	return child
}

// pruneChildren forgets the inners of @import rules which are no longer
// part of the document.
func (in *Inner) pruneChildren(keep map[any]bool) {
	for key := range in.children {
		if !keep[key] {
			delete(in.children, key)
		}
	}
}

// SizeOf returns the approximate memory consumed by in and its document.
func (in *Inner) SizeOf() int {
	n := int(unsafe.Sizeof(*in))
	if doc, ok := in.Document().Get(); ok {
		n += doc.Size()
	}
	if d := in.urlData; d != nil {
		n += int(unsafe.Sizeof(*d)) + len(d.Principal)
		n += urlSize(d.SheetURL) + urlSize(d.BaseURL)
	}
	n += len(in.referrer) + len(in.integrity.Algorithm) + len(in.integrity.Digest)
	return n
}

func urlSize(u *url.URL) int {
	if u == nil {
		return 0
	}
	return int(unsafe.Sizeof(*u)) + len(u.String())
}
