package cssom

import (
	"errors"
	"net/url"
)

// LoadInfo describes the origin of sheet text handed to ParseSheet.
type LoadInfo struct {
	SheetURL  *url.URL   // URL of the sheet; nil for inline sheets
	BaseURL   *url.URL   // base for relative URLs; defaults to SheetURL
	Principal string     // origin the sheet is attributed to
	Line      int        // line number within the owning document
	Compat    CompatMode // compatibility mode of the owning document
}

func (info LoadInfo) urlData() *URLData {
	base := info.BaseURL
	if base == nil {
		base = info.SheetURL
	}
	return &URLData{
		SheetURL:  info.SheetURL,
		BaseURL:   base,
		Principal: info.Principal,
		Line:      info.Line,
		Compat:    info.Compat,
	}
}

// ParseSheet compiles text and completes the load protocol for s.
//
// If the engine fails to compile text, s moves to state Failed. Otherwise s
// moves to state Loaded and an @import child sheet is created for every
// @import rule of the document. Either way, observer (if non-nil) is then
// notified exactly once, with a nil status on success.
//
// ParseSheet returns an error only if the protocol is violated, i.e. if s
// (or any of its clones) has already been loaded. Parse failures are
// reported through the observer.
func (s *Sheet) ParseSheet(observer LoaderObserver, text string, info LoadInfo) error {
	if s.closed {
		return NewError(NotReady, "parse-sheet", "sheet is closed")
	}
	if st := s.inner.State(); st != Unloaded {
		return NewError(AlreadySet, "parse-sheet", "sheet has already been loaded (%s)", st)
	}
	data := info.urlData()
	var doc Compiled
	var err error
	if s.engine == nil {
		err = NewError(ParseFailure, "parse-sheet", "no style engine")
	} else {
		switch m := s.engine.Parse(text, data.BaseURL, info.Compat).Match(); m {
		case m.Err(&err):
		case m.Ok(&doc):
			if doc == nil {
				err = NewError(ParseFailure, "parse-sheet", "engine returned no document")
			}
		}
	}
	var status error
	if err != nil {
		status = parseStatus(err)
		if e := s.inner.fail(data); e != nil {
			return e
		}
		tracer().P("sheet", s).Infof("failed to parse style sheet: %v", err)
	} else {
		if e := s.inner.SetDocument(doc, data); e != nil {
			return e
		}
		s.syncImports()
		tracer().P("sheet", s).Debugf("parsed style sheet with %d rules, %d imports",
			doc.Len(), len(s.imports))
	}
	s.notify(observer, status)
	return nil
}

func parseStatus(err error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind == ParseFailure {
		return e
	}
	return WrapError(ParseFailure, "parse-sheet", err)
}

// LoadFailed completes the load protocol for a sheet whose text could not
// be obtained. s moves to state Failed without ever invoking the engine.
// observer (if non-nil) is notified exactly once, with a status of kind
// LoadFailure wrapping cause.
//
// Either ParseSheet or LoadFailed must be called before a sheet is added to
// a document.
func (s *Sheet) LoadFailed(observer LoaderObserver, cause error) error {
	if s.closed {
		return NewError(NotReady, "load-failed", "sheet is closed")
	}
	if err := s.inner.fail(nil); err != nil {
		return err
	}
	tracer().P("sheet", s).Infof("style sheet failed to load: %v", cause)
	s.notify(observer, WrapError(LoadFailure, "load", cause))
	return nil
}

// SetSheetForImport installs an already compiled document into an unloaded
// sheet, bypassing the engine. No observer is notified.
func (s *Sheet) SetSheetForImport(doc Compiled, info LoadInfo) error {
	if doc == nil {
		return NewError(ParseFailure, "set-sheet", "no document")
	}
	if err := s.inner.SetDocument(doc, info.urlData()); err != nil {
		return err
	}
	s.syncImports()
	return nil
}

func (s *Sheet) notify(observer LoaderObserver, status error) {
	if observer != nil {
		observer.SheetLoaded(s, s.alternate, status)
	}
}

// SheetLoaded is called for @import children of s when they complete
// loading. Sheets are loader observers for their children.
func (s *Sheet) SheetLoaded(child *Sheet, wasAlternate bool, status error) {
	if child == nil || child.Parent() != s {
		tracer().Errorf("sheet notified about a sheet which is not its child")
		return
	}
	if status != nil {
		tracer().P("import", child.OwnerRule().Href()).Infof("@import failed: %v", status)
	}
	tracer().P("sheet", s).Debugf("@import completed, %d pending", s.PendingImports())
}

var _ LoaderObserver = &Sheet{}
