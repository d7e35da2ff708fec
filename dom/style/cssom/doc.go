/*
Package cssom implements the stylesheet object of the CSS Object Model.

Status

This is a first draft. It is unstable and the API will change without
notice. Please be patient.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML.
We do not parse CSS ourselves. Parsing is delegated to a style engine
(interface Engine), which hands back a compiled document (interface
Compiled). A concrete engine may be found in sub-package douceuradapter.

What this package manages is everything around the compiled document:

   Sheet     the user-visible stylesheet handle (a "wrapper")
   Inner     compiled document plus provenance, shared by all clones of a sheet
   RuleList  a lazily built view of the top-level rules, one per Sheet

Many elements may reference the same stylesheet (think of an @import or
a <link> appearing in a lot of documents). The loader will then parse the
sheet once and hand out clones. Clones share one Inner, hence one compiled
document: inserting a rule through one clone is visible through all the
others. Each clone builds its own RuleList, though. Rule lists are stamped
with a generation of the Inner and are rebuilt on the next call to
GetRules once they have gone stale.

Load protocol

A Sheet starts out Unloaded. A loader drives it to Loaded or Failed by
calling exactly one of ParseSheet and LoadFailed. Afterwards it notifies a
LoaderObserver, exactly once. Queries before load completion report
ErrNotReady.

Ownership

Documents own their sheets, sheets own their @import rules, and import
rules own their child sheets. Every pointer in the other direction (a sheet's
parent, owner rule, owning document and owning node) is a weak pointer.
There are no reference cycles.

Everything in this package is meant to be used from a single goroutine
(the "styling thread"). The one exception is the release of sheets which
are never closed: their share of the inner data is given back on the
runtime's cleanup goroutine, and the compiled document slot is locked for
that reason.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylo.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("stylo.cssom")
}
