/*
Package loader drives style sheets through their load protocol.

A Loader reads sheet text from a file system (any fs.FS), hands it to
Sheet.ParseSheet, and recursively loads @import children. Text which cannot
be read, or which lives on another origin than the loader's base URL,
results in a call to Sheet.LoadFailed instead. Either way, registered
observers are notified exactly once per sheet.

Sheets are cached by URL. A second request for the same URL returns a clone
of the cached sheet, sharing its compiled document.

Loaders are configured with a Config, which may be read from YAML:

    base_url: https://example.com/book/
    compat_mode: standards
    cors: anonymous
    referrer_policy: no-referrer
    preferred_title: Default
    validate_selectors: true
    max_import_depth: 8

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package loader

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylo.loader'.
func tracer() tracing.Trace {
	return tracing.Select("stylo.loader")
}
