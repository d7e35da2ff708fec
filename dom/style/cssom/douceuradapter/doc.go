/*
Package douceuradapter is a concrete implementation of interface cssom.Engine.

CSS text is parsed with github.com/aymerick/douceur. Compiled documents
(type CSSStyles) wrap a douceur stylesheet and implement cssom.Compiled;
rules implement cssom.Rule, and grouping rules (@media, @supports,
@document) implement cssom.GroupRule.

Douceur is a forgiving parser and knows nothing about selectors. By default
the engine therefore checks the prelude of every style rule with
github.com/andybalholm/cascadia. When parsing a whole sheet, style rules
with invalid selectors are dropped, as browsers do. When inserting a single
rule, an invalid selector is a syntax error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylo.engine'.
func tracer() tracing.Trace {
	return tracing.Select("stylo.engine")
}
