/*
Package dom is the home of the style sheet object model for HTML documents.

Status

Early draft—API may change frequently. Please stay patient.

Overview

Style sheets are found in HTML documents, either embedded in <style>
elements or referenced by <link rel="stylesheet"> elements, and they may
pull in further sheets with @import rules. Package dom/style/cssom models
these sheets as user-visible handles over compiled style documents:

    Document ──▶ Sheet ──▶ Inner ──▶ Compiled
                   │         ▲
                   └─clone───┘

Clones of a sheet share one reference-counted Inner, and with it the
compiled document and the load state. Every sheet has a rule list of its
own, which is built lazily and is the only way to change the rules.
Pointers from a sheet back to its parent sheet, its @import rule, its
document and its HTML node are weak.

Sub-packages:

    style/cssom                   sheets, rule lists, documents, the load protocol
    style/cssom/douceuradapter    a CSS engine on top of github.com/aymerick/douceur
    style/cssom/loader            loads sheets from a file system and from HTML
    domdbg                        tree dumps and diffs for debugging

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom
