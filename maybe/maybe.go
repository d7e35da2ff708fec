/*
Package maybe provides an option type.

A Maybe either holds a value (Just) or it does not (Nothing). Package cssom
uses it to model set-once slots, such as the compiled document of a
stylesheet: a slot starts out as Nothing and is filled exactly once.

Values are matched like this:

    var doc Compiled
    switch m := slot.Match(); m {
    case m.Just(&doc):
        …
    case m.Nothing():
        …
    }

Matching compares matchers for equality, therefore T should be a comparable
type (or an interface type holding comparable values).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package maybe

// Maybe is an option type for values of type T.
type Maybe[T any] interface {
	Match() Matcher[T]
	WithDefault(T) T
	IsJust() bool
	Get() (T, bool)
}

type maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps x.
func Just[T any](x T) Maybe[T] {
	return maybe[T]{value: x, tag: true}
}

// Nothing returns an empty option.
func Nothing[T any]() Maybe[T] {
	return maybe[T]{tag: false}
}

// Match returns a matcher to be used in a switch statement.
func (m maybe[T]) Match() Matcher[T] {
	return matcher[T]{m: m}
}

// WithDefault returns the wrapped value, or def for Nothing.
func (m maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

// IsJust is true if m holds a value.
func (m maybe[T]) IsJust() bool {
	return m.tag
}

// Get unwraps m in comma-ok style.
func (m maybe[T]) Get() (T, bool) {
	return m.value, m.tag
}

// --- Matching --------------------------------------------------------------

// Matcher is used for switch-style matching of Maybes.
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

type matcher[T any] struct {
	m maybe[T]
}

func (mm matcher[T]) Just(v *T) Matcher[T] {
	if mm.m.tag {
		*v = mm.m.value
		return mm
	}
	return nil
}

func (mm matcher[T]) Nothing() Matcher[T] {
	if !mm.m.tag {
		return mm
	}
	return nil
}
