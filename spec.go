package multimethod

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Args are the arguments of one call to a generic function.
type Args struct {
	Pos []any
	Kw  map[string]any
}

// Positional builds Args from positional arguments only.
func Positional(args ...any) Args {
	return Args{Pos: args}
}

func (a Args) String() string {
	parts := make([]string, 0, len(a.Pos)+len(a.Kw))
	for _, v := range a.Pos {
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	names := slices.Collect(maps.Keys(a.Kw))
	sort.Strings(names)
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", n, a.Kw[n]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Spec is the declared specifier of one method: a specifier per positional
// argument and per keyword argument. A specifier is a Pattern, a
// reflect.Type, or a literal value; see Compile. Specs are immutable.
type Spec struct {
	pos      []any
	kw       map[string]any
	variadic bool

	// compiled forms, filled at registration
	posPatterns []Pattern
	kwPatterns  map[string]Pattern
}

// On returns a Spec with the given positional specifiers. Wrap the last one
// in Variadic to match any number of trailing arguments.
//
//	multimethod.On(reflect.TypeFor[int](), reflect.TypeFor[string]())
//	multimethod.On("person", "robot")
//	multimethod.On(multimethod.With(multimethod.Key("name")))
func On(specs ...any) Spec {
	return Spec{pos: slices.Clone(specs)}
}

// Kw returns a copy of s with a keyword specifier added.
func (s Spec) Kw(name string, spec any) Spec {
	kw := maps.Clone(s.kw)
	if kw == nil {
		kw = make(map[string]any, 1)
	}
	kw[name] = spec
	return Spec{pos: slices.Clone(s.pos), kw: kw}
}

// Positions returns the declared positional specifiers.
func (s Spec) Positions() []any { return slices.Clone(s.pos) }

// Keyword returns the declared specifier for a keyword argument.
func (s Spec) Keyword(name string) (any, bool) {
	v, ok := s.kw[name]
	return v, ok
}

// Pattern returns the compiled pattern for position i. For a variadic spec,
// positions past the last one use the variadic pattern. It reports false
// when the spec declares no position i.
func (s Spec) Pattern(i int) (Pattern, bool) {
	n := len(s.posPatterns)
	switch {
	case i < 0:
		return nil, false
	case s.variadic && i >= n-1:
		return s.posPatterns[n-1], true
	case i < n:
		return s.posPatterns[i], true
	}
	return nil, false
}

// KwPattern returns the compiled pattern for a keyword argument.
func (s Spec) KwPattern(name string) (Pattern, bool) {
	p, ok := s.kwPatterns[name]
	return p, ok
}

// Arity reports the number of positional specifiers and whether the last
// one is variadic.
func (s Spec) Arity() (n int, variadic bool) {
	return len(s.pos), s.variadic
}

// Accepts reports whether the spec can cover n positional arguments.
func (s Spec) Accepts(n int) bool {
	if s.variadic {
		return n >= len(s.pos)-1
	}
	return n == len(s.pos)
}

// compile resolves every declared specifier into a Pattern.
func (s Spec) compile() (Spec, error) {
	out := Spec{pos: s.pos, kw: s.kw}
	out.posPatterns = make([]Pattern, len(s.pos))
	for i, v := range s.pos {
		if vp, ok := v.(variadic); ok {
			if i != len(s.pos)-1 {
				return Spec{}, fmt.Errorf("variadic specifier at position %d is not last", i)
			}
			out.variadic = true
			v = vp.spec
		}
		out.posPatterns[i] = Compile(v)
	}
	if len(s.kw) > 0 {
		out.kwPatterns = make(map[string]Pattern, len(s.kw))
		for name, v := range s.kw {
			if _, ok := v.(variadic); ok {
				return Spec{}, fmt.Errorf("variadic specifier for keyword %q", name)
			}
			out.kwPatterns[name] = Compile(v)
		}
	}
	return out, nil
}

// Variadic marks the last positional specifier as applying to every
// remaining argument, zero or more.
func Variadic(spec any) any {
	return variadic{spec: spec}
}

type variadic struct {
	spec any
}

// Compile turns a declared specifier into a Pattern:
//   - a Pattern is used as is
//   - a reflect.Type becomes Type(t)
//   - anything else, nil included, becomes Equal(v)
func Compile(spec any) Pattern {
	switch v := spec.(type) {
	case Pattern:
		return v
	case reflect.Type:
		return Type(v)
	}
	return Equal(spec)
}
