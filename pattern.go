package multimethod

import (
	"fmt"
	"math"
	"reflect"
)

// Pattern tests one argument and reports a Match. Patterns are pure and
// hold no state across calls, so one value can be shared by any number of
// specs and generic functions.
type Pattern interface {
	Match(x any) Match
}

// PatternFunc is a function adapter for Pattern.
type PatternFunc func(x any) Match

// Match implements the Pattern interface.
func (f PatternFunc) Match(x any) Match { return f(x) }

// Equal returns a Pattern that matches arguments equal to k. Numbers
// compare by value across kinds, so Equal(2) matches float64(2).
// Matched is k, Value is the argument.
func Equal(k any) Pattern {
	return equal{k: k}
}

type equal struct {
	k any
}

func (p equal) Match(x any) Match {
	if !equals(p.k, x) {
		return Failure()
	}
	return Success(p.k, x)
}

func (p equal) String() string { return fmt.Sprintf("Equal(%v)", p.k) }

// In returns a Pattern that matches arguments equal to any of values.
// Matched is the member that compared equal.
func In(values ...any) Pattern {
	return in{values: values}
}

type in struct {
	values []any
}

func (p in) Match(x any) Match {
	for _, v := range p.values {
		if equals(v, x) {
			return Success(v, x)
		}
	}
	return Failure()
}

// Is returns a Pattern that matches only v itself: the same pointer, map,
// slice (same backing array and length), channel or function, or for other
// comparable values an == of the same type. Unlike Equal there is no
// numeric conversion and no deep comparison.
func Is(v any) Pattern {
	return is{v: v}
}

type is struct {
	v any
}

func (p is) Match(x any) Match {
	if !identical(p.v, x) {
		return Failure()
	}
	return Success(p.v, x)
}

func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// Key returns a Pattern that matches record-like arguments holding name and
// extracts the value stored there. Matched is name, Value is the extracted
// value. See Fields for the supported containers.
//
// An argument without the key, or one that cannot be looked up at all, is a
// failed match.
func Key(name string) Pattern {
	return key{name: name}
}

type key struct {
	name string
}

func (p key) Match(x any) Match {
	v, ok := lookup(x, p.name)
	if !ok {
		return Failure()
	}
	return Success(p.name, v)
}

func (p key) String() string { return fmt.Sprintf("Key(%q)", p.name) }

// Keys returns a Pattern that matches when every name is present and
// extracts the values as a []any in the order given.
func Keys(names ...string) Pattern {
	return keys{names: names}
}

type keys struct {
	names []string
}

func (p keys) Match(x any) Match {
	out := make([]any, 0, len(p.names))
	for _, n := range p.names {
		v, ok := lookup(x, n)
		if !ok {
			return Failure()
		}
		out = append(out, v)
	}
	return Success(p.names, out)
}

// Attr returns a Pattern that matches structs (or pointers to structs) with
// an exported field called name and extracts its value.
func Attr(name string) Pattern {
	return attr{name: name}
}

type attr struct {
	name string
}

func (p attr) Match(x any) Match {
	v, ok := attribute(x, p.name)
	if !ok {
		return Failure()
	}
	return Success(p.name, v)
}

// Attrs returns a Pattern that matches structs holding every named exported
// field and extracts their values as a []any in the order given.
func Attrs(names ...string) Pattern {
	return attrs{names: names}
}

type attrs struct {
	names []string
}

func (p attrs) Match(x any) Match {
	out := make([]any, 0, len(p.names))
	for _, n := range p.names {
		v, ok := attribute(x, n)
		if !ok {
			return Failure()
		}
		out = append(out, v)
	}
	return Success(p.names, out)
}

// Type returns a Pattern that matches arguments of type t. When t is an
// interface type, any argument whose dynamic type implements it matches.
// Matched is t, Value is the argument.
func Type(t reflect.Type) Pattern {
	return typ{t: t}
}

// TypeOf is Type for a type parameter:
//
//	multimethod.TypeOf[fmt.Stringer]()
func TypeOf[T any]() Pattern {
	return Type(reflect.TypeFor[T]())
}

type typ struct {
	t reflect.Type
}

func (p typ) Match(x any) Match {
	if x == nil || p.t == nil {
		return Failure()
	}
	xt := reflect.TypeOf(x)
	if xt == p.t || (p.t.Kind() == reflect.Interface && xt.Implements(p.t)) {
		return Success(p.t, x)
	}
	return Failure()
}

func (p typ) String() string { return fmt.Sprintf("Type(%v)", p.t) }

// Kind returns a Pattern that matches arguments whose reflect.Kind is one of
// kinds. Matched is the argument's kind.
func Kind(kinds ...reflect.Kind) Pattern {
	return kind{kinds: kinds}
}

type kind struct {
	kinds []reflect.Kind
}

func (p kind) Match(x any) Match {
	if x == nil {
		return Failure()
	}
	k := reflect.TypeOf(x).Kind()
	for _, want := range p.kinds {
		if k == want {
			return Success(k, x)
		}
	}
	return Failure()
}

// Number returns a Pattern that matches any integer, float or complex value,
// including named types built on them. It plays the role of an abstract
// numeric base type.
func Number() Pattern {
	return Kind(numberKinds...)
}

var numberKinds = []reflect.Kind{
	reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
	reflect.Float32, reflect.Float64,
	reflect.Complex64, reflect.Complex128,
}

// Predicate returns a Pattern that matches when fn reports true. Matched and
// Value are both the argument.
func Predicate(fn func(x any) bool) Pattern {
	return PatternFunc(func(x any) Match {
		if !fn(x) {
			return Failure()
		}
		return Success(x, x)
	})
}

// Anything returns a Pattern that matches every argument, nil included.
func Anything() Pattern {
	return anything{}
}

type anything struct{}

func (anything) Match(x any) Match { return Success(nil, x) }

// AsPredicate turns an extracting pattern into a plain test: it matches when
// p matches, but the extracted subject is dropped and Value is the original
// argument.
func AsPredicate(p Pattern) Pattern {
	return asPredicate{p: p}
}

type asPredicate struct {
	p Pattern
}

func (p asPredicate) Match(x any) Match {
	m := p.p.Match(x)
	if !m.OK() {
		return Failure()
	}
	return Success(m.Matched(), x)
}

// Compose chains patterns right to left, like function composition: the last
// pattern is applied to the argument, its Value is handed to the one before
// it, and so on. The first failure stops the chain. The result is the Match of
// the leftmost pattern.
//
//	// {"shape": "circle"} matches, {"kind": "circle"} does not
//	multimethod.Compose(multimethod.Equal("circle"), multimethod.Key("shape"))
func Compose(ps ...Pattern) Pattern {
	return compose{ps: ps}
}

type compose struct {
	ps []Pattern
}

func (p compose) Match(x any) Match {
	m := Success(nil, x)
	for i := len(p.ps) - 1; i >= 0; i-- {
		m = p.ps[i].Match(m.Value())
		if !m.OK() {
			return Failure()
		}
	}
	return m
}

// Many applies every pattern to the same argument and matches when all of
// them do. Matched and Value are []any holding each pattern's Matched and
// Value, in order.
//
//	multimethod.Many(multimethod.Key("width"), multimethod.Attr("Height"))
func Many(ps ...Pattern) Pattern {
	return many{ps: ps}
}

type many struct {
	ps []Pattern
}

func (p many) Match(x any) Match {
	matched := make([]any, 0, len(p.ps))
	values := make([]any, 0, len(p.ps))
	for _, sub := range p.ps {
		m := sub.Match(x)
		if !m.OK() {
			return Failure()
		}
		matched = append(matched, m.Matched())
		values = append(values, m.Value())
	}
	return Success(matched, values)
}

// With keeps the whole argument around: it matches when p matches, Matched is
// the subject p extracted and Value is the original argument. Use it when the
// implementation needs both the key it was selected on and the full record.
func With(p Pattern) Pattern {
	return with{p: p}
}

type with struct {
	p Pattern
}

func (p with) Match(x any) Match {
	m := p.p.Match(x)
	if !m.OK() {
		return Failure()
	}
	return Success(m.Value(), x)
}

// equals compares two values. Numbers compare by value across kinds,
// comparable values with ==, and everything else with reflect.DeepEqual.
func equals(a, b any) bool {
	if an, ok := toNumber(a); ok {
		if bn, ok := toNumber(b); ok {
			return an.equal(bn)
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

type numberClass int

const (
	signed numberClass = iota
	unsigned
	floating
)

// number is a real numeric value kept in its widest exact representation.
type number struct {
	class numberClass
	i     int64
	u     uint64
	f     float64
}

func toNumber(x any) (number, bool) {
	if x == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{class: signed, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{class: unsigned, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{class: floating, f: rv.Float()}, true
	}
	return number{}, false
}

// equal compares integers exactly. A float equals an integer only when it
// is integral, in range, and converts to that same integer.
func (n number) equal(o number) bool {
	if n.class > o.class {
		n, o = o, n
	}
	switch {
	case n.class == signed && o.class == signed:
		return n.i == o.i
	case n.class == unsigned && o.class == unsigned:
		return n.u == o.u
	case n.class == floating && o.class == floating:
		return n.f == o.f
	case n.class == signed && o.class == unsigned:
		return n.i >= 0 && uint64(n.i) == o.u
	case n.class == signed && o.class == floating:
		if o.f != math.Trunc(o.f) || o.f < -(1<<63) || o.f >= 1<<63 {
			return false
		}
		return int64(o.f) == n.i
	case n.class == unsigned && o.class == floating:
		if o.f != math.Trunc(o.f) || o.f < 0 || o.f >= 1<<64 {
			return false
		}
		return uint64(o.f) == n.u
	}
	return false
}
