package multimethod

import (
	"fmt"
	"reflect"
)

// Unifier decides whether a registered Spec applies to the call it was built
// for. It returns the per-argument matches and true when every argument
// matched.
type Unifier func(spec Spec) (Result, bool)

// Generator builds a Unifier from the live arguments of a call. Each call
// gets a fresh Unifier closing over its arguments, so a generic function can
// unify arguments however it likes: by type, by a key inside each argument,
// by arbitrary patterns.
type Generator interface {
	Unify(args Args) Unifier
}

// GeneratorFunc is a function adapter for Generator.
type GeneratorFunc func(args Args) Unifier

// Unify implements the Generator interface.
func (f GeneratorFunc) Unify(args Args) Unifier { return f(args) }

// SpecValidator is an optional interface that generators can implement to
// reject specs at registration time instead of never matching them.
type SpecValidator interface {
	ValidateSpec(spec Spec) error
}

// Patterns returns the default Generator: each compiled specifier is applied
// to the argument at the same position (or with the same keyword).
func Patterns() Generator {
	return GeneratorFunc(func(args Args) Unifier {
		return func(spec Spec) (Result, bool) {
			return unify(args, spec, nil)
		}
	})
}

// Types returns a Generator that dispatches on argument types. Specifiers
// must be reflect.Type values or Patterns; interface types match any
// implementation.
//
//	add := multimethod.New[int](multimethod.Types())
//	add.Method(sumInts, reflect.TypeFor[int](), reflect.TypeFor[int]())
func Types() Generator {
	return typesGenerator{}
}

type typesGenerator struct{}

func (typesGenerator) Unify(args Args) Unifier {
	return func(spec Spec) (Result, bool) {
		return unify(args, spec, nil)
	}
}

func (typesGenerator) ValidateSpec(spec Spec) error {
	check := func(where string, v any) error {
		if vp, ok := v.(variadic); ok {
			v = vp.spec
		}
		switch v.(type) {
		case reflect.Type, Pattern:
			return nil
		}
		return fmt.Errorf("%s: specifier %v (%T) is not a type", where, v, v)
	}
	for i, v := range spec.pos {
		if err := check(fmt.Sprintf("position %d", i), v); err != nil {
			return err
		}
	}
	for name, v := range spec.kw {
		if err := check(fmt.Sprintf("keyword %q", name), v); err != nil {
			return err
		}
	}
	return nil
}

// KeyDispatch returns a Generator that looks up key in every argument and
// tests the value found there against the specifier. Literal specifiers
// compare for equality; arguments without the key never match.
//
//	say := multimethod.New[string](multimethod.KeyDispatch("type"))
//	say.Method(personToRobot, "person", "robot")
func KeyDispatch(key string) Generator {
	extract := Key(key)
	return GeneratorFunc(func(args Args) Unifier {
		return func(spec Spec) (Result, bool) {
			return unify(args, spec, func(p Pattern) Pattern {
				return Compose(p, extract)
			})
		}
	})
}

// unify applies spec to args position by position and keyword by keyword.
// wrap, if set, adapts each compiled pattern before it is applied.
func unify(args Args, spec Spec, wrap func(Pattern) Pattern) (Result, bool) {
	if !spec.Accepts(len(args.Pos)) || len(args.Kw) != len(spec.kwPatterns) {
		return Result{}, false
	}

	res := Result{Pos: make([]Match, len(args.Pos))}
	for i, a := range args.Pos {
		p, ok := spec.Pattern(i)
		if !ok {
			return Result{}, false
		}
		if wrap != nil {
			p = wrap(p)
		}
		m := p.Match(a)
		if !m.OK() {
			return Result{}, false
		}
		res.Pos[i] = m
	}

	if len(args.Kw) > 0 {
		res.Kw = make(map[string]Match, len(args.Kw))
		for name, a := range args.Kw {
			p, ok := spec.KwPattern(name)
			if !ok {
				return Result{}, false
			}
			if wrap != nil {
				p = wrap(p)
			}
			m := p.Match(a)
			if !m.OK() {
				return Result{}, false
			}
			res.Kw[name] = m
		}
	}
	return res, true
}
