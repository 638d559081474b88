package multimethod

// All returns a Pattern that matches when every pattern matches the
// argument. The argument is passed through unchanged.
func All(ps ...Pattern) Pattern {
	return all{ps: ps}
}

type all struct {
	ps []Pattern
}

func (p all) Match(x any) Match {
	for _, sub := range p.ps {
		if !sub.Match(x).OK() {
			return Failure()
		}
	}
	return Success(x, x)
}

// Any returns a Pattern that matches when at least one pattern matches.
// The result is the Match of the first pattern that succeeded.
func Any(ps ...Pattern) Pattern {
	return anyOf{ps: ps}
}

type anyOf struct {
	ps []Pattern
}

func (p anyOf) Match(x any) Match {
	for _, sub := range p.ps {
		if m := sub.Match(x); m.OK() {
			return m
		}
	}
	return Failure()
}

// OneOf returns a Pattern that matches when exactly one pattern matches,
// returning that pattern's Match.
func OneOf(ps ...Pattern) Pattern {
	return oneOf{ps: ps}
}

type oneOf struct {
	ps []Pattern
}

func (p oneOf) Match(x any) Match {
	var hit Match
	n := 0
	for _, sub := range p.ps {
		if m := sub.Match(x); m.OK() {
			hit = m
			n++
		}
	}
	if n != 1 {
		return Failure()
	}
	return hit
}

// HasKeys returns a Pattern that matches when all keys exist. For JSON
// arguments the keys are gjson paths. Matching with no keys is vacuously
// true.
func HasKeys(paths ...string) Pattern {
	return hasKeys{paths: paths}
}

type hasKeys struct {
	paths []string
}

func (p hasKeys) Match(x any) Match {
	for _, path := range p.paths {
		if _, ok := lookup(x, path); !ok {
			return Failure()
		}
	}
	return Success(p.paths, x)
}

// KeyEquals returns a Pattern that matches when the key exists and its value
// equals v. Unlike Compose(Equal(v), Key(path)), Value is the original
// argument rather than the extracted field.
func KeyEquals(path string, v any) Pattern {
	return AsPredicate(Compose(Equal(v), Key(path)))
}
