package multimethod

import "fmt"

// Match is the outcome of testing a Pattern against one argument.
//
// A successful match carries two payloads:
//   - Matched: the criterion that succeeded (the expected value for Equal,
//     the extracted subject for With)
//   - Value: the subject the match ended on (the argument itself, or the
//     value a combinator like Key extracted from it)
//
// A failed match carries neither. Matched and Value return nil on failure.
type Match struct {
	ok      bool
	matched any
	value   any
}

// Success returns a successful Match.
func Success(matched, value any) Match {
	return Match{ok: true, matched: matched, value: value}
}

// Failure returns a failed Match.
func Failure() Match {
	return Match{}
}

// OK reports whether the match succeeded.
func (m Match) OK() bool { return m.ok }

// Matched returns the criterion that succeeded, or nil on failure.
func (m Match) Matched() any {
	if !m.ok {
		return nil
	}
	return m.matched
}

// Value returns the matched subject, or nil on failure.
func (m Match) Value() any {
	if !m.ok {
		return nil
	}
	return m.value
}

func (m Match) String() string {
	if !m.ok {
		return "Failure"
	}
	return fmt.Sprintf("Success(matched=%v, value=%v)", m.matched, m.value)
}

// Result is the outcome of unifying one registered Spec against the
// arguments of a call: one Match per positional argument and one per
// keyword argument.
type Result struct {
	Pos []Match
	Kw  map[string]Match
}
