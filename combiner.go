package multimethod

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Call is what a method receives: the call's arguments plus the matches its
// spec produced for them. Matches carry what patterns such as With and Key
// extracted, so a method can read the matched criterion next to the
// original argument.
type Call struct {
	Args
	Result Result
}

// Arg returns positional argument i, or nil if out of range.
func (c Call) Arg(i int) any {
	if i < 0 || i >= len(c.Pos) {
		return nil
	}
	return c.Pos[i]
}

// Kwarg returns the keyword argument name.
func (c Call) Kwarg(name string) (any, bool) {
	v, ok := c.Kw[name]
	return v, ok
}

// Match returns the match for positional argument i. Out of range positions
// report a failed match.
func (c Call) Match(i int) Match {
	if i < 0 || i >= len(c.Result.Pos) {
		return Failure()
	}
	return c.Result.Pos[i]
}

// KwMatch returns the match for keyword argument name.
func (c Call) KwMatch(name string) Match {
	m, ok := c.Result.Kw[name]
	if !ok {
		return Failure()
	}
	return m
}

// Applicable is an entry whose spec matched a call, with the matches it
// produced.
type Applicable struct {
	Entry  *Entry
	Result Result
}

// Invoke calls the entry's method with args and the entry's matches.
func (a Applicable) Invoke(ctx context.Context, args Args) (any, error) {
	return a.Entry.invoke(ctx, Call{Args: args, Result: a.Result})
}

// Combiner turns the applicable entries of a call into the call's result.
// It is only ever called with at least one applicable entry, in
// registration order; the empty case is reported by the generic function
// as a NoApplicableMethodError.
//
// Implement Combiner to invoke several methods and merge their results. The
// value returned must be assignable to the generic function's result type.
type Combiner interface {
	Combine(ctx context.Context, args Args, applicable []Applicable) (any, error)
}

// CombinerFunc is a function adapter for Combiner.
type CombinerFunc func(ctx context.Context, args Args, applicable []Applicable) (any, error)

// Combine implements the Combiner interface.
func (f CombinerFunc) Combine(ctx context.Context, args Args, applicable []Applicable) (any, error) {
	return f(ctx, args, applicable)
}

// ApplyFirst returns the default Combiner: the first applicable method in
// registration order is invoked and the rest are ignored.
func ApplyFirst() Combiner {
	return CombinerFunc(func(ctx context.Context, args Args, applicable []Applicable) (any, error) {
		return applicable[0].Invoke(ctx, args)
	})
}

// ApplyLast returns a Combiner that invokes only the last applicable method.
// Register specific cases first and general ones last and the most general
// applicable case wins.
func ApplyLast() Combiner {
	return CombinerFunc(func(ctx context.Context, args Args, applicable []Applicable) (any, error) {
		return applicable[len(applicable)-1].Invoke(ctx, args)
	})
}

// Reduce returns a Combiner that invokes every applicable method in order and
// folds the results with fn. The first error stops the fold, and so does a
// result that is not an R (ErrResultType).
//
//	total := multimethod.New[int](gen, multimethod.WithCombiner(
//	    multimethod.Reduce(func(acc, next int) int { return acc + next }),
//	))
func Reduce[R any](fn func(acc, next R) R) Combiner {
	return CombinerFunc(func(ctx context.Context, args Args, applicable []Applicable) (any, error) {
		var acc R
		for i, a := range applicable {
			out, err := a.Invoke(ctx, args)
			if err != nil {
				return nil, err
			}
			r, ok := out.(R)
			if !ok && out != nil {
				return nil, fmt.Errorf("%w: method %d returned %T", ErrResultType, a.Entry.Index(), out)
			}
			if i == 0 {
				acc = r
				continue
			}
			acc = fn(acc, r)
		}
		return acc, nil
	})
}

// ApplyAll returns a Combiner that invokes every applicable method, even
// after one fails. The result is that of the last method that succeeded; the
// errors of all failed methods are combined.
func ApplyAll() Combiner {
	return CombinerFunc(func(ctx context.Context, args Args, applicable []Applicable) (any, error) {
		var (
			result any
			errs   error
		)
		for _, a := range applicable {
			out, err := a.Invoke(ctx, args)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			result = out
		}
		return result, errs
	})
}
