package multimethod

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	metrics "github.com/ipfs/go-metrics-interface"
)

var log = logging.Logger("multimethod")

// Generic is a generic function: a set of methods selected at call time by
// predicates over the call's arguments.
//
// Usage:
//  1. Create a generic function with New, choosing how arguments are unified
//     with specs (Patterns, Types, KeyDispatch or your own Generator)
//  2. Register methods with Register or Method
//  3. Call it with Call or CallArgs
//
// Every call scans the methods in registration order, collects those whose
// spec matches, and hands them to the Combiner (ApplyFirst unless configured
// otherwise). When none applies the call fails with a
// NoApplicableMethodError.
//
// Generic is safe for concurrent use. A call works on a snapshot of the
// methods registered when it started.
type Generic[R any] struct {
	name     string
	gen      Generator
	combiner Combiner
	table    Table
	hooks    hooks
	memo     *memo

	calls    metrics.Counter
	noMethod metrics.Counter
}

// New creates a generic function with an empty method table. gen builds the
// per-call unification logic; nil means Patterns.
//
// Example:
//
//	area := multimethod.New[float64](multimethod.Patterns(),
//	    multimethod.WithName("area"),
//	    multimethod.WithOnNoMethod(func(ctx context.Context, name string, args multimethod.Args) {
//	        log.Printf("%s: nothing matches %v", name, args)
//	    }),
//	)
func New[R any](gen Generator, opts ...Option) *Generic[R] {
	if gen == nil {
		gen = Patterns()
	}
	cfg := newConfig(opts)

	base := cfg.metricsCtx
	if base == nil {
		base = metrics.CtxScope(context.Background(), "multimethod")
	} else {
		base = metrics.CtxSubScope(base, "multimethod")
	}
	scope := metrics.CtxSubScope(base, cfg.name)

	g := &Generic[R]{
		name:     cfg.name,
		gen:      gen,
		combiner: cfg.combiner,
		hooks:    cfg.hooks,
		calls:    metrics.NewCtx(scope, "calls_total", "Number of calls to the generic function").Counter(),
		noMethod: metrics.NewCtx(scope, "no_method_total", "Number of calls with no applicable method").Counter(),
	}
	if cfg.cacheKey != nil {
		hits := metrics.NewCtx(scope, "cache_hits_total", "Number of dispatch cache hits").Counter()
		g.memo = newMemo(cfg.cacheSize, cfg.cacheKey, hits)
	}
	return g
}

// Name returns the name of the generic function.
func (g *Generic[R]) Name() string { return g.name }

// Table returns the method table. It is read-only outside the package.
func (g *Generic[R]) Table() *Table { return &g.table }

// Register adds a method for spec. Methods are tried in registration order.
//
// Register fails with a RegistrationError when m is nil, when a Variadic
// specifier is not last, or when the generator rejects the spec.
func (g *Generic[R]) Register(spec Spec, m Method[R]) error {
	if m == nil {
		return g.registrationError(errors.New("nil method"))
	}
	compiled, err := spec.compile()
	if err != nil {
		return g.registrationError(err)
	}
	if v, ok := g.gen.(SpecValidator); ok {
		if err := v.ValidateSpec(compiled); err != nil {
			return g.registrationError(err)
		}
	}

	e := g.table.add(compiled, func(ctx context.Context, c Call) (any, error) {
		return m(ctx, c)
	})
	if g.memo != nil {
		g.memo.purge()
	}
	log.Debugw("registered method", "generic", g.name, "index", e.Index(), "arity", len(compiled.pos))
	return nil
}

// MustRegister is like Register but panics on error. Use it in
// initialization code where a bad registration is a programming error.
func (g *Generic[R]) MustRegister(spec Spec, m Method[R]) {
	if err := g.Register(spec, m); err != nil {
		panic(err)
	}
}

// Method registers m for the positional specifiers specs. It is shorthand
// for Register(On(specs...), m).
//
// Example:
//
//	add.Method(multimethod.Func2(func(x, y int) int { return x + y }),
//	    reflect.TypeFor[int](), reflect.TypeFor[int]())
func (g *Generic[R]) Method(m Method[R], specs ...any) error {
	return g.Register(On(specs...), m)
}

func (g *Generic[R]) registrationError(reason error) error {
	log.Warnw("rejected method registration", "generic", g.name, "error", reason)
	return &RegistrationError{Name: g.name, Reason: reason}
}

// Call calls the generic function with positional arguments.
func (g *Generic[R]) Call(ctx context.Context, args ...any) (R, error) {
	return g.CallArgs(ctx, Args{Pos: args})
}

// CallArgs calls the generic function.
//
// The dispatch flow:
//  1. Build the call's Unifier from the generator
//  2. Test every method's spec in registration order
//  3. Fail with a NoApplicableMethodError if none matched
//  4. Hand the applicable methods to the combiner and return its result
//
// Hooks are called at appropriate points throughout this flow.
func (g *Generic[R]) CallArgs(ctx context.Context, args Args) (R, error) {
	var zero R
	g.calls.Inc()

	applicable := g.resolve(args)
	if len(applicable) == 0 {
		g.noMethod.Inc()
		g.hooks.noMethod(ctx, g.name, args)
		return zero, &NoApplicableMethodError{Name: g.name, Args: args}
	}

	g.hooks.dispatch(ctx, g.name, args, len(applicable))

	start := time.Now()
	out, err := g.combiner.Combine(ctx, args, applicable)
	duration := time.Since(start)

	var result R
	if err == nil && out != nil {
		r, ok := out.(R)
		if !ok {
			err = fmt.Errorf("%s: %w: combiner returned %T", g.name, ErrResultType, out)
		}
		result = r
	}

	if err != nil {
		g.hooks.failure(ctx, g.name, err, duration)
		return result, err
	}
	g.hooks.success(ctx, g.name, duration)
	return result, nil
}

// Applicable returns the methods whose specs match args, in registration
// order, without invoking any of them.
func (g *Generic[R]) Applicable(args Args) []Applicable {
	return g.resolve(args)
}

// resolve runs one dispatch pass over a snapshot of the table.
func (g *Generic[R]) resolve(args Args) []Applicable {
	entries := g.table.snapshot()
	unifier := g.unifier(args)
	if unifier == nil {
		return nil
	}

	var key any
	cacheable := false
	if g.memo != nil {
		key, cacheable = g.memo.keyFor(args)
		if cacheable {
			if indices, ok := g.memo.get(key, len(entries)); ok {
				if applicable, ok := g.retest(unifier, entries, indices); ok {
					log.Debugw("dispatch cache hit", "generic", g.name, "applicable", len(applicable))
					return applicable
				}
			}
		}
	}

	var applicable []Applicable
	for _, e := range entries {
		if res, ok := g.test(unifier, e); ok {
			applicable = append(applicable, Applicable{Entry: e, Result: res})
		}
	}
	log.Debugw("dispatched", "generic", g.name, "candidates", len(entries), "applicable", len(applicable))

	if cacheable {
		indices := make([]int, len(applicable))
		for i, a := range applicable {
			indices[i] = a.Entry.Index()
		}
		g.memo.put(key, len(entries), indices)
	}
	return applicable
}

// retest re-runs the cached entries against the live arguments. It reports
// false if any of them no longer matches, which means the KeyFunc grouped
// calls that dispatch differently.
func (g *Generic[R]) retest(unifier Unifier, entries []*Entry, indices []int) ([]Applicable, bool) {
	applicable := make([]Applicable, 0, len(indices))
	for _, i := range indices {
		res, ok := g.test(unifier, entries[i])
		if !ok {
			log.Debugw("stale dispatch cache entry", "generic", g.name, "index", i)
			return nil, false
		}
		applicable = append(applicable, Applicable{Entry: entries[i], Result: res})
	}
	return applicable, true
}

// unifier builds the call's Unifier. A generator that panics or returns nil
// leaves the call with no applicable method.
func (g *Generic[R]) unifier(args Args) (u Unifier) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugw("generator panicked, treating as no match", "generic", g.name, "panic", r)
			u = nil
		}
	}()
	return g.gen.Unify(args)
}

// test unifies one entry. A panicking pattern counts as a mismatch.
func (g *Generic[R]) test(unifier Unifier, e *Entry) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugw("pattern panicked, treating as mismatch", "generic", g.name, "index", e.Index(), "panic", r)
			res, ok = Result{}, false
		}
	}()
	return unifier(e.Spec())
}
