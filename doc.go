// Package multimethod provides generic functions with multiple dispatch over
// arbitrary predicates.
//
// A generic function holds an ordered table of methods. Each method is
// registered with a Spec: one specifier per argument, which may be a type, a
// literal value or a Pattern built from small combinators. At call time the
// generic function tests every spec against the live arguments, in
// registration order, and hands the matching methods to a Combiner that
// produces the result.
//
// # Quick Start
//
// Dispatch on argument types:
//
//	add := multimethod.New[int](multimethod.Types(), multimethod.WithName("add"))
//
//	add.Method(multimethod.Func2(func(x, y int) int { return x + y }),
//	    reflect.TypeFor[int](), reflect.TypeFor[int]())
//
//	add.Method(multimethod.Func2(func(x int, y string) int {
//	    n, _ := strconv.Atoi(y)
//	    return x + n
//	}), reflect.TypeFor[int](), reflect.TypeFor[string]())
//
//	n, err := add.Call(ctx, 1, "10") // 11
//
// Dispatch on the value stored under a key of each argument:
//
//	say := multimethod.New[string](multimethod.KeyDispatch("type"))
//	say.Method(personToPerson, "person", "person")
//	say.Method(personToRobot, "person", "robot")
//
// # Patterns
//
// A Pattern tests one argument and returns a Match: success or failure, the
// criterion that matched, and the subject the match ended on. Patterns
// compose:
//
//   - Equal, In: compare the argument with literal values
//   - Is: test identity rather than equality
//   - Type, TypeOf, Kind, Number: test the argument's type
//   - Key, Keys, Attr, Attrs: extract fields from a map, JSON/YAML document or
//     struct
//   - Compose: chain patterns right to left, feeding each extraction to the
//     next test
//   - With: keep the original argument next to what was extracted
//   - AsPredicate: keep only the yes/no answer of an extracting pattern
//   - Many: run several patterns over the same argument
//   - All, Any, OneOf, HasKeys, KeyEquals: logical combinations
//
// A missing key or attribute is an ordinary failed match, never an error:
//
//	shape := multimethod.Compose(multimethod.Equal("circle"), multimethod.Key("shape"))
//	shape.Match(map[string]any{"shape": "circle"}).OK() // true
//	shape.Match(map[string]any{"kind": "circle"}).OK()  // false
//
// # Generators
//
// How a spec is tested against a call is decided per call by a Generator.
// Its Unify method receives the call's arguments and returns a Unifier,
// which is then asked about every registered spec. The built-in generators
// are Patterns (the default), Types and KeyDispatch; implement Generator to
// unify differently, and SpecValidator to reject unusable specs at
// registration.
//
// # Combiners
//
// The applicable methods of a call are reduced to a result by a Combiner:
//
//   - ApplyFirst (default): the first applicable method runs
//   - ApplyLast: the last applicable method runs, so general fallbacks
//     registered last win over specific cases
//   - Reduce: every applicable method runs and results are folded
//   - ApplyAll: every applicable method runs, errors are combined
//
// Combiners never see an empty list. When nothing applies, the call fails
// with a NoApplicableMethodError that names the arguments:
//
//	_, err := area.Call(ctx, map[string]any{"shape": "hexagon"})
//	errors.Is(err, multimethod.ErrNoApplicableMethod) // true
//
// # Hooks
//
// Hooks provide observability without coupling to specific logging or
// metrics systems:
//
//	g := multimethod.New[string](gen,
//	    multimethod.WithOnSuccess(func(ctx context.Context, name string, d time.Duration) {
//	        metrics.Timing("multimethod.success", d, "generic:"+name)
//	    }),
//	    multimethod.WithOnNoMethod(func(ctx context.Context, name string, args multimethod.Args) {
//	        logger.Warn(ctx, "no method", "generic", name)
//	    }),
//	)
//
// The package also logs dispatch decisions at debug level through go-log
// under the "multimethod" subsystem, and counts calls through
// go-metrics-interface (see WithMetricsScope).
//
// # Caching
//
// Dispatch scans every method on every call. For hot generic functions whose
// applicability depends on something cheap to key on (such as argument
// types), WithCache memoizes the applicable set in an LRU.
//
// # Concurrency
//
// Registration and calls may run concurrently. A call dispatches against the
// methods registered when it started.
package multimethod
