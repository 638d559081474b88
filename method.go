package multimethod

import (
	"context"
	"fmt"
	"reflect"
)

// Method is the implementation registered for a Spec. It receives the
// original arguments and the matches its spec produced for them.
//
// Example:
//
//	func area(ctx context.Context, c multimethod.Call) (float64, error) {
//	    shape := c.Arg(0).(map[string]any)
//	    r := shape["radius"].(float64)
//	    return math.Pi * r * r, nil
//	}
type Method[R any] func(ctx context.Context, c Call) (R, error)

// Func1 adapts a function of one typed argument to a Method. The argument is
// asserted to A; a mismatch returns ErrArgumentType.
//
//	g.Method(multimethod.Func1(func(n int) string { return "int" }), reflect.TypeFor[int]())
func Func1[A, R any](fn func(a A) R) Method[R] {
	return func(_ context.Context, c Call) (R, error) {
		a, err := argAs[A](c, 0)
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(a), nil
	}
}

// Func2 adapts a function of two typed arguments to a Method. The arguments
// are asserted to A and B; a mismatch returns ErrArgumentType.
//
//	add.Method(multimethod.Func2(func(x, y int) int { return x + y }), intType, intType)
func Func2[A, B, R any](fn func(a A, b B) R) Method[R] {
	return func(_ context.Context, c Call) (R, error) {
		var zero R
		a, err := argAs[A](c, 0)
		if err != nil {
			return zero, err
		}
		b, err := argAs[B](c, 1)
		if err != nil {
			return zero, err
		}
		return fn(a, b), nil
	}
}

func argAs[T any](c Call, i int) (T, error) {
	v, ok := c.Arg(i).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: argument %d is %T, want %v", ErrArgumentType, i, c.Arg(i), reflect.TypeFor[T]())
	}
	return v, nil
}
