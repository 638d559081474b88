package multimethod

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant[R any](v R) Method[R] {
	return func(context.Context, Call) (R, error) { return v, nil }
}

func TestGeneric_Call(t *testing.T) {
	ctx := context.Background()
	intT, strT := reflect.TypeFor[int](), reflect.TypeFor[string]()

	t.Run("dispatches on types", func(t *testing.T) {
		add := New[int](Types(), WithName("add"))
		require.NoError(t, add.Method(Func2(func(x, y int) int { return x + y }), intT, intT))
		require.NoError(t, add.Method(Func2(func(x int, y string) int {
			n := 0
			_, _ = fmt.Sscanf(y, "%d", &n)
			return x + n
		}), intT, strT))

		got, err := add.Call(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, got)

		got, err = add.Call(ctx, 1, "10")
		require.NoError(t, err)
		assert.Equal(t, 11, got)
	})

	t.Run("dispatches on key values", func(t *testing.T) {
		say := New[string](KeyDispatch("type"))
		say.MustRegister(On("person", "person"), func(_ context.Context, c Call) (string, error) {
			x, y := c.Arg(0).(map[string]any), c.Arg(1).(map[string]any)
			return fmt.Sprintf("I say '%v', you say '%v'", x["what"], y["what"]), nil
		})
		say.MustRegister(On("person", "robot"), func(_ context.Context, c Call) (string, error) {
			x, y := c.Arg(0).(map[string]any), c.Arg(1).(map[string]any)
			return fmt.Sprintf("I say '%v', you say 'bip boop %v bip boop'", x["what"], y["what"]), nil
		})

		got, err := say.Call(ctx,
			map[string]any{"type": "person", "what": "Hello!"},
			map[string]any{"type": "robot", "what": "GOODBYE!"},
		)
		require.NoError(t, err)
		assert.Equal(t, "I say 'Hello!', you say 'bip boop GOODBYE! bip boop'", got)
	})

	t.Run("returns NoApplicableMethodError when nothing matches", func(t *testing.T) {
		g := New[string](Patterns(), WithName("describe"))
		g.MustRegister(On("circle"), constant("round"))

		got, err := g.Call(ctx, "hexagon")

		assert.Empty(t, got)
		require.ErrorIs(t, err, ErrNoApplicableMethod)
		var nerr *NoApplicableMethodError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, "describe", nerr.Name)
		assert.Equal(t, []any{"hexagon"}, nerr.Args.Pos)
		assert.Contains(t, err.Error(), "hexagon")
	})

	t.Run("empty table has no applicable method", func(t *testing.T) {
		g := New[int](nil)
		_, err := g.Call(ctx)
		assert.ErrorIs(t, err, ErrNoApplicableMethod)
	})

	t.Run("first registered wins by default", func(t *testing.T) {
		g := New[string](Patterns())
		g.MustRegister(On(Number()), constant("A"))
		g.MustRegister(On(Number()), constant("B"))

		got, err := g.Call(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "A", got)
	})

	t.Run("last applicable wins with ApplyLast", func(t *testing.T) {
		g := New[string](Patterns(), WithCombiner(ApplyLast()))
		g.MustRegister(On(Number()), constant("A"))
		g.MustRegister(On(Number()), constant("B"))
		g.MustRegister(On("x"), constant("C"))

		got, err := g.Call(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "B", got)
	})

	t.Run("method errors are returned", func(t *testing.T) {
		wantErr := errors.New("method error")
		g := New[int](Patterns())
		g.MustRegister(On(Anything()), func(context.Context, Call) (int, error) { return 0, wantErr })

		_, err := g.Call(ctx, 1)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("only the selected branch executes", func(t *testing.T) {
		var ran []string
		g := New[string](Patterns())
		for _, shape := range []string{"circle", "square"} {
			g.MustRegister(On(Compose(Equal(shape), Key("shape"))), func(context.Context, Call) (string, error) {
				ran = append(ran, shape)
				return shape, nil
			})
		}

		got, err := g.Call(ctx, map[string]any{"shape": "square"})
		require.NoError(t, err)
		assert.Equal(t, "square", got)
		assert.Equal(t, []string{"square"}, ran)
	})

	t.Run("methods receive matches", func(t *testing.T) {
		g := New[string](Patterns())
		g.MustRegister(On(With(Key("name"))), func(_ context.Context, c Call) (string, error) {
			m := c.Match(0)
			record := m.Value().(map[string]any)
			return fmt.Sprintf("%v hates %v", m.Matched(), record["hates"]), nil
		})

		got, err := g.Call(ctx, map[string]any{"name": "triangle", "hates": "squares"})
		require.NoError(t, err)
		assert.Equal(t, "triangle hates squares", got)
	})

	t.Run("keyword arguments", func(t *testing.T) {
		g := New[string](Patterns())
		g.MustRegister(On(Number()).Kw("unit", "cm"), func(_ context.Context, c Call) (string, error) {
			u, _ := c.Kwarg("unit")
			return fmt.Sprintf("%v%v", c.Arg(0), u), nil
		})

		got, err := g.CallArgs(ctx, Args{Pos: []any{3}, Kw: map[string]any{"unit": "cm"}})
		require.NoError(t, err)
		assert.Equal(t, "3cm", got)

		_, err = g.CallArgs(ctx, Args{Pos: []any{3}, Kw: map[string]any{"unit": "in"}})
		assert.ErrorIs(t, err, ErrNoApplicableMethod)
	})

	t.Run("panicking pattern is a mismatch", func(t *testing.T) {
		g := New[string](Patterns())
		g.MustRegister(On(PatternFunc(func(x any) Match { panic("boom") })), constant("panicky"))
		g.MustRegister(On(Anything()), constant("fallback"))

		var got string
		var err error
		require.NotPanics(t, func() { got, err = g.Call(ctx, 1) })
		require.NoError(t, err)
		assert.Equal(t, "fallback", got)
	})

	t.Run("panicking generator is no match", func(t *testing.T) {
		gen := GeneratorFunc(func(args Args) Unifier { panic("boom") })
		g := New[string](gen, WithCombiner(ApplyFirst()))
		g.MustRegister(On(Anything()), constant("unreachable"))

		var err error
		require.NotPanics(t, func() { _, err = g.Call(ctx, 1) })
		assert.ErrorIs(t, err, ErrNoApplicableMethod)
	})

	t.Run("generator returning nil is no match", func(t *testing.T) {
		gen := GeneratorFunc(func(args Args) Unifier { return nil })
		g := New[string](gen)
		g.MustRegister(On(Anything()), constant("unreachable"))

		var err error
		require.NotPanics(t, func() { _, err = g.Call(ctx, 1) })
		assert.ErrorIs(t, err, ErrNoApplicableMethod)
	})

	t.Run("combiner returning the wrong type", func(t *testing.T) {
		g := New[int](Patterns(), WithCombiner(CombinerFunc(func(context.Context, Args, []Applicable) (any, error) {
			return "not an int", nil
		})))
		g.MustRegister(On(Anything()), constant(1))

		_, err := g.Call(ctx, 1)
		assert.ErrorIs(t, err, ErrResultType)
	})

	t.Run("nil combiner result is the zero value", func(t *testing.T) {
		g := New[*int](Patterns())
		g.MustRegister(On(Anything()), constant[*int](nil))

		got, err := g.Call(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGeneric_Register(t *testing.T) {
	t.Run("nil method", func(t *testing.T) {
		g := New[int](Patterns(), WithName("g"))
		err := g.Register(On(1), nil)

		require.ErrorIs(t, err, ErrMalformedRegistration)
		var rerr *RegistrationError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "g", rerr.Name)
		assert.Equal(t, 0, g.Table().Len())
	})

	t.Run("misplaced variadic", func(t *testing.T) {
		g := New[int](Patterns())
		err := g.Register(On(Variadic(1), 2), constant(1))
		assert.ErrorIs(t, err, ErrMalformedRegistration)
	})

	t.Run("generator validation", func(t *testing.T) {
		g := New[int](Types())
		err := g.Method(constant(1), "not a type")
		assert.ErrorIs(t, err, ErrMalformedRegistration)
		assert.Equal(t, 0, g.Table().Len())
	})

	t.Run("MustRegister panics", func(t *testing.T) {
		g := New[int](Patterns())
		assert.Panics(t, func() { g.MustRegister(On(1), nil) })
	})

	t.Run("appends in order", func(t *testing.T) {
		g := New[int](Patterns())
		require.NoError(t, g.Method(constant(1), 1))
		require.NoError(t, g.Method(constant(2), 2))

		var specs [][]any
		for e := range g.Table().Entries() {
			specs = append(specs, e.Spec().Positions())
		}
		assert.Equal(t, [][]any{{1}, {2}}, specs)
	})
}

func TestGeneric_Applicable(t *testing.T) {
	g := New[string](Patterns())
	g.MustRegister(On(TypeOf[int]()), constant("int"))
	g.MustRegister(On(TypeOf[float64]()), constant("float"))
	g.MustRegister(On(Number()), constant("number"))

	t.Run("ordered subset", func(t *testing.T) {
		got := g.Applicable(Positional(2.0))

		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Entry.Index())
		assert.Equal(t, 2, got[1].Entry.Index())
	})

	t.Run("does not invoke", func(t *testing.T) {
		called := false
		h := New[int](Patterns())
		h.MustRegister(On(1), func(context.Context, Call) (int, error) {
			called = true
			return 0, nil
		})

		assert.Len(t, h.Applicable(Positional(1)), 1)
		assert.False(t, called)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, g.Applicable(Positional("x")))
	})
}

func TestGeneric_Concurrency(t *testing.T) {
	g := New[int](Patterns())
	g.MustRegister(On(Anything()), constant(0))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			g.MustRegister(On(i), constant(i))
		}(i)
		go func() {
			defer wg.Done()
			got, err := g.Call(context.Background(), 5)
			assert.NoError(t, err)
			assert.Equal(t, 0, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, g.Table().Len())
}
