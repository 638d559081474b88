package multimethod_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/bjaus/multimethod"
)

func Example() {
	ctx := context.Background()

	// area dispatches on the "shape" field of its argument
	area := multimethod.New[float64](multimethod.Patterns(), multimethod.WithName("area"))

	shape := func(name string) multimethod.Spec {
		return multimethod.On(multimethod.Compose(multimethod.Equal(name), multimethod.Key("shape")))
	}
	field := func(c multimethod.Call, name string) float64 {
		v, _ := c.Arg(0).(map[string]any)[name].(float64)
		return v
	}

	area.MustRegister(shape("circle"), func(_ context.Context, c multimethod.Call) (float64, error) {
		r := field(c, "radius")
		return math.Pi * r * r, nil
	})
	area.MustRegister(shape("square"), func(_ context.Context, c multimethod.Call) (float64, error) {
		s := field(c, "side")
		return s * s, nil
	})
	area.MustRegister(shape("triangle"), func(_ context.Context, c multimethod.Call) (float64, error) {
		return field(c, "base") * field(c, "height") / 2, nil
	})
	area.MustRegister(shape("rectangle"), func(_ context.Context, c multimethod.Call) (float64, error) {
		return field(c, "width") * field(c, "height"), nil
	})

	a, err := area.Call(ctx, map[string]any{"shape": "circle", "radius": 2.0})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.4f\n", a)

	_, err = area.Call(ctx, map[string]any{"shape": "hexagon"})
	fmt.Println(errors.Is(err, multimethod.ErrNoApplicableMethod))

	// Output:
	// 12.5664
	// true
}

func Example_applyLast() {
	ctx := context.Background()

	describe := multimethod.New[string](multimethod.Patterns(),
		multimethod.WithCombiner(multimethod.ApplyLast()),
	)

	describe.MustRegister(multimethod.On(multimethod.TypeOf[int]()), multimethod.Func1(func(n int) string {
		return fmt.Sprintf("An int: %d", n)
	}))
	describe.MustRegister(multimethod.On(multimethod.TypeOf[float64]()), multimethod.Func1(func(f float64) string {
		return fmt.Sprintf("A float: %v", f)
	}))
	describe.MustRegister(multimethod.On(multimethod.Number()), func(_ context.Context, c multimethod.Call) (string, error) {
		return "Finally, a Number: " + formatNumber(c.Arg(0)), nil
	})

	for _, v := range []any{1, 2.0} {
		s, err := describe.Call(ctx, v)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(s)
	}

	// Output:
	// Finally, a Number: 1
	// Finally, a Number: 2.0
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 1, 64)
	default:
		return fmt.Sprint(n)
	}
}

func Example_with() {
	ctx := context.Background()

	greet := multimethod.New[string](multimethod.Patterns())
	greet.MustRegister(
		multimethod.On(multimethod.With(multimethod.Key("name"))),
		func(_ context.Context, c multimethod.Call) (string, error) {
			m := c.Match(0)
			record := m.Value().(map[string]any)
			return fmt.Sprintf("%v hates %v", m.Matched(), record["hates"]), nil
		},
	)

	s, err := greet.Call(ctx, map[string]any{"name": "triangle", "hates": "circles"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s)

	// Output:
	// triangle hates circles
}

func Example_types() {
	ctx := context.Background()
	intT, strT := reflect.TypeFor[int](), reflect.TypeFor[string]()

	add := multimethod.New[int](multimethod.Types(), multimethod.WithName("add"))
	_ = add.Method(multimethod.Func2(func(x, y int) int { return x + y }), intT, intT)
	_ = add.Method(multimethod.Func2(func(x int, y string) int {
		n, _ := strconv.Atoi(y)
		return x + n
	}), intT, strT)

	a, _ := add.Call(ctx, 1, 2)
	b, _ := add.Call(ctx, 1, "10")
	fmt.Println(a, b)

	err := add.Method(multimethod.Func1(func(s string) int { return len(s) }), "string")
	fmt.Println(errors.Is(err, multimethod.ErrMalformedRegistration))

	// Output:
	// 3 11
	// true
}

func Example_keyDispatch() {
	ctx := context.Background()

	say := multimethod.New[string](multimethod.KeyDispatch("type"))
	say.MustRegister(multimethod.On("person", "person"), func(_ context.Context, c multimethod.Call) (string, error) {
		x, y := c.Arg(0).(map[string]any), c.Arg(1).(map[string]any)
		return fmt.Sprintf("I say '%v', you say '%v'", x["what"], y["what"]), nil
	})
	say.MustRegister(multimethod.On("person", "robot"), func(_ context.Context, c multimethod.Call) (string, error) {
		x, y := c.Arg(0).(map[string]any), c.Arg(1).(map[string]any)
		return fmt.Sprintf("I say '%v', you say 'bip boop %v bip boop'", x["what"], y["what"]), nil
	})

	person := map[string]any{"type": "person", "what": "Hello!"}
	s, _ := say.Call(ctx, person, map[string]any{"type": "person", "what": "goodbye!"})
	fmt.Println(s)
	s, _ = say.Call(ctx, person, map[string]any{"type": "robot", "what": "GOODBYE!"})
	fmt.Println(s)

	// Output:
	// I say 'Hello!', you say 'goodbye!'
	// I say 'Hello!', you say 'bip boop GOODBYE! bip boop'
}

func Example_json() {
	ctx := context.Background()

	route := multimethod.New[string](multimethod.Patterns())
	route.MustRegister(
		multimethod.On(multimethod.All(
			multimethod.HasKeys("source", "detail"),
			multimethod.KeyEquals("detail-type", "UserCreated"),
		)),
		func(_ context.Context, c multimethod.Call) (string, error) {
			doc := c.Arg(0).(multimethod.Fields)
			id, _ := doc.Field("detail.userId")
			return fmt.Sprintf("created %v", id), nil
		},
	)

	doc, err := multimethod.JSON([]byte(`{
		"source": "my.app",
		"detail-type": "UserCreated",
		"detail": {"userId": "123"}
	}`))
	if err != nil {
		fmt.Println(err)
		return
	}

	s, err := route.Call(ctx, doc)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s)

	// Output:
	// created 123
}
