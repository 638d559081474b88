package multimethod

import "context"

// DefaultName is the name of a generic function created without WithName.
const DefaultName = "generic"

// config collects everything a generic function is created with.
type config struct {
	name       string
	combiner   Combiner
	hooks      hooks
	cacheSize  int
	cacheKey   KeyFunc
	metricsCtx context.Context
}

// Option configures a generic function.
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		name:     DefaultName,
		combiner: ApplyFirst(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithName sets the name used in errors, logs, hooks and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithCombiner replaces the default ApplyFirst combiner.
//
// Example:
//
//	describe := multimethod.New[string](multimethod.Patterns(),
//	    multimethod.WithCombiner(multimethod.ApplyLast()),
//	)
func WithCombiner(cb Combiner) Option {
	return func(c *config) {
		if cb != nil {
			c.combiner = cb
		}
	}
}

// WithMetricsScope registers the generic function's counters under the
// go-metrics-interface scope carried by ctx.
func WithMetricsScope(ctx context.Context) Option {
	return func(c *config) {
		c.metricsCtx = ctx
	}
}
