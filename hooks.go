package multimethod

import (
	"context"
	"time"
)

// OnDispatchFunc is called after the applicable methods of a call are known
// and before the combiner runs.
type OnDispatchFunc func(ctx context.Context, name string, args Args, applicable int)

// OnSuccessFunc is called after the combiner returns without error.
type OnSuccessFunc func(ctx context.Context, name string, duration time.Duration)

// OnFailureFunc is called after the combiner returns an error.
type OnFailureFunc func(ctx context.Context, name string, err error, duration time.Duration)

// OnNoMethodFunc is called when no method applies to a call. It cannot
// recover the call: the caller still gets a NoApplicableMethodError.
type OnNoMethodFunc func(ctx context.Context, name string, args Args)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onSuccess  []OnSuccessFunc
	onFailure  []OnFailureFunc
	onNoMethod []OnNoMethodFunc
}

// WithOnDispatch adds a hook called before the combiner runs.
// Multiple hooks are called in order.
//
// Example:
//
//	multimethod.WithOnDispatch(func(ctx context.Context, name string, args multimethod.Args, n int) {
//	    logger.Debug(ctx, "dispatching", "generic", name, "applicable", n)
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(c *config) {
		c.hooks.onDispatch = append(c.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a call completes successfully.
// Multiple hooks are called in order.
//
// Example:
//
//	multimethod.WithOnSuccess(func(ctx context.Context, name string, d time.Duration) {
//	    metrics.Timing("multimethod.success", d, "generic:"+name)
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(c *config) {
		c.hooks.onSuccess = append(c.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a method or combiner fails.
// Multiple hooks are called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(c *config) {
		c.hooks.onFailure = append(c.hooks.onFailure, fn)
	}
}

// WithOnNoMethod adds a hook called when no method applies to a call.
// Multiple hooks are called in order.
//
// Example:
//
//	multimethod.WithOnNoMethod(func(ctx context.Context, name string, args multimethod.Args) {
//	    logger.Warn(ctx, "no method", "generic", name, "args", args)
//	})
func WithOnNoMethod(fn OnNoMethodFunc) Option {
	return func(c *config) {
		c.hooks.onNoMethod = append(c.hooks.onNoMethod, fn)
	}
}

func (h *hooks) dispatch(ctx context.Context, name string, args Args, n int) {
	for _, fn := range h.onDispatch {
		fn(ctx, name, args, n)
	}
}

func (h *hooks) success(ctx context.Context, name string, d time.Duration) {
	for _, fn := range h.onSuccess {
		fn(ctx, name, d)
	}
}

func (h *hooks) failure(ctx context.Context, name string, err error, d time.Duration) {
	for _, fn := range h.onFailure {
		fn(ctx, name, err, d)
	}
}

func (h *hooks) noMethod(ctx context.Context, name string, args Args) {
	for _, fn := range h.onNoMethod {
		fn(ctx, name, args)
	}
}
