package observability

import "context"

// Tracer starts spans. A span started with neither ChildOf nor Root inherits
// whatever parent the implementation finds in ctx; on a bare context it is a
// root.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

type Span interface {
	End()
	Log(fields ...Field)
}

type SpanConfig struct {
	Parent Span
	Root   bool
}

type SpanOption func(*SpanConfig)

func ChildOf(parent Span) SpanOption {
	return func(c *SpanConfig) {
		c.Parent = parent
		c.Root = false
	}
}

// Root starts the span as the root of a new trace, ignoring any span the
// implementation finds in ctx.
func Root() SpanOption {
	return func(c *SpanConfig) {
		c.Parent = nil
		c.Root = true
	}
}

func ApplySpanOptions(opts ...SpanOption) SpanConfig {
	c := SpanConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
