package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of long running steps.
type Telemetry interface {
	// Record starts a new vertex for the named step.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is a single recorded step.
type Vertex interface {
	// Stdout returns a writer for the step's standard output.
	Stdout() io.Writer
	// Stderr returns a writer for the step's error output.
	Stderr() io.Writer
	// Log records a message on the step.
	Log(msg string)
	// Complete marks the step as finished, successfully if err is nil.
	Complete(err error)
	// Cached marks the step as satisfied without doing work.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex recorded in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
