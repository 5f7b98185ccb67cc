// Package trace is the compiler's logging layer.
//
// Events are spans (begin/end pairs) and instant points, tagged with a scope:
//
//   - ScopeDriver: a whole build or run
//   - ScopePass: tokenize, parse, generate, write
//   - ScopeModule: one source file
//   - ScopeNode: one statement or expression handler
//
// The level decides which scopes reach the output:
//
//	mcfc build --trace=- --trace-level=detail src/main.py
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
