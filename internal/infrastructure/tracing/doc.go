/*
Package tracing provides lightweight request tracing.

Trace context travels in the X-Trace-ID and X-Span-ID headers. Every request
handled by HTTPMiddleware gets a span; finished spans are logged by a
background collector so handlers never block on logging. gRPC carries the
same context in metadata through GRPCUnaryInterceptor and
GRPCClientInterceptor.

# Usage

	tracer := tracing.New("calculator", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "permissions.check")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
