// Package logger adds the active trace id to standard log lines.
package logger

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/trace"
)

// Printf logs like log.Printf, prefixed with the trace id when ctx carries a valid span.
func Printf(ctx context.Context, format string, args ...any) {
	log.Print(prefix(ctx) + fmt.Sprintf(format, args...))
}

func prefix(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return fmt.Sprintf("trace_id=%s ", sc.TraceID())
}
