// Package ctxutil carries per-request identifiers through context.Context.
package ctxutil

import "context"

type ctxKey int

const (
	traceKey ctxKey = iota
	callerKey
)

// TraceData identifies one HTTP request in logs, spans and change events.
type TraceData struct {
	TraceID   string
	RequestID string
}

// Caller is the authenticated principal of a request. It is absent when auth is disabled.
type Caller struct {
	Subject string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceKey, td)
}

func TraceFrom(ctx context.Context) *TraceData {
	td, _ := ctx.Value(traceKey).(*TraceData)
	return td
}

// RequestID returns "" when no trace data is attached.
func RequestID(ctx context.Context) string {
	if td := TraceFrom(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

func TraceID(ctx context.Context) string {
	if td := TraceFrom(ctx); td != nil {
		return td.TraceID
	}
	return ""
}

func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

func CallerFrom(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerKey).(*Caller)
	return c
}

func Subject(ctx context.Context) string {
	if c := CallerFrom(ctx); c != nil {
		return c.Subject
	}
	return ""
}
