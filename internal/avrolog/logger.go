// Package avrolog carries the ambient logging convention this module uses:
// a context-attached *zap.Logger that falls back to the zap global default
// when the caller never set one, so pkg/registry never needs its own
// logger plumbing. (pkg/datum does not use it: its logger is a
// datum.Model option.)
package avrolog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// WithLogger attaches l to ctx so FromContext (and Combine) can recover it
// downstream.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or the zap global default
// if none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

// Combine tees base's core onto whatever logger ctx carries, so a call site
// can attach request-scoped fields without losing the base logger's
// sinks.
func Combine(base *zap.Logger, ctx context.Context) *zap.Logger {
	if ctxLogger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return ctxLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, base.Core())
		}))
	}
	return base
}
