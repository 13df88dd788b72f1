// Package services holds shared helpers for the external service clients
// (synthesis, recognition, separation): context annotations that let their
// logs be correlated with the generation run that triggered them.
package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	packKey  contextKey = "pack"
)

// WithRunID annotates context with the generation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the generation run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPack annotates context with the pack name being generated.
func WithPack(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, packKey, name)
}

// PackFromContext returns the pack name if present.
func PackFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(packKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// LoggerArgs flattens the context annotations into slog key/value pairs.
func LoggerArgs(ctx context.Context) []any {
	var args []any
	if id, ok := RunIDFromContext(ctx); ok {
		args = append(args, "run_id", id)
	}
	if pack, ok := PackFromContext(ctx); ok {
		args = append(args, "pack", pack)
	}
	return args
}
