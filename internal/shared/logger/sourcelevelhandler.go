package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceLevelHandler struct {
	handler        slog.Handler
	sourceOnLevels map[slog.Level]bool
}

// NewSourceLevelHandler wraps a handler so that source location is attached
// only for the given levels. The wrapped handler must be configured with
// AddSource: false; this wrapper injects the source attribute itself.
func NewSourceLevelHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	levelMap := make(map[slog.Level]bool, len(levels))
	for _, level := range levels {
		levelMap[level] = true
	}
	return &sourceLevelHandler{
		handler:        handler,
		sourceOnLevels: levelMap,
	}
}

func (h *sourceLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.sourceOnLevels[r.Level] {
		// Skip this frame plus the slog internal frame.
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		fs := runtime.CallersFrames(pcs[:])
		f, _ := fs.Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			}),
		})
	}

	return h.handler.Handle(ctx, r)
}

func (h *sourceLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceLevelHandler{
		handler:        h.handler.WithAttrs(attrs),
		sourceOnLevels: h.sourceOnLevels,
	}
}

func (h *sourceLevelHandler) WithGroup(name string) slog.Handler {
	return &sourceLevelHandler{
		handler:        h.handler.WithGroup(name),
		sourceOnLevels: h.sourceOnLevels,
	}
}

func (h *sourceLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
