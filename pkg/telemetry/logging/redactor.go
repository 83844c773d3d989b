package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// textKeys are attribute keys whose string values are user-entered text.
var textKeys = map[string]bool{
	"prompt":   true,
	"response": true,
	"text":     true,
	"content":  true,
	"body":     true,
}

// IsTextKey reports whether attributes named key are masked.
func IsTextKey(key string) bool {
	return textKeys[strings.ToLower(key)]
}

// MaskText returns the placeholder logged in place of user text.
func MaskText(s string) string {
	return fmt.Sprintf("[redacted %d chars]", len([]rune(s)))
}

// textGuard replaces the values of text attributes with their length so
// prompt and response bodies never reach log output.
type textGuard struct {
	slog.Handler
}

func newTextGuard(h slog.Handler) slog.Handler {
	return &textGuard{Handler: h}
}

func (g *textGuard) Handle(ctx context.Context, r slog.Record) error {
	masked := false
	r.Attrs(func(a slog.Attr) bool {
		if needsMask(a) {
			masked = true
			return false
		}
		return true
	})
	if !masked {
		return g.Handler.Handle(ctx, r)
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(maskAttr(a))
		return true
	})
	return g.Handler.Handle(ctx, out)
}

func (g *textGuard) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = maskAttr(a)
	}
	return &textGuard{Handler: g.Handler.WithAttrs(masked)}
}

func (g *textGuard) WithGroup(name string) slog.Handler {
	return &textGuard{Handler: g.Handler.WithGroup(name)}
}

func needsMask(a slog.Attr) bool {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return IsTextKey(a.Key)
	case slog.KindGroup:
		for _, ga := range v.Group() {
			if needsMask(ga) {
				return true
			}
		}
	}
	return false
}

func maskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		if IsTextKey(a.Key) {
			return slog.String(a.Key, MaskText(v.String()))
		}
	case slog.KindGroup:
		group := v.Group()
		masked := make([]any, 0, len(group))
		for _, ga := range group {
			masked = append(masked, maskAttr(ga))
		}
		return slog.Group(a.Key, masked...)
	}
	return a
}
