package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filterSet is an enabled/disabled pair of lowercase names.
// Disabled wins; an empty enabled list lets everything else through.
type filterSet struct {
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

func newFilterSet(enabled, disabled []string) filterSet {
	return filterSet{enabled: sliceToSet(enabled), disabled: sliceToSet(disabled)}
}

// allows reports whether name passes, and why not when it does not.
// An empty name only fails when an enabled list is set.
func (s filterSet) allows(name string) (bool, string) {
	name = strings.ToLower(name)
	if name == "" {
		if s.enabled != nil {
			return false, "missing, but an enabled list is set"
		}
		return true, ""
	}
	if _, found := s.disabled[name]; found {
		return false, "disabled"
	}
	if s.enabled != nil {
		if _, found := s.enabled[name]; !found {
			return false, "not in enabled list"
		}
	}
	return true, ""
}

// filteringHandler drops records by package, file and tag before they
// reach the base handler.
type filteringHandler struct {
	base slog.Handler
	cfg  *Config
	tag  string // From WithAttrs; a tag on the record itself wins
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{base: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.base.Handle(ctx, r)
	}
	if ok, why := h.passes(r); !ok {
		tracef("FILTERED OUT %q: %s", r.Message, why)
		return nil
	}
	tracef("PASSED %q", r.Message)
	return h.base.Handle(ctx, r)
}

// passes applies the package, file and tag filters in that order.
// Records without source information skip the package and file filters.
func (h *filteringHandler) passes(r slog.Record) (bool, string) {
	if pkg, file := recordSource(r); file != "" {
		if ok, why := h.cfg.packages.allows(pkg); !ok {
			return false, fmt.Sprintf("package %q %s", pkg, why)
		}
		if ok, why := h.cfg.files.allows(file); !ok {
			return false, fmt.Sprintf("file %q %s", file, why)
		}
	}

	tag := h.tag
	if t, ok := recordTag(r); ok {
		tag = t
	}
	if ok, why := h.cfg.tags.allows(tag); !ok {
		return false, fmt.Sprintf("tag %q %s", tag, why)
	}
	return true, ""
}

// recordSource returns the package directory and file name of the caller.
func recordSource(r slog.Record) (pkg, file string) {
	if r.PC == 0 {
		return "", ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return "", ""
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File)
}

func recordTag(r slog.Record) (tag string, found bool) {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag, found = a.Value.String(), true
			return false
		}
		return true
	})
	return tag, found
}

// tracef prints filter decisions to stderr when -debug-log is set.
func tracef(format string, args ...interface{}) {
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] "+format+"\n", args...)
	}
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tag := h.tag
	for _, a := range attrs {
		if a.Key == tagKey {
			tag = a.Value.String()
		}
	}
	return &filteringHandler{base: h.base.WithAttrs(attrs), cfg: h.cfg, tag: tag}
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{base: h.base.WithGroup(name), cfg: h.cfg, tag: h.tag}
}
