package vkhelper

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/exp/slog"
)

type logEntry struct {
	level slog.Level
	msg   string
	attrs map[string]slog.Value
}

// recordingHandler keeps every record it is given, at every level
type recordingHandler struct {
	mu      sync.Mutex
	entries []logEntry
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	e := logEntry{level: r.Level, msg: r.Message, attrs: map[string]slog.Value{}}
	r.Attrs(func(a slog.Attr) bool {
		e.attrs[a.Key] = a.Value
		return true
	})
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

// layers returns the layer names of the entries with message msg, in order
func (h *recordingHandler) layers(msg string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ret []string
	for _, e := range h.entries {
		if e.msg == msg {
			ret = append(ret, e.attrs["layer"].String())
		}
	}
	return ret
}

func TestBytesAttr(t *testing.T) {
	a := bytesAttr("size", 2918528)
	if a.Key != "size" || a.Value.String() != "2.783MiB" {
		t.Errorf("got %s=%s", a.Key, a.Value)
	}
}

func TestMemoryTypeAttr(t *testing.T) {
	mp := memoryProperties(deviceLocal, hostVisible|hostCoherent)
	a := memoryTypeAttr("type", mp, 1)
	if a.Value.Kind() != slog.KindGroup {
		t.Fatalf("kind = %v", a.Value.Kind())
	}
	got := map[string]string{}
	for _, ga := range a.Value.Group() {
		got[ga.Key] = ga.Value.String()
	}
	if got["index"] != "1" || got["flags"] != "HostVisible|HostCoherent" {
		t.Errorf("got %v", got)
	}

	if a := memoryTypeAttr("type", mp, 7); a.Value.Kind() != slog.KindUint64 {
		t.Errorf("out of range index kind = %v", a.Value.Kind())
	}
}
