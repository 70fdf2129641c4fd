package vkhelper

import (
	"time"

	units "github.com/docker/go-units"
	"golang.org/x/exp/slog"
)

func bytesAttr(key string, n uint64) slog.Attr {
	return slog.String(key, units.BytesSize(float64(n)))
}

func durationAttr(key string, d time.Duration) slog.Attr {
	return slog.String(key, d.String())
}

func memoryTypeAttr(key string, mp *MemoryProperties, index uint32) slog.Attr {
	if mp == nil || int(index) >= len(mp.Types) {
		return slog.Uint64(key, uint64(index))
	}
	t := mp.Types[index]
	return slog.Group(key,
		slog.Uint64("index", uint64(index)),
		slog.Uint64("heap", uint64(t.HeapIndex)),
		slog.String("flags", MemoryPropertyString(t.PropertyFlags)),
	)
}
