package vkhelper

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

func TestDebugReportLevels(t *testing.T) {
	tests := []struct {
		name  string
		flags vk.DebugReportFlagBits
		want  slog.Level
	}{
		{"error", vk.DebugReportErrorBit, slog.LevelError},
		{"warning", vk.DebugReportWarningBit, slog.LevelWarn},
		{"performance", vk.DebugReportPerformanceWarningBit, slog.LevelWarn},
		{"debug", vk.DebugReportDebugBit, slog.LevelDebug},
		{"information", vk.DebugReportInformationBit, slog.LevelInfo},
		{"error wins over warning", vk.DebugReportErrorBit | vk.DebugReportWarningBit, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			report := debugReportFunc(slog.New(h))

			ret := report(vk.DebugReportFlags(tt.flags), vk.DebugReportObjectTypeUnknown,
				0, 0, 42, "Validation", "image layout mismatch", nil)
			if ret != vk.Bool32(vk.False) {
				t.Errorf("callback returned %d, want False", ret)
			}

			if len(h.entries) != 1 {
				t.Fatalf("got %d records, want 1", len(h.entries))
			}
			e := h.entries[0]
			if e.level != tt.want {
				t.Errorf("level = %v, want %v", e.level, tt.want)
			}
			if e.msg != "image layout mismatch" {
				t.Errorf("message = %q", e.msg)
			}
			if got := e.attrs["layer"].String(); got != "Validation" {
				t.Errorf("layer = %q", got)
			}
			if got := e.attrs["code"].Int64(); got != 42 {
				t.Errorf("code = %d", got)
			}
		})
	}
}

func TestEnableExtensionOnce(t *testing.T) {
	app := &App{}
	app.EnableExtension("VK_EXT_debug_report").EnableExtension("VK_EXT_debug_report")
	if len(app.EnabledExtensions) != 1 {
		t.Errorf("extensions = %v", app.EnabledExtensions)
	}
}

func TestEnableLayerAlreadyEnabled(t *testing.T) {
	// an enabled layer returns before the loader is asked for layers
	app := &App{EnabledLayers: []string{"VK_LAYER_KHRONOS_validation"}}
	if _, err := app.EnableLayer("VK_LAYER_KHRONOS_validation"); err != nil {
		t.Fatal(err)
	}
	if len(app.EnabledLayers) != 1 {
		t.Errorf("layers = %v", app.EnabledLayers)
	}
}

func TestAppClone(t *testing.T) {
	app := &App{Name: "demo", EnabledExtensions: []string{"a"}, EnabledLayers: []string{"l"}}
	c := app.Clone()
	c.EnableExtension("b")
	c.EnabledLayers[0] = "changed"

	if len(app.EnabledExtensions) != 1 || app.EnabledLayers[0] != "l" {
		t.Errorf("original changed: %+v", app)
	}
	if c.Name != "demo" || len(c.EnabledExtensions) != 2 {
		t.Errorf("clone = %+v", c)
	}
}
