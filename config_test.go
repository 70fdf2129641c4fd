package vkhelper

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestStorageBufferSize(t *testing.T) {
	want := uint64(DefaultWidth * DefaultHeight * DefaultSamples * 4 * 4)
	if want != 2918528 {
		t.Fatalf("default resolution changed: %d bytes", want)
	}
	if got := StorageBufferSize(DefaultWidth, DefaultHeight, DefaultSamples); got != want {
		t.Errorf("StorageBufferSize = %d, want %d", got, want)
	}
	if got := StorageBufferSize(1, 1, 1); got != 16 {
		t.Errorf("StorageBufferSize(1, 1, 1) = %d, want 16", got)
	}
	if got := StorageBufferSize(0, 151, 8); got != 0 {
		t.Errorf("StorageBufferSize with zero width = %d", got)
	}
}

func TestSampleCount(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 32, 64} {
		bit, err := sampleCount(n)
		if err != nil {
			t.Errorf("sampleCount(%d): %v", n, err)
		}
		if int(bit) != n {
			t.Errorf("sampleCount(%d) = %d", n, bit)
		}
	}
	if bit, _ := sampleCount(8); bit != vk.SampleCount8Bit {
		t.Errorf("sampleCount(8) = %d, want SampleCount8Bit", bit)
	}
	for _, n := range []int{-1, 0, 3, 6, 65, 128} {
		if _, err := sampleCount(n); err == nil {
			t.Errorf("sampleCount(%d) succeeded", n)
		}
	}
}

func TestConfigValidateFillsDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight || cfg.Samples != DefaultSamples {
		t.Errorf("resolution %dx%d x%d", cfg.Width, cfg.Height, cfg.Samples)
	}
	if cfg.ShaderPath != DefaultShaderPath || cfg.EntryPoint != "main" || cfg.Iterations != 1 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.App == nil || cfg.Logger == nil {
		t.Error("App or Logger not filled in")
	}
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative width", Config{Width: -1}},
		{"negative height", Config{Height: -5}},
		{"odd samples", Config{Samples: 3}},
		{"too many samples", Config{Samples: 128}},
		{"negative iterations", Config{Iterations: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.validate(); err == nil {
				t.Error("validate succeeded")
			}
		})
	}
}

func TestCheckedUint32(t *testing.T) {
	if v, err := checkedUint32(151); err != nil || v != 151 {
		t.Errorf("checkedUint32(151) = %d, %v", v, err)
	}
	if _, err := checkedUint32(-1); !errors.Is(err, ErrCastFailed) {
		t.Errorf("checkedUint32(-1) err = %v", err)
	}
	big := uint64(1) << 40
	if _, err := checkedUint32(int(big)); strconv.IntSize == 64 && !errors.Is(err, ErrCastFailed) {
		t.Errorf("checkedUint32(1<<40) err = %v", err)
	}
}
