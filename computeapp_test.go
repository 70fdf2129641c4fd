package vkhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

var testShader = filepath.Join("testdata", "comp.spv")

// requireVulkan skips the test unless a Vulkan loader, a physical device and
// the compiled shader are all available.
func requireVulkan(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testShader); err != nil {
		t.Skipf("%s not found, run go generate", testShader)
	}
	if err := InitializeForComputeOnly(); err != nil {
		t.Skipf("vulkan unavailable: %v", err)
	}
	app := &App{Name: "vkhelper test"}
	instance, err := app.CreateInstance()
	if err != nil {
		t.Skipf("vulkan unavailable: %v", err)
	}
	defer instance.Destroy()
	if _, err := instance.FirstPhysicalDevice(); err != nil {
		t.Skipf("no physical device: %v", err)
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.ShaderPath = testShader
	cfg.Logger = quietLogger()
	return cfg
}

func TestComputeAppDraw(t *testing.T) {
	requireVulkan(t)

	app, err := NewComputeApp(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if app.StorageSize() != 2918528 {
		t.Errorf("StorageSize = %d", app.StorageSize())
	}
	if got := len(app.Samples()); got != 2918528/4 {
		t.Errorf("len(Samples) = %d", got)
	}

	// the fence is reset before every submission, so Draw can repeat
	for i := 0; i < 2; i++ {
		if err := app.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if ok, err := app.fence.Signaled(); err != nil || !ok {
			t.Fatalf("fence after draw %d: signaled=%v err=%v", i, ok, err)
		}
	}

	if err := app.fence.Reset(); err != nil {
		t.Fatal(err)
	}
	if ok, err := app.fence.Signaled(); err != nil || ok {
		t.Errorf("fence after reset: signaled=%v err=%v", ok, err)
	}
}

func TestComputeAppRun(t *testing.T) {
	requireVulkan(t)

	cfg := testConfig()
	cfg.Width, cfg.Height, cfg.Samples = 16, 9, 4
	cfg.Iterations = 3

	app, err := NewComputeApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Run(); err != nil {
		t.Error(err)
	}

	app.Close()
	app.Close()
	if app.Layers() != 0 {
		t.Errorf("%d layers left after Close", app.Layers())
	}
	if err := app.Run(); err == nil {
		t.Error("Run after Close succeeded")
	}
}

func TestComputeAppUnsupportedFormat(t *testing.T) {
	requireVulkan(t)

	h := &recordingHandler{}
	cfg := testConfig()
	cfg.Format = vk.FormatUndefined
	cfg.Logger = slog.New(h)

	app, err := NewComputeApp(cfg)
	if err == nil {
		app.Close()
		t.Fatal("NewComputeApp succeeded with an undefined format")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}

	acquired := h.layers("acquired")
	released := h.layers("released")
	if len(acquired) == 0 || acquired[0] != "instance" {
		t.Fatalf("acquired = %v, want the chain to start with the instance", acquired)
	}
	if failed := h.layers("acquire failed"); len(failed) != 1 || failed[0] != "image format" {
		t.Errorf("acquire failed = %v, want [image format]", failed)
	}
	if slices.Contains(acquired, "image") {
		t.Error("image acquired after the format check failed")
	}
	if len(released) != len(acquired) {
		t.Fatalf("released %d layers, acquired %d", len(released), len(acquired))
	}
	for i, name := range released {
		if want := acquired[len(acquired)-1-i]; name != want {
			t.Errorf("released[%d] = %q, want %q", i, name, want)
		}
	}
}

func TestComputeAppMissingShader(t *testing.T) {
	requireVulkan(t)

	cfg := testConfig()
	cfg.ShaderPath = filepath.Join(t.TempDir(), "missing.spv")

	_, err := NewComputeApp(cfg)
	if err == nil {
		t.Fatal("NewComputeApp succeeded without a shader")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("err = %v, want a not exist error", err)
	}
}

func TestNewComputeAppInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Samples = 5
	if _, err := NewComputeApp(cfg); err == nil {
		t.Error("NewComputeApp accepted 5 samples")
	}
}
