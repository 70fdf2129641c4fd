package vkhelper

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

const (
	// DefaultWidth and DefaultHeight are the resolution of the cleared image
	DefaultWidth  = 151
	DefaultHeight = 151
	// DefaultSamples is the multisample count of the cleared image
	DefaultSamples = 8
	// DefaultShaderPath is where the compiled compute shader is read from
	DefaultShaderPath = "comp.spv"

	// channels per sample in the storage buffer, one uint32 each
	sampleChannels = 4
	channelSize    = 4
)

// Config holds everything NewComputeApp needs to assemble the chain.
// Zero fields are replaced with their defaults.
type Config struct {
	// App describes the application to the Vulkan instance
	App *App

	Width   int
	Height  int
	Samples int
	// Format is the format of the cleared image
	Format vk.Format

	// ShaderPath is the SPIR-V file holding the compute shader
	ShaderPath string
	// EntryPoint is the shader function the pipeline runs
	EntryPoint string

	// Iterations is how many times Run submits and verifies the dispatch
	Iterations int

	// Debug enables the validation layer and routes its reports to Logger
	Debug bool

	Logger *slog.Logger
}

// DefaultConfig returns the configuration of the single compute demo
func DefaultConfig() *Config {
	return &Config{
		App: &App{
			Name:       "vulkan-helper",
			EngineName: "vulkan-helper",
			APIVersion: Version{Major: 1, Minor: 1},
		},
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Samples:    DefaultSamples,
		Format:     vk.FormatR32g32b32a32Uint,
		ShaderPath: DefaultShaderPath,
		EntryPoint: "main",
		Iterations: 1,
	}
}

func (c *Config) validate() error {
	d := DefaultConfig()
	if c.App == nil {
		c.App = d.App
	}
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Samples == 0 {
		c.Samples = d.Samples
	}
	if c.ShaderPath == "" {
		c.ShaderPath = d.ShaderPath
	}
	if c.EntryPoint == "" {
		c.EntryPoint = d.EntryPoint
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	if c.Width < 0 || c.Height < 0 {
		return errors.Errorf("invalid image resolution %dx%d", c.Width, c.Height)
	}
	if c.Iterations < 0 {
		return errors.Errorf("invalid iteration count %d", c.Iterations)
	}
	if _, err := sampleCount(c.Samples); err != nil {
		return err
	}
	return nil
}

// sampleCount maps a sample count to its flag bit, which Vulkan defines as
// the count itself for the powers of two from 1 to 64.
func sampleCount(n int) (vk.SampleCountFlagBits, error) {
	if n < 1 || n > 64 || n&(n-1) != 0 {
		return 0, errors.Errorf("unsupported sample count %d", n)
	}
	return vk.SampleCountFlagBits(n), nil
}

// StorageBufferSize is the byte size of a buffer holding every channel of
// every sample of a width x height image.
func StorageBufferSize(width, height, samples int) uint64 {
	return uint64(width) * uint64(height) * uint64(samples) * sampleChannels * channelSize
}
