package vkhelper

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// Descriptor bindings of the compute shader
const (
	StorageBufferBinding = 0
	SampledImageBinding  = 1
)

// ComputeApp owns every object needed to clear a multisampled image and
// copy its samples into a host visible buffer with a compute shader.
//
// The objects are created in dependency order by NewComputeApp and
// destroyed in reverse by Close.
type ComputeApp struct {
	cfg    *Config
	logger *slog.Logger
	chain  *Chain
	closed bool

	instance       *Instance
	physicalDevice *PhysicalDevice
	queueFamily    *QueueFamily
	device         *Device
	queue          *Queue

	descriptorSetLayout *DescriptorSetLayout
	descriptorPool      *DescriptorPool
	descriptorSet       *DescriptorSet
	pipelineLayout      *PipelineLayout
	pipelineCache       *PipelineCache
	pipeline            *ComputePipeline

	memoryProperties *MemoryProperties
	fence            *Fence
	commandPool      *CommandPool
	commandBuffer    *CommandBuffer

	storageSize   uint64
	storageBuffer *Buffer
	storageMemory *DeviceMemory

	image       *Image
	imageMemory *DeviceMemory
	imageView   *ImageView
}

// NewComputeApp creates the whole chain and records the command buffer.
// On failure every object created so far is destroyed before returning.
func NewComputeApp(cfg *Config) (*ComputeApp, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := InitializeForComputeOnly(); err != nil {
		return nil, err
	}

	a := &ComputeApp{
		cfg:         cfg,
		logger:      cfg.Logger,
		chain:       NewChain(cfg.Logger),
		storageSize: StorageBufferSize(cfg.Width, cfg.Height, cfg.Samples),
	}

	layers := a.deviceLayers()
	layers = append(layers, a.pipelineLayers()...)
	layers = append(layers, a.commandLayers()...)
	layers = append(layers, a.resourceLayers()...)

	if err := a.chain.Build(layers...); err != nil {
		a.closed = true
		return nil, err
	}
	return a, nil
}

func (a *ComputeApp) deviceLayers() []Layer {
	layers := []Layer{
		Own("instance", &a.instance, func() (*Instance, error) {
			app := a.cfg.App.Clone()
			if a.cfg.Debug {
				if err := app.EnableDebugging(); err != nil {
					return nil, err
				}
			}
			return app.CreateInstance()
		}),
	}
	if a.cfg.Debug {
		layers = append(layers, Layer{
			Name: "debug callback",
			Acquire: func() error {
				return a.instance.SetDebugCallback(a.logger)
			},
			Release: func() {
				a.instance.RemoveDebugCallback()
			},
		})
	}
	return append(layers,
		Layer{
			Name: "physical device",
			Acquire: func() (err error) {
				a.physicalDevice, err = a.instance.FirstPhysicalDevice()
				if err == nil {
					a.logger.Info("selected physical device", slog.String("name", a.physicalDevice.DeviceName))
				}
				return err
			},
		},
		Layer{
			Name: "compute queue family",
			Acquire: func() error {
				families, err := a.physicalDevice.QueueFamilies()
				if err != nil {
					return err
				}
				a.queueFamily, err = families.FirstCompute()
				return err
			},
		},
		Own("device", &a.device, func() (*Device, error) {
			return a.physicalDevice.CreateLogicalDevice(a.queueFamily)
		}),
		Layer{
			Name: "compute queue",
			Acquire: func() error {
				a.queue = a.device.GetQueue(a.queueFamily)
				return nil
			},
		},
	)
}

func (a *ComputeApp) pipelineLayers() []Layer {
	return []Layer{
		Own("descriptor set layout", &a.descriptorSetLayout, func() (*DescriptorSetLayout, error) {
			layout := a.device.NewDescriptorSetLayout()
			layout.AddComputeBinding(StorageBufferBinding, vk.DescriptorTypeStorageBuffer)
			layout.AddComputeBinding(SampledImageBinding, vk.DescriptorTypeSampledImage)
			return a.device.CreateDescriptorSetLayout(layout)
		}),
		Own("descriptor pool", &a.descriptorPool, func() (*DescriptorPool, error) {
			pool := a.device.NewDescriptorPool()
			pool.AddPoolSize(vk.DescriptorTypeStorageBuffer, 1)
			pool.AddPoolSize(vk.DescriptorTypeSampledImage, 1)
			return a.device.CreateDescriptorPool(pool, 1)
		}),
		// freed with the pool
		{
			Name: "descriptor set",
			Acquire: func() (err error) {
				a.descriptorSet, err = a.descriptorPool.Allocate(a.descriptorSetLayout)
				return err
			},
		},
		Own("pipeline layout", &a.pipelineLayout, func() (*PipelineLayout, error) {
			return a.device.CreatePipelineLayout(a.descriptorSetLayout)
		}),
		Own("pipeline cache", &a.pipelineCache, func() (*PipelineCache, error) {
			return a.device.CreatePipelineCache()
		}),
		Own("compute pipeline", &a.pipeline, a.createPipeline),
	}
}

// createPipeline builds the compute pipeline. The shader module is only
// needed while the pipeline is created.
func (a *ComputeApp) createPipeline() (*ComputePipeline, error) {
	module, err := a.device.LoadShaderModuleFromFile(a.cfg.ShaderPath)
	if err != nil {
		return nil, err
	}
	defer module.Destroy()

	p := &ComputePipeline{}
	p.SetShaderStage(a.cfg.EntryPoint, module)
	p.SetPipelineLayout(a.pipelineLayout)
	if err := a.device.CreateComputePipelines(a.pipelineCache, p); err != nil {
		return nil, err
	}
	return p, nil
}

// imageOptions describes the cleared multisampled image
func (a *ComputeApp) imageOptions() (ImageOptions, error) {
	samples, err := sampleCount(a.cfg.Samples)
	if err != nil {
		return ImageOptions{}, err
	}
	return ImageOptions{
		Width:       a.cfg.Width,
		Height:      a.cfg.Height,
		ArrayLayers: 1,
		Format:      a.cfg.Format,
		Samples:     samples,
		Tiling:      vk.ImageTilingOptimal,
		Usage: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit |
			vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit),
	}, nil
}

func (a *ComputeApp) commandLayers() []Layer {
	return []Layer{
		{
			Name: "memory properties",
			Acquire: func() error {
				a.memoryProperties = a.physicalDevice.MemoryProperties()
				return nil
			},
		},
		Own("fence", &a.fence, func() (*Fence, error) {
			return a.device.CreateFence()
		}),
		Own("command pool", &a.commandPool, func() (*CommandPool, error) {
			return a.device.CreateCommandPool(a.queueFamily)
		}),
		{
			Name: "command buffer",
			Acquire: func() (err error) {
				a.commandBuffer, err = a.commandPool.AllocateBuffer()
				return err
			},
			Release: func() {
				a.commandPool.FreeBuffer(a.commandBuffer)
			},
		},
	}
}

func (a *ComputeApp) resourceLayers() []Layer {
	return []Layer{
		Own("storage buffer", &a.storageBuffer, func() (*Buffer, error) {
			a.logger.Info("storage buffer", bytesAttr("size", a.storageSize))
			return a.device.CreateStorageBuffer(a.storageSize, a.queueFamily)
		}),
		Own("storage memory", &a.storageMemory, func() (*DeviceMemory, error) {
			mem, err := a.device.AllocateForBuffer(a.memoryProperties, a.storageBuffer,
				vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
			if err == nil {
				a.logger.Debug("storage memory", bytesAttr("size", mem.Size), memoryTypeAttr("type", a.memoryProperties, mem.MemoryTypeIndex))
			}
			return mem, err
		}),
		{
			Name: "storage memory mapping",
			Acquire: func() error {
				_, err := a.storageMemory.Map()
				return err
			},
			Release: func() {
				a.storageMemory.Unmap()
			},
		},
		{
			Name: "image format",
			Acquire: func() error {
				opts, err := a.imageOptions()
				if err != nil {
					return err
				}
				err = RequireOptimalFormatFeatures(a.physicalDevice, opts.Format, vk.FormatFeatureFlags(
					vk.FormatFeatureColorAttachmentBit|vk.FormatFeatureSampledImageBit|vk.FormatFeatureTransferDstBit))
				if err != nil {
					return err
				}
				if err := RequireImageSupport(a.physicalDevice, opts); err != nil {
					return err
				}
				return a.physicalDevice.RequireSampledSampleCount(opts.Format, opts.Samples)
			},
		},
		Own("image", &a.image, func() (*Image, error) {
			opts, err := a.imageOptions()
			if err != nil {
				return nil, err
			}
			return a.device.CreateImage(opts)
		}),
		Own("image memory", &a.imageMemory, func() (*DeviceMemory, error) {
			mem, err := a.device.AllocateForImage(a.memoryProperties, a.image,
				vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
			if err == nil {
				a.logger.Debug("image memory", bytesAttr("size", mem.Size), memoryTypeAttr("type", a.memoryProperties, mem.MemoryTypeIndex))
			}
			return mem, err
		}),
		Own("image view", &a.imageView, func() (*ImageView, error) {
			return a.image.CreateImageViewWithOptions(vk.ImageViewType2dArray, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		}),
		{
			Name: "descriptor set update",
			Acquire: func() error {
				a.descriptorSet.AddBuffer(StorageBufferBinding, vk.DescriptorTypeStorageBuffer, a.storageBuffer, 0)
				a.descriptorSet.AddSampledImage(SampledImageBinding, vk.ImageLayoutGeneral, a.imageView)
				a.descriptorSet.Write()
				return nil
			},
		},
		{
			Name:    "command recording",
			Acquire: a.Record,
		},
	}
}

// Close waits for the device to go idle and destroys everything in reverse
// creation order. It is safe to call more than once.
func (a *ComputeApp) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.device != nil {
		if err := a.device.WaitIdle(); err != nil {
			a.logger.Warn("device did not go idle before close", slog.Any("err", err))
		}
	}
	a.chain.Close()
}

// Run draws and verifies Config.Iterations times, stopping at the first error
func (a *ComputeApp) Run() error {
	if a.closed {
		return errors.New("compute app is closed")
	}
	for i := 0; i < a.cfg.Iterations; i++ {
		if err := a.Draw(); err != nil {
			return errors.WithMessagef(err, "iteration %d", i)
		}
	}
	return nil
}

func (a *ComputeApp) Config() Config {
	return *a.cfg
}

func (a *ComputeApp) Instance() *Instance {
	return a.instance
}

func (a *ComputeApp) PhysicalDevice() *PhysicalDevice {
	return a.physicalDevice
}

func (a *ComputeApp) Device() *Device {
	return a.device
}

func (a *ComputeApp) Queue() *Queue {
	return a.queue
}

func (a *ComputeApp) MemoryProperties() *MemoryProperties {
	return a.memoryProperties
}

// StorageSize is the byte size of the storage buffer
func (a *ComputeApp) StorageSize() uint64 {
	return a.storageSize
}

// Layers is the number of chain layers currently held
func (a *ComputeApp) Layers() int {
	return a.chain.Len()
}
