package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// ImageOptions describes a 2D image to create
type ImageOptions struct {
	Width, Height int
	ArrayLayers   int
	Format        vk.Format
	Samples       vk.SampleCountFlagBits
	Tiling        vk.ImageTiling
	Usage         vk.ImageUsageFlags
}

type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
	Extent   vk.Extent2D
	Samples  vk.SampleCountFlagBits
	Layers   int
}

// CreateImage creates a single mip 2D image with exclusive sharing and
// undefined initial layout.
func (d *Device) CreateImage(opts ImageOptions) (*Image, error) {
	width, err := checkedUint32(opts.Width)
	if err != nil {
		return nil, err
	}
	height, err := checkedUint32(opts.Height)
	if err != nil {
		return nil, err
	}
	if opts.ArrayLayers == 0 {
		opts.ArrayLayers = 1
	}
	if opts.Samples == 0 {
		opts.Samples = vk.SampleCount1Bit
	}

	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Extent:        vk.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   uint32(opts.ArrayLayers),
		Format:        opts.Format,
		Tiling:        opts.Tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         opts.Usage,
		Samples:       opts.Samples,
		SharingMode:   vk.SharingModeExclusive,
	}

	var image vk.Image
	err = check(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image), "failed to create image")
	if err != nil {
		return nil, err
	}

	return &Image{
		Device:   d,
		VKImage:  image,
		VKFormat: opts.Format,
		Extent:   vk.Extent2D{Width: width, Height: height},
		Samples:  opts.Samples,
		Layers:   opts.ArrayLayers,
	}, nil
}

func (i *Image) VKMemoryRequirements() vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memRequirements)
	return memRequirements
}

func (i *Image) AllocationRequirements() *AllocationRequirements {
	return allocationRequirements(i.VKMemoryRequirements())
}

func (i *Image) Bind(memory *DeviceMemory, offset uint64) error {
	return check(vk.BindImageMemory(i.Device.VKDevice, i.VKImage, memory.VKDeviceMemory, vk.DeviceSize(offset)), "failed to bind image memory")
}

// ColorRange is the color aspect of the first mip and layer
func (i *Image) ColorRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

func (i *Image) Destroy() {
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
}
