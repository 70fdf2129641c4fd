package vkhelper

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDevice is a non-owned handle to one GPU. It is never destroyed.
type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func newPhysicalDevice(device vk.PhysicalDevice) *PhysicalDevice {
	p := &PhysicalDevice{VKPhysicalDevice: device}
	vk.GetPhysicalDeviceProperties(device, &p.VKPhysicalDeviceProperties)
	p.VKPhysicalDeviceProperties.Deref()
	p.DeviceName = vk.ToString(p.VKPhysicalDeviceProperties.DeviceName[:])
	return p
}

// VK returns the native physical device handle
func (p *PhysicalDevice) VK() vk.PhysicalDevice {
	return p.VKPhysicalDevice
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var count uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, nil)
	if count == 0 {
		return nil, nil
	}

	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, props)

	ret := make(QueueFamilySlice, count)
	for i, prop := range props[:count] {
		prop.Deref()
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: prop}
	}
	return ret, nil
}

// CreateLogicalDevice creates a device with one queue from the given family
func (p *PhysicalDevice) CreateLogicalDevice(qf *QueueFamily) (*Device, error) {
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(qf.Index),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
	}

	var device vk.Device
	err := check(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &device), "failed to create device")
	if err != nil {
		return nil, err
	}

	return &Device{
		PhysicalDevice: p,
		QueueFamily:    qf,
		VKDevice:       device,
	}, nil
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &features)
	features.Deref()
	return features
}

// MemoryProperties takes a snapshot of the device's memory types and heaps
func (p *PhysicalDevice) MemoryProperties() *MemoryProperties {
	var mp vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &mp)
	mp.Deref()
	return newMemoryProperties(&mp)
}

func formatProperties(p PhysicalDeviceHandle, format vk.Format) vk.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(p.VK(), format, &props)
	props.Deref()
	return props
}

// RequireOptimalFormatFeatures fails unless images of format with optimal
// tiling support every feature in required.
func RequireOptimalFormatFeatures(p PhysicalDeviceHandle, format vk.Format, required vk.FormatFeatureFlags) error {
	if format == vk.FormatUndefined {
		return errors.Wrap(ErrUnsupportedFormat, "format is undefined")
	}
	have := formatProperties(p, format).OptimalTilingFeatures
	if have&required != required {
		return errors.Wrapf(ErrUnsupportedFormat, "format %d has optimal tiling features %#x, need %#x", format, have, required)
	}
	return nil
}

// RequireImageSupport fails unless the device can create a 2D image as
// described by opts, including its sample count and extent.
func RequireImageSupport(p PhysicalDeviceHandle, opts ImageOptions) error {
	var props vk.ImageFormatProperties
	res := vk.GetPhysicalDeviceImageFormatProperties(p.VK(), opts.Format, vk.ImageType2d, opts.Tiling, opts.Usage, 0, &props)
	if res == vk.ErrorFormatNotSupported {
		return errors.Wrapf(ErrUnsupportedFormat, "format %d with usage %#x", opts.Format, opts.Usage)
	}
	if err := check(res, "failed to query image format properties"); err != nil {
		return err
	}
	props.Deref()
	props.MaxExtent.Deref()
	return checkImageFormatProperties(props, opts)
}

func checkImageFormatProperties(props vk.ImageFormatProperties, opts ImageOptions) error {
	if err := requireSampleCount(props.SampleCounts, opts.Samples, "image"); err != nil {
		return err
	}
	if uint64(opts.Width) > uint64(props.MaxExtent.Width) || uint64(opts.Height) > uint64(props.MaxExtent.Height) {
		return errors.Wrapf(ErrUnsupportedFormat, "extent %dx%d exceeds %dx%d",
			opts.Width, opts.Height, props.MaxExtent.Width, props.MaxExtent.Height)
	}
	if uint64(opts.ArrayLayers) > uint64(props.MaxArrayLayers) {
		return errors.Wrapf(ErrUnsupportedFormat, "%d array layers exceeds %d", opts.ArrayLayers, props.MaxArrayLayers)
	}
	return nil
}

// RequireSampledSampleCount fails unless images of format can be read by a
// shader with the given sample count.
func (p *PhysicalDevice) RequireSampledSampleCount(format vk.Format, samples vk.SampleCountFlagBits) error {
	limits := p.VKPhysicalDeviceProperties.Limits
	limits.Deref()
	supported := limits.SampledImageColorSampleCounts
	if isIntegerFormat(format) {
		supported = limits.SampledImageIntegerSampleCounts
	}
	return requireSampleCount(supported, samples, "sampled image")
}

func requireSampleCount(supported vk.SampleCountFlags, samples vk.SampleCountFlagBits, what string) error {
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}
	if supported&vk.SampleCountFlags(samples) == 0 {
		return errors.Wrapf(ErrUnsupportedFormat, "%s does not support %d samples (supported %#x)", what, samples, supported)
	}
	return nil
}

func isIntegerFormat(format vk.Format) bool {
	switch format {
	case vk.FormatR8Uint, vk.FormatR8Sint, vk.FormatR8g8Uint, vk.FormatR8g8Sint,
		vk.FormatR8g8b8a8Uint, vk.FormatR8g8b8a8Sint,
		vk.FormatR16Uint, vk.FormatR16Sint, vk.FormatR16g16Uint, vk.FormatR16g16Sint,
		vk.FormatR16g16b16a16Uint, vk.FormatR16g16b16a16Sint,
		vk.FormatR32Uint, vk.FormatR32Sint, vk.FormatR32g32Uint, vk.FormatR32g32Sint,
		vk.FormatR32g32b32a32Uint, vk.FormatR32g32b32a32Sint:
		return true
	}
	return false
}

func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := check(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil), "failed to enumerate device extensions")
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)
	err = check(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext), "failed to enumerate device extensions")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, e := range ext[:count] {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}
