package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer are used to map hunks of data that are then bound to resources used by the pipeline
// and command buffers.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
}

// CreateStorageBuffer creates an exclusive storage buffer owned by the given queue family
func (d *Device) CreateStorageBuffer(sizeInBytes uint64, qf *QueueFamily) (*Buffer, error) {
	return d.CreateBufferWithOptions(sizeInBytes, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit), vk.SharingModeExclusive, qf)
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode, families ...*QueueFamily) (*Buffer, error) {
	indices := make([]uint32, len(families))
	for i, qf := range families {
		indices[i] = uint32(qf.Index)
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:                 vk.StructureTypeBufferCreateInfo,
		Size:                  vk.DeviceSize(sizeInBytes),
		Usage:                 usage,
		SharingMode:           sharing,
		QueueFamilyIndexCount: uint32(len(indices)),
		PQueueFamilyIndices:   indices,
	}

	var buffer vk.Buffer
	err := check(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer), "failed to create buffer")
	if err != nil {
		return nil, err
	}

	return &Buffer{
		Device:   d,
		VKBuffer: buffer,
		Size:     sizeInBytes,
	}, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	return memoryRequirements
}

func (b *Buffer) AllocationRequirements() *AllocationRequirements {
	return allocationRequirements(b.VKMemoryRequirements())
}

// DSInfo describes the whole buffer, from offset, for a descriptor write
func (b *Buffer) DSInfo(offset uint64) vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.VKBuffer,
		Offset: vk.DeviceSize(offset),
		Range:  vk.DeviceSize(WholeSize),
	}
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return check(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)), "failed to bind buffer memory")
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}
