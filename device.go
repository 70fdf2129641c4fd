package vkhelper

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Device is the logical device. It owns its vk.Device and creates every
// other object in this package.
type Device struct {
	PhysicalDevice *PhysicalDevice
	QueueFamily    *QueueFamily
	VKDevice       vk.Device
}

// VK returns the native device handle
func (d *Device) VK() vk.Device {
	return d.VKDevice
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s QueueFamily: %d }", d.PhysicalDevice, d.QueueFamily.Index)
}

func (d *Device) WaitIdle() error {
	return WaitIdle(d)
}

// WaitIdle blocks until every queue of device has drained
func WaitIdle(device DeviceHandle) error {
	return check(vk.DeviceWaitIdle(device.VK()), "failed to wait for device idle")
}

// GetQueue returns queue 0 of the given family
func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)

	return &Queue{
		Device:      d,
		QueueFamily: qf,
		VKQueue:     vkq,
	}
}

type AllocationRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

func allocationRequirements(mr vk.MemoryRequirements) *AllocationRequirements {
	mr.Deref()
	return &AllocationRequirements{
		Size:           uint64(mr.Size),
		Alignment:      uint64(mr.Alignment),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

// AllocateForBuffer allocates memory with the given properties sized for b
// and binds it at offset 0.
func (d *Device) AllocateForBuffer(mp *MemoryProperties, b *Buffer, props vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	ar := b.AllocationRequirements()
	mem, err := d.Allocate(mp, ar.Size, ar.MemoryTypeBits, props)
	if err != nil {
		return nil, err
	}
	if err := b.Bind(mem, 0); err != nil {
		mem.Destroy()
		return nil, err
	}
	return mem, nil
}

// AllocateForImage allocates memory with the given properties sized for i
// and binds it at offset 0.
func (d *Device) AllocateForImage(mp *MemoryProperties, i *Image, props vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	ar := i.AllocationRequirements()
	mem, err := d.Allocate(mp, ar.Size, ar.MemoryTypeBits, props)
	if err != nil {
		return nil, err
	}
	if err := i.Bind(mem, 0); err != nil {
		mem.Destroy()
		return nil, err
	}
	return mem, nil
}

// Allocate allocates sizeInBytes of device memory from the first memory type
// allowed by memoryTypeBits that has props.
func (d *Device) Allocate(mp *MemoryProperties, sizeInBytes uint64, memoryTypeBits uint32, props vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	typeIndex, err := mp.FindMemoryType(memoryTypeBits, props)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: typeIndex,
	}

	var deviceMemory vk.DeviceMemory
	err = check(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory), "failed to allocate device memory")
	if err != nil {
		return nil, err
	}

	return &DeviceMemory{
		Device:          d,
		VKDeviceMemory:  deviceMemory,
		Size:            sizeInBytes,
		MemoryTypeIndex: typeIndex,
	}, nil
}
