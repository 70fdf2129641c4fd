package vkhelper

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// WholeSize selects everything from an offset to the end of a buffer or allocation
const WholeSize = ^uint64(0)

// DeviceMemory maps to Vulkan DeviceMemory and can either be memory on the host or on the device
type DeviceMemory struct {
	Device          *Device
	VKDeviceMemory  vk.DeviceMemory
	Size            uint64
	MemoryTypeIndex uint32
	// Ptr is the start of the host mapping, nil while unmapped
	Ptr unsafe.Pointer
}

// IsMapped returns true if the device memory is currently mapped
func (d *DeviceMemory) IsMapped() bool {
	return d.Ptr != nil
}

// Destroy frees this memory
func (d *DeviceMemory) Destroy() {
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// Map maps the whole allocation and keeps the pointer in Ptr until Unmap
func (d *DeviceMemory) Map() (unsafe.Pointer, error) {
	var res unsafe.Pointer
	err := check(vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(WholeSize), 0, &res), "failed to map device memory")
	if err != nil {
		return nil, err
	}
	d.Ptr = res
	return res, nil
}

// Unmap this memory
func (d *DeviceMemory) Unmap() {
	d.Ptr = nil
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
}

// Invalidate makes device writes to [offset, offset+size) visible to the
// host mapping. Pass WholeSize to cover the rest of the allocation.
func (d *DeviceMemory) Invalidate(offset, size uint64) error {
	r := vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: d.VKDeviceMemory,
		Offset: vk.DeviceSize(offset),
		Size:   vk.DeviceSize(size),
	}
	return check(vk.InvalidateMappedMemoryRanges(d.Device.VKDevice, 1, []vk.MappedMemoryRange{r}), "failed to invalidate mapped memory")
}

// Uint32s views the mapped memory as n uint32 values
func (d *DeviceMemory) Uint32s(n int) []uint32 {
	if !d.IsMapped() {
		return nil
	}
	return unsafe.Slice((*uint32)(d.Ptr), n)
}
