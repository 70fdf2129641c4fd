package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// Destroyer is implemented by every wrapper that owns a native handle
type Destroyer interface {
	Destroy()
}

// InstanceHandle is anything that can hand out a native instance
type InstanceHandle interface {
	VK() vk.Instance
}

// PhysicalDeviceHandle is anything that can hand out a native physical device
type PhysicalDeviceHandle interface {
	VK() vk.PhysicalDevice
}

// DeviceHandle is anything that can hand out a native logical device
type DeviceHandle interface {
	VK() vk.Device
}
