/*
Package vkhelper composes the Vulkan objects a compute job needs into one
owner that creates them in dependency order and destroys them in reverse.

Each native object is wrapped by a small struct that owns exactly the handle
it created and exposes it through a field prefixed with 'VK', so callers can
always drop down to the native API. The wrappers are created by the object
they depend on:

	Instance        App.CreateInstance
	PhysicalDevice  Instance.PhysicalDevices, Instance.FirstPhysicalDevice
	QueueFamily     PhysicalDevice.QueueFamilies, QueueFamilySlice.FirstCompute
	Device          PhysicalDevice.CreateLogicalDevice
	Queue           Device.GetQueue
	Buffer, Image   Device.CreateStorageBuffer, Device.CreateImage
	DeviceMemory    Device.AllocateForBuffer, Device.AllocateForImage
	ImageView       Image.CreateImageViewWithOptions
	ComputePipeline Device.CreateComputePipelines
	Fence           Device.CreateFence
	CommandBuffer   CommandPool.AllocateBuffer

Resource chains

A Chain is a list of Layers, each an Acquire and a Release. Build acquires
the layers in order; if one fails the layers already acquired are released
in reverse before the error is returned, so a half built chain never leaks.
Own pairs a constructor with the Destroy method of what it returns.

Compute demo

ComputeApp is the chain for one job: clear an 8x multisampled
R32G32B32A32_UINT image and let a compute shader copy every sample into a
host visible storage buffer. Draw submits the recorded commands, waits on a
fence, invalidates the mapping and checks channel 0 of every sample is zero.

The shader is compiled from shaders/comp.comp:

	go generate ./...
*/
package vkhelper

//go:generate glslangValidator -V shaders/comp.comp -o testdata/comp.spv
