package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates an unsignaled fence
func (d *Device) CreateFence() (*Fence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}

	var fence vk.Fence
	err := check(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence), "failed to create fence")
	if err != nil {
		return nil, err
	}

	return &Fence{
		Device:  d,
		VKFence: fence,
	}, nil
}

// Reset returns the fence to the unsignaled state
func (f *Fence) Reset() error {
	return check(vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}), "failed to reset fence")
}

// Signaled reports whether the fence has been signaled, without blocking
func (f *Fence) Signaled() (bool, error) {
	res := vk.GetFenceStatus(f.Device.VKDevice, f.VKFence)
	if res == vk.NotReady {
		return false, nil
	}
	if err := check(res, "failed to get fence status"); err != nil {
		return false, err
	}
	return true, nil
}

// Wait blocks until the fence is signaled, with no timeout
func (f *Fence) Wait() error {
	return check(vk.WaitForFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}, vk.True, vk.MaxUint64), "wait fence fail")
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
