package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

type CommandPool struct {
	Device        *Device
	QueueFamily   *QueueFamily
	VKCommandPool vk.CommandPool
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}

func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {
	commandBufferAllocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	cmdBuffers := make([]vk.CommandBuffer, count)
	err := check(vk.AllocateCommandBuffers(c.Device.VKDevice, &commandBufferAllocateInfo, cmdBuffers), "failed to allocate command buffers")
	if err != nil {
		return nil, err
	}

	ret := make([]*CommandBuffer, count)
	for i := range ret {
		ret[i] = &CommandBuffer{VKCommandBuffer: cmdBuffers[i]}
	}
	return ret, nil
}

func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	ret, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return ret[0], nil
}

func (c *CommandPool) FreeBuffer(b *CommandBuffer) {
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, 1, []vk.CommandBuffer{b.VKCommandBuffer})
}

// CreateCommandPool creates a pool for q whose buffers can be reset one at a time
func (d *Device) CreateCommandPool(q *QueueFamily) (*CommandPool, error) {
	commandPoolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: uint32(q.Index),
	}

	var commandPool vk.CommandPool
	err := check(vk.CreateCommandPool(d.VKDevice, &commandPoolCreateInfo, nil, &commandPool), "failed to create command pool")
	if err != nil {
		return nil, err
	}

	return &CommandPool{
		Device:        d,
		QueueFamily:   q,
		VKCommandPool: commandPool,
	}, nil
}
