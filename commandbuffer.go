package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer describes a sequence of commands that will be executed
// upon being sent to a device queue. Only the commands a compute dispatch
// needs are wrapped here; the native handle is exposed for the rest.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// Begin capturing work for this command buffer. The buffer may be
// submitted any number of times once ended.
func (c *CommandBuffer) Begin() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	return check(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "failed to begin command buffer")
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return check(vk.EndCommandBuffer(c.VKCommandBuffer), "failed to end command buffer")
}

func (c *CommandBuffer) CmdBindComputePipeline(p *ComputePipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointCompute, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}

	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint,
		layout.VKPipelineLayout, uint32(firstSet), uint32(len(descriptorSets)), sets, 0, nil)
}

func (c *CommandBuffer) CmdDispatch(x, y, z int) {
	vk.CmdDispatch(c.VKCommandBuffer, uint32(x), uint32(y), uint32(z))
}

// ImageTransition describes one image layout transition
type ImageTransition struct {
	Image      *Image
	OldLayout  vk.ImageLayout
	NewLayout  vk.ImageLayout
	SrcAccess  vk.AccessFlags
	DstAccess  vk.AccessFlags
	SrcStage   vk.PipelineStageFlags
	DstStage   vk.PipelineStageFlags
	AspectMask vk.ImageAspectFlags
}

// CmdTransitionImage records a barrier moving the single mip level and every
// array layer of t.Image from t.OldLayout to t.NewLayout.
func (c *CommandBuffer) CmdTransitionImage(t ImageTransition) {
	aspect := t.AspectMask
	if aspect == 0 {
		aspect = vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       t.SrcAccess,
		DstAccessMask:       t.DstAccess,
		OldLayout:           t.OldLayout,
		NewLayout:           t.NewLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               t.Image.VKImage,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     uint32(t.Image.Layers),
		},
	}
	vk.CmdPipelineBarrier(c.VKCommandBuffer, t.SrcStage, t.DstStage, 0,
		0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

// CmdMemoryBarrier records a global memory barrier
func (c *CommandBuffer) CmdMemoryBarrier(srcStage, dstStage vk.PipelineStageFlags, srcAccess, dstAccess vk.AccessFlags) {
	barrier := vk.MemoryBarrier{
		SType:         vk.StructureTypeMemoryBarrier,
		SrcAccessMask: srcAccess,
		DstAccessMask: dstAccess,
	}
	vk.CmdPipelineBarrier(c.VKCommandBuffer, srcStage, dstStage, 0,
		1, []vk.MemoryBarrier{barrier}, 0, nil, 0, nil)
}

// CmdClearColorImage clears the color subresources of i, which must be in layout
func (c *CommandBuffer) CmdClearColorImage(i *Image, layout vk.ImageLayout, color vk.ClearColorValue, ranges ...vk.ImageSubresourceRange) {
	vk.CmdClearColorImage(c.VKCommandBuffer, i.VKImage, layout, &color, uint32(len(ranges)), ranges)
}
