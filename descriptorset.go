package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet is a binding of resources to a descriptor, per a specific
// DescriptorSetLayout. Writes are queued with Add* and applied by Write.
type DescriptorSet struct {
	Device               *Device
	DescriptorPool       *DescriptorPool
	VKDescriptorSet      vk.DescriptorSet
	VKWriteDiscriptorSet []vk.WriteDescriptorSet
}

// AddBuffer adds a specific buffer to this descriptor set
func (du *DescriptorSet) AddBuffer(dstBinding int, dtype vk.DescriptorType, b *Buffer, offset uint64) {
	du.VKWriteDiscriptorSet = append(du.VKWriteDiscriptorSet, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstBinding:      uint32(dstBinding),
		DescriptorCount: 1,
		DescriptorType:  dtype,
		PBufferInfo:     []vk.DescriptorBufferInfo{b.DSInfo(offset)},
	})
}

// AddSampledImage adds an image view, read without a sampler, in the given layout
func (du *DescriptorSet) AddSampledImage(dstBinding int, layout vk.ImageLayout, view *ImageView) {
	du.VKWriteDiscriptorSet = append(du.VKWriteDiscriptorSet, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstBinding:      uint32(dstBinding),
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeSampledImage,
		PImageInfo: []vk.DescriptorImageInfo{{
			ImageView:   view.VKImageView,
			ImageLayout: layout,
		}},
	})
}

// Write applies the queued writes to the descriptor set and clears the queue
func (du *DescriptorSet) Write() {
	if len(du.VKWriteDiscriptorSet) == 0 {
		return
	}
	for i := range du.VKWriteDiscriptorSet {
		du.VKWriteDiscriptorSet[i].DstSet = du.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(du.Device.VKDevice, uint32(len(du.VKWriteDiscriptorSet)), du.VKWriteDiscriptorSet, 0, nil)
	du.VKWriteDiscriptorSet = nil
}
