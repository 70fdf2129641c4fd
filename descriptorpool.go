package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorPool is essentially a resource manager for descriptor pools provided by Vulkan.
type DescriptorPool struct {
	Device               *Device
	VKDescriptorPool     vk.DescriptorPool
	VKDescriptorPoolSize []vk.DescriptorPoolSize
}

func (d *Device) NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{Device: d}
}

// AddPoolSize informs the descriptor pool how many of a certain descriptortype it will contain
func (d *DescriptorPool) AddPoolSize(dtype vk.DescriptorType, count int) {
	d.VKDescriptorPoolSize = append(d.VKDescriptorPoolSize, vk.DescriptorPoolSize{
		Type:            dtype,
		DescriptorCount: uint32(count),
	})
}

// CreateDescriptorPool creates the descriptor pool. Sets allocated from it
// are released with the pool.
func (d *Device) CreateDescriptorPool(pool *DescriptorPool, maxSets int) (*DescriptorPool, error) {
	descriptorPoolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(maxSets),
		PoolSizeCount: uint32(len(pool.VKDescriptorPoolSize)),
		PPoolSizes:    pool.VKDescriptorPoolSize,
	}

	var descriptorPool vk.DescriptorPool
	err := check(vk.CreateDescriptorPool(d.VKDevice, &descriptorPoolCreateInfo, nil, &descriptorPool), "failed to create descriptor pool")
	if err != nil {
		return nil, err
	}

	pool.Device = d
	pool.VKDescriptorPool = descriptorPool

	return pool, nil
}

// Allocate allocates one descriptor set from the pool given its layout
func (d *DescriptorPool) Allocate(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	descriptorSetAllocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.VKDescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.VKDescriptorSetLayout},
	}

	var descriptorSet vk.DescriptorSet
	err := check(vk.AllocateDescriptorSets(d.Device.VKDevice, &descriptorSetAllocateInfo, &descriptorSet), "failed to allocate descriptor set")
	if err != nil {
		return nil, err
	}

	return &DescriptorSet{
		Device:          d.Device,
		DescriptorPool:  d,
		VKDescriptorSet: descriptorSet,
	}, nil
}

func (d *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(d.Device.VKDevice, d.VKDescriptorPool, nil)
}
