package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout describes the layout of a descriptorset
type DescriptorSetLayout struct {
	Device                        *Device
	VKDescriptorSetLayout         vk.DescriptorSetLayout
	VKDescriptorSetLayoutBindings []vk.DescriptorSetLayoutBinding
}

func (d *Device) NewDescriptorSetLayout() *DescriptorSetLayout {
	return &DescriptorSetLayout{Device: d}
}

// AddBinding adds a binding to the descriptor set
func (d *DescriptorSetLayout) AddBinding(binding vk.DescriptorSetLayoutBinding) {
	d.VKDescriptorSetLayoutBindings = append(d.VKDescriptorSetLayoutBindings, binding)
}

// AddComputeBinding adds a single descriptor visible to the compute stage
func (d *DescriptorSetLayout) AddComputeBinding(binding int, dtype vk.DescriptorType) {
	d.AddBinding(vk.DescriptorSetLayoutBinding{
		Binding:         uint32(binding),
		DescriptorType:  dtype,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
	})
}

// Destroy destroys this descriptor set layout
func (d *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(d.Device.VKDevice, d.VKDescriptorSetLayout, nil)
}

// CreateDescriptorSetLayout creates this descriptor set layout
func (d *Device) CreateDescriptorSetLayout(layout *DescriptorSetLayout) (*DescriptorSetLayout, error) {
	descriptorSetLayoutCreateInfo := &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(layout.VKDescriptorSetLayoutBindings)),
		PBindings:    layout.VKDescriptorSetLayoutBindings,
	}

	var descriptorSetLayout vk.DescriptorSetLayout
	err := check(vk.CreateDescriptorSetLayout(d.VKDevice, descriptorSetLayoutCreateInfo, nil, &descriptorSetLayout), "failed to create descriptor set layout")
	if err != nil {
		return nil, err
	}

	layout.Device = d
	layout.VKDescriptorSetLayout = descriptorSetLayout

	return layout, nil
}
