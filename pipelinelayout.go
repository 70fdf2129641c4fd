package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

type PipelineLayout struct {
	Device           *Device
	VKPipelineLayout vk.PipelineLayout
}

func (p *PipelineLayout) Destroy() {
	vk.DestroyPipelineLayout(p.Device.VKDevice, p.VKPipelineLayout, nil)
}

func (d *Device) CreatePipelineLayout(descriptorSetLayouts ...*DescriptorSetLayout) (*PipelineLayout, error) {
	l := make([]vk.DescriptorSetLayout, len(descriptorSetLayouts))
	for i, dsl := range descriptorSetLayouts {
		l[i] = dsl.VKDescriptorSetLayout
	}

	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(l)),
		PSetLayouts:    l,
	}

	var pipelineLayout vk.PipelineLayout
	err := check(vk.CreatePipelineLayout(d.VKDevice, &pipelineLayoutCreateInfo, nil, &pipelineLayout), "failed to create pipeline layout")
	if err != nil {
		return nil, err
	}

	return &PipelineLayout{
		Device:           d,
		VKPipelineLayout: pipelineLayout,
	}, nil
}
