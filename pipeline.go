package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

type ComputePipeline struct {
	Device                          *Device
	VKPipeline                      vk.Pipeline
	VKPipelineShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
	VKPipelineLayout                vk.PipelineLayout
}

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	pipelineCacheCreate := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	var pipelineCache vk.PipelineCache
	err := check(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache), "failed to create pipeline cache")
	if err != nil {
		return nil, err
	}

	return &PipelineCache{
		Device:          d,
		VKPipelineCache: pipelineCache,
	}, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

func (c *ComputePipeline) SetPipelineLayout(layout *PipelineLayout) {
	c.VKPipelineLayout = layout.VKPipelineLayout
}

func (c *ComputePipeline) SetShaderStage(entryPoint string, shaderModule *ShaderModule) {
	c.VKPipelineShaderStageCreateInfo = shaderModule.VKPipelineShaderStageCreateInfo(vk.ShaderStageComputeBit, entryPoint)
}

// CreateComputePipelines creates every pipeline in cp in one call. Each must
// have its shader stage and layout set.
func (d *Device) CreateComputePipelines(pc *PipelineCache, cp ...*ComputePipeline) error {
	pipelines := make([]vk.Pipeline, len(cp))
	ci := make([]vk.ComputePipelineCreateInfo, len(cp))

	for i, p := range cp {
		ci[i] = vk.ComputePipelineCreateInfo{
			SType:  vk.StructureTypeComputePipelineCreateInfo,
			Stage:  p.VKPipelineShaderStageCreateInfo,
			Layout: p.VKPipelineLayout,
		}
	}

	cache := vk.PipelineCache(vk.NullHandle)
	if pc != nil {
		cache = pc.VKPipelineCache
	}

	err := check(vk.CreateComputePipelines(d.VKDevice, cache, uint32(len(ci)), ci, nil, pipelines), "failed to create compute pipeline")
	if err != nil {
		return err
	}

	for i := range pipelines {
		cp[i].Device = d
		cp[i].VKPipeline = pipelines[i]
	}
	return nil
}

func (c *ComputePipeline) Destroy() {
	vk.DestroyPipeline(c.Device.VKDevice, c.VKPipeline, nil)
}
