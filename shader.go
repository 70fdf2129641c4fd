package vkhelper

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// LoadShaderModuleFromFile reads a SPIR-V binary and creates a module from it
func (d *Device) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read shader %s", file)
	}
	m, err := d.CreateShaderModule(data)
	if err != nil {
		return nil, err
	}
	m.Description = file
	return m, nil
}

// CreateShaderModule creates a module from SPIR-V code. The code is opaque
// here apart from its length, which must be a multiple of four.
func (d *Device) CreateShaderModule(code []byte) (*ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Errorf("failed to create shader module: code size %d is not a multiple of 4", len(code))
	}

	var module vk.ShaderModule
	err := check(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module), "failed to create shader module")
	if err != nil {
		return nil, err
	}

	return &ShaderModule{
		Device:         d,
		VKShaderModule: module,
	}, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
