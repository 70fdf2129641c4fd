package vkhelper

import (
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// CreateImageViewWithOptions views the image's first mip and layer with an
// identity swizzle.
func (i *Image) CreateImageViewWithOptions(viewType vk.ImageViewType, mask vk.ImageAspectFlags) (*ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: viewType,
		Format:   i.VKFormat,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: mask,
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	err := check(vk.CreateImageView(i.Device.VKDevice, createInfo, nil, &view), "failed to create image view")
	if err != nil {
		return nil, err
	}

	return &ImageView{
		Device:      i.Device,
		VKImageView: view,
	}, nil
}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}
