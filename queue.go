package vkhelper

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

// Submit submits the buffers in a single batch. fence, if not nil, is
// signaled when the batch completes.
func (q *Queue) Submit(fence *Fence, buffers ...*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(b)),
		PCommandBuffers:    b,
	}

	f := vk.Fence(vk.NullHandle)
	if fence != nil {
		f = fence.VKFence
	}

	return check(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, f), "failed to submit queue")
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
