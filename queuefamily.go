package vkhelper

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make(QueueFamilySlice, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsCompute()
	})
}

func (ql QueueFamilySlice) FilterTransfer() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsTransfer()
	})
}

// Find returns the first family, in index order, for which f returns true
func (ql QueueFamilySlice) Find(f func(q *QueueFamily) bool) (*QueueFamily, error) {
	for _, q := range ql {
		if f(q) {
			return q, nil
		}
	}
	return nil, ErrNoQueueFamily
}

// FirstCompute returns the lowest indexed family that supports compute
func (ql QueueFamilySlice) FirstCompute() (*QueueFamily, error) {
	return ql.Find((*QueueFamily).IsCompute)
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) has(bit vk.QueueFlagBits) bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(bit) == vk.QueueFlags(bit)
}

func (q *QueueFamily) IsCompute() bool {
	return q.has(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.has(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.has(vk.QueueTransferBit)
}

// QueueCount is the number of queues the family exposes
func (q *QueueFamily) QueueCount() int {
	return int(q.VKQueueFamilyProperties.QueueCount)
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Queues: %d Compute: %v Graphics: %v Transfer: %v }",
		q.Index, q.QueueCount(), q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
