package vkhelper

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// MemoryType is one entry of a device's memory type table
type MemoryType struct {
	Index         uint32
	HeapIndex     uint32
	PropertyFlags vk.MemoryPropertyFlags
}

// Has reports whether every flag in required is set on this type
func (m MemoryType) Has(required vk.MemoryPropertyFlags) bool {
	return m.PropertyFlags&required == required
}

func (m MemoryType) String() string {
	return fmt.Sprintf("{ Index: %d Heap: %d Flags: %s }", m.Index, m.HeapIndex, MemoryPropertyString(m.PropertyFlags))
}

// MemoryHeap is one entry of a device's memory heap table
type MemoryHeap struct {
	Index uint32
	Size  uint64
	Flags vk.MemoryHeapFlags
}

// MemoryProperties is a cached copy of vk.PhysicalDeviceMemoryProperties
// in plain Go slices, ordered by index.
type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}

func newMemoryProperties(mp *vk.PhysicalDeviceMemoryProperties) *MemoryProperties {
	ret := &MemoryProperties{
		Types: make([]MemoryType, 0, mp.MemoryTypeCount),
		Heaps: make([]MemoryHeap, 0, mp.MemoryHeapCount),
	}
	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret.Types = append(ret.Types, MemoryType{Index: i, HeapIndex: mt.HeapIndex, PropertyFlags: mt.PropertyFlags})
	}
	for i = 0; i < mp.MemoryHeapCount; i++ {
		h := mp.MemoryHeaps[i]
		h.Deref()
		ret.Heaps = append(ret.Heaps, MemoryHeap{Index: i, Size: uint64(h.Size), Flags: h.Flags})
	}
	return ret
}

// FindMemoryType returns the lowest memory type index that is allowed by
// typeBits and carries every flag in required.
//
// typeBits comes from vk.MemoryRequirements: bit i set means memory type i
// may back the resource.
func (m *MemoryProperties) FindMemoryType(typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i, mt := range m.Types {
		if i >= 32 {
			break
		}
		if typeBits&(1<<uint(i)) != 0 && mt.Has(required) {
			return uint32(i), nil
		}
	}
	return 0, errors.Wrapf(ErrNoMatchingMemoryType, "type bits %#x, flags %s", typeBits, MemoryPropertyString(required))
}

// Filter returns the memory types for which f returns true
func (m *MemoryProperties) Filter(f func(MemoryType) bool) []MemoryType {
	ret := make([]MemoryType, 0)
	for _, mt := range m.Types {
		if f(mt) {
			ret = append(ret, mt)
		}
	}
	return ret
}

// HostVisibleAndCoherent returns the types a persistent host mapping can use
// without explicit flushes.
func (m *MemoryProperties) HostVisibleAndCoherent() []MemoryType {
	return m.Filter(func(mt MemoryType) bool {
		return mt.Has(vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit))
	})
}

var memoryPropertyNames = []struct {
	bit  vk.MemoryPropertyFlagBits
	name string
}{
	{vk.MemoryPropertyDeviceLocalBit, "DeviceLocal"},
	{vk.MemoryPropertyHostVisibleBit, "HostVisible"},
	{vk.MemoryPropertyHostCoherentBit, "HostCoherent"},
	{vk.MemoryPropertyHostCachedBit, "HostCached"},
	{vk.MemoryPropertyLazilyAllocatedBit, "LazilyAllocated"},
	{vk.MemoryPropertyProtectedBit, "Protected"},
}

// MemoryPropertyString renders property flags as names joined by '|'
func MemoryPropertyString(f vk.MemoryPropertyFlags) string {
	s := ""
	for _, n := range memoryPropertyNames {
		if f&vk.MemoryPropertyFlags(n.bit) != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		s = "None"
	}
	return s
}
