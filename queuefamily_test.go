package vkhelper

import (
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func families(flags ...vk.QueueFlagBits) QueueFamilySlice {
	ret := make(QueueFamilySlice, len(flags))
	for i, f := range flags {
		ret[i] = &QueueFamily{
			Index: i,
			VKQueueFamilyProperties: vk.QueueFamilyProperties{
				QueueFlags: vk.QueueFlags(f),
				QueueCount: 1,
			},
		}
	}
	return ret
}

func TestFirstCompute(t *testing.T) {
	tests := []struct {
		name  string
		flags []vk.QueueFlagBits
		want  int
	}{
		{"graphics and compute first", []vk.QueueFlagBits{vk.QueueGraphicsBit | vk.QueueComputeBit, vk.QueueComputeBit}, 0},
		{"compute second", []vk.QueueFlagBits{vk.QueueGraphicsBit, vk.QueueComputeBit | vk.QueueTransferBit, vk.QueueComputeBit}, 1},
		{"compute last", []vk.QueueFlagBits{vk.QueueTransferBit, vk.QueueGraphicsBit, vk.QueueComputeBit}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qf, err := families(tt.flags...).FirstCompute()
			if err != nil {
				t.Fatal(err)
			}
			if qf.Index != tt.want {
				t.Errorf("got family %d, want %d", qf.Index, tt.want)
			}
		})
	}
}

func TestFirstComputeNone(t *testing.T) {
	_, err := families(vk.QueueGraphicsBit, vk.QueueTransferBit).FirstCompute()
	if !errors.Is(err, ErrNoQueueFamily) {
		t.Errorf("err = %v, want ErrNoQueueFamily", err)
	}

	_, err = QueueFamilySlice{}.FirstCompute()
	if err != ErrNoQueueFamily {
		t.Errorf("err = %v, want ErrNoQueueFamily", err)
	}
}

func TestQueueFamilyFilter(t *testing.T) {
	qfs := families(vk.QueueGraphicsBit|vk.QueueComputeBit, vk.QueueTransferBit, vk.QueueComputeBit)
	if n := len(qfs.FilterCompute()); n != 2 {
		t.Errorf("FilterCompute returned %d families, want 2", n)
	}
	if n := len(qfs.FilterTransfer()); n != 1 {
		t.Errorf("FilterTransfer returned %d families, want 1", n)
	}
	if !qfs[0].IsGraphics() || qfs[1].IsGraphics() {
		t.Error("IsGraphics mismatch")
	}
}
