package vkhelper

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	// ErrNoPhysicalDevice is returned when the instance enumerates no devices
	ErrNoPhysicalDevice = errors.New("failed to find physical device")
	// ErrTooManyPhysicalDevices is returned when more devices exist than MaxPhysicalDevices
	ErrTooManyPhysicalDevices = errors.New("too many physical devices")
	// ErrNoQueueFamily is returned when no queue family satisfies a search
	ErrNoQueueFamily = errors.New("failed to find queue family")
	// ErrNoMatchingMemoryType is returned by FindMemoryType when no memory type qualifies
	ErrNoMatchingMemoryType = errors.New("failed find memory property")
	// ErrUnsupportedFormat is returned when the device cannot use a format as asked
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCastFailed is returned when a size does not fit the Vulkan field it is written to
	ErrCastFailed = errors.New("cast failed")
)

// VerificationError reports the first sample read back from the storage
// buffer that did not hold the expected value.
type VerificationError struct {
	X, Y   int
	Sample int
	Value  uint32
	// Missing is set when the buffer ended before this sample
	Missing bool
}

func (e *VerificationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("sample %d of pixel (%d, %d) is past the end of the buffer", e.Sample, e.X, e.Y)
	}
	return fmt.Sprintf("sample %d of pixel (%d, %d) is %d, expected 0", e.Sample, e.X, e.Y, e.Value)
}

// check converts a native result into an error carrying msg, or nil on success.
func check(res vk.Result, msg string) error {
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, msg)
	}
	return nil
}

func checkedUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > uint64(^uint32(0)) {
		return 0, errors.Wrapf(ErrCastFailed, "%d does not fit in uint32", v)
	}
	return uint32(v), nil
}
