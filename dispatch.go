package vkhelper

import (
	"github.com/loov/hrtime"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// Record records the clear and the dispatch into the command buffer:
// transition the image to GENERAL, clear it to zero, make the clear visible
// to the compute shader, run one invocation per pixel, and make the shader
// writes visible to the host.
func (a *ComputeApp) Record() error {
	cb := a.commandBuffer
	if err := cb.Begin(); err != nil {
		return err
	}

	cb.CmdTransitionImage(ImageTransition{
		Image:     a.image,
		OldLayout: vk.ImageLayoutUndefined,
		NewLayout: vk.ImageLayoutGeneral,
		SrcAccess: 0,
		DstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
	})

	// transparent black
	cb.CmdClearColorImage(a.image, vk.ImageLayoutGeneral, vk.ClearColorValue{}, a.image.ColorRange())

	cb.CmdMemoryBarrier(
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.AccessFlags(vk.AccessShaderReadBit|vk.AccessShaderWriteBit),
	)

	cb.CmdBindDescriptorSets(vk.PipelineBindPointCompute, a.pipelineLayout, 0, a.descriptorSet)
	cb.CmdBindComputePipeline(a.pipeline)
	cb.CmdDispatch(a.cfg.Width, a.cfg.Height, 1)

	cb.CmdMemoryBarrier(
		vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
		vk.PipelineStageFlags(vk.PipelineStageHostBit),
		vk.AccessFlags(vk.AccessShaderWriteBit),
		vk.AccessFlags(vk.AccessHostReadBit),
	)

	return cb.End()
}

// Draw submits the recorded work, waits for it and verifies that every
// sample read back from the storage buffer is zero.
func (a *ComputeApp) Draw() error {
	if err := a.fence.Reset(); err != nil {
		return err
	}

	start := hrtime.Now()
	if err := a.queue.Submit(a.fence, a.commandBuffer); err != nil {
		return err
	}
	if err := a.fence.Wait(); err != nil {
		return err
	}
	elapsed := hrtime.Since(start)

	if err := a.storageMemory.Invalidate(0, WholeSize); err != nil {
		return err
	}

	a.logger.Info("dispatch complete",
		durationAttr("elapsed", elapsed),
		slog.Int("width", a.cfg.Width),
		slog.Int("height", a.cfg.Height),
		slog.Int("samples", a.cfg.Samples),
	)

	return VerifyCleared(a.Samples(), a.cfg.Width, a.cfg.Height, a.cfg.Samples)
}

// Samples views the mapped storage buffer as uint32 channels, four per
// sample. The slice aliases device memory and is only meaningful after Draw
// has waited on the fence.
func (a *ComputeApp) Samples() []uint32 {
	return a.storageMemory.Uint32s(int(a.storageSize / channelSize))
}

// VerifyCleared checks channel 0 of every sample of a width x height image
// laid out as [y][x][sample][channel]. It returns a *VerificationError for
// the first nonzero sample, or for a buffer too short to hold the image.
func VerifyCleared(data []uint32, width, height, samples int) error {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for s := 0; s < samples; s++ {
				i := sampleChannels * ((y*width+x)*samples + s)
				if i >= len(data) {
					return &VerificationError{X: x, Y: y, Sample: s, Missing: true}
				}
				if data[i] != 0 {
					return &VerificationError{X: x, Y: y, Sample: s, Value: data[i]}
				}
			}
		}
	}
	return nil
}
