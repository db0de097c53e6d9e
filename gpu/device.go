// Package gpu is the WebGPU backend for the billboard renderer.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/pointcloud/billboard"
)

// Device allocates storage buffers on a WebGPU device.
type Device struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
}

func NewDevice(device *wgpu.Device) *Device {
	return &Device{
		Device: device,
		Queue:  device.GetQueue(),
	}
}

// alignedSize rounds n up to the 4-byte multiple WebGPU requires for
// buffer sizes and writes.
func alignedSize(n int) uint64 {
	size := uint64(n)
	if size%4 != 0 {
		size += 4 - (size % 4)
	}
	return size
}

func (d *Device) NewBuffer(label string, count, stride int) (billboard.Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("buffer %q: invalid size %d x %d", label, count, stride)
	}
	buf, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  alignedSize(count * stride),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %q: %w", label, err)
	}
	return &Buffer{buf: buf, queue: d.Queue, label: label}, nil
}

// Buffer is a storage buffer written through the device queue.
type Buffer struct {
	buf   *wgpu.Buffer
	queue *wgpu.Queue
	label string
}

func (b *Buffer) Write(data []byte) error {
	if b.buf == nil {
		return fmt.Errorf("buffer %q: released", b.label)
	}
	if len(data) == 0 {
		return nil
	}
	if len(data)%4 != 0 {
		padded := make([]byte, alignedSize(len(data)))
		copy(padded, data)
		data = padded
	}
	return b.queue.WriteBuffer(b.buf, 0, data)
}

func (b *Buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

func (b *Buffer) Raw() *wgpu.Buffer { return b.buf }
