package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/pointcloud/billboard"
	"github.com/gekko3d/pointcloud/shaders"
)

// Program is the billboard render pipeline plus the uniform and bind group
// state for one renderer. Storage buffers are bound by name; scalar and
// vector inputs are staged and written to the uniform buffer before a draw.
type Program struct {
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Pipeline *wgpu.RenderPipeline

	UniformBuffer *wgpu.Buffer
	BindGroup     *wgpu.BindGroup

	params    billboardParams
	staging   []byte
	positions *Buffer
	colors    *Buffer
	bindDirty bool
}

func NewProgram(device *wgpu.Device, format wgpu.TextureFormat) (*Program, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "BillboardShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.BillboardWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	// Layout auto; bind group layout 0 is taken from the pipeline.
	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "BillboardPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	uniform, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "BillboardParams",
		Size:  paramsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &Program{
		Device:        device,
		Queue:         device.GetQueue(),
		Pipeline:      pipeline,
		UniformBuffer: uniform,
		staging:       make([]byte, paramsSize),
	}, nil
}

func (p *Program) SetBuffer(name string, buf billboard.Buffer) {
	var b *Buffer
	if buf != nil {
		var ok bool
		if b, ok = buf.(*Buffer); !ok {
			panic(fmt.Sprintf("gpu: buffer %q is %T, not a gpu buffer", name, buf))
		}
	}
	switch name {
	case billboard.PropPositions:
		p.positions = b
	case billboard.PropColors:
		p.colors = b
	default:
		return
	}
	p.bindDirty = true
}

func (p *Program) SetUint(name string, v uint32) {
	if name == billboard.PropCount {
		p.params.Count = v
	}
}

func (p *Program) SetFloat(name string, v float32) {
	switch name {
	case billboard.PropPointSize:
		p.params.PointSize = v
	case billboard.PropFadeBuffer:
		p.params.FadeBuffer = v
	case billboard.PropUnlitStart:
		p.params.UnlitStart = v
	case billboard.PropUnlitEnd:
		p.params.UnlitEnd = v
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	switch name {
	case billboard.PropCamForward:
		p.params.Forward = v
	case billboard.PropCamRight:
		p.params.Right = v
	case billboard.PropCamUp:
		p.params.Up = v
	case billboard.PropCamPos:
		p.params.Position = v
	}
}

// Ready reports whether both storage buffers are bound.
func (p *Program) Ready() bool {
	return p.positions != nil && p.positions.buf != nil && p.colors != nil && p.colors.buf != nil
}

// prepare uploads the staged uniforms with the camera's view-projection
// (OpenGL clip convention) and rebuilds the bind group after buffer changes.
func (p *Program) prepare(viewProj mgl32.Mat4) error {
	p.params.ViewProj = clipRemap.Mul4(viewProj)
	p.params.pack(p.staging)
	if err := p.Queue.WriteBuffer(p.UniformBuffer, 0, p.staging); err != nil {
		return fmt.Errorf("write billboard params: %w", err)
	}

	if p.BindGroup != nil && !p.bindDirty {
		return nil
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BillboardBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuffer, Size: paramsSize},
			{Binding: 1, Buffer: p.positions.buf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: p.colors.buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("create billboard bind group: %w", err)
	}
	p.BindGroup = bg
	p.bindDirty = false
	return nil
}

func (p *Program) draw(pass *wgpu.RenderPassEncoder, viewProj mgl32.Mat4, vertexCount, instanceCount uint32) error {
	if !p.Ready() {
		return nil
	}
	if err := p.prepare(viewProj); err != nil {
		return err
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.Draw(vertexCount, instanceCount, 0, 0)
	return nil
}

func (p *Program) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.UniformBuffer != nil {
		p.UniformBuffer.Release()
		p.UniformBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
