// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webgpu implements the render backend on the WebGPU API,
// via the github.com/cogentcore/webgpu bindings. One Renderer owns
// the instance, adapter, device and queue; each viewport gets its
// own surface target, all drawing against a shared GUI pipeline.
package webgpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/dockwin/dockwin/base/errors"
	"github.com/dockwin/dockwin/render"
	"github.com/dockwin/dockwin/viewport"
)

//go:embed shaders/gui.wgsl
var guiShader string

var _ render.Renderer = (*Renderer)(nil)

// SurfaceSource supplies platform surface descriptors for live windows.
// The desktop platform driver implements this on top of glfw.
type SurfaceSource interface {
	// SurfaceDescriptor returns the WebGPU surface descriptor for the
	// given window handle, or an error if the window is not live.
	SurfaceDescriptor(h viewport.Handle) (*wgpu.SurfaceDescriptor, error)
}

// Config has rendering options for the Renderer.
type Config struct {
	// VSync presents surfaces with FIFO (vsync) timing when true,
	// and Immediate otherwise. Default is on.
	VSync bool

	// ClearColor is the render pass clear color, as linear RGBA
	// in 0..1. Default is opaque dark gray.
	ClearColor [4]float64

	// MaxTextureDim overrides the maximum texture dimension;
	// images larger than this are downscaled on upload.
	// 0 uses the device limit.
	MaxTextureDim int
}

func (cf *Config) defaults() {
	cf.VSync = true
	cf.ClearColor = [4]float64{0.1, 0.1, 0.1, 1}
}

// Renderer is the WebGPU implementation of [render.Renderer].
// The device is acquired lazily from the first bound target's surface,
// so constructing a Renderer is cheap and never touches the GPU.
type Renderer struct {
	source SurfaceSource
	config Config

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	pipeline      *wgpu.RenderPipeline
	sampler       *wgpu.Sampler
	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
	format        wgpu.TextureFormat
	maxTextureDim int

	targets  map[viewport.Handle]*target
	textures map[render.TextureID]*texture
	nextTex  render.TextureID

	// deviceLost latches once a submit or encode fails; every call
	// after that reports render.ErrDeviceLost without touching wgpu.
	deviceLost bool

	sync.Mutex
}

// New returns a Renderer drawing to surfaces obtained from the given
// source. A nil config uses defaults. The GPU device is not acquired
// until the first target is bound.
func New(source SurfaceSource, config *Config) *Renderer {
	rd := &Renderer{
		source:   source,
		targets:  map[viewport.Handle]*target{},
		textures: map[render.TextureID]*texture{},
		nextTex:  render.FontAtlas + 1,
	}
	rd.config.defaults()
	if config != nil {
		rd.config = *config
	}
	return rd
}

// ensureDevice acquires the adapter, device and shared pipeline state,
// using the given surface for adapter compatibility. It is a no-op
// once the device exists.
func (rd *Renderer) ensureDevice(surface *wgpu.Surface) error {
	if rd.device != nil {
		return nil
	}
	if rd.deviceLost {
		return render.ErrDeviceLost
	}
	if rd.instance == nil {
		rd.instance = wgpu.CreateInstance(nil)
	}
	adapter, err := rd.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: no adapter")
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		return errors.Wrap(err, "webgpu: no device")
	}
	rd.adapter = adapter
	rd.device = device
	rd.queue = device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	rd.format = wgpu.TextureFormatBGRA8Unorm
	if len(caps.Formats) > 0 {
		rd.format = caps.Formats[0]
	}
	rd.maxTextureDim = rd.config.MaxTextureDim
	if rd.maxTextureDim <= 0 {
		rd.maxTextureDim = int(device.GetLimits().Limits.MaxTextureDimension2D)
	}
	return rd.initPipeline()
}

func (rd *Renderer) initPipeline() error {
	var err error
	rd.uniformLayout, err = rd.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "dockwin.uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: uniform bind group layout")
	}
	rd.textureLayout, err = rd.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "dockwin.texture",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: texture bind group layout")
	}
	layout, err := rd.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "dockwin.pipeline",
		BindGroupLayouts: []*wgpu.BindGroupLayout{rd.uniformLayout, rd.textureLayout},
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: pipeline layout")
	}
	defer layout.Release()

	module, err := rd.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "dockwin.gui",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: guiShader},
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: shader module")
	}
	defer module.Release()

	rd.pipeline, err = rd.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "dockwin.gui",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(render.VertexBytes),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: rd.format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: render pipeline")
	}
	rd.sampler, err = rd.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "dockwin.gui",
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  1,
	})
	if err != nil {
		return errors.Wrap(err, "webgpu: sampler")
	}
	return nil
}

// lostDevice latches the device-lost state and returns the wrapped
// terminal error.
func (rd *Renderer) lostDevice(err error) error {
	rd.deviceLost = true
	return fmt.Errorf("%w: %w", render.ErrDeviceLost, err)
}

// Release frees all GPU resources. The Renderer must not be used
// after Release.
func (rd *Renderer) Release() {
	rd.Lock()
	defer rd.Unlock()
	for h, tg := range rd.targets {
		tg.release()
		delete(rd.targets, h)
	}
	for id, tx := range rd.textures {
		tx.release()
		delete(rd.textures, id)
	}
	if rd.sampler != nil {
		rd.sampler.Release()
		rd.sampler = nil
	}
	if rd.pipeline != nil {
		rd.pipeline.Release()
		rd.pipeline = nil
	}
	if rd.textureLayout != nil {
		rd.textureLayout.Release()
		rd.textureLayout = nil
	}
	if rd.uniformLayout != nil {
		rd.uniformLayout.Release()
		rd.uniformLayout = nil
	}
	if rd.device != nil {
		rd.device.Release()
		rd.device = nil
	}
	if rd.adapter != nil {
		rd.adapter.Release()
		rd.adapter = nil
	}
	if rd.instance != nil {
		rd.instance.Release()
		rd.instance = nil
	}
}
