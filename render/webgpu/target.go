// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/dockwin/dockwin/base/errors"
	"github.com/dockwin/dockwin/render"
	"github.com/dockwin/dockwin/viewport"
)

// target holds the per-viewport GPU state: the window surface and the
// grown vertex, index and uniform buffers reused across frames.
type target struct {
	surface *wgpu.Surface
	size    image.Point

	vtxBuffer *wgpu.Buffer
	vtxCap    int // vertices
	idxBuffer *wgpu.Buffer
	idxCap    int // indices

	uniform *wgpu.Buffer
	group   *wgpu.BindGroup

	// frame is the acquired surface texture between Draw and Present.
	frame     *wgpu.Texture
	frameView *wgpu.TextureView
}

func (tg *target) release() {
	tg.dropFrame()
	if tg.group != nil {
		tg.group.Release()
		tg.group = nil
	}
	if tg.uniform != nil {
		tg.uniform.Release()
		tg.uniform = nil
	}
	if tg.idxBuffer != nil {
		tg.idxBuffer.Release()
		tg.idxBuffer = nil
	}
	if tg.vtxBuffer != nil {
		tg.vtxBuffer.Release()
		tg.vtxBuffer = nil
	}
	if tg.surface != nil {
		tg.surface.Release()
		tg.surface = nil
	}
}

func (tg *target) dropFrame() {
	if tg.frameView != nil {
		tg.frameView.Release()
		tg.frameView = nil
	}
	if tg.frame != nil {
		tg.frame.Release()
		tg.frame = nil
	}
}

// BindTarget ensures a configured surface exists for the given window
// at the given framebuffer size in physical pixels. Resizing an
// existing target reconfigures the surface, which invalidates any
// previously acquired frame.
func (rd *Renderer) BindTarget(h viewport.Handle, size image.Point) error {
	rd.Lock()
	defer rd.Unlock()
	if rd.deviceLost {
		return render.ErrDeviceLost
	}
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: empty target size %v", render.ErrSurfaceLost, size)
	}
	tg := rd.targets[h]
	if tg == nil {
		desc, err := rd.source.SurfaceDescriptor(h)
		if err != nil {
			return fmt.Errorf("%w: %w", render.ErrSurfaceLost, err)
		}
		if rd.instance == nil {
			rd.instance = wgpu.CreateInstance(nil)
		}
		surface := rd.instance.CreateSurface(desc)
		if err := rd.ensureDevice(surface); err != nil {
			surface.Release()
			return err
		}
		tg = &target{surface: surface}
		rd.targets[h] = tg
	} else if tg.size == size {
		return nil
	}
	tg.dropFrame()
	presentMode := wgpu.PresentModeFifo
	if !rd.config.VSync {
		presentMode = wgpu.PresentModeImmediate
	}
	tg.surface.Configure(rd.adapter, rd.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      rd.format,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: presentMode,
		AlphaMode:   wgpu.CompositeAlphaModeOpaque,
	})
	tg.size = size
	return nil
}

// ReleaseTarget frees the surface and buffers for the given window.
// Unknown handles are a no-op.
func (rd *Renderer) ReleaseTarget(h viewport.Handle) {
	rd.Lock()
	defer rd.Unlock()
	tg := rd.targets[h]
	if tg == nil {
		return
	}
	tg.release()
	delete(rd.targets, h)
}

// ensureBuffers grows the vertex and index buffers to hold the given
// counts, and creates the uniform buffer and bind group on first use.
func (rd *Renderer) ensureBuffers(tg *target, nvtx, nidx int) error {
	if tg.vtxBuffer == nil || tg.vtxCap < nvtx {
		if tg.vtxBuffer != nil {
			tg.vtxBuffer.Release()
		}
		capVtx := max(nvtx, 4096)
		buf, err := rd.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "dockwin.vertices",
			Size:  uint64(capVtx * render.VertexBytes),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return rd.lostDevice(err)
		}
		tg.vtxBuffer = buf
		tg.vtxCap = capVtx
	}
	if tg.idxBuffer == nil || tg.idxCap < nidx {
		if tg.idxBuffer != nil {
			tg.idxBuffer.Release()
		}
		capIdx := max(nidx, 8192)
		buf, err := rd.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "dockwin.indices",
			Size:  uint64(capIdx * 4),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return rd.lostDevice(err)
		}
		tg.idxBuffer = buf
		tg.idxCap = capIdx
	}
	if tg.uniform == nil {
		buf, err := rd.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "dockwin.uniforms",
			Size:  16, // vec2 scale + vec2 translate
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return rd.lostDevice(err)
		}
		group, err := rd.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "dockwin.uniforms",
			Layout: rd.uniformLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
				{Binding: 1, Sampler: rd.sampler},
			},
		})
		if err != nil {
			buf.Release()
			return rd.lostDevice(err)
		}
		tg.uniform = buf
		tg.group = group
	}
	return nil
}

// Draw records and submits the draw data for the given window, leaving
// the acquired frame pending until Present. Vertices are in global
// screen coordinates; the uniform transform maps them into the
// viewport's clip space using data.Pos and data.Size.
func (rd *Renderer) Draw(h viewport.Handle, data *render.DrawData) error {
	rd.Lock()
	defer rd.Unlock()
	if rd.deviceLost {
		return render.ErrDeviceLost
	}
	tg := rd.targets[h]
	if tg == nil {
		return fmt.Errorf("%w: no target bound", render.ErrSurfaceLost)
	}
	tg.dropFrame() // Draw without Present drops the stale frame

	nvtx := data.TotalVertices()
	nidx := data.TotalIndices()
	if err := rd.ensureBuffers(tg, nvtx, nidx); err != nil {
		return err
	}

	frame, err := tg.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: %w", render.ErrSurfaceLost, err)
	}
	view, err := frame.CreateView(nil)
	if err != nil {
		frame.Release()
		return fmt.Errorf("%w: %w", render.ErrSurfaceLost, err)
	}

	rd.writeUniforms(tg, data)
	rd.writeGeometry(tg, data)

	encoder, err := rd.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		frame.Release()
		return rd.lostDevice(err)
	}
	cc := rd.config.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
		}},
	})
	if nidx > 0 {
		pass.SetPipeline(rd.pipeline)
		pass.SetBindGroup(0, tg.group, nil)
		pass.SetVertexBuffer(0, tg.vtxBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(tg.idxBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		rd.recordLists(pass, tg, data)
	}
	pass.End()

	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		view.Release()
		frame.Release()
		return rd.lostDevice(err)
	}
	rd.queue.Submit(cmd)
	cmd.Release()

	tg.frame = frame
	tg.frameView = view
	return nil
}

// recordLists replays the draw lists into the render pass: per-command
// scissor, texture bind and indexed draw, with base offsets advanced
// per list since all lists share one vertex and one index buffer.
func (rd *Renderer) recordLists(pass *wgpu.RenderPassEncoder, tg *target, data *render.DrawData) {
	fbScale := data.Scale
	if fbScale <= 0 {
		fbScale = 1
	}
	baseVtx := 0
	baseIdx := 0
	for _, list := range data.Lists {
		for _, cmd := range list.Commands {
			if cmd.IndexCount == 0 {
				continue
			}
			clip := rd.scissor(cmd.ClipRect, data.Pos, fbScale, tg.size)
			if clip.Empty() {
				continue
			}
			pass.SetScissorRect(uint32(clip.Min.X), uint32(clip.Min.Y),
				uint32(clip.Dx()), uint32(clip.Dy()))
			tx := rd.textures[cmd.Texture]
			if tx == nil {
				tx = rd.textures[render.FontAtlas]
			}
			if tx == nil {
				continue
			}
			pass.SetBindGroup(1, tx.group, nil)
			pass.DrawIndexed(cmd.IndexCount, 1, uint32(baseIdx)+cmd.IndexOffset,
				int32(baseVtx), 0)
		}
		baseVtx += len(list.Vertices)
		baseIdx += len(list.Indices)
	}
}

// scissor converts a clip rect in global screen coordinates to
// framebuffer pixels, clamped to the target bounds.
func (rd *Renderer) scissor(clip image.Rectangle, pos image.Point, scale float32, size image.Point) image.Rectangle {
	r := image.Rect(
		int(math32.Floor(float32(clip.Min.X-pos.X)*scale)),
		int(math32.Floor(float32(clip.Min.Y-pos.Y)*scale)),
		int(math32.Ceil(float32(clip.Max.X-pos.X)*scale)),
		int(math32.Ceil(float32(clip.Max.Y-pos.Y)*scale)),
	)
	return r.Intersect(image.Rectangle{Max: size})
}

// writeUniforms uploads the scale and translate mapping global screen
// coordinates to clip space, with Y pointing down in screen space.
func (rd *Renderer) writeUniforms(tg *target, data *render.DrawData) {
	w := float32(data.Size.X)
	h := float32(data.Size.Y)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	uniforms := [4]float32{
		2 / w, -2 / h, // scale
		-1 - 2*float32(data.Pos.X)/w, // translate x
		1 + 2*float32(data.Pos.Y)/h,  // translate y
	}
	rd.queue.WriteBuffer(tg.uniform, 0, wgpu.ToBytes(uniforms[:]))
}

// writeGeometry uploads all draw lists back to back into the shared
// vertex and index buffers.
func (rd *Renderer) writeGeometry(tg *target, data *render.DrawData) {
	vtxOff := uint64(0)
	idxOff := uint64(0)
	for _, list := range data.Lists {
		if len(list.Vertices) > 0 {
			rd.queue.WriteBuffer(tg.vtxBuffer, vtxOff, wgpu.ToBytes(list.Vertices))
			vtxOff += uint64(len(list.Vertices) * render.VertexBytes)
		}
		if len(list.Indices) > 0 {
			rd.queue.WriteBuffer(tg.idxBuffer, idxOff, wgpu.ToBytes(list.Indices))
			idxOff += uint64(len(list.Indices) * 4)
		}
	}
}

// Present presents the frame acquired by the last Draw. Calling
// Present without a pending frame is a no-op.
func (rd *Renderer) Present(h viewport.Handle) error {
	rd.Lock()
	defer rd.Unlock()
	if rd.deviceLost {
		return render.ErrDeviceLost
	}
	tg := rd.targets[h]
	if tg == nil {
		return errors.New("webgpu: present on unbound target")
	}
	if tg.frame == nil {
		return nil
	}
	tg.surface.Present()
	tg.dropFrame()
	return nil
}
