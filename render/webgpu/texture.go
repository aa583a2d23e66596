// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"fmt"
	"image"
	stddraw "image/draw"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/dockwin/dockwin/render"
	"golang.org/x/image/draw"
)

// texture is an uploaded GUI texture: the font atlas or any image the
// GUI references by [render.TextureID] in its draw commands.
type texture struct {
	tex   *wgpu.Texture
	view  *wgpu.TextureView
	group *wgpu.BindGroup
	size  image.Point
}

func (tx *texture) release() {
	if tx.group != nil {
		tx.group.Release()
		tx.group = nil
	}
	if tx.view != nil {
		tx.view.Release()
		tx.view = nil
	}
	if tx.tex != nil {
		tx.tex.Release()
		tx.tex = nil
	}
}

// UploadTexture uploads an image to the GPU and returns its ID for
// use in draw commands. The first upload becomes the font atlas
// ([render.FontAtlas]). Images exceeding the device's maximum texture
// dimension are downscaled proportionally.
func (rd *Renderer) UploadTexture(img image.Image) (render.TextureID, error) {
	rd.Lock()
	defer rd.Unlock()
	if rd.device == nil {
		return 0, fmt.Errorf("%w: no device", render.ErrDeviceLost)
	}
	id := render.FontAtlas
	if rd.textures[render.FontAtlas] != nil {
		id = rd.nextTex
		rd.nextTex++
	}
	tx, err := rd.uploadImage(img)
	if err != nil {
		return 0, err
	}
	rd.textures[id] = tx
	return id, nil
}

// ReplaceTexture reuploads the image for an existing ID, keeping the
// ID stable for draw commands already referencing it. Used when the
// font atlas is rebuilt after a DPI scale change.
func (rd *Renderer) ReplaceTexture(id render.TextureID, img image.Image) error {
	rd.Lock()
	defer rd.Unlock()
	old := rd.textures[id]
	if old == nil {
		return fmt.Errorf("webgpu: replace of unknown texture %d", id)
	}
	tx, err := rd.uploadImage(img)
	if err != nil {
		return err
	}
	old.release()
	rd.textures[id] = tx
	return nil
}

// FreeTexture releases the texture for the given ID. Unknown IDs are
// a no-op.
func (rd *Renderer) FreeTexture(id render.TextureID) {
	rd.Lock()
	defer rd.Unlock()
	tx := rd.textures[id]
	if tx == nil {
		return
	}
	tx.release()
	delete(rd.textures, id)
}

func (rd *Renderer) uploadImage(img image.Image) (*texture, error) {
	rimg := imageToRGBA(img, rd.maxTextureDim)
	sz := rimg.Rect.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return nil, fmt.Errorf("webgpu: empty texture image %v", sz)
	}
	tex, err := rd.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "dockwin.texture",
		Size: wgpu.Extent3D{
			Width:              uint32(sz.X),
			Height:             uint32(sz.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, rd.lostDevice(err)
	}
	rd.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		rimg.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * uint32(sz.X),
			RowsPerImage: uint32(sz.Y),
		},
		&wgpu.Extent3D{
			Width:              uint32(sz.X),
			Height:             uint32(sz.Y),
			DepthOrArrayLayers: 1,
		},
	)
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, rd.lostDevice(err)
	}
	group, err := rd.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "dockwin.texture",
		Layout: rd.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, rd.lostDevice(err)
	}
	return &texture{tex: tex, view: view, group: group, size: sz}, nil
}

// imageToRGBA returns the image as RGBA pixels, downscaling
// proportionally if either dimension exceeds maxDim.
func imageToRGBA(img image.Image, maxDim int) *image.RGBA {
	sz := img.Bounds().Size()
	if maxDim > 0 && (sz.X > maxDim || sz.Y > maxDim) {
		nsz := sz
		if sz.X >= sz.Y {
			nsz = image.Pt(maxDim, max(1, sz.Y*maxDim/sz.X))
		} else {
			nsz = image.Pt(max(1, sz.X*maxDim/sz.Y), maxDim)
		}
		dst := image.NewRGBA(image.Rectangle{Max: nsz})
		draw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
		return dst
	}
	if rg, ok := img.(*image.RGBA); ok {
		return rg
	}
	dst := image.NewRGBA(image.Rectangle{Max: sz})
	stddraw.Draw(dst, dst.Rect, img, img.Bounds().Min, stddraw.Src)
	return dst
}
