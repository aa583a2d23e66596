// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package webgpu

import (
	"image"
	"testing"

	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/platform/desktop"
	"github.com/dockwin/dockwin/render"
	"github.com/dockwin/dockwin/viewport"
	"github.com/stretchr/testify/assert"
)

func TestRendererDraw(t *testing.T) {
	t.Skip("Need software GPU and a window system on CI")
	pf, err := desktop.New()
	assert.NoError(t, err)
	defer pf.Terminate()
	h, err := pf.CreateWindow(platform.WindowSpec{
		Title: "draw test",
		Geom:  viewport.Geom{Size: image.Pt(640, 480), Scale: 1},
	})
	assert.NoError(t, err)

	rd := New(pf, nil)
	defer rd.Release()
	assert.NoError(t, rd.BindTarget(h, image.Pt(640, 480)))

	atlas := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range atlas.Pix {
		atlas.Pix[i] = 0xFF
	}
	id, err := rd.UploadTexture(atlas)
	assert.NoError(t, err)
	assert.Equal(t, render.FontAtlas, id)

	data := &render.DrawData{
		Size:  image.Pt(640, 480),
		Scale: 1,
		Lists: []*render.DrawList{{
			Vertices: []render.Vertex{
				{Pos: [2]float32{0, 0}, UV: [2]float32{0, 0}, Color: 0xFFFFFFFF},
				{Pos: [2]float32{100, 0}, UV: [2]float32{1, 0}, Color: 0xFFFFFFFF},
				{Pos: [2]float32{0, 100}, UV: [2]float32{0, 1}, Color: 0xFFFFFFFF},
			},
			Indices: []uint32{0, 1, 2},
			Commands: []render.DrawCommand{{
				ClipRect:   image.Rect(0, 0, 640, 480),
				Texture:    render.FontAtlas,
				IndexCount: 3,
			}},
		}},
	}
	assert.NoError(t, rd.Draw(h, data))
	assert.NoError(t, rd.Present(h))
}
