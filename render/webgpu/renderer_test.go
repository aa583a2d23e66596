// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The device-touching path is exercised by TestRendererDraw in
// draw_test.go, which needs a window system and GPU.

func TestScissor(t *testing.T) {
	rd := New(nil, nil)
	size := image.Pt(800, 600)

	// clip fully inside the viewport at scale 1
	clip := rd.scissor(image.Rect(110, 120, 210, 220), image.Pt(100, 100), 1, size)
	assert.Equal(t, image.Rect(10, 20, 110, 120), clip)

	// scale 2 doubles framebuffer coordinates
	clip = rd.scissor(image.Rect(110, 120, 210, 220), image.Pt(100, 100), 2, size)
	assert.Equal(t, image.Rect(20, 40, 220, 240), clip)

	// clip extending past the viewport is clamped
	clip = rd.scissor(image.Rect(0, 0, 2000, 2000), image.Pt(100, 100), 1, size)
	assert.Equal(t, image.Rect(0, 0, 800, 600), clip)

	// clip entirely outside the viewport is empty
	clip = rd.scissor(image.Rect(0, 0, 50, 50), image.Pt(100, 100), 1, size)
	assert.True(t, clip.Empty())
}

func TestImageToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	rimg := imageToRGBA(src, 0)
	assert.Equal(t, image.Pt(8, 4), rimg.Rect.Size())
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, rimg.RGBAAt(0, 0))

	// already RGBA passes through without a copy
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, rgba, imageToRGBA(rgba, 0))

	// oversize images downscale proportionally
	wide := image.NewRGBA(image.Rect(0, 0, 400, 100))
	rimg = imageToRGBA(wide, 200)
	assert.Equal(t, image.Pt(200, 50), rimg.Rect.Size())

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	rimg = imageToRGBA(tall, 200)
	assert.Equal(t, image.Pt(50, 200), rimg.Rect.Size())
}

