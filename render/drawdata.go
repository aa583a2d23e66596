// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "image"

// Vertex is one GUI vertex: position and texture coordinates as
// float32 pairs, color as packed RGBA bytes. The layout matches what
// immediate-mode GUI libraries emit, so draw lists can be uploaded
// without conversion.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color uint32 // 0xAABBGGRR packed RGBA8
}

// VertexBytes is the byte size of one [Vertex] on the GPU.
const VertexBytes = 20

// DrawCommand is one ranged draw within a [DrawList]: a run of indices
// rendered with one texture and one clip rectangle.
type DrawCommand struct {

	// ClipRect is the scissor rectangle in the viewport's global
	// coordinates (the renderer offsets it by the draw data's Pos).
	ClipRect image.Rectangle

	// Texture is the texture bound for this run.
	Texture TextureID

	// IndexOffset is the first index in the list's index slice.
	IndexOffset uint32

	// IndexCount is the number of indices to draw.
	IndexCount uint32
}

// DrawList is one batch of geometry sharing vertex and index buffers,
// split into ranged commands.
type DrawList struct {
	Vertices []Vertex
	Indices  []uint32
	Commands []DrawCommand
}

// DrawData is everything the GUI library produced for one viewport in
// one frame.
type DrawData struct {

	// Pos is the viewport's position in global screen coordinates;
	// vertex positions and clip rectangles are in the same space and
	// get offset by -Pos when rendered into the viewport's target.
	Pos image.Point

	// Size is the viewport's size in screen units.
	Size image.Point

	// Scale is the framebuffer scale (physical pixels per screen unit).
	Scale float32

	// Lists are the draw lists, in back-to-front order.
	Lists []*DrawList
}

// TotalVertices returns the vertex count across all lists.
func (dd *DrawData) TotalVertices() int {
	n := 0
	for _, dl := range dd.Lists {
		n += len(dl.Vertices)
	}
	return n
}

// TotalIndices returns the index count across all lists.
func (dd *DrawData) TotalIndices() int {
	n := 0
	for _, dl := range dd.Lists {
		n += len(dl.Indices)
	}
	return n
}
