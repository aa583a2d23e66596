// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render defines the capability interface between the frame
// synchronizer and a GPU backend: one swap-chain-backed render target
// per viewport window, fed with the GUI library's draw lists.
//
// The concrete backend is [webgpu]; the interface exists so the
// synchronizer can run without a GPU (nil renderer) and so tests can
// inject a recording fake.
package render

import (
	"errors"
	"image"

	"github.com/dockwin/dockwin/viewport"
)

// ErrSurfaceLost means one viewport's surface became unusable (e.g. it
// was outdated by a resize race). It is recoverable: release and rebind
// the target next frame. Other viewports are unaffected.
var ErrSurfaceLost = errors.New("render: surface lost")

// ErrDeviceLost means the GPU device itself is gone. It is not
// recoverable locally: the host must tear down the whole renderer and
// every target and build new ones.
var ErrDeviceLost = errors.New("render: device lost")

// TextureID identifies one texture owned by the renderer.
// Draw commands reference textures only by ID. ID 0 is the font atlas.
type TextureID uint64

// FontAtlas is the conventional [TextureID] of the GUI font atlas.
const FontAtlas TextureID = 0

// Renderer is the capability set one GPU backend implements.
//
// Present policy: every viewport is drawn and presented independently,
// one queue submission per viewport; Draw and Present for one handle
// always pair up within a frame. The synchronizer never mixes this with
// batched presentation, since mixing the two policies tears across
// windows that are supposed to move in lockstep.
type Renderer interface {

	// BindTarget creates the render target for the window if it does
	// not exist, or reconfigures it if the physical size changed.
	// It returns an error wrapping [ErrSurfaceLost] or [ErrDeviceLost].
	BindTarget(h viewport.Handle, size image.Point) error

	// Draw submits the draw data to the window's bound target.
	// The target keeps the acquired frame until Present.
	Draw(h viewport.Handle, data *DrawData) error

	// Present flips the window's surface, showing what Draw produced.
	Present(h viewport.Handle) error

	// ReleaseTarget releases the render target for the window, if any.
	// It is idempotent.
	ReleaseTarget(h viewport.Handle)

	// Release releases all targets and the device resources.
	Release()
}
