// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewport defines the stable identifiers, platform state records,
// and registry that connect an immediate-mode GUI library's viewports
// (dockable panels promoted to their own OS-level windows) to the real
// windows and render targets owned by the platform and render backends.
//
// The GUI library only ever holds [ID] values; the platform backend owns
// the native windows behind [Handle]; the render backend owns the GPU
// surfaces. The [Registry] is the single mapping between them, so there
// are never direct back-pointers between GUI state and native resources.
package viewport

import (
	"image"

	"github.com/chewxy/math32"
)

// ID is the stable identifier of one viewport, assigned by the GUI
// library. It is unique for the lifetime of the viewport and is not
// reused while any reference to it is live. 0 is never a valid ID.
type ID int64

// Handle identifies one native window owned by the platform backend.
// It is opaque to everyone else; the platform driver maps it to whatever
// the window system actually uses. 0 means no window.
type Handle uint64

// NoHandle is the zero [Handle], meaning no native window.
const NoHandle Handle = 0

// Flags are the viewport behavior flags, as a bitmask.
type Flags int64

const (
	// Main marks the main viewport, which exists for the process
	// lifetime and is never destroyed by the synchronizer.
	Main Flags = 1 << iota

	// NoDecoration requests a window without a title bar or borders.
	NoDecoration

	// NoTaskbar requests that the window not appear in the taskbar
	// or dock. Dragged-out tool panels typically set this.
	NoTaskbar

	// TopMost requests that the window stay above normal windows.
	TopMost

	// Minimized indicates the window is currently minimized; it is
	// observed state, not a request.
	Minimized
)

// Has reports whether all of the given flags are set.
func (f Flags) Has(flags Flags) bool {
	return f&flags == flags
}

// Geom is the geometry of one window: position and size in screen
// (logical) units, plus the device pixel ratio that converts logical
// sizes to physical pixels on the window's current monitor.
type Geom struct {

	// Pos is the window position in global screen coordinates.
	Pos image.Point

	// Size is the window client size in screen units.
	Size image.Point

	// Scale is the device pixel ratio (physical pixels per screen unit).
	// 0 is treated as 1.
	Scale float32
}

// PxSize returns the size in physical pixels, applying Scale.
func (g Geom) PxSize() image.Point {
	s := g.Scale
	if s == 0 {
		s = 1
	}
	return image.Point{
		X: int(math32.Round(float32(g.Size.X) * s)),
		Y: int(math32.Round(float32(g.Size.Y) * s)),
	}
}

// IsZero reports whether the window has no renderable area.
func (g Geom) IsZero() bool {
	return g.Size.X <= 0 || g.Size.Y <= 0
}

// Dirty are the per-record pending-work bits, set by event handling and
// the desired-set diff, consumed by the synchronizer when it applies
// platform operations.
type Dirty int64

const (
	// NeedsCreate means the native window has not been created yet.
	NeedsCreate Dirty = 1 << iota

	// NeedsResize means desired geometry differs from current geometry.
	NeedsResize

	// NeedsDestroy means the window should be destroyed this frame.
	NeedsDestroy

	// NeedsFocus means a focus request is pending.
	NeedsFocus

	// NeedsRelayout means observed geometry changed behind the GUI
	// library's back and must be written back into it.
	NeedsRelayout

	// NeedsShow means the window was created hidden and should be
	// made visible now that its geometry has settled.
	NeedsShow
)

// Has reports whether all of the given dirty bits are set.
func (d Dirty) Has(bits Dirty) bool {
	return d&bits == bits
}

// Record is the platform state of one viewport. The native window behind
// Handle is owned exclusively by the platform backend and the render
// target behind the same handle is owned exclusively by the render
// backend; a Record only carries the identifiers and last-known state.
type Record struct {

	// ID is the stable viewport identifier from the GUI library.
	ID ID

	// Handle is the native window, once created.
	Handle Handle

	// Title is the last title forwarded to the platform.
	Title string

	// Flags are the viewport behavior flags.
	Flags Flags

	// Desired is the geometry most recently requested by the GUI library.
	Desired Geom

	// Current is the geometry most recently observed from the window
	// system, after any clamping or override the OS applied.
	Current Geom

	// Focused is whether the window currently has keyboard focus.
	Focused bool

	// Dirty are the pending-work bits.
	Dirty Dirty

	// Fails counts consecutive create or render failures, for
	// bounded retry before the viewport is force-removed.
	Fails int
}

// IsMain reports whether this is the main viewport record.
func (r *Record) IsMain() bool {
	return r.Flags.Has(Main)
}

// Renderable reports whether this record should get a render target
// bound and drawn this frame: it has a live window, a non-zero size,
// and is not minimized.
func (r *Record) Renderable() bool {
	return r.Handle != NoHandle && !r.Current.IsZero() &&
		!r.Flags.Has(Minimized) && !r.Dirty.Has(NeedsDestroy)
}
