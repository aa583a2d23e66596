// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dockwin synchronizes an immediate-mode GUI library's
// multi-viewport model with real OS windows and GPU render targets.
// Each frame, the [Synchronizer] polls the platform for window events,
// feeds input to the GUI, advances the GUI's frame, diffs the desired
// viewport set against the live window registry, applies creates,
// moves and destroys through the platform backend, renders every
// viewport's draw data, and writes the observed window geometry back
// into the GUI so its layout stays consistent with physical reality.
package dockwin

import (
	"github.com/dockwin/dockwin/events"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/render"
	"github.com/dockwin/dockwin/viewport"
)

// DesiredViewport is one entry in the GUI's per-frame desired
// viewport set: the window it wants to exist, where, and how.
type DesiredViewport struct {
	// ID is the GUI's stable viewport identifier. IDs are never
	// reused while any window for them is live.
	ID viewport.ID

	// Title is the window title.
	Title string

	// Flags are the window flags (main, decoration, topmost...).
	Flags viewport.Flags

	// Geom is the desired position, size and scale in global
	// screen coordinates.
	Geom viewport.Geom
}

// Frame is the GUI's output for one frame: the viewports it wants
// live, the draw data for each, and an optional focus request.
type Frame struct {
	// Viewports is the desired viewport set, in the GUI's stable
	// order. The main viewport must always be present.
	Viewports []DesiredViewport

	// Draw has the draw data per viewport. Viewports without an
	// entry are window-managed only this frame and are not
	// rendered.
	Draw map[viewport.ID]*render.DrawData

	// Focus, if nonzero, is the viewport the GUI wants the OS
	// input focus moved to.
	Focus viewport.ID
}

// Source is the GUI library side of the bridge. The [Synchronizer]
// calls it exactly once per phase per frame, always from the frame
// thread.
type Source interface {
	// SetScreens gives the GUI the current monitor configuration,
	// before its frame step, so it can position new viewports on
	// the right screen.
	SetScreens(screens []platform.Screen)

	// AddInput delivers one input event for the given viewport.
	// Events are delivered in the order the platform produced
	// them, none dropped, none duplicated.
	AddInput(id viewport.ID, ev *events.Event)

	// CloseRequested tells the GUI the user asked to close the
	// given viewport (native close button). The GUI decides: it
	// drops the viewport from its next desired set, or keeps it
	// to veto the close. The window is not destroyed until the
	// desired set no longer contains it.
	CloseRequested(id viewport.ID)

	// Frame advances the GUI's layout and logic one step and
	// returns the updated desired viewport set and draw data.
	Frame() *Frame

	// UpdateViewport writes the observed window state back into
	// the GUI after the platform has applied (and possibly
	// clamped or overridden) the desired geometry.
	UpdateViewport(id viewport.ID, geom viewport.Geom, focused bool)
}

// Config has the options recognized by the synchronizer.
type Config struct {
	// EnableMultiViewport gates creation of windows beyond the
	// main viewport. When off, non-main entries in the desired
	// set are ignored.
	EnableMultiViewport bool `default:"true"`

	// VSync selects vsync presentation for all viewports.
	VSync bool `default:"true"`

	// InitialFlags are OR-ed into the flags of every viewport
	// created by the synchronizer (decoration, topmost, taskbar
	// bits).
	InitialFlags viewport.Flags

	// MaxRetries is how many consecutive frames a failing
	// viewport (window creation or render failure) is retried
	// before it is force-removed and reported. Zero uses the
	// default of 3.
	MaxRetries int `default:"3"`

	// GeometryFile, if set, is the TOML file where window
	// geometry is saved per title and screen, and restored from
	// when a viewport with a known title is created.
	GeometryFile string
}

func (cf *Config) defaults() {
	cf.EnableMultiViewport = true
	cf.VSync = true
	cf.MaxRetries = 3
}

// Stats counts synchronizer activity since construction.
type Stats struct {
	Frames    int64
	Created   int64
	Destroyed int64
	// RenderErrors counts recoverable per-viewport render
	// failures (surface lost, bind failures). Device loss is
	// terminal and not counted here.
	RenderErrors int64
	// Dropped counts viewports force-removed after exhausting
	// their retries.
	Dropped int64
}
