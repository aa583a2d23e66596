// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform defines the capability interface between the frame
// synchronizer and a real window system: creating and destroying native
// windows, moving and resizing them, and converting the window system's
// callback-driven events into per-frame polled batches.
//
// There is one driver per target window system: [desktop] on glfw for
// macOS, Windows, and Linux, and [offscreen] as a pure Go fake for tests
// and headless use. Drivers are selected at startup, never by runtime
// type inspection.
package platform

import (
	"errors"
	"image"

	"github.com/dockwin/dockwin/events"
	"github.com/dockwin/dockwin/viewport"
)

// ErrWindowCreationFailed is returned by [Platform.CreateWindow] when the
// window system refuses to create a window (e.g. resource exhaustion).
// The caller must not retry more than once without backing off.
var ErrWindowCreationFailed = errors.New("platform: window creation failed")

// State is the lifecycle state of one native window.
// The transitions are Requested → Created → (Visible ⇄ Hidden) →
// Destroying → Destroyed. A close request from the OS moves a window
// to Destroying; actual destruction only happens when the synchronizer
// calls [Platform.DestroyWindow].
type State int32

const (
	// Requested means creation was asked for but has not completed.
	Requested State = iota

	// Created means the native window exists but was never shown.
	Created

	// Visible means the window is shown.
	Visible

	// Hidden means the window exists but is hidden.
	Hidden

	// Destroying means a close was requested (by the OS or the user)
	// and the synchronizer has not destroyed the window yet.
	Destroying

	// Destroyed means the native window is gone.
	Destroyed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Requested:
		return "Requested"
	case Created:
		return "Created"
	case Visible:
		return "Visible"
	case Hidden:
		return "Hidden"
	case Destroying:
		return "Destroying"
	case Destroyed:
		return "Destroyed"
	}
	return "Invalid"
}

// WindowSpec is the specification for creating one native window.
type WindowSpec struct {

	// Title is the initial window title.
	Title string

	// Geom is the initial geometry, in global screen coordinates.
	Geom viewport.Geom

	// Flags are the decoration / taskbar / topmost request bits
	// ([viewport.Main] and [viewport.Minimized] are ignored here).
	Flags viewport.Flags
}

// EventKind is the kind of a window-system [Event].
type EventKind int32

const (
	// CloseRequested means the user or OS asked to close the window.
	// The window still exists; the synchronizer propagates removal
	// to the GUI library rather than assuming destruction.
	CloseRequested EventKind = iota

	// Resized means the window client size changed. Size holds the
	// new size; a zero size means the window was minimized.
	Resized

	// Moved means the window position changed. Pos holds the new
	// position in global screen coordinates.
	Moved

	// FocusChanged means keyboard focus was gained or lost,
	// per Focused.
	FocusChanged

	// ScaleChanged means the window moved to a monitor with a
	// different device pixel ratio. Scale holds the new ratio.
	ScaleChanged

	// Input wraps one translated input event in Input.
	Input
)

// Event is one window-system event, produced by [Platform.PollEvents].
type Event struct {

	// Kind is the kind of event.
	Kind EventKind

	// Window is the native window that produced the event.
	Window viewport.Handle

	// Size is the new client size for Resized.
	Size image.Point

	// Pos is the new position for Moved.
	Pos image.Point

	// Focused is the new focus state for FocusChanged.
	Focused bool

	// Scale is the new device pixel ratio for ScaleChanged.
	Scale float32

	// Input is the translated input event for Input.
	Input *events.Event
}

// Screen is one monitor known to the window system, for pushing into
// the GUI library so it can position viewports across monitors.
type Screen struct {

	// Name is the window system's name for the monitor.
	Name string

	// Geometry is the full monitor rectangle in global screen
	// coordinates.
	Geometry image.Rectangle

	// WorkArea is the monitor rectangle minus taskbars and docks.
	WorkArea image.Rectangle

	// Scale is the monitor's device pixel ratio.
	Scale float32
}

// Platform is the capability set one window-system driver implements.
// All methods must be called from the frame synchronizer's thread;
// drivers are not required to be safe for concurrent use.
type Platform interface {

	// CreateWindow creates a native window per the given spec and
	// returns its handle. Windows are created hidden; the synchronizer
	// shows them once their geometry has settled, to avoid flicker.
	// Fails with an error wrapping [ErrWindowCreationFailed] if the
	// window system refuses.
	CreateWindow(spec WindowSpec) (viewport.Handle, error)

	// DestroyWindow destroys the given window. It is idempotent:
	// destroying an unknown or already-destroyed handle is a no-op,
	// to tolerate the OS having already torn the window down.
	DestroyWindow(h viewport.Handle)

	// SetGeometry moves and resizes the window, best-effort. Window
	// systems may clamp the request to screen bounds, so the actual
	// resulting geometry is re-read and returned; callers must store
	// the returned geometry, not the requested one.
	SetGeometry(h viewport.Handle, g viewport.Geom) viewport.Geom

	// Geometry returns the current observed geometry of the window.
	Geometry(h viewport.Handle) viewport.Geom

	// SetVisible shows or hides the window.
	SetVisible(h viewport.Handle, visible bool)

	// SetFocus requests keyboard focus for the window.
	SetFocus(h viewport.Handle)

	// SetTitle sets the window title.
	SetTitle(h viewport.Handle, title string)

	// WindowState returns the lifecycle state of the window.
	// Unknown handles report Destroyed.
	WindowState(h viewport.Handle) State

	// PollEvents pumps the window system and returns the finite batch
	// of events produced since the last call, in production order.
	// It never blocks: with no pending events it returns nil.
	PollEvents() []Event

	// Screens returns the current monitors.
	Screens() []Screen
}
