// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the translated input events that the platform
// backend produces and the GUI library consumes. Events are plain values
// delivered in batches, in the order the window system produced them;
// nothing here blocks or buffers across frames.
package events

import "image"

// Type is the kind of an input [Event].
type Type int32

const (
	// UnknownType is an undefined event type.
	UnknownType Type = iota

	// MouseDown is a mouse button press.
	MouseDown

	// MouseUp is a mouse button release.
	MouseUp

	// MouseMove is a mouse movement with no button held.
	MouseMove

	// Scroll is a mouse wheel or trackpad scroll.
	Scroll

	// KeyDown is a key press or auto-repeat.
	KeyDown

	// KeyUp is a key release.
	KeyUp

	// KeyChord is a translated character input (text entry),
	// as opposed to the physical key events.
	KeyChord
)

// String returns the name of the event type.
func (t Type) String() string {
	switch t {
	case MouseDown:
		return "MouseDown"
	case MouseUp:
		return "MouseUp"
	case MouseMove:
		return "MouseMove"
	case Scroll:
		return "Scroll"
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case KeyChord:
		return "KeyChord"
	}
	return "UnknownType"
}

// Buttons is a mouse button.
type Buttons int32

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)

// Modifiers are the currently held modifier keys, as a bitmask.
type Modifiers int64

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Meta
)

// HasAll reports whether all of the given modifiers are held.
func (m Modifiers) HasAll(mods Modifiers) bool {
	return m&mods == mods
}

// Event is one translated input event. Positions are in global screen
// coordinates, which is the space multi-viewport GUI libraries operate
// in: a mouse position is meaningful across all viewports, not just the
// one that produced the event.
type Event struct {

	// Type is the kind of event.
	Type Type

	// Pos is the pointer position for mouse events.
	Pos image.Point

	// Button is the mouse button for MouseDown / MouseUp.
	Button Buttons

	// Delta is the scroll amount for Scroll events.
	Delta image.Point

	// Code is the physical key for KeyDown / KeyUp.
	Code Code

	// Rune is the character for KeyChord events.
	Rune rune

	// Mods are the modifier keys held when the event was produced.
	Mods Modifiers
}
