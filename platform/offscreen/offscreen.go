// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package offscreen implements [platform.Platform] without any window
// system. It maintains fully functional window records against a single
// virtual screen, so the frame synchronizer can run headless and tests
// can drive every event path deterministically.
package offscreen

import (
	"fmt"
	"image"

	"github.com/dockwin/dockwin/events"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/viewport"
)

// window is the state of one virtual window.
type window struct {
	state   platform.State
	geom    viewport.Geom
	title   string
	focused bool

	destroys int
}

// Platform is the offscreen [platform.Platform]. The zero value is not
// usable; call [New].
type Platform struct {

	// Screen is the single virtual screen. Window geometry is clamped
	// to its work area the way real window systems clamp to monitors.
	Screen platform.Screen

	// FailNextCreate makes the next CreateWindow call fail, for
	// exercising creation retry paths.
	FailNextCreate bool

	windows map[viewport.Handle]*window
	next    viewport.Handle
	pending []platform.Event

	created int
}

// New returns a new offscreen platform with a 1920x1080 virtual
// screen at scale 1.
func New() *Platform {
	return &Platform{
		Screen: platform.Screen{
			Name:     "offscreen",
			Geometry: image.Rect(0, 0, 1920, 1080),
			WorkArea: image.Rect(0, 0, 1920, 1080),
			Scale:    1,
		},
		windows: map[viewport.Handle]*window{},
	}
}

func (p *Platform) CreateWindow(spec platform.WindowSpec) (viewport.Handle, error) {
	if p.FailNextCreate {
		p.FailNextCreate = false
		return viewport.NoHandle, fmt.Errorf("offscreen: %w", platform.ErrWindowCreationFailed)
	}
	p.next++
	h := p.next
	w := &window{
		state: platform.Created,
		geom:  p.clamp(spec.Geom),
		title: spec.Title,
	}
	if w.geom.Scale == 0 {
		w.geom.Scale = p.Screen.Scale
	}
	p.windows[h] = w
	p.created++
	return h, nil
}

func (p *Platform) DestroyWindow(h viewport.Handle) {
	w, ok := p.windows[h]
	if !ok {
		return
	}
	w.state = platform.Destroyed
	w.destroys++
	delete(p.windows, h)
}

func (p *Platform) SetGeometry(h viewport.Handle, g viewport.Geom) viewport.Geom {
	w, ok := p.windows[h]
	if !ok {
		return viewport.Geom{}
	}
	scale := g.Scale
	if scale == 0 {
		scale = w.geom.Scale
	}
	w.geom = p.clamp(g)
	w.geom.Scale = scale
	return w.geom
}

func (p *Platform) Geometry(h viewport.Handle) viewport.Geom {
	if w, ok := p.windows[h]; ok {
		return w.geom
	}
	return viewport.Geom{}
}

func (p *Platform) SetVisible(h viewport.Handle, visible bool) {
	w, ok := p.windows[h]
	if !ok {
		return
	}
	if visible {
		w.state = platform.Visible
	} else {
		w.state = platform.Hidden
	}
}

func (p *Platform) SetFocus(h viewport.Handle) {
	for oh, w := range p.windows {
		w.focused = oh == h
	}
	if _, ok := p.windows[h]; ok {
		p.pending = append(p.pending, platform.Event{
			Kind: platform.FocusChanged, Window: h, Focused: true,
		})
	}
}

func (p *Platform) SetTitle(h viewport.Handle, title string) {
	if w, ok := p.windows[h]; ok {
		w.title = title
	}
}

func (p *Platform) WindowState(h viewport.Handle) platform.State {
	if w, ok := p.windows[h]; ok {
		return w.state
	}
	return platform.Destroyed
}

func (p *Platform) PollEvents() []platform.Event {
	evs := p.pending
	p.pending = nil
	return evs
}

func (p *Platform) Screens() []platform.Screen {
	return []platform.Screen{p.Screen}
}

// clamp constrains the given geometry to the virtual screen's work
// area, mirroring how real window systems override requests.
func (p *Platform) clamp(g viewport.Geom) viewport.Geom {
	wa := p.Screen.WorkArea
	if g.Size.X > wa.Dx() {
		g.Size.X = wa.Dx()
	}
	if g.Size.Y > wa.Dy() {
		g.Size.Y = wa.Dy()
	}
	if g.Pos.X < wa.Min.X {
		g.Pos.X = wa.Min.X
	}
	if g.Pos.Y < wa.Min.Y {
		g.Pos.Y = wa.Min.Y
	}
	if g.Pos.X+g.Size.X > wa.Max.X {
		g.Pos.X = wa.Max.X - g.Size.X
	}
	if g.Pos.Y+g.Size.Y > wa.Max.Y {
		g.Pos.Y = wa.Max.Y - g.Size.Y
	}
	return g
}

// Title returns the current title of the window, for tests.
func (p *Platform) Title(h viewport.Handle) string {
	if w, ok := p.windows[h]; ok {
		return w.title
	}
	return ""
}

// NWindows returns the number of live virtual windows.
func (p *Platform) NWindows() int {
	return len(p.windows)
}

// NCreated returns the total number of windows ever created.
func (p *Platform) NCreated() int {
	return p.created
}

// SendCloseRequest queues a CloseRequested event for the window and
// marks it Destroying, as a real window system would on a native
// close button click.
func (p *Platform) SendCloseRequest(h viewport.Handle) {
	if w, ok := p.windows[h]; ok {
		w.state = platform.Destroying
	}
	p.pending = append(p.pending, platform.Event{Kind: platform.CloseRequested, Window: h})
}

// SendResize queues a Resized event and applies the new size, as an
// OS-initiated resize (user dragging a corner).
func (p *Platform) SendResize(h viewport.Handle, size image.Point) {
	if w, ok := p.windows[h]; ok {
		w.geom.Size = size
	}
	p.pending = append(p.pending, platform.Event{Kind: platform.Resized, Window: h, Size: size})
}

// SendMove queues a Moved event and applies the new position.
func (p *Platform) SendMove(h viewport.Handle, pos image.Point) {
	if w, ok := p.windows[h]; ok {
		w.geom.Pos = pos
	}
	p.pending = append(p.pending, platform.Event{Kind: platform.Moved, Window: h, Pos: pos})
}

// SendFocus queues a FocusChanged event.
func (p *Platform) SendFocus(h viewport.Handle, focused bool) {
	if w, ok := p.windows[h]; ok {
		w.focused = focused
	}
	p.pending = append(p.pending, platform.Event{Kind: platform.FocusChanged, Window: h, Focused: focused})
}

// SendInput queues one translated input event.
func (p *Platform) SendInput(h viewport.Handle, e events.Event) {
	p.pending = append(p.pending, platform.Event{Kind: platform.Input, Window: h, Input: &e})
}
