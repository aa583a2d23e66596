// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

// Package desktop implements [platform.Platform] on glfw for desktop
// window systems (macOS, Windows, Linux and the BSDs).
//
// glfw is callback-driven and process-global, so the driver converts
// callbacks into a pending batch that [Platform.PollEvents] drains,
// keeping the synchronizer's frame loop synchronous. All methods must
// be called from the main OS thread, per glfw's threading rules.
package desktop

import (
	"fmt"
	"image"
	"runtime"

	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/viewport"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// WindowsMinimizedPosition is the windows-specific special position
// reported for minimized windows; an ad-hoc way to detect minimization
// from a move event.
const WindowsMinimizedPosition = -32000

// window is the driver-side state of one glfw window.
type window struct {
	glw   *glfw.Window
	state platform.State
	scale float32
}

// Platform is the glfw [platform.Platform]. Use [New].
type Platform struct {
	windows map[viewport.Handle]*window
	handles map[*glfw.Window]viewport.Handle
	next    viewport.Handle
	pending []platform.Event
}

// New initializes glfw and returns the desktop platform.
// It must be called on the main OS thread.
func New() (*Platform, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("desktop: glfw init: %w", err)
	}
	return &Platform{
		windows: map[viewport.Handle]*window{},
		handles: map[*glfw.Window]viewport.Handle{},
	}, nil
}

// Terminate destroys all remaining windows and shuts glfw down.
// Call as the last thing before process exit.
func (p *Platform) Terminate() {
	for h := range p.windows {
		p.DestroyWindow(h)
	}
	glfw.Terminate()
}

func (p *Platform) CreateWindow(spec platform.WindowSpec) (viewport.Handle, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False) // shown by the synchronizer
	glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	if spec.Flags.Has(viewport.NoDecoration) {
		glfw.WindowHint(glfw.Decorated, glfw.False)
	}
	if spec.Flags.Has(viewport.TopMost) {
		glfw.WindowHint(glfw.Floating, glfw.True)
	}
	// glfw has no direct no-taskbar attribute; undecorated floating
	// windows are skipped by most desktop environments anyway.

	sz := spec.Geom.Size
	if sz.X <= 0 || sz.Y <= 0 {
		sz = image.Pt(800, 600)
	}
	glw, err := glfw.CreateWindow(sz.X, sz.Y, spec.Title, nil, nil)
	if err != nil {
		return viewport.NoHandle, fmt.Errorf("desktop: %w: %w", platform.ErrWindowCreationFailed, err)
	}
	glw.SetPos(spec.Geom.Pos.X, spec.Geom.Pos.Y)

	p.next++
	h := p.next
	xs, _ := glw.GetContentScale()
	w := &window{glw: glw, state: platform.Created, scale: xs}
	p.windows[h] = w
	p.handles[glw] = h
	p.connectEvents(h, w)
	return h, nil
}

func (p *Platform) DestroyWindow(h viewport.Handle) {
	w, ok := p.windows[h]
	if !ok {
		return
	}
	delete(p.handles, w.glw)
	delete(p.windows, h)
	w.state = platform.Destroyed
	w.glw.Destroy()
}

func (p *Platform) SetGeometry(h viewport.Handle, g viewport.Geom) viewport.Geom {
	w, ok := p.windows[h]
	if !ok {
		return viewport.Geom{}
	}
	w.glw.SetPos(g.Pos.X, g.Pos.Y)
	w.glw.SetSize(g.Size.X, g.Size.Y)
	// the OS may clamp either request, so report what actually stuck
	return p.Geometry(h)
}

func (p *Platform) Geometry(h viewport.Handle) viewport.Geom {
	w, ok := p.windows[h]
	if !ok {
		return viewport.Geom{}
	}
	x, y := w.glw.GetPos()
	sx, sy := w.glw.GetSize()
	return viewport.Geom{
		Pos:   image.Pt(x, y),
		Size:  image.Pt(sx, sy),
		Scale: w.scale,
	}
}

func (p *Platform) SetVisible(h viewport.Handle, visible bool) {
	w, ok := p.windows[h]
	if !ok {
		return
	}
	if visible {
		w.glw.Show()
		w.state = platform.Visible
	} else {
		w.glw.Hide()
		w.state = platform.Hidden
	}
}

func (p *Platform) SetFocus(h viewport.Handle) {
	if w, ok := p.windows[h]; ok {
		w.glw.Focus()
	}
}

func (p *Platform) SetTitle(h viewport.Handle, title string) {
	if w, ok := p.windows[h]; ok {
		w.glw.SetTitle(title)
	}
}

func (p *Platform) WindowState(h viewport.Handle) platform.State {
	if w, ok := p.windows[h]; ok {
		return w.state
	}
	return platform.Destroyed
}

func (p *Platform) PollEvents() []platform.Event {
	glfw.PollEvents()
	evs := p.pending
	p.pending = nil
	return evs
}

func (p *Platform) Screens() []platform.Screen {
	mons := glfw.GetMonitors()
	scs := make([]platform.Screen, 0, len(mons))
	for _, mon := range mons {
		x, y := mon.GetPos()
		vm := mon.GetVideoMode()
		if vm == nil {
			continue
		}
		wx, wy, ww, wh := mon.GetWorkarea()
		xs, _ := mon.GetContentScale()
		scs = append(scs, platform.Screen{
			Name:     mon.GetName(),
			Geometry: image.Rect(x, y, x+vm.Width, y+vm.Height),
			WorkArea: image.Rect(wx, wy, wx+ww, wy+wh),
			Scale:    xs,
		})
	}
	return scs
}

// handle returns the handle for a glfw window, or NoHandle if the
// window was already destroyed.
func (p *Platform) handle(glw *glfw.Window) viewport.Handle {
	return p.handles[glw]
}
