// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package offscreen

import (
	"image"
	"testing"

	"github.com/dockwin/dockwin/events"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/viewport"
	"github.com/stretchr/testify/assert"
)

func TestCreateDestroy(t *testing.T) {
	p := New()
	h, err := p.CreateWindow(platform.WindowSpec{
		Title: "test",
		Geom:  viewport.Geom{Pos: image.Pt(100, 100), Size: image.Pt(640, 480)},
	})
	assert.NoError(t, err)
	assert.NotEqual(t, viewport.NoHandle, h)
	assert.Equal(t, 1, p.NWindows())
	assert.Equal(t, platform.Created, p.WindowState(h))
	assert.Equal(t, "test", p.Title(h))

	p.SetVisible(h, true)
	assert.Equal(t, platform.Visible, p.WindowState(h))
	p.SetVisible(h, false)
	assert.Equal(t, platform.Hidden, p.WindowState(h))

	p.DestroyWindow(h)
	assert.Equal(t, 0, p.NWindows())
	assert.Equal(t, platform.Destroyed, p.WindowState(h))

	// destroying again is a no-op
	p.DestroyWindow(h)
	assert.Equal(t, 0, p.NWindows())
}

func TestCreateFailure(t *testing.T) {
	p := New()
	p.FailNextCreate = true
	h, err := p.CreateWindow(platform.WindowSpec{})
	assert.ErrorIs(t, err, platform.ErrWindowCreationFailed)
	assert.Equal(t, viewport.NoHandle, h)

	// failure is one-shot
	_, err = p.CreateWindow(platform.WindowSpec{})
	assert.NoError(t, err)
}

func TestGeometryRoundTrip(t *testing.T) {
	p := New()
	h, _ := p.CreateWindow(platform.WindowSpec{
		Geom: viewport.Geom{Pos: image.Pt(10, 10), Size: image.Pt(100, 100)},
	})

	// a negative position is clamped to the work area, and the
	// clamped geometry is what SetGeometry reports back
	got := p.SetGeometry(h, viewport.Geom{Pos: image.Pt(-50, 20), Size: image.Pt(300, 200)})
	assert.Equal(t, image.Pt(0, 20), got.Pos)
	assert.Equal(t, image.Pt(300, 200), got.Size)
	assert.Equal(t, got, p.Geometry(h))

	// oversize windows shrink to the work area
	got = p.SetGeometry(h, viewport.Geom{Size: image.Pt(5000, 5000)})
	assert.Equal(t, image.Pt(1920, 1080), got.Size)
	assert.Equal(t, got, p.Geometry(h))

	// a window pushed past the bottom-right corner slides back in
	got = p.SetGeometry(h, viewport.Geom{Pos: image.Pt(1900, 1000), Size: image.Pt(400, 300)})
	assert.Equal(t, image.Pt(1520, 780), got.Pos)
}

func TestEventBatches(t *testing.T) {
	p := New()
	h, _ := p.CreateWindow(platform.WindowSpec{Geom: viewport.Geom{Size: image.Pt(100, 100)}})

	assert.Empty(t, p.PollEvents())

	p.SendResize(h, image.Pt(200, 150))
	p.SendMove(h, image.Pt(30, 40))
	p.SendInput(h, events.Event{Type: events.MouseDown, Button: events.Left})
	p.SendCloseRequest(h)

	evs := p.PollEvents()
	assert.Len(t, evs, 4)
	assert.Equal(t, platform.Resized, evs[0].Kind)
	assert.Equal(t, image.Pt(200, 150), evs[0].Size)
	assert.Equal(t, platform.Moved, evs[1].Kind)
	assert.Equal(t, platform.Input, evs[2].Kind)
	assert.Equal(t, events.MouseDown, evs[2].Input.Type)
	assert.Equal(t, platform.CloseRequested, evs[3].Kind)
	assert.Equal(t, platform.Destroying, p.WindowState(h))

	// the batch is consumed
	assert.Empty(t, p.PollEvents())
}

func TestFocus(t *testing.T) {
	p := New()
	h1, _ := p.CreateWindow(platform.WindowSpec{Geom: viewport.Geom{Size: image.Pt(10, 10)}})
	h2, _ := p.CreateWindow(platform.WindowSpec{Geom: viewport.Geom{Size: image.Pt(10, 10)}})

	p.SetFocus(h2)
	evs := p.PollEvents()
	assert.Len(t, evs, 1)
	assert.Equal(t, platform.FocusChanged, evs[0].Kind)
	assert.Equal(t, h2, evs[0].Window)
	assert.True(t, evs[0].Focused)

	p.SetFocus(h1)
	evs = p.PollEvents()
	assert.Equal(t, h1, evs[0].Window)
}
