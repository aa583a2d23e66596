// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dockwin

import (
	"fmt"
	"image"
	"log/slog"
	"slices"

	"github.com/dockwin/dockwin/base/errors"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/render"
	"github.com/dockwin/dockwin/viewport"
)

// Synchronizer reconciles the GUI's desired viewport set against live
// OS windows and render targets, one pass per frame. It owns the
// registry exclusively; all methods except [Synchronizer.Inject] must
// be called from the frame thread.
type Synchronizer struct {
	source   Source
	platform platform.Platform
	renderer render.Renderer // nil disables rendering
	config   Config

	registry *viewport.Registry
	geoms    *geometrySaver

	// injected is the single-producer hand-off queue for results
	// completed off-thread, drained after input and before the
	// GUI frame step.
	injected chan func()

	// focusOrder has the focused viewport first, then previously
	// focused ones, most recent first.
	focusOrder []viewport.ID

	// dropped accumulates force-removed viewports until the host
	// collects them with Dropped.
	dropped []viewport.ID

	stats Stats
}

// New returns a Synchronizer bridging the given GUI source to the
// given platform. The renderer may be nil, which disables the render
// phase (window management only). A nil config uses defaults.
func New(source Source, pf platform.Platform, rd render.Renderer, config *Config) *Synchronizer {
	sy := &Synchronizer{
		source:   source,
		platform: pf,
		renderer: rd,
		registry: viewport.NewRegistry(),
		injected: make(chan func(), 64),
	}
	sy.config.defaults()
	if config != nil {
		sy.config = *config
		if sy.config.MaxRetries <= 0 {
			sy.config.MaxRetries = 3
		}
	}
	if sy.config.GeometryFile != "" {
		sy.geoms = newGeometrySaver(sy.config.GeometryFile)
	}
	return sy
}

// Registry returns the viewport registry. It is owned by the
// synchronizer and must only be read between Sync calls on the frame
// thread.
func (sy *Synchronizer) Registry() *viewport.Registry {
	return sy.registry
}

// Stats returns activity counters since construction.
func (sy *Synchronizer) Stats() Stats {
	return sy.stats
}

// FocusOrder returns the viewports in most-recently-focused order.
func (sy *Synchronizer) FocusOrder() []viewport.ID {
	return slices.Clone(sy.focusOrder)
}

// Dropped returns the viewports force-removed since the last call,
// and clears the list. A viewport is force-removed after failing
// creation or rendering for more than the configured retry count.
func (sy *Synchronizer) Dropped() []viewport.ID {
	dr := sy.dropped
	sy.dropped = nil
	return dr
}

// Inject queues a function to run on the frame thread during the next
// Sync, after input delivery and before the GUI frame step. It is the
// only safe way for other goroutines to reach the registry or the
// GUI. Inject never blocks the frame loop; it blocks the caller if
// the queue is full.
func (sy *Synchronizer) Inject(fn func()) {
	sy.injected <- fn
}

// Sync runs one frame pass: poll events, deliver input, drain
// injected work, advance the GUI, diff the desired viewport set
// against the registry, render, and write observed geometry back.
// A device-lost error is terminal: the caller must release the
// renderer and all targets and build a new render backend before
// calling Sync again. All other failures are handled internally.
func (sy *Synchronizer) Sync() error {
	sy.stats.Frames++

	sy.applyEvents(sy.platform.PollEvents())

	for {
		select {
		case fn := <-sy.injected:
			fn()
			continue
		default:
		}
		break
	}

	screens := sy.platform.Screens()
	if sy.geoms != nil {
		sy.geoms.setScreens(screens)
	}
	sy.source.SetScreens(screens)
	frame := sy.source.Frame()

	sy.applyRemovals(frame)
	sy.applyDesired(frame)

	if err := sy.render(frame); err != nil {
		return err
	}

	sy.writeBack()
	return nil
}

// applyEvents folds one poll batch into the registry and delivers
// input to the GUI in order.
func (sy *Synchronizer) applyEvents(evs []platform.Event) {
	for _, ev := range evs {
		rec := sy.registry.ByHandle(ev.Window)
		if rec == nil {
			// window already removed; close races are expected
			continue
		}
		switch ev.Kind {
		case platform.CloseRequested:
			if !rec.IsMain() {
				rec.Dirty |= viewport.NeedsDestroy
			}
			sy.source.CloseRequested(rec.ID)
		case platform.Resized:
			rec.Current.Size = ev.Size
			if ev.Size == (image.Point{}) {
				rec.Flags |= viewport.Minimized
			} else {
				rec.Flags &^= viewport.Minimized
			}
			rec.Dirty |= viewport.NeedsRelayout
		case platform.Moved:
			rec.Current.Pos = ev.Pos
			rec.Dirty |= viewport.NeedsRelayout
		case platform.FocusChanged:
			rec.Focused = ev.Focused
			if ev.Focused {
				sy.raiseFocus(rec.ID)
			}
		case platform.ScaleChanged:
			rec.Current.Scale = ev.Scale
			rec.Dirty |= viewport.NeedsRelayout
		case platform.Input:
			sy.source.AddInput(rec.ID, ev.Input)
		}
	}
}

// raiseFocus moves id to the front of the focus order.
func (sy *Synchronizer) raiseFocus(id viewport.ID) {
	if i := slices.Index(sy.focusOrder, id); i >= 0 {
		sy.focusOrder = slices.Delete(sy.focusOrder, i, i+1)
	}
	sy.focusOrder = slices.Insert(sy.focusOrder, 0, id)
}

// applyRemovals destroys every registry record that is marked for
// destruction or absent from the desired set. Floating viewports are
// destroyed before the main viewport; the main viewport is never
// destroyed here, only at shutdown via Close.
func (sy *Synchronizer) applyRemovals(frame *Frame) {
	desired := make(map[viewport.ID]bool, len(frame.Viewports))
	for _, dvp := range frame.Viewports {
		desired[dvp.ID] = true
	}
	var gone []viewport.ID
	sy.registry.Do(func(rec *viewport.Record) {
		if rec.IsMain() {
			return
		}
		if !desired[rec.ID] || rec.Dirty.Has(viewport.NeedsDestroy) {
			gone = append(gone, rec.ID)
		}
	})
	for _, id := range gone {
		sy.destroy(id)
	}
}

// destroy releases the render target and window for id and removes
// its record. Destroying an id with a still-pending create (no
// handle yet) just removes the record.
func (sy *Synchronizer) destroy(id viewport.ID) {
	rec := sy.registry.Remove(id)
	if rec == nil {
		return // racing with completed cleanup is benign
	}
	if rec.Handle != viewport.NoHandle {
		if sy.geoms != nil {
			sy.geoms.save(rec.Title, rec.Current)
		}
		if sy.renderer != nil {
			sy.renderer.ReleaseTarget(rec.Handle)
		}
		sy.platform.DestroyWindow(rec.Handle)
		sy.stats.Destroyed++
	}
	if i := slices.Index(sy.focusOrder, id); i >= 0 {
		sy.focusOrder = slices.Delete(sy.focusOrder, i, i+1)
	}
}

// applyDesired creates missing windows and pushes desired geometry,
// title and focus changes to existing ones, in the GUI's stable
// order.
func (sy *Synchronizer) applyDesired(frame *Frame) {
	for _, dvp := range frame.Viewports {
		if !dvp.Flags.Has(viewport.Main) && !sy.config.EnableMultiViewport {
			continue
		}
		rec := sy.registry.Get(dvp.ID)
		if rec == nil {
			rec = &viewport.Record{
				ID:      dvp.ID,
				Title:   dvp.Title,
				Flags:   dvp.Flags | sy.config.InitialFlags,
				Desired: dvp.Geom,
				Dirty:   viewport.NeedsCreate,
			}
			if sy.geoms != nil {
				if gm, ok := sy.geoms.restore(dvp.Title); ok {
					rec.Desired = gm
				}
			}
			sy.registry.Upsert(rec)
		}
		if rec.Dirty.Has(viewport.NeedsCreate) {
			sy.create(rec)
			continue
		}
		sy.update(rec, dvp, frame.Focus == dvp.ID)
	}
}

// create opens the OS window for a record, hidden first so the
// initial geometry is settled before anything is composited. Failures
// are retried next frame with the retry budget; an exhausted budget
// drops the viewport.
func (sy *Synchronizer) create(rec *viewport.Record) {
	handle, err := sy.platform.CreateWindow(platform.WindowSpec{
		Title: rec.Title,
		Geom:  rec.Desired,
		Flags: rec.Flags,
	})
	if err != nil {
		rec.Fails++
		if rec.Fails > sy.config.MaxRetries {
			slog.Error("dockwin: giving up on viewport after repeated create failures",
				"viewport", rec.ID, "attempts", rec.Fails, "err", err)
			sy.drop(rec.ID)
		}
		return
	}
	rec.Handle = handle
	rec.Fails = 0
	rec.Dirty &^= viewport.NeedsCreate
	rec.Dirty |= viewport.NeedsRelayout
	rec.Current = sy.platform.Geometry(handle)
	if !rec.Flags.Has(viewport.Minimized) {
		sy.platform.SetVisible(handle, true)
	}
	sy.stats.Created++
}

// update pushes desired-state changes for a live window and records
// the geometry the OS actually applied.
func (sy *Synchronizer) update(rec *viewport.Record, dvp DesiredViewport, focus bool) {
	if dvp.Title != rec.Title {
		rec.Title = dvp.Title
		sy.platform.SetTitle(rec.Handle, dvp.Title)
	}
	// Only a change in the GUI's own request triggers a set: the OS
	// clamping a previous request must not cause a set-geometry loop.
	if dvp.Geom.Pos != rec.Desired.Pos || dvp.Geom.Size != rec.Desired.Size {
		rec.Desired = dvp.Geom
		rec.Current = sy.platform.SetGeometry(rec.Handle, dvp.Geom)
		rec.Dirty |= viewport.NeedsRelayout
	}
	if focus && !rec.Focused {
		sy.platform.SetFocus(rec.Handle)
	}
}

// drop force-removes a viewport that exhausted its retry budget and
// reports it once through Dropped.
func (sy *Synchronizer) drop(id viewport.ID) {
	sy.destroy(id)
	sy.dropped = append(sy.dropped, id)
	sy.stats.Dropped++
	sy.source.CloseRequested(id)
}

// render draws and presents every renderable viewport, the main
// viewport first, then the rest in registry order. A failing viewport
// never aborts the others; only device loss is terminal.
func (sy *Synchronizer) render(frame *Frame) error {
	if sy.renderer == nil || frame.Draw == nil {
		return nil
	}
	recs := make([]*viewport.Record, 0, sy.registry.Len())
	if main := sy.registry.Main(); main != nil {
		recs = append(recs, main)
	}
	sy.registry.Do(func(rec *viewport.Record) {
		if !rec.IsMain() {
			recs = append(recs, rec)
		}
	})
	var failed []viewport.ID
	for _, rec := range recs {
		if !rec.Renderable() {
			continue
		}
		data := frame.Draw[rec.ID]
		if data == nil {
			continue
		}
		err := sy.renderViewport(rec, data)
		if err == nil {
			rec.Fails = 0
			continue
		}
		if errors.Is(err, render.ErrDeviceLost) {
			return fmt.Errorf("dockwin: render device lost: %w", err)
		}
		sy.stats.RenderErrors++
		rec.Fails++
		if rec.Fails > sy.config.MaxRetries {
			slog.Error("dockwin: giving up on viewport after repeated render failures",
				"viewport", rec.ID, "attempts", rec.Fails, "err", err)
			failed = append(failed, rec.ID)
		}
	}
	for _, id := range failed {
		sy.drop(id)
	}
	return nil
}

func (sy *Synchronizer) renderViewport(rec *viewport.Record, data *render.DrawData) error {
	if err := sy.renderer.BindTarget(rec.Handle, rec.Current.PxSize()); err != nil {
		return err
	}
	if err := sy.renderer.Draw(rec.Handle, data); err != nil {
		return err
	}
	return sy.renderer.Present(rec.Handle)
}

// writeBack reports the observed geometry of every changed window
// back to the GUI so its layout model matches physical reality next
// frame.
func (sy *Synchronizer) writeBack() {
	sy.registry.Do(func(rec *viewport.Record) {
		if rec.Handle == viewport.NoHandle {
			return
		}
		if !rec.Dirty.Has(viewport.NeedsRelayout) {
			return
		}
		rec.Dirty &^= viewport.NeedsRelayout
		sy.source.UpdateViewport(rec.ID, rec.Current, rec.Focused)
	})
}

// Close destroys every window including the main viewport and
// releases the renderer. Call once at shutdown; Sync must not be
// called after Close.
func (sy *Synchronizer) Close() {
	var ids []viewport.ID
	sy.registry.Do(func(rec *viewport.Record) {
		if !rec.IsMain() {
			ids = append(ids, rec.ID)
		}
	})
	if main := sy.registry.Main(); main != nil {
		ids = append(ids, main.ID)
	}
	for _, id := range ids {
		sy.destroy(id)
	}
	if sy.geoms != nil {
		errors.Log(sy.geoms.flush())
	}
	if sy.renderer != nil {
		sy.renderer.Release()
	}
}
