// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dockwin

import (
	"os"
	"slices"
	"strings"

	"github.com/dockwin/dockwin/base/errors"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/viewport"
	"github.com/pelletier/go-toml/v2"
)

// savedGeom is one persisted window geometry.
type savedGeom struct {
	X, Y          int
	Width, Height int
	Scale         float32
}

func (sg savedGeom) geom() viewport.Geom {
	gm := viewport.Geom{Scale: sg.Scale}
	gm.Pos.X, gm.Pos.Y = sg.X, sg.Y
	gm.Size.X, gm.Size.Y = sg.Width, sg.Height
	return gm
}

// geometrySaver persists window geometry per title and screen
// configuration, so windows reopen where the user left them. A screen
// configuration is the sorted list of connected screen names: a
// laptop used at home, at the office and on the road gets a separate
// set of saved geometries for each.
type geometrySaver struct {
	file string

	// geoms is screen configuration -> window title -> geometry.
	geoms map[string]map[string]savedGeom

	// config is the current screen configuration key.
	config string

	dirty bool
}

func newGeometrySaver(file string) *geometrySaver {
	gs := &geometrySaver{
		file:   file,
		geoms:  map[string]map[string]savedGeom{},
		config: "none",
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return gs // a missing file is a fresh start
	}
	if err := toml.Unmarshal(b, &gs.geoms); err != nil {
		errors.Log(errors.Wrap(err, "dockwin: corrupt geometry file, starting fresh"))
		gs.geoms = map[string]map[string]savedGeom{}
	}
	return gs
}

// setScreens updates the screen configuration key for subsequent
// saves and restores.
func (gs *geometrySaver) setScreens(screens []platform.Screen) {
	if len(screens) == 0 {
		gs.config = "none"
		return
	}
	names := make([]string, len(screens))
	for i, sc := range screens {
		names[i] = sc.Name
	}
	slices.Sort(names)
	gs.config = strings.Join(names, "|")
}

func (gs *geometrySaver) save(title string, gm viewport.Geom) {
	if title == "" || gm.IsZero() {
		return
	}
	byTitle := gs.geoms[gs.config]
	if byTitle == nil {
		byTitle = map[string]savedGeom{}
		gs.geoms[gs.config] = byTitle
	}
	byTitle[title] = savedGeom{
		X: gm.Pos.X, Y: gm.Pos.Y,
		Width: gm.Size.X, Height: gm.Size.Y,
		Scale: gm.Scale,
	}
	gs.dirty = true
}

func (gs *geometrySaver) restore(title string) (viewport.Geom, bool) {
	sg, ok := gs.geoms[gs.config][title]
	if !ok {
		return viewport.Geom{}, false
	}
	return sg.geom(), true
}

// flush writes the geometries to disk if anything changed.
func (gs *geometrySaver) flush() error {
	if !gs.dirty {
		return nil
	}
	b, err := toml.Marshal(gs.geoms)
	if err != nil {
		return errors.Wrap(err, "dockwin: marshal geometry file")
	}
	if err := os.WriteFile(gs.file, b, 0666); err != nil {
		return errors.Wrap(err, "dockwin: write geometry file")
	}
	gs.dirty = false
	return nil
}
