// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dockwin

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/platform/offscreen"
	"github.com/dockwin/dockwin/viewport"
	"github.com/stretchr/testify/assert"
)

func TestConfigRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dockwin.toml")

	cf := &Config{
		EnableMultiViewport: true,
		VSync:               false,
		InitialFlags:        viewport.NoTaskbar,
		MaxRetries:          5,
		GeometryFile:        "geoms.toml",
	}
	assert.NoError(t, SaveConfig(cf, file))

	got, err := OpenConfig(file)
	assert.NoError(t, err)
	assert.Equal(t, cf, got)
}

func TestConfigMissingFile(t *testing.T) {
	cf, err := OpenConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NoError(t, err)
	assert.True(t, cf.EnableMultiViewport)
	assert.True(t, cf.VSync)
	assert.Equal(t, 3, cf.MaxRetries)
}

func TestConfigBadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.toml")
	assert.NoError(t, os.WriteFile(file, []byte("not = [valid"), 0666))
	_, err := OpenConfig(file)
	assert.Error(t, err)
}

func TestGeometrySaver(t *testing.T) {
	file := filepath.Join(t.TempDir(), "geoms.toml")
	screens := []platform.Screen{{Name: "DP-1"}, {Name: "HDMI-1"}}

	gs := newGeometrySaver(file)
	gs.setScreens(screens)
	gm := viewport.Geom{Pos: image.Pt(120, 80), Size: image.Pt(640, 480), Scale: 2}
	gs.save("editor", gm)
	assert.NoError(t, gs.flush())

	// a fresh saver restores the geometry for the same screen set
	gs = newGeometrySaver(file)
	gs.setScreens(screens)
	got, ok := gs.restore("editor")
	assert.True(t, ok)
	assert.Equal(t, gm, got)

	// a different screen configuration has its own geometries
	gs.setScreens(screens[:1])
	_, ok = gs.restore("editor")
	assert.False(t, ok)

	_, ok = gs.restore("unknown")
	assert.False(t, ok)
}

func TestGeometrySaverEmptyAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	// missing file is a fresh start
	gs := newGeometrySaver(filepath.Join(dir, "missing.toml"))
	_, ok := gs.restore("editor")
	assert.False(t, ok)

	// corrupt file is discarded, not fatal
	bad := filepath.Join(dir, "bad.toml")
	assert.NoError(t, os.WriteFile(bad, []byte("????"), 0666))
	gs = newGeometrySaver(bad)
	_, ok = gs.restore("editor")
	assert.False(t, ok)

	// flushing with no changes writes nothing
	clean := filepath.Join(dir, "clean.toml")
	gs = newGeometrySaver(clean)
	assert.NoError(t, gs.flush())
	_, err := os.Stat(clean)
	assert.True(t, os.IsNotExist(err))
}

func TestSyncGeometryPersistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "geoms.toml")
	config := &Config{EnableMultiViewport: true, VSync: true, GeometryFile: file}

	gui := newGUIStub()
	pf := offscreen.New()
	sy := New(gui, pf, nil, config)
	gui.want(2, "editor", 0, image.Pt(100, 100), image.Pt(400, 300))
	assert.NoError(t, sy.Sync())

	// the user moves the window, then closes everything
	fl := sy.Registry().Get(2)
	pf.SendMove(fl.Handle, image.Pt(500, 400))
	assert.NoError(t, sy.Sync())
	sy.Close()

	// a new session opens the same window where the user left it
	gui = newGUIStub()
	pf = offscreen.New()
	sy = New(gui, pf, nil, config)
	gui.want(2, "editor", 0, image.Pt(100, 100), image.Pt(400, 300))
	assert.NoError(t, sy.Sync())

	rec := sy.Registry().Get(2)
	assert.Equal(t, image.Pt(500, 400), rec.Current.Pos)
}
