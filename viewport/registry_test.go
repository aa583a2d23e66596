// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewport

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryOrdering(t *testing.T) {
	rg := NewRegistry()
	for i := 1; i <= 4; i++ {
		rg.Upsert(&Record{ID: ID(i), Handle: Handle(i * 10)})
	}
	assert.Equal(t, 4, rg.Len())

	var got []ID
	rg.Do(func(rec *Record) {
		got = append(got, rec.ID)
	})
	assert.Equal(t, []ID{1, 2, 3, 4}, got)

	// replacing a record keeps its iteration position
	rg.Upsert(&Record{ID: 2, Handle: 99})
	got = got[:0]
	rg.Do(func(rec *Record) {
		got = append(got, rec.ID)
	})
	assert.Equal(t, []ID{1, 2, 3, 4}, got)
	assert.Equal(t, Handle(99), rg.Get(2).Handle)

	// removal preserves relative order of the rest
	rg.Remove(2)
	got = got[:0]
	rg.Do(func(rec *Record) {
		got = append(got, rec.ID)
	})
	assert.Equal(t, []ID{1, 3, 4}, got)
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	rg := NewRegistry()
	rg.Upsert(&Record{ID: 7})

	rec := rg.Remove(7)
	assert.NotNil(t, rec)
	assert.Equal(t, 0, rg.Len())

	// second remove is a benign no-op, not an error
	assert.Nil(t, rg.Remove(7))
	assert.Equal(t, 0, rg.Len())
	assert.Nil(t, rg.Remove(8))
}

func TestRegistryLookup(t *testing.T) {
	rg := NewRegistry()
	rg.Upsert(&Record{ID: 1, Handle: 10, Flags: Main})
	rg.Upsert(&Record{ID: 2, Handle: 20})

	assert.Equal(t, ID(2), rg.ByHandle(20).ID)
	assert.Nil(t, rg.ByHandle(30))
	assert.Equal(t, ID(1), rg.Main().ID)

	assert.Nil(t, rg.Get(3))
	assert.Len(t, rg.List(), 2)
}

func TestGeom(t *testing.T) {
	gm := Geom{Size: image.Pt(800, 600), Scale: 2}
	assert.Equal(t, image.Pt(1600, 1200), gm.PxSize())

	// unset scale acts as 1
	gm.Scale = 0
	assert.Equal(t, image.Pt(800, 600), gm.PxSize())

	assert.False(t, gm.IsZero())
	assert.True(t, Geom{}.IsZero())
	assert.True(t, Geom{Size: image.Pt(100, 0)}.IsZero())
}

func TestRecordRenderable(t *testing.T) {
	rec := &Record{ID: 1, Handle: 5, Current: Geom{Size: image.Pt(100, 100)}}
	assert.True(t, rec.Renderable())

	rec.Flags |= Minimized
	assert.False(t, rec.Renderable())
	rec.Flags &^= Minimized

	rec.Dirty |= NeedsDestroy
	assert.False(t, rec.Renderable())
	rec.Dirty &^= NeedsDestroy

	rec.Handle = NoHandle
	assert.False(t, rec.Renderable())
}
