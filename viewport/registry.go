// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewport

// Registry is the authoritative mapping from viewport [ID] to [Record].
// Iteration order is insertion order, so desired-set diffing and render
// ordering are deterministic across frames. All operations are O(1)
// amortized except [Registry.List] and [Registry.Do].
//
// A Registry is owned exclusively by one frame synchronizer and is not
// safe for concurrent use.
type Registry struct {
	records map[ID]*Record
	order   []ID
}

// NewRegistry returns a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: map[ID]*Record{}}
}

// Len returns the number of records.
func (rg *Registry) Len() int {
	return len(rg.records)
}

// Get returns the record for the given id, or nil if absent.
func (rg *Registry) Get(id ID) *Record {
	return rg.records[id]
}

// Upsert inserts the given record under its ID, or replaces the
// existing one. A replaced record keeps its original position in
// iteration order; a new record goes last.
func (rg *Registry) Upsert(rec *Record) {
	if _, ok := rg.records[rec.ID]; !ok {
		rg.order = append(rg.order, rec.ID)
	}
	rg.records[rec.ID] = rec
}

// Remove removes and returns the record for the given id.
// It returns nil if the id is absent: destruction requests race with
// already-completed cleanup (e.g. an OS-initiated close), so absence
// is not an error.
func (rg *Registry) Remove(id ID) *Record {
	rec, ok := rg.records[id]
	if !ok {
		return nil
	}
	delete(rg.records, id)
	for i, oid := range rg.order {
		if oid == id {
			rg.order = append(rg.order[:i], rg.order[i+1:]...)
			break
		}
	}
	return rec
}

// List returns the records in insertion order. The returned slice is
// freshly allocated; the records are shared.
func (rg *Registry) List() []*Record {
	recs := make([]*Record, 0, len(rg.order))
	for _, id := range rg.order {
		recs = append(recs, rg.records[id])
	}
	return recs
}

// Do calls the given function for each record in insertion order.
// The function must not add or remove records.
func (rg *Registry) Do(fun func(rec *Record)) {
	for _, id := range rg.order {
		fun(rg.records[id])
	}
}

// ByHandle returns the record owning the given native window handle,
// or nil if no record has it.
func (rg *Registry) ByHandle(h Handle) *Record {
	if h == NoHandle {
		return nil
	}
	for _, id := range rg.order {
		if rec := rg.records[id]; rec.Handle == h {
			return rec
		}
	}
	return nil
}

// Main returns the record flagged as the main viewport, or nil.
func (rg *Registry) Main() *Record {
	for _, id := range rg.order {
		if rec := rg.records[id]; rec.IsMain() {
			return rec
		}
	}
	return nil
}
