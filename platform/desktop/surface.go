// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package desktop

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/dockwin/dockwin/viewport"
)

// SurfaceDescriptor returns the WebGPU surface descriptor for the given
// window, implementing [webgpu.SurfaceSource] so the WebGPU render
// backend can bind a render target to it.
func (p *Platform) SurfaceDescriptor(h viewport.Handle) (*wgpu.SurfaceDescriptor, error) {
	w, ok := p.windows[h]
	if !ok {
		return nil, fmt.Errorf("desktop: no window for handle %d", h)
	}
	return wgpuglfw.GetSurfaceDescriptor(w.glw), nil
}
