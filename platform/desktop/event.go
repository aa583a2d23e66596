// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package desktop

import (
	"image"

	"github.com/dockwin/dockwin/events"
	"github.com/dockwin/dockwin/platform"
	"github.com/dockwin/dockwin/viewport"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// connectEvents installs the glfw callbacks for the window, all of
// which append to the pending batch drained by PollEvents. Callbacks
// only fire inside glfw.PollEvents, on the same thread, so the batch
// needs no locking.
func (p *Platform) connectEvents(h viewport.Handle, w *window) {
	glw := w.glw

	glw.SetCloseCallback(func(gw *glfw.Window) {
		// the synchronizer decides whether the window actually goes away
		gw.SetShouldClose(false)
		w.state = platform.Destroying
		p.push(platform.Event{Kind: platform.CloseRequested, Window: h})
	})
	glw.SetSizeCallback(func(gw *glfw.Window, width, height int) {
		p.push(platform.Event{Kind: platform.Resized, Window: h, Size: image.Pt(width, height)})
	})
	glw.SetPosCallback(func(gw *glfw.Window, x, y int) {
		if x == WindowsMinimizedPosition && y == WindowsMinimizedPosition {
			p.push(platform.Event{Kind: platform.Resized, Window: h})
			return
		}
		p.push(platform.Event{Kind: platform.Moved, Window: h, Pos: image.Pt(x, y)})
	})
	glw.SetIconifyCallback(func(gw *glfw.Window, iconified bool) {
		if iconified {
			p.push(platform.Event{Kind: platform.Resized, Window: h})
			return
		}
		sx, sy := gw.GetSize()
		p.push(platform.Event{Kind: platform.Resized, Window: h, Size: image.Pt(sx, sy)})
	})
	glw.SetFocusCallback(func(gw *glfw.Window, focused bool) {
		p.push(platform.Event{Kind: platform.FocusChanged, Window: h, Focused: focused})
	})
	glw.SetContentScaleCallback(func(gw *glfw.Window, x, y float32) {
		w.scale = x
		p.push(platform.Event{Kind: platform.ScaleChanged, Window: h, Scale: x})
	})

	glw.SetKeyCallback(func(gw *glfw.Window, ky glfw.Key, scancode int, action glfw.Action, mod glfw.ModifierKey) {
		typ := events.KeyDown
		if action == glfw.Release {
			typ = events.KeyUp
		}
		p.pushInput(h, events.Event{
			Type: typ,
			Code: glfwKeyCode(ky),
			Mods: glfwMods(mod),
		})
	})
	glw.SetCharModsCallback(func(gw *glfw.Window, char rune, mod glfw.ModifierKey) {
		p.pushInput(h, events.Event{
			Type: events.KeyChord,
			Rune: char,
			Mods: glfwMods(mod),
		})
	})
	glw.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
		typ := events.MouseDown
		if action == glfw.Release {
			typ = events.MouseUp
		}
		but := events.Left
		switch button {
		case glfw.MouseButtonMiddle:
			but = events.Middle
		case glfw.MouseButtonRight:
			but = events.Right
		}
		p.pushInput(h, events.Event{
			Type:   typ,
			Button: but,
			Pos:    p.globalCursorPos(gw),
			Mods:   glfwMods(mod),
		})
	})
	glw.SetCursorPosCallback(func(gw *glfw.Window, x, y float64) {
		p.pushInput(h, events.Event{
			Type: events.MouseMove,
			Pos:  p.globalPos(gw, x, y),
		})
	})
	glw.SetScrollCallback(func(gw *glfw.Window, xoff, yoff float64) {
		p.pushInput(h, events.Event{
			Type:  events.Scroll,
			Pos:   p.globalCursorPos(gw),
			Delta: image.Pt(int(xoff), int(yoff)),
		})
	})
}

func (p *Platform) push(e platform.Event) {
	p.pending = append(p.pending, e)
}

func (p *Platform) pushInput(h viewport.Handle, e events.Event) {
	p.pending = append(p.pending, platform.Event{Kind: platform.Input, Window: h, Input: &e})
}

// globalPos converts window-local cursor coordinates to global screen
// coordinates, which is what multi-viewport GUI libraries expect.
func (p *Platform) globalPos(gw *glfw.Window, x, y float64) image.Point {
	wx, wy := gw.GetPos()
	return image.Pt(wx+int(x), wy+int(y))
}

func (p *Platform) globalCursorPos(gw *glfw.Window) image.Point {
	x, y := gw.GetCursorPos()
	return p.globalPos(gw, x, y)
}

func glfwMods(mod glfw.ModifierKey) events.Modifiers {
	var m events.Modifiers
	if mod&glfw.ModShift != 0 {
		m |= events.Shift
	}
	if mod&glfw.ModControl != 0 {
		m |= events.Control
	}
	if mod&glfw.ModAlt != 0 {
		m |= events.Alt
	}
	if mod&glfw.ModSuper != 0 {
		m |= events.Meta
	}
	return m
}

func glfwKeyCode(kcode glfw.Key) events.Code {
	switch kcode {
	case glfw.KeyA:
		return events.CodeA
	case glfw.KeyB:
		return events.CodeB
	case glfw.KeyC:
		return events.CodeC
	case glfw.KeyD:
		return events.CodeD
	case glfw.KeyE:
		return events.CodeE
	case glfw.KeyF:
		return events.CodeF
	case glfw.KeyG:
		return events.CodeG
	case glfw.KeyH:
		return events.CodeH
	case glfw.KeyI:
		return events.CodeI
	case glfw.KeyJ:
		return events.CodeJ
	case glfw.KeyK:
		return events.CodeK
	case glfw.KeyL:
		return events.CodeL
	case glfw.KeyM:
		return events.CodeM
	case glfw.KeyN:
		return events.CodeN
	case glfw.KeyO:
		return events.CodeO
	case glfw.KeyP:
		return events.CodeP
	case glfw.KeyQ:
		return events.CodeQ
	case glfw.KeyR:
		return events.CodeR
	case glfw.KeyS:
		return events.CodeS
	case glfw.KeyT:
		return events.CodeT
	case glfw.KeyU:
		return events.CodeU
	case glfw.KeyV:
		return events.CodeV
	case glfw.KeyW:
		return events.CodeW
	case glfw.KeyX:
		return events.CodeX
	case glfw.KeyY:
		return events.CodeY
	case glfw.KeyZ:
		return events.CodeZ
	case glfw.Key1:
		return events.Code1
	case glfw.Key2:
		return events.Code2
	case glfw.Key3:
		return events.Code3
	case glfw.Key4:
		return events.Code4
	case glfw.Key5:
		return events.Code5
	case glfw.Key6:
		return events.Code6
	case glfw.Key7:
		return events.Code7
	case glfw.Key8:
		return events.Code8
	case glfw.Key9:
		return events.Code9
	case glfw.Key0:
		return events.Code0
	case glfw.KeyEnter:
		return events.CodeReturnEnter
	case glfw.KeyEscape:
		return events.CodeEscape
	case glfw.KeyBackspace:
		return events.CodeBackspace
	case glfw.KeyTab:
		return events.CodeTab
	case glfw.KeySpace:
		return events.CodeSpacebar
	case glfw.KeyMinus:
		return events.CodeHyphenMinus
	case glfw.KeyEqual:
		return events.CodeEqualSign
	case glfw.KeyLeftBracket:
		return events.CodeLeftSquareBracket
	case glfw.KeyRightBracket:
		return events.CodeRightSquareBracket
	case glfw.KeyBackslash:
		return events.CodeBackslash
	case glfw.KeySemicolon:
		return events.CodeSemicolon
	case glfw.KeyApostrophe:
		return events.CodeApostrophe
	case glfw.KeyGraveAccent:
		return events.CodeGraveAccent
	case glfw.KeyComma:
		return events.CodeComma
	case glfw.KeyPeriod:
		return events.CodeFullStop
	case glfw.KeySlash:
		return events.CodeSlash
	case glfw.KeyCapsLock:
		return events.CodeCapsLock
	case glfw.KeyF1:
		return events.CodeF1
	case glfw.KeyF2:
		return events.CodeF2
	case glfw.KeyF3:
		return events.CodeF3
	case glfw.KeyF4:
		return events.CodeF4
	case glfw.KeyF5:
		return events.CodeF5
	case glfw.KeyF6:
		return events.CodeF6
	case glfw.KeyF7:
		return events.CodeF7
	case glfw.KeyF8:
		return events.CodeF8
	case glfw.KeyF9:
		return events.CodeF9
	case glfw.KeyF10:
		return events.CodeF10
	case glfw.KeyF11:
		return events.CodeF11
	case glfw.KeyF12:
		return events.CodeF12
	case glfw.KeyInsert:
		return events.CodeInsert
	case glfw.KeyHome:
		return events.CodeHome
	case glfw.KeyPageUp:
		return events.CodePageUp
	case glfw.KeyDelete:
		return events.CodeDelete
	case glfw.KeyEnd:
		return events.CodeEnd
	case glfw.KeyPageDown:
		return events.CodePageDown
	case glfw.KeyRight:
		return events.CodeRightArrow
	case glfw.KeyLeft:
		return events.CodeLeftArrow
	case glfw.KeyDown:
		return events.CodeDownArrow
	case glfw.KeyUp:
		return events.CodeUpArrow
	case glfw.KeyLeftControl:
		return events.CodeLeftControl
	case glfw.KeyLeftShift:
		return events.CodeLeftShift
	case glfw.KeyLeftAlt:
		return events.CodeLeftAlt
	case glfw.KeyLeftSuper:
		return events.CodeLeftMeta
	case glfw.KeyRightControl:
		return events.CodeRightControl
	case glfw.KeyRightShift:
		return events.CodeRightShift
	case glfw.KeyRightAlt:
		return events.CodeRightAlt
	case glfw.KeyRightSuper:
		return events.CodeRightMeta
	default:
		return events.CodeUnknown
	}
}
