// Package desktop implements the window manager behind the desktop shell:
// drag and resize arithmetic, z-order, the dock magnifier, and per-visitor
// layouts.
package desktop

import (
	"fmt"
	"math"
	"strings"
)

// Window geometry limits, in CSS pixels.
const (
	MinWidth         = 400
	MinHeight        = 300
	MenuBarHeight    = 24
	DefaultWidth     = 400
	DefaultHeight    = 300
	MobileBreakpoint = 768

	// DockMagnification is the extra scale of an icon directly under the pointer.
	DockMagnification = 0.4
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the visible browser area.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mobile reports whether windows are pinned full-screen at this width.
func (v Viewport) Mobile() bool {
	return v.Width < MobileBreakpoint
}

// Direction is the edge or corner a resize handle drags.
type Direction string

const (
	ResizeBottom      Direction = "bottom"
	ResizeRight       Direction = "right"
	ResizeLeft        Direction = "left"
	ResizeBottomRight Direction = "bottom-right"
	ResizeBottomLeft  Direction = "bottom-left"
)

// ParseDirection validates a resize handle name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case ResizeBottom, ResizeRight, ResizeLeft, ResizeBottomRight, ResizeBottomLeft:
		return d, nil
	}
	return "", fmt.Errorf("unknown resize direction %q", s)
}

// Drag returns the window position for a pointer at pointer grabbed offset
// from the window's top-left corner. At least half the window stays on
// screen horizontally and the title bar never slides under the menu bar.
func Drag(size Size, pointer, offset Point, vp Viewport) Point {
	x := pointer.X - offset.X
	y := pointer.Y - offset.Y

	minX := -size.Width / 2
	maxX := vp.Width - size.Width/2
	minY := float64(MenuBarHeight)
	maxY := vp.Height - size.Height/2

	return Point{
		X: math.Max(minX, math.Min(x, maxX)),
		Y: math.Max(minY, math.Min(y, maxY)),
	}
}

// Resize moves the edges named by dir to the pointer, keeping the window at
// least MinWidth x MinHeight. Dragging the left edge keeps the right edge fixed.
func Resize(pos Point, size Size, dir Direction, pointer Point) (Point, Size) {
	left, top := pos.X, pos.Y
	right := pos.X + size.Width

	d := string(dir)
	if strings.Contains(d, "right") {
		size.Width = math.Max(MinWidth, pointer.X-left)
	}
	if strings.Contains(d, "left") {
		size.Width = math.Max(MinWidth, right-pointer.X)
		pos.X = right - size.Width
	}
	if strings.Contains(d, "bottom") {
		size.Height = math.Max(MinHeight, pointer.Y-top)
	}
	return pos, size
}

// DockScale is the magnification of icon index out of total in a dock
// spanning [dockLeft, dockLeft+dockWidth]. Icons within two icon widths of
// the pointer grow linearly up to 1 + DockMagnification. A nil mouseX means
// the pointer is outside the dock.
func DockScale(index, total int, dockLeft, dockWidth float64, mouseX *float64) float64 {
	if mouseX == nil || total <= 0 || dockWidth <= 0 {
		return 1
	}
	if !finite(*mouseX) || !finite(dockLeft) || !finite(dockWidth) {
		return 1
	}
	iconWidth := dockWidth / float64(total)
	center := dockLeft + float64(index)*iconWidth + iconWidth/2
	distance := math.Abs(*mouseX - center)
	maxDistance := iconWidth * 2
	if distance > maxDistance {
		return 1
	}
	return 1 + DockMagnification*(1-distance/maxDistance)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
