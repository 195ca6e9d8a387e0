package desktop

import (
	"math"
	"sync/atomic"
)

// Stack hands out z-indexes. One Stack is shared by every layout in the
// process so a newly focused window always lands on top.
type Stack struct {
	top atomic.Int64
}

// BaseZ is the z-index of the first window.
const BaseZ = 10

// NewStack returns a stack whose counter starts at BaseZ.
func NewStack() *Stack {
	s := &Stack{}
	s.top.Store(BaseZ)
	return s
}

// Raise increments the counter and returns the new top.
func (s *Stack) Raise() int {
	return int(s.top.Add(1))
}

// Top returns the current counter.
func (s *Stack) Top() int {
	return int(s.top.Load())
}

// Observe lifts the counter to at least z, for layouts restored from storage.
func (s *Stack) Observe(z int) {
	for {
		cur := s.top.Load()
		if int64(z) <= cur || s.top.CompareAndSwap(cur, int64(z)) {
			return
		}
	}
}

// NewLayout returns a desktop with every window closed at its default geometry.
func NewLayout(sessionID string) *Layout {
	l := &Layout{SessionID: sessionID, Windows: make([]Window, 0, len(Apps))}
	for _, app := range Apps {
		spec := specs[app]
		l.Windows = append(l.Windows, Window{
			App:   app,
			Title: spec.title,
			Size:  Size{Width: spec.width, Height: spec.height},
			Z:     BaseZ,
		})
	}
	return l
}

// Window returns the window for app.
func (l *Layout) Window(app AppID) (*Window, error) {
	for i := range l.Windows {
		if l.Windows[i].App == app {
			return &l.Windows[i], nil
		}
	}
	return nil, ErrUnknownApp
}

// Open shows app's window and brings it to the front. A window that was
// closed reopens at its default position for the viewport.
func (l *Layout) Open(app AppID, vp Viewport, stack *Stack) error {
	w, err := l.Window(app)
	if err != nil {
		return err
	}
	if !w.Open {
		spec := specs[app]
		w.Position = Point{X: math.Floor(vp.Width * spec.fracX), Y: math.Floor(vp.Height * spec.fracY)}
		w.Size = Size{Width: spec.width, Height: spec.height}
		w.Open = true
	}
	w.Z = stack.Raise()
	l.Focused = app
	return nil
}

// Close hides app's window.
func (l *Layout) Close(app AppID) error {
	w, err := l.Window(app)
	if err != nil {
		return err
	}
	w.Open = false
	if l.Focused == app {
		l.Focused = l.topmost()
	}
	return nil
}

// CloseAll hides every window.
func (l *Layout) CloseAll() {
	for i := range l.Windows {
		l.Windows[i].Open = false
	}
	l.Focused = ""
}

// Focus brings an open window to the front.
func (l *Layout) Focus(app AppID, stack *Stack) error {
	w, err := l.openWindow(app)
	if err != nil {
		return err
	}
	w.Z = stack.Raise()
	l.Focused = app
	return nil
}

// Drag moves app's window. On mobile viewports it is a no-op.
func (l *Layout) Drag(app AppID, pointer, offset Point, vp Viewport) error {
	w, err := l.openWindow(app)
	if err != nil {
		return err
	}
	if vp.Mobile() {
		return nil
	}
	w.Position = Drag(w.Size, pointer, offset, vp)
	return nil
}

// Resize drags an edge of app's window. On mobile viewports it is a no-op.
func (l *Layout) Resize(app AppID, dir Direction, pointer Point, vp Viewport) error {
	w, err := l.openWindow(app)
	if err != nil {
		return err
	}
	if vp.Mobile() {
		return nil
	}
	w.Position, w.Size = Resize(w.Position, w.Size, dir, pointer)
	return nil
}

// MissionControl lists open windows in tiling order.
func (l *Layout) MissionControl() []Window {
	var out []Window
	for _, app := range missionControlOrder {
		w, err := l.Window(app)
		if err == nil && w.Open {
			out = append(out, *w)
		}
	}
	return out
}

// MaxZ is the highest z-index in the layout.
func (l *Layout) MaxZ() int {
	max := 0
	for _, w := range l.Windows {
		if w.Z > max {
			max = w.Z
		}
	}
	return max
}

func (l *Layout) openWindow(app AppID) (*Window, error) {
	w, err := l.Window(app)
	if err != nil {
		return nil, err
	}
	if !w.Open {
		return nil, ErrNotOpen
	}
	return w, nil
}

func (l *Layout) topmost() AppID {
	var top AppID
	z := -1
	for _, w := range l.Windows {
		if w.Open && w.Z > z {
			top, z = w.App, w.Z
		}
	}
	return top
}
