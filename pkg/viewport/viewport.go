// Package viewport owns the chart's scroll offsets. Every input (wheel,
// arrow keys, native scroll events from the list and chart surfaces, the
// scrollbar) goes through one clamped write path, and writes made by the
// controller are not echoed back by the surface's own scroll event.
package viewport

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Geometry is the size of the scrollable content and of the window onto it.
type Geometry struct {
	ContentWidth   float64
	ContentHeight  float64
	ViewportWidth  float64
	ViewportHeight float64
	ColumnWidth    float64
	RowHeight      float64
}

// WheelEvent is one wheel notch or trackpad delta.
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Shift  bool // shift+wheel scrolls horizontally
}

// WheelHandler consumes a wheel event and reports whether it was handled,
// in which case the surface must not apply its own default scrolling.
type WheelHandler func(WheelEvent) bool

// WheelTarget is the surface wheel events are delivered from. The returned
// func detaches the handler.
type WheelTarget interface {
	AddWheelListener(h WheelHandler) (remove func())
}

// Key is an arrow key.
type Key string

const (
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
)

// ChangeFunc is called after the offsets change.
type ChangeFunc func(scrollX, scrollY float64)

// Controller is the scroll state machine. It is driven from a single event
// loop and is not safe for concurrent use.
type Controller struct {
	geo      Geometry
	scrollX  float64
	scrollY  float64
	suppress bool

	target      WheelTarget
	removeWheel func()
	onChange    []ChangeFunc
	logger      *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWheelTarget sets the surface the wheel handler attaches to.
func WithWheelTarget(t WheelTarget) Option {
	return func(c *Controller) { c.target = t }
}

// New creates a controller with zero geometry.
func New(opts ...Option) *Controller {
	c := &Controller{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers f for offset changes.
func (c *Controller) OnChange(f ChangeFunc) {
	c.onChange = append(c.onChange, f)
}

// SetGeometry installs new content/viewport sizes, re-clamps the offsets and
// re-evaluates whether the wheel handler is needed. A viewport resize counts
// as a geometry change.
func (c *Controller) SetGeometry(g Geometry) {
	c.geo = g
	c.write(c.scrollX, c.scrollY, false)
	c.updateWheel()
}

// Geometry returns the current geometry.
func (c *Controller) Geometry() Geometry { return c.geo }

// ScrollX is the horizontal offset.
func (c *Controller) ScrollX() float64 { return c.scrollX }

// ScrollY is the vertical offset.
func (c *Controller) ScrollY() float64 { return c.scrollY }

// MaxScrollX is the largest horizontal offset.
func (c *Controller) MaxScrollX() float64 {
	return math.Max(0, c.geo.ContentWidth-c.geo.ViewportWidth)
}

// MaxScrollY is the largest vertical offset.
func (c *Controller) MaxScrollY() float64 {
	return math.Max(0, c.geo.ContentHeight-c.geo.ViewportHeight)
}

// WheelAttached reports whether the wheel handler is currently subscribed.
func (c *Controller) WheelAttached() bool { return c.removeWheel != nil }

// Suppressing reports whether the next native scroll event will be ignored.
func (c *Controller) Suppressing() bool { return c.suppress }

func (c *Controller) updateWheel() {
	need := c.geo.ContentHeight > c.geo.ViewportHeight
	switch {
	case need && c.removeWheel == nil && c.target != nil:
		c.removeWheel = c.target.AddWheelListener(c.OnWheel)
		c.logger.Debug("wheel attached", "content", c.geo.ContentHeight, "viewport", c.geo.ViewportHeight)
	case !need && c.removeWheel != nil:
		c.detachWheel()
	}
}

func (c *Controller) detachWheel() {
	if c.removeWheel == nil {
		return
	}
	c.removeWheel()
	c.removeWheel = nil
	c.logger.Debug("wheel detached")
}

// Close detaches the wheel handler.
func (c *Controller) Close() {
	c.detachWheel()
}

// write is the single clamped write path. When echo is true the write was
// made by the controller, so the surface's resulting scroll event is
// skipped once.
func (c *Controller) write(x, y float64, echo bool) bool {
	x = clamp(x, 0, c.MaxScrollX())
	y = clamp(y, 0, c.MaxScrollY())
	if x == c.scrollX && y == c.scrollY {
		return false
	}
	c.scrollX, c.scrollY = x, y
	if echo {
		c.suppress = true
	}
	for _, f := range c.onChange {
		f(x, y)
	}
	return true
}

// OnWheel scrolls vertically by the wheel delta, or horizontally for
// shift+wheel and horizontal deltas. It always reports the event handled
// while the content overflows.
func (c *Controller) OnWheel(e WheelEvent) bool {
	if e.Shift || e.DeltaX != 0 {
		dx := e.DeltaX
		if dx == 0 {
			dx = e.DeltaY
		}
		c.write(c.scrollX+dx, c.scrollY, true)
		return true
	}
	if c.MaxScrollY() == 0 {
		return false
	}
	c.write(c.scrollX, c.scrollY+e.DeltaY, true)
	return true
}

// OnKey pans by one column or one row. It reports whether the key was an
// arrow key.
func (c *Controller) OnKey(k Key) bool {
	switch k {
	case KeyUp:
		c.write(c.scrollX, c.scrollY-c.geo.RowHeight, true)
	case KeyDown:
		c.write(c.scrollX, c.scrollY+c.geo.RowHeight, true)
	case KeyLeft:
		c.write(c.scrollX-c.geo.ColumnWidth, c.scrollY, true)
	case KeyRight:
		c.write(c.scrollX+c.geo.ColumnWidth, c.scrollY, true)
	default:
		return false
	}
	return true
}

// OnNativeScrollY handles the list surface's own scroll event. The first
// event after a controller write is its echo and is dropped; the flag is
// read and cleared in the same step.
func (c *Controller) OnNativeScrollY(y float64) {
	if c.suppress {
		c.suppress = false
		return
	}
	c.write(c.scrollX, y, false)
}

// OnNativeScrollX handles the chart surface's own horizontal scroll event.
func (c *Controller) OnNativeScrollX(x float64) {
	if c.suppress {
		c.suppress = false
		return
	}
	c.write(x, c.scrollY, false)
}

// ScrollTo is a programmatic scroll request.
func (c *Controller) ScrollTo(x, y float64) {
	c.write(x, y, true)
}

// RevealRow scrolls the minimum amount that makes row fully visible.
func (c *Controller) RevealRow(row int) {
	top := float64(row) * c.geo.RowHeight
	bottom := top + c.geo.RowHeight
	y := c.scrollY
	switch {
	case top < y:
		y = top
	case bottom > y+c.geo.ViewportHeight:
		y = bottom - c.geo.ViewportHeight
	}
	c.write(c.scrollX, y, true)
}

// RevealX scrolls horizontally so x is inside the viewport.
func (c *Controller) RevealX(x float64) {
	sx := c.scrollX
	switch {
	case x < sx:
		sx = x
	case x > sx+c.geo.ViewportWidth:
		sx = x - c.geo.ViewportWidth
	}
	c.write(sx, c.scrollY, true)
}

// VisibleRows returns the half-open range of rows intersecting the viewport.
func (c *Controller) VisibleRows(total int) (first, last int) {
	if c.geo.RowHeight <= 0 || total == 0 {
		return 0, total
	}
	first = int(math.Floor(c.scrollY / c.geo.RowHeight))
	last = int(math.Ceil((c.scrollY + c.geo.ViewportHeight) / c.geo.RowHeight))
	if first < 0 {
		first = 0
	}
	if last > total {
		last = total
	}
	if first > last {
		first = last
	}
	return first, last
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
