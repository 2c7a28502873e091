package viewport

import "math"

// Thumb returns the position and length of the vertical scrollbar thumb on a
// track of the given length.
func (c *Controller) Thumb(track float64) (pos, size float64) {
	if c.geo.ContentHeight <= 0 || c.geo.ContentHeight <= c.geo.ViewportHeight {
		return 0, track
	}
	size = math.Max(1, track*c.geo.ViewportHeight/c.geo.ContentHeight)
	free := track - size
	if limit := c.MaxScrollY(); limit > 0 && free > 0 {
		pos = free * c.scrollY / limit
	}
	return pos, size
}

// ScrollbarTo handles a drag or click on the scrollbar track: pos is where
// the thumb's top should go. The request uses the same clamped path as
// every other scroll input.
func (c *Controller) ScrollbarTo(pos, track float64) {
	_, size := c.Thumb(track)
	free := track - size
	if free <= 0 {
		return
	}
	c.write(c.scrollX, pos/free*c.MaxScrollY(), true)
}
