package viewport

import "testing"

type fakeTarget struct {
	handler  WheelHandler
	attaches int
	removes  int
}

func (f *fakeTarget) AddWheelListener(h WheelHandler) func() {
	f.handler = h
	f.attaches++
	return func() {
		f.handler = nil
		f.removes++
	}
}

func tallGeometry() Geometry {
	return Geometry{
		ContentWidth:   1500,
		ContentHeight:  1000,
		ViewportWidth:  600,
		ViewportHeight: 400,
		ColumnWidth:    60,
		RowHeight:      50,
	}
}

func TestWheelClampsVertical(t *testing.T) {
	target := &fakeTarget{}
	c := New(WithWheelTarget(target))
	c.SetGeometry(tallGeometry())

	if !c.WheelAttached() || target.handler == nil {
		t.Fatal("wheel should attach when content overflows")
	}
	tests := []struct {
		dy   float64
		want float64
	}{
		{100, 100},
		{10000, 600},
		{-50, 550},
		{-10000, 0},
	}
	for _, tt := range tests {
		if handled := target.handler(WheelEvent{DeltaY: tt.dy}); !handled {
			t.Errorf("wheel %v not handled", tt.dy)
		}
		if c.ScrollY() != tt.want {
			t.Errorf("after wheel %v scrollY = %v, want %v", tt.dy, c.ScrollY(), tt.want)
		}
	}
}

func TestShiftWheelScrollsHorizontally(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())
	c.OnWheel(WheelEvent{DeltaY: 120, Shift: true})
	if c.ScrollX() != 120 || c.ScrollY() != 0 {
		t.Errorf("got x=%v y=%v", c.ScrollX(), c.ScrollY())
	}
	c.OnWheel(WheelEvent{DeltaX: 5000})
	if c.ScrollX() != c.MaxScrollX() {
		t.Errorf("x not clamped: %v", c.ScrollX())
	}
	if c.ScrollX() > tallGeometry().ContentWidth {
		t.Error("scrollX beyond content width")
	}
}

func TestWheelSubscriptionFollowsGeometry(t *testing.T) {
	target := &fakeTarget{}
	c := New(WithWheelTarget(target))

	short := tallGeometry()
	short.ContentHeight = 300
	c.SetGeometry(short)
	if c.WheelAttached() {
		t.Fatal("wheel must not attach when content fits")
	}

	c.SetGeometry(tallGeometry())
	c.SetGeometry(tallGeometry())
	if target.attaches != 1 {
		t.Errorf("expected one attach, got %d", target.attaches)
	}

	// Growing the viewport past the content detaches the handler.
	grown := tallGeometry()
	grown.ViewportHeight = 1200
	c.SetGeometry(grown)
	if c.WheelAttached() || target.removes != 1 {
		t.Errorf("expected detach on viewport resize, removes=%d", target.removes)
	}

	c.SetGeometry(tallGeometry())
	c.Close()
	if c.WheelAttached() || target.removes != 2 {
		t.Errorf("Close should detach, removes=%d", target.removes)
	}
}

func TestGeometryShrinkReclamps(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())
	c.ScrollTo(900, 600)

	g := tallGeometry()
	g.ContentHeight = 500
	g.ContentWidth = 700
	c.SetGeometry(g)
	if c.ScrollY() != 100 || c.ScrollX() != 100 {
		t.Errorf("got x=%v y=%v, want 100/100", c.ScrollX(), c.ScrollY())
	}
}

func TestKeys(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())

	c.OnKey(KeyDown)
	c.OnKey(KeyRight)
	c.OnKey(KeyRight)
	if c.ScrollY() != 50 || c.ScrollX() != 120 {
		t.Errorf("got x=%v y=%v", c.ScrollX(), c.ScrollY())
	}
	c.OnKey(KeyUp)
	c.OnKey(KeyUp)
	if c.ScrollY() != 0 {
		t.Errorf("scrollY went negative: %v", c.ScrollY())
	}
	if c.OnKey(Key("pgdown")) {
		t.Error("non-arrow keys are not handled")
	}
}

func TestNativeScrollEchoIsSuppressed(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())
	var changes int
	c.OnChange(func(x, y float64) { changes++ })

	c.OnKey(KeyDown)
	if !c.Suppressing() {
		t.Fatal("controller write should arm the echo flag")
	}
	// The surface reports the position we just wrote.
	c.OnNativeScrollY(50)
	if c.Suppressing() {
		t.Error("flag should clear after one event")
	}
	if changes != 1 {
		t.Errorf("echo caused extra change, changes=%d", changes)
	}

	// A real user scroll on the surface is applied without arming the flag.
	c.OnNativeScrollY(300)
	if c.ScrollY() != 300 || c.Suppressing() {
		t.Errorf("native scroll not applied: y=%v suppress=%v", c.ScrollY(), c.Suppressing())
	}
	c.OnNativeScrollY(5000)
	if c.ScrollY() != 600 {
		t.Errorf("native scroll not clamped: %v", c.ScrollY())
	}
}

func TestNoOpWriteDoesNotArmSuppress(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())
	c.OnKey(KeyUp)
	if c.Suppressing() {
		t.Error("a write that changes nothing produces no surface event to suppress")
	}
}

func TestScrollbar(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())

	pos, size := c.Thumb(100)
	if pos != 0 || size != 40 {
		t.Errorf("thumb = %v/%v, want 0/40", pos, size)
	}
	c.ScrollbarTo(30, 100)
	if c.ScrollY() != 300 {
		t.Errorf("scrollbar request gave y=%v, want 300", c.ScrollY())
	}
	c.ScrollbarTo(1000, 100)
	if c.ScrollY() != 600 {
		t.Errorf("scrollbar request not clamped: %v", c.ScrollY())
	}
	if pos, _ := c.Thumb(100); pos != 60 {
		t.Errorf("thumb pos = %v, want 60", pos)
	}
}

func TestRevealAndVisibleRows(t *testing.T) {
	c := New()
	c.SetGeometry(tallGeometry())
	c.RevealRow(12)
	if c.ScrollY() != 250 {
		t.Errorf("RevealRow(12) y=%v, want 250", c.ScrollY())
	}
	first, last := c.VisibleRows(20)
	if first != 5 || last != 13 {
		t.Errorf("visible rows = [%d,%d), want [5,13)", first, last)
	}
	c.RevealRow(2)
	if c.ScrollY() != 100 {
		t.Errorf("RevealRow(2) y=%v, want 100", c.ScrollY())
	}
}
