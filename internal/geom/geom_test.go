package geom

import (
	"math"
	"testing"
)

func TestSnap(t *testing.T) {
	if got := Snap(1.26, 0.5); got != 1.5 {
		t.Fatalf("Snap(1.26, 0.5): got %v want 1.5", got)
	}
	if got := Snap(-0.24, 0.5); got != -0.0 && got != 0.0 {
		t.Fatalf("Snap(-0.24, 0.5): got %v want 0", got)
	}
	if got := Snap(3.1415, 0); got != 3.1415 {
		t.Fatalf("Snap with zero grid must be identity, got %v", got)
	}
	if got := Snap(3.1415, -1); got != 3.1415 {
		t.Fatalf("Snap with negative grid must be identity, got %v", got)
	}
}

func TestViewport_RoundTrip(t *testing.T) {
	vp := Viewport{Scale: 40, OffsetX: 120, OffsetY: 300}
	for _, p := range []Pt{{0, 0}, {3.5, -2}, {-7, 11.25}} {
		px, py := vp.ToScreen(p.X, p.Y)
		x, y := vp.ToModel(px, py)
		if math.Abs(x-p.X) > 1e-9 || math.Abs(y-p.Y) > 1e-9 {
			t.Fatalf("round trip %v: got (%v,%v)", p, x, y)
		}
	}
}

func TestViewport_YAxisInverted(t *testing.T) {
	vp := Viewport{Scale: 10, OffsetX: 0, OffsetY: 100}
	_, py0 := vp.ToScreen(0, 0)
	_, py1 := vp.ToScreen(0, 1)
	if py1 >= py0 {
		t.Fatalf("model +Y must map to smaller screen Y: y=0 -> %v, y=1 -> %v", py0, py1)
	}
}

func TestViewport_SetZoomAt_AnchorInvariant(t *testing.T) {
	vp := Viewport{Scale: 25, OffsetX: 50, OffsetY: 420}
	px, py := 333.0, 177.0
	mx, my := vp.ToModel(px, py)
	for _, s := range []float64{5, 25, 80, 212.5} {
		vp.SetZoomAt(s, px, py)
		gx, gy := vp.ToScreen(mx, my)
		if math.Abs(gx-px) > 1e-6 || math.Abs(gy-py) > 1e-6 {
			t.Fatalf("scale %v: anchor moved to (%v,%v)", s, gx, gy)
		}
	}
}

func TestViewport_SetZoomAt_RejectsDegenerate(t *testing.T) {
	vp := Viewport{Scale: 25, OffsetX: 1, OffsetY: 2}
	vp.SetZoomAt(0, 10, 10)
	vp.SetZoomAt(-3, 10, 10)
	if vp.Scale != 25 || vp.OffsetX != 1 || vp.OffsetY != 2 {
		t.Fatalf("degenerate zoom must be a no-op, got %+v", vp)
	}
}

func TestViewport_FitToView(t *testing.T) {
	vp := Viewport{Scale: 1}
	pts := []Pt{{0, 0}, {10, 0}, {10, 5}, {0, 5}}
	vp.FitToView(pts, 800, 600, 40)
	for _, p := range pts {
		px, py := vp.ToScreen(p.X, p.Y)
		if px < 40-1e-6 || px > 760+1e-6 || py < 40-1e-6 || py > 560+1e-6 {
			t.Fatalf("point %v maps outside margin: (%v,%v)", p, px, py)
		}
	}

	// Zero-span input keeps the transform usable.
	vp2 := Viewport{Scale: 30, OffsetX: 5, OffsetY: 5}
	vp2.FitToView([]Pt{{2, 2}, {2, 2}}, 800, 600, 40)
	px, py := vp2.ToScreen(2, 2)
	if math.Abs(px-400) > 1e-6 || math.Abs(py-300) > 1e-6 {
		t.Fatalf("single-point fit should centre the point, got (%v,%v)", px, py)
	}
}
