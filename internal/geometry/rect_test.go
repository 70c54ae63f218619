package geometry

import "testing"

func TestIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			"overlap",
			Rect{X: 0, Y: 0, Width: 100, Height: 100},
			Rect{X: 50, Y: 50, Width: 100, Height: 100},
			Rect{X: 50, Y: 50, Width: 50, Height: 50},
		},
		{
			"contained",
			Rect{X: 0, Y: 0, Width: 100, Height: 100},
			Rect{X: 10, Y: 10, Width: 20, Height: 20},
			Rect{X: 10, Y: 10, Width: 20, Height: 20},
		},
		{
			"identical",
			Rect{X: 5, Y: 5, Width: 10, Height: 10},
			Rect{X: 5, Y: 5, Width: 10, Height: 10},
			Rect{X: 5, Y: 5, Width: 10, Height: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersection(tt.b)
			if got != tt.want {
				t.Errorf("Intersection = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIntersects_Disjoint(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 10, Y: 0, Width: 10, Height: 10}
	if a.Intersects(b) {
		t.Errorf("edge-adjacent rects should not intersect")
	}
	c := Rect{X: 30, Y: 30, Width: 5, Height: 5}
	if a.Intersects(c) {
		t.Errorf("disjoint rects should not intersect")
	}
}

func TestClampInto(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside is untouched", Rect{X: 10, Y: 10, Width: 100, Height: 100}, Rect{X: 10, Y: 10, Width: 100, Height: 100}},
		{"off right edge", Rect{X: 1900, Y: 0, Width: 100, Height: 100}, Rect{X: 1820, Y: 0, Width: 100, Height: 100}},
		{"off top-left", Rect{X: -50, Y: -20, Width: 100, Height: 100}, Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{"wider than bounds anchors at origin", Rect{X: 500, Y: 0, Width: 3000, Height: 100}, Rect{X: 0, Y: 0, Width: 3000, Height: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampInto(bounds)
			if got != tt.want {
				t.Errorf("ClampInto = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	got := r.Inset(28, 0, 0, 0)
	want := Rect{X: 0, Y: 28, Width: 1920, Height: 1052}
	if got != want {
		t.Errorf("Inset = %+v, want %+v", got, want)
	}
}

func TestContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	if !r.Contains(Point{X: 10, Y: 10}) {
		t.Errorf("origin should be contained")
	}
	if r.Contains(Point{X: 20, Y: 10}) {
		t.Errorf("right edge is exclusive")
	}
}
