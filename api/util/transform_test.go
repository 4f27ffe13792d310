package util

import (
	"errors"
	"sync"
	"testing"

	"voxelapi.dev/api/lattice"
)

func TestNormalizeQuarterTurns(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 3, want: 3},
		{in: 4, want: 0},
		{in: 5, want: 1},
		{in: -1, want: 3},
		{in: -4, want: 0},
		{in: -7, want: 1},
	}
	for _, c := range cases {
		if got := normalizeQuarterTurns(c.in); got != c.want {
			t.Fatalf("normalizeQuarterTurns(%d)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestTransform2_Rotation_CounterClockwise(t *testing.T) {
	cases := []struct {
		turns int
		want  lattice.Vec2i
	}{
		{turns: 0, want: lattice.Vec2i{X: 1, Y: 0}},
		{turns: 1, want: lattice.Vec2i{X: 0, Y: 1}},
		{turns: 2, want: lattice.Vec2i{X: -1, Y: 0}},
		{turns: 3, want: lattice.Vec2i{X: 0, Y: -1}},
		{turns: -1, want: lattice.Vec2i{X: 0, Y: -1}},
		{turns: 9, want: lattice.Vec2i{X: 0, Y: 1}},
	}
	for _, c := range cases {
		got := FromRotation2(c.turns).TransformXY(1, 0)
		if got != c.want {
			t.Fatalf("rotate %d turns: got %v want %v", c.turns, got, c.want)
		}
	}
}

func TestTransform2_CompositionOrder(t *testing.T) {
	// translate first, then rotate
	tr := FromTranslationXY(1, 2).WithRotation(1)
	if got := tr.TransformXY(0, 0); got != (lattice.Vec2i{X: -2, Y: 1}) {
		t.Fatalf("got %v", got)
	}
	s, err := FromScale2(2)
	if err != nil {
		t.Fatalf("FromScale2: %v", err)
	}
	s = s.WithTranslationXY(1, 0)
	if got := s.TransformXY(3, 0); got != (lattice.Vec2i{X: 7, Y: 0}) {
		t.Fatalf("got %v", got)
	}
}

func TestTransform2_SingleAxisMatchesFullTransform(t *testing.T) {
	tr, err := FromTranslationXY(5, -3).WithRotation(3).WithScaleXY(2, 3)
	if err != nil {
		t.Fatalf("WithScaleXY: %v", err)
	}
	for x := -4; x <= 4; x++ {
		for y := -4; y <= 4; y++ {
			full := tr.TransformXY(x, y)
			if got := tr.TransformX(x, y); got != full.X {
				t.Fatalf("TransformX(%d,%d)=%d want %d", x, y, got, full.X)
			}
			if got := tr.TransformYVec(lattice.Vec2i{X: x, Y: y}); got != full.Y {
				t.Fatalf("TransformY(%d,%d)=%d want %d", x, y, got, full.Y)
			}
		}
	}
}

func TestTransform2_RejectsNonPositiveScale(t *testing.T) {
	if _, err := FromScaleXY(0, 1); !errors.Is(err, ErrNonPositiveScale) {
		t.Fatalf("expected ErrNonPositiveScale, got %v", err)
	}
	if _, err := IdentityTransform2.WithScaleXY(1, -2); !errors.Is(err, ErrNonPositiveScale) {
		t.Fatalf("expected ErrNonPositiveScale, got %v", err)
	} else if err.Error() != "scale factor must be > 0: y <= 0" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if _, err := FromScale2(-1); err == nil {
		t.Fatalf("expected error for negative uniform scale")
	}
}

func TestTransform2_InverseRoundTrips(t *testing.T) {
	v := lattice.Vec2i{X: 7, Y: -11}
	if !FromTranslation2(v).WithTranslation(v.Negate()).Equal(IdentityTransform2) {
		t.Fatalf("translation did not round trip")
	}
	for turns := -5; turns <= 5; turns++ {
		if !FromRotation2(turns).WithRotation(-turns).Equal(IdentityTransform2) {
			t.Fatalf("rotation %d did not round trip", turns)
		}
	}
	s, err := FromScaleXY(3, 2)
	if err != nil {
		t.Fatalf("FromScaleXY: %v", err)
	}
	p := lattice.Vec2i{X: -4, Y: 9}
	back, ok := s.Preimage(s.Transform(p))
	if !ok || back != p {
		t.Fatalf("scale preimage: got %v ok=%v", back, ok)
	}
	if _, ok := s.Preimage(lattice.Vec2i{X: 1, Y: 0}); ok {
		t.Fatalf("expected no preimage inside a scale gap")
	}
}

func TestTransform2_Associative(t *testing.T) {
	a := FromTranslationXY(3, 1)
	b, err := FromRotation2(1).WithScaleXY(2, 1)
	if err != nil {
		t.Fatalf("WithScaleXY: %v", err)
	}
	c := FromTranslationXY(-1, 4).WithRotation(2)
	left := a.WithTransformation(b).WithTransformation(c)
	right := a.WithTransformation(b.WithTransformation(c))
	if !left.Equal(right) {
		t.Fatalf("composition not associative:\n%v\n%v", left, right)
	}
}

func TestTransform3_RotationAxes(t *testing.T) {
	cases := []struct {
		axis lattice.Axis
		in   lattice.Vec3i
		want lattice.Vec3i
	}{
		{axis: lattice.AxisX, in: lattice.Vec3i{Y: 1}, want: lattice.Vec3i{Z: 1}},
		{axis: lattice.AxisY, in: lattice.Vec3i{X: 1}, want: lattice.Vec3i{Z: -1}},
		{axis: lattice.AxisY, in: lattice.Vec3i{Z: 1}, want: lattice.Vec3i{X: 1}},
		{axis: lattice.AxisZ, in: lattice.Vec3i{X: 1}, want: lattice.Vec3i{Y: 1}},
	}
	for _, c := range cases {
		got := FromRotation3(1, c.axis).Transform(c.in)
		if got != c.want {
			t.Fatalf("rotate %v around %s: got %v want %v", c.in, c.axis, got, c.want)
		}
	}
}

func TestTransform3_InverseRoundTrips(t *testing.T) {
	v := lattice.Vec3i{X: 2, Y: -9, Z: 30}
	if !FromTranslation3(v).WithTranslation(v.Negate()).Equal(IdentityTransform3) {
		t.Fatalf("translation did not round trip")
	}
	for _, axis := range []lattice.Axis{lattice.AxisX, lattice.AxisY, lattice.AxisZ} {
		for turns := -4; turns <= 4; turns++ {
			if !FromRotation3(turns, axis).WithRotation(-turns, axis).Equal(IdentityTransform3) {
				t.Fatalf("rotation %d around %s did not round trip", turns, axis)
			}
		}
		if !FromRotation3(4, axis).Equal(IdentityTransform3) {
			t.Fatalf("four quarter turns around %s should be identity", axis)
		}
	}

	tr, err := FromTranslationXYZ(1, 2, 3).WithRotation(1, lattice.AxisY).WithScaleXYZ(2, 1, 3)
	if err != nil {
		t.Fatalf("WithScaleXYZ: %v", err)
	}
	for _, p := range []lattice.Vec3i{{}, {X: 5, Y: -1, Z: 2}, {X: -8, Y: 64, Z: -3}} {
		back, ok := tr.Preimage(tr.Transform(p))
		if !ok || back != p {
			t.Fatalf("preimage of %v: got %v ok=%v", p, back, ok)
		}
	}
}

func TestTransform3_Associative(t *testing.T) {
	a := FromRotation3(1, lattice.AxisX).WithTranslationXYZ(0, 5, 0)
	b, err := FromScaleXYZ(1, 2, 3)
	if err != nil {
		t.Fatalf("FromScaleXYZ: %v", err)
	}
	c := FromRotation3(3, lattice.AxisZ)
	left := a.WithTransformation(b).WithTransformation(c)
	right := a.WithTransformation(b.WithTransformation(c))
	if !left.Equal(right) {
		t.Fatalf("composition not associative")
	}
	p := lattice.Vec3i{X: 1, Y: 2, Z: 3}
	want := c.Transform(b.Transform(a.Transform(p)))
	if got := left.Transform(p); got != want {
		t.Fatalf("composed transform %v want %v", got, want)
	}
}

func TestTransform3_RejectsNonPositiveScale(t *testing.T) {
	for _, s := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, -3}} {
		if _, err := FromScaleXYZ(s[0], s[1], s[2]); !errors.Is(err, ErrNonPositiveScale) {
			t.Fatalf("scale %v: expected ErrNonPositiveScale, got %v", s, err)
		}
		if _, err := FromScaleVec3(lattice.Vec3i{X: s[0], Y: s[1], Z: s[2]}); !errors.Is(err, ErrNonPositiveScale) {
			t.Fatalf("vec scale %v: expected ErrNonPositiveScale, got %v", s, err)
		}
	}
}

func TestFromScaleVec_MatchesWithScaleVec(t *testing.T) {
	a, err := FromScaleVec3(lattice.Vec3i{X: 2, Y: 3, Z: 4})
	if err != nil {
		t.Fatalf("FromScaleVec3: %v", err)
	}
	b, _ := IdentityTransform3.WithScaleVec(lattice.Vec3i{X: 2, Y: 3, Z: 4})
	if !a.Equal(b) {
		t.Fatalf("%v != %v", a, b)
	}
	if got := a.TransformXYZ(1, 1, 1); got != (lattice.Vec3i{X: 2, Y: 3, Z: 4}) {
		t.Fatalf("got %v", got)
	}

	c, err := FromScaleVec2(lattice.Vec2i{X: 5, Y: 1})
	if err != nil {
		t.Fatalf("FromScaleVec2: %v", err)
	}
	if got := c.TransformXY(2, 7); got != (lattice.Vec2i{X: 10, Y: 7}) {
		t.Fatalf("got %v", got)
	}
	if _, err := FromScaleVec2(lattice.Vec2i{X: 1, Y: 0}); !errors.Is(err, ErrNonPositiveScale) {
		t.Fatalf("expected ErrNonPositiveScale, got %v", err)
	}
}

func TestTransform3_RowCacheConcurrentReaders(t *testing.T) {
	tr := FromRotation3(1, lattice.AxisY).WithTranslationXYZ(10, 0, -10)
	want := tr.TransformXYZ(3, 4, 5)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := lattice.Vec3i{X: tr.TransformX(3, 4, 5), Y: tr.TransformY(3, 4, 5), Z: tr.TransformZ(3, 4, 5)}
			if got != want {
				t.Errorf("got %v want %v", got, want)
			}
		}()
	}
	wg.Wait()
}
