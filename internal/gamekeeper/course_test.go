package gamekeeper

import "testing"

func TestCourseByType(t *testing.T) {
	for _, tc := range []struct {
		courseType CourseType
		holes      int
		firstPhys  int
		lastPhys   int
	}{
		{CourseFront9, 9, 1, 9},
		{CourseBack9, 9, 10, 18},
		{CourseFull18, 18, 1, 18},
	} {
		c, ok := CourseByType(tc.courseType)
		if !ok {
			t.Fatalf("%v: course not found", tc.courseType)
		}
		if c.HoleCount() != tc.holes {
			t.Fatalf("%v: hole count = %v, want %v", tc.courseType, c.HoleCount(), tc.holes)
		}
		first, last := c.Holes[0], c.Holes[len(c.Holes)-1]
		if first.Number != 1 || first.PhysicalHole != tc.firstPhys {
			t.Fatalf("%v: first hole = %+v", tc.courseType, first)
		}
		if last.Number != tc.holes || last.PhysicalHole != tc.lastPhys {
			t.Fatalf("%v: last hole = %+v", tc.courseType, last)
		}
	}

	if _, ok := CourseByType("minigolf"); ok {
		t.Fatalf("unexpected course for unknown type")
	}
}

func TestCoursePar(t *testing.T) {
	front, _ := CourseByType(CourseFront9)
	back, _ := CourseByType(CourseBack9)
	full, _ := CourseByType(CourseFull18)
	if front.Par()+back.Par() != full.Par() {
		t.Fatalf("front (%v) + back (%v) != full (%v)", front.Par(), back.Par(), full.Par())
	}
	for _, c := range []Course{front, back, full} {
		sum := 0
		for _, h := range c.Holes {
			if h.Par < 3 || h.Par > 4 {
				t.Fatalf("%v hole %v: unexpected par %v", c.Type, h.Number, h.Par)
			}
			sum += h.Par
		}
		if sum != c.Par() {
			t.Fatalf("%v: par sum %v != Par() %v", c.Type, sum, c.Par())
		}
	}
}

func TestParForHole(t *testing.T) {
	c, _ := CourseByType(CourseFront9)
	if got := c.ParForHole(1); got != c.Holes[0].Par {
		t.Fatalf("ParForHole(1) = %v", got)
	}
	if got := c.ParForHole(0); got != 0 {
		t.Fatalf("ParForHole(0) = %v, want 0", got)
	}
	if got := c.ParForHole(10); got != 0 {
		t.Fatalf("ParForHole(10) = %v, want 0", got)
	}
}

func TestHoleCount(t *testing.T) {
	if HoleCount(CourseFront9) != 9 || HoleCount(CourseBack9) != 9 || HoleCount(CourseFull18) != 18 {
		t.Fatalf("unexpected hole counts")
	}
	if HoleCount("minigolf") != 0 {
		t.Fatalf("unknown course must have 0 holes")
	}
}
