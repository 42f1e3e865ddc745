package gamekeeper

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePlayerName(t *testing.T) {
	for _, tc := range []struct {
		name string
		ok   bool
	}{
		{"Alice", true},
		{"a", true},
		{"Jörg Müller", true},
		{strings.Repeat("x", 32), true},
		{"", false},
		{strings.Repeat("x", 33), false},
		{"bad\nname", false},
		{"bad\x00name", false},
	} {
		err := ValidatePlayerName(tc.name)
		if tc.ok && err != nil {
			t.Errorf("name %q: unexpected error: %v", tc.name, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("name %q: want ErrValidation, got %v", tc.name, err)
			}
		}
	}
}

func TestValidateStrokes(t *testing.T) {
	for _, tc := range []struct {
		strokes int
		ok      bool
	}{
		{0, true},
		{3, true},
		{15, true},
		{-1, false},
		{16, false},
	} {
		err := ValidateStrokes(tc.strokes)
		if tc.ok != (err == nil) {
			t.Errorf("strokes %v: ok = %v, err = %v", tc.strokes, tc.ok, err)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Errorf("strokes %v: want ErrValidation, got %v", tc.strokes, err)
		}
	}
}

func TestValidateHole(t *testing.T) {
	for _, tc := range []struct {
		courseType CourseType
		hole       int
		ok         bool
	}{
		{CourseFront9, 1, true},
		{CourseFront9, 9, true},
		{CourseFront9, 10, false},
		{CourseFull18, 18, true},
		{CourseFull18, 19, false},
		{CourseBack9, 0, false},
		{"minigolf", 1, false},
	} {
		err := ValidateHole(tc.courseType, tc.hole)
		if tc.ok != (err == nil) {
			t.Errorf("%v hole %v: ok = %v, err = %v", tc.courseType, tc.hole, tc.ok, err)
		}
	}
}

func TestValidateCourseType(t *testing.T) {
	for _, ct := range []CourseType{CourseFront9, CourseBack9, CourseFull18} {
		if err := ValidateCourseType(ct); err != nil {
			t.Errorf("%v: unexpected error: %v", ct, err)
		}
	}
	if err := ValidateCourseType("minigolf"); !errors.Is(err, ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
}
