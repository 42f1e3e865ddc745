package gamekeeper

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const (
	MinStrokes = 0
	MaxStrokes = 15
)

func ValidatePlayerName(name string) error {
	nLen := utf8.RuneCountInString(name)
	if nLen < 1 || nLen > 32 {
		return fmt.Errorf("%w: player name must have from 1 to 32 characters", ErrValidation)
	}
	for _, c := range name {
		if unicode.IsControl(c) {
			return fmt.Errorf("%w: player name must not contain control characters", ErrValidation)
		}
	}
	return nil
}

func ValidateStrokes(strokes int) error {
	if strokes < MinStrokes || strokes > MaxStrokes {
		return fmt.Errorf("%w: strokes must be between %v and %v", ErrValidation, MinStrokes, MaxStrokes)
	}
	return nil
}

func ValidateHole(courseType CourseType, hole int) error {
	count := HoleCount(courseType)
	if count == 0 {
		return fmt.Errorf("%w: unknown course type %q", ErrValidation, courseType)
	}
	if hole < 1 || hole > count {
		return fmt.Errorf("%w: hole must be between 1 and %v", ErrValidation, count)
	}
	return nil
}

func ValidateCourseType(courseType CourseType) error {
	if !courseType.Valid() {
		return fmt.Errorf("%w: unknown course type %q", ErrValidation, courseType)
	}
	return nil
}
