package gamekeeper

type CourseType string

const (
	CourseFront9 CourseType = "front9"
	CourseBack9  CourseType = "back9"
	CourseFull18 CourseType = "full18"
)

func (t CourseType) Valid() bool {
	switch t {
	case CourseFront9, CourseBack9, CourseFull18:
		return true
	default:
		return false
	}
}

// Hole describes one basket on the course. Number is the position within the
// selected layout (1-based); PhysicalHole is the basket's number on the full
// course, which differs for the back nine.
type Hole struct {
	Number       int    `json:"number"`
	PhysicalHole int    `json:"physicalHole"`
	Par          int    `json:"par"`
	Distance     int    `json:"distance"`
	Nickname     string `json:"nickname"`
}

type Course struct {
	Type  CourseType `json:"type"`
	Holes []Hole     `json:"holes"`
}

// The course has a single fixed 18-basket layout; the three course types are
// slices of it.
var fullCourse = [18]struct {
	par      int
	distance int
	nickname string
}{
	{3, 78, "The Warmup"},
	{3, 102, "Creekside"},
	{4, 155, "The Tunnel"},
	{3, 85, "Short Stack"},
	{3, 119, "Widowmaker"},
	{4, 167, "The Meadow"},
	{3, 94, "Pine Alley"},
	{3, 88, "The Drop"},
	{4, 140, "Long Goodbye"},
	{3, 97, "The Turn"},
	{3, 110, "Twin Oaks"},
	{4, 172, "The Gauntlet"},
	{3, 81, "Ace Run"},
	{3, 124, "Sidehill"},
	{3, 91, "The Island"},
	{4, 150, "Uphill Battle"},
	{3, 105, "The Chute"},
	{4, 163, "Victory Lane"},
}

func courseSlice(t CourseType) (first, count int) {
	switch t {
	case CourseFront9:
		return 0, 9
	case CourseBack9:
		return 9, 9
	case CourseFull18:
		return 0, 18
	default:
		return 0, 0
	}
}

func CourseByType(t CourseType) (Course, bool) {
	first, count := courseSlice(t)
	if count == 0 {
		return Course{}, false
	}
	c := Course{Type: t, Holes: make([]Hole, count)}
	for i := range count {
		src := fullCourse[first+i]
		c.Holes[i] = Hole{
			Number:       i + 1,
			PhysicalHole: first + i + 1,
			Par:          src.par,
			Distance:     src.distance,
			Nickname:     src.nickname,
		}
	}
	return c, true
}

func (c Course) HoleCount() int {
	return len(c.Holes)
}

func (c Course) Par() int {
	par := 0
	for _, h := range c.Holes {
		par += h.Par
	}
	return par
}

// ParForHole returns the par for a 1-based hole number, or 0 when the hole is
// outside the layout.
func (c Course) ParForHole(hole int) int {
	if hole < 1 || hole > len(c.Holes) {
		return 0
	}
	return c.Holes[hole-1].Par
}

// HoleCount returns the number of holes for a course type without building
// the hole list, or 0 for an unknown type.
func HoleCount(t CourseType) int {
	_, count := courseSlice(t)
	return count
}
