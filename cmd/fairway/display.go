package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/human"
	"github.com/quietfield/fairway/internal/util/style"
)

func formatDelta(delta int) string {
	switch {
	case delta == 0:
		return "E"
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	default:
		return fmt.Sprintf("%d", delta)
	}
}

// styledDelta colors the par delta on a green-to-red gradient. Birdie pace
// stays green, double-bogey pace and worse saturates to red.
func styledDelta(delta int) string {
	text := formatDelta(delta)
	if !style.StdoutSupportsColor() {
		return text
	}
	t := (float64(delta) + 5.0) / 15.0
	t = max(0.0, min(1.0, t))
	r, g, b := colorful.Hsv(120.0*(1.0-t), 0.85, 0.95).RGB255()
	return fmt.Sprintf("\033[1;38;2;%d;%d;%dm%s%s", r, g, b, text, style.S())
}

func formatStatus(g *gamekeeper.Game) string {
	switch g.Status {
	case gamekeeper.StatusWaiting:
		return style.WithS("waiting for players", 33)
	case gamekeeper.StatusPlaying:
		holes := gamekeeper.HoleCount(g.CourseType)
		return style.WithS(fmt.Sprintf("hole %v/%v", g.CurrentHole, holes), 32, 1)
	case gamekeeper.StatusCompleted:
		return style.WithS("completed", 1)
	default:
		return string(g.Status)
	}
}

func renderState(w io.Writer, rsp *gameapi.GameStateResponse, photoCount int) {
	g := &rsp.Game
	fmt.Fprintf(w, "%v  %v\n", style.WithS(g.Title, 1), formatStatus(g))
	fmt.Fprintf(w, "code %v, %v, created %v",
		style.WithS(g.Code, 36),
		g.CourseType,
		human.TimeFromBase(time.Now(), g.CreatedAt.UTC()),
	)
	if photoCount > 0 {
		fmt.Fprintf(w, ", %v photo(s)", photoCount)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	nameWidth := 4
	for _, e := range rsp.Leaderboard {
		nameWidth = max(nameWidth, len(e.Name))
	}
	fmt.Fprintf(w, "     %-*v  %5v  %7v  %4v\n",
		nameWidth, "name", "thru", "strokes", "par")
	for i, e := range rsp.Leaderboard {
		marker := " "
		if e.IsHost {
			marker = style.WithS("*", 33)
		}
		fmt.Fprintf(w, "%3v. %-*v%v %5v  %7v  %4v\n",
			i+1, nameWidth, e.Name, marker, e.HolesPlayed, e.Strokes, styledDelta(e.ParDelta))
	}
}

func renderCourse(w io.Writer, c *gamekeeper.Course) {
	fmt.Fprintf(w, "%v: %v holes, par %v\n\n",
		style.WithS(string(c.Type), 1), c.HoleCount(), c.Par())
	for _, h := range c.Holes {
		nick := h.Nickname
		if nick == "" {
			nick = "-"
		}
		fmt.Fprintf(w, "%3v. par %v, %3vm  %v\n", h.Number, h.Par, h.Distance, nick)
	}
}

// eraseLines moves the cursor up and clears the previous frame so the watch
// view redraws in place.
func eraseLines(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	var b strings.Builder
	_ = b.WriteByte('\r')
	for range n {
		_, _ = b.WriteString("\033[A\033[2K")
	}
	_, _ = io.WriteString(w, b.String())
}
