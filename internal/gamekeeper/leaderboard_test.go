package gamekeeper

import (
	"slices"
	"testing"
)

func TestComputeLeaderboard(t *testing.T) {
	course, _ := CourseByType(CourseFront9)
	data := GameFullData{
		Game: Game{ID: "g", CourseType: CourseFront9, Status: StatusPlaying, CurrentHole: 3},
		Players: []Player{
			{ID: "p1", GameID: "g", Name: "Alice", IsHost: true},
			{ID: "p2", GameID: "g", Name: "Bob"},
			{ID: "p3", GameID: "g", Name: "Carol"},
		},
		Scores: []Score{
			// Alice: par, birdie.
			{GameID: "g", PlayerID: "p1", Hole: 1, Strokes: course.ParForHole(1)},
			{GameID: "g", PlayerID: "p1", Hole: 2, Strokes: course.ParForHole(2) - 1},
			// Bob: bogey on hole 1 only.
			{GameID: "g", PlayerID: "p2", Hole: 1, Strokes: course.ParForHole(1) + 1},
			// Carol: no scores yet.
		},
	}

	board := ComputeLeaderboard(data)
	if len(board) != 3 {
		t.Fatalf("board size = %v, want 3", len(board))
	}

	if board[0].PlayerID != "p1" || board[0].ParDelta != -1 || board[0].HolesPlayed != 2 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	if !board[0].IsHost {
		t.Fatalf("leader must carry host flag")
	}
	// Carol at even par sorts before Bob at +1.
	if board[1].PlayerID != "p3" || board[1].ParDelta != 0 || board[1].HolesPlayed != 0 {
		t.Fatalf("unexpected second place: %+v", board[1])
	}
	if board[2].PlayerID != "p2" || board[2].ParDelta != 1 {
		t.Fatalf("unexpected third place: %+v", board[2])
	}

	wantStrokes := course.ParForHole(1) + course.ParForHole(2) - 1
	if board[0].Strokes != wantStrokes {
		t.Fatalf("leader strokes = %v, want %v", board[0].Strokes, wantStrokes)
	}
}

func TestComputeLeaderboardTieBreak(t *testing.T) {
	data := GameFullData{
		Game: Game{ID: "g", CourseType: CourseFront9, Status: StatusPlaying, CurrentHole: 1},
		Players: []Player{
			{ID: "p2", GameID: "g", Name: "Zoe"},
			{ID: "p1", GameID: "g", Name: "Amy"},
		},
	}
	board := ComputeLeaderboard(data)
	names := []string{board[0].Name, board[1].Name}
	if !slices.Equal(names, []string{"Amy", "Zoe"}) {
		t.Fatalf("ties must break by name, got %v", names)
	}
}

func TestComputeLeaderboardUnknownCourse(t *testing.T) {
	data := GameFullData{Game: Game{ID: "g", CourseType: "minigolf"}}
	if board := ComputeLeaderboard(data); board != nil {
		t.Fatalf("expected nil board, got %v", board)
	}
}

func TestGameFullDataClone(t *testing.T) {
	data := GameFullData{
		Game:    Game{ID: "g"},
		Players: []Player{{ID: "p1"}},
		Scores:  []Score{{ID: "s1", Strokes: 3}},
	}
	cloned := data.Clone()
	cloned.Players[0].Name = "changed"
	cloned.Scores[0].Strokes = 9
	if data.Players[0].Name != "" || data.Scores[0].Strokes != 3 {
		t.Fatalf("clone must not share slices with the original")
	}
}
