package gamekeeper

import (
	"cmp"
	"slices"

	"github.com/quietfield/fairway/internal/util/sliceutil"
)

type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	IsHost      bool   `json:"isHost"`
	HolesPlayed int    `json:"holesPlayed"`
	Strokes     int    `json:"strokes"`
	// ParDelta is strokes relative to par over the holes the player has
	// actually scored, so players mid-round compare fairly.
	ParDelta int `json:"parDelta"`
}

type Leaderboard []LeaderboardEntry

// ComputeLeaderboard ranks players by score relative to par, ties broken by
// name so the order is stable between polls.
func ComputeLeaderboard(data GameFullData) Leaderboard {
	course, ok := CourseByType(data.Game.CourseType)
	if !ok {
		return nil
	}
	board := Leaderboard(sliceutil.Map(data.Players, func(p Player) LeaderboardEntry {
		return LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			IsHost:   p.IsHost,
		}
	}))
	byPlayer := make(map[string]*LeaderboardEntry, len(board))
	for i := range board {
		byPlayer[board[i].PlayerID] = &board[i]
	}
	for _, s := range data.Scores {
		entry, ok := byPlayer[s.PlayerID]
		if !ok {
			continue
		}
		par := course.ParForHole(s.Hole)
		if par == 0 {
			continue
		}
		entry.HolesPlayed++
		entry.Strokes += s.Strokes
		entry.ParDelta += s.Strokes - par
	}
	slices.SortFunc(board, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(a.ParDelta, b.ParDelta); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return board
}
