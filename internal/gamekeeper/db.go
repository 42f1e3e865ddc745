package gamekeeper

import (
	"context"
	"errors"

	"github.com/quietfield/fairway/internal/util/timeutil"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrCodeTaken        = errors.New("join code already taken")
	ErrGameNotWaiting   = errors.New("game is no longer accepting players")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrGameNotPlaying   = errors.New("game is not in play")
	ErrGameCompleted    = errors.New("game already completed")
	ErrScoresIncomplete = errors.New("not all players have entered scores for the current hole")
	ErrNameTaken        = errors.New("player name already taken in this game")
	ErrNotHost          = errors.New("only the host may do this")
	ErrValidation       = errors.New("invalid input")
)

// DB is the persistence surface the keeper needs. Mutations that guard an
// invariant (duplicate names, the advance-hole gate) must check it inside a
// transaction and report violations through the sentinel errors above.
type DB interface {
	// CreateGame stores a game together with its host player. Returns
	// ErrCodeTaken when the join code collides with a live game.
	CreateGame(ctx context.Context, game Game, host Player) error
	GetGame(ctx context.Context, gameID string) (Game, error)
	GetGameByCode(ctx context.Context, code string) (Game, error)
	GetGameFull(ctx context.Context, gameID string) (GameFullData, error)
	GetPlayer(ctx context.Context, playerID string) (Player, error)

	// AddPlayer stores a player after re-checking, in the same transaction,
	// that the game is still waiting and the name is free (case-insensitive).
	AddPlayer(ctx context.Context, player Player) error

	// StartGame flips waiting to playing. ErrAlreadyStarted if the game has
	// left the waiting state.
	StartGame(ctx context.Context, gameID string) error

	// UpsertScore inserts or overwrites the score row for (player, hole) and
	// returns the stored row.
	UpsertScore(ctx context.Context, score Score) (Score, error)

	// AdvanceHole re-derives the all-players-scored gate at transition time
	// and either increments the hole or completes the game.
	AdvanceHole(ctx context.Context, gameID string) (AdvanceResult, error)

	// DeleteGame hard-deletes the game and its players, scores and photos.
	// ErrGameCompleted when the game has already finished.
	DeleteGame(ctx context.Context, gameID string) error

	// DeleteStaleGames removes every non-completed game created before the
	// cutoff, cascading like DeleteGame, and returns how many games went.
	DeleteStaleGames(ctx context.Context, cutoff timeutil.UTCTime) (int64, error)

	CreatePhoto(ctx context.Context, photo Photo) error
	ListPhotos(ctx context.Context, gameID string) ([]Photo, error)

	GetCourseSetting(ctx context.Context, courseType CourseType) (CourseSetting, bool, error)
	PutCourseSetting(ctx context.Context, setting CourseSetting) error
}
