package gameapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/quietfield/fairway/internal/gamekeeper"
)

type ErrorCode int

const (
	ErrInvalidCode ErrorCode = iota
	ErrBadRequest
	ErrGameNotFound
	ErrPlayerNotFound
	ErrGameNotWaiting
	ErrAlreadyStarted
	ErrGameNotPlaying
	ErrGameCompleted
	ErrScoresIncomplete
	ErrNameTaken
	ErrNotHost
	ErrRateLimited
)

func MatchesError(err error, code ErrorCode) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("game error %v: %v", e.Code, e.Message)
}

var _ error = (*Error)(nil)

type CreateGameRequest struct {
	HostName   string                `json:"hostName"`
	CourseType gamekeeper.CourseType `json:"courseType"`
	Title      string                `json:"title,omitempty"`
}

type CreateGameResponse struct {
	Game   gamekeeper.Game   `json:"game"`
	Player gamekeeper.Player `json:"player"`
}

type JoinGameRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type JoinGameResponse struct {
	Game   gamekeeper.Game   `json:"game"`
	Player gamekeeper.Player `json:"player"`
}

type GameStateRequest struct {
	GameID string `json:"-"`
}

// GameStateResponse is the payload the client poller consumes every few
// seconds to re-render the whole game view.
type GameStateResponse struct {
	Game        gamekeeper.Game        `json:"game"`
	Players     []gamekeeper.Player    `json:"players"`
	Scores      []gamekeeper.Score     `json:"scores"`
	Leaderboard gamekeeper.Leaderboard `json:"leaderboard"`
}

type AddPlayerRequest struct {
	GameID  string `json:"-"`
	ActorID string `json:"-"`
	Name    string `json:"name"`
}

type AddPlayerResponse struct {
	Player gamekeeper.Player `json:"player"`
}

type StartGameRequest struct {
	GameID  string `json:"-"`
	ActorID string `json:"-"`
}

type StartGameResponse struct {
	Success bool `json:"success"`
}

type EnterScoreRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Hole     int    `json:"hole"`
	Strokes  int    `json:"strokes"`
}

type EnterScoreResponse struct {
	Score gamekeeper.Score `json:"score"`
}

type NextHoleRequest struct {
	GameID  string `json:"-"`
	ActorID string `json:"-"`
}

type NextHoleResponse struct {
	NextHole      int  `json:"nextHole"`
	GameCompleted bool `json:"gameCompleted,omitempty"`
}

type CancelGameRequest struct {
	GameID  string `json:"-"`
	ActorID string `json:"-"`
}

type CancelGameResponse struct {
	Message string `json:"message"`
}

type CleanupRequest struct{}

type CleanupResponse struct {
	DeletedGames int64 `json:"deletedGames"`
}

type CourseRequest struct {
	CourseType gamekeeper.CourseType `json:"-"`
}

type CourseResponse struct {
	Course gamekeeper.Course `json:"course"`
}

type CourseSettingRequest struct {
	CourseType gamekeeper.CourseType `json:"-"`
}

type CourseSettingResponse struct {
	Setting gamekeeper.CourseSetting `json:"setting"`
}

type PutCourseSettingRequest struct {
	CourseType         gamekeeper.CourseType `json:"-"`
	SatelliteImagePath string                `json:"satelliteImagePath"`
}

type AddPhotoRequest struct {
	GameID      string  `json:"-"`
	PlayerID    *string `json:"playerId,omitempty"`
	Hole        *int    `json:"hole,omitempty"`
	Caption     string  `json:"caption"`
	ContentType string  `json:"contentType"`
}

type AddPhotoResponse struct {
	Photo gamekeeper.Photo `json:"photo"`
}

type ListPhotosRequest struct {
	GameID string `json:"-"`
}

type ListPhotosResponse struct {
	Photos []gamekeeper.Photo `json:"photos"`
}

type API interface {
	CreateGame(ctx context.Context, req *CreateGameRequest) (*CreateGameResponse, error)
	JoinGame(ctx context.Context, req *JoinGameRequest) (*JoinGameResponse, error)
	GameState(ctx context.Context, req *GameStateRequest) (*GameStateResponse, error)
	AddPlayer(ctx context.Context, req *AddPlayerRequest) (*AddPlayerResponse, error)
	StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error)
	EnterScore(ctx context.Context, req *EnterScoreRequest) (*EnterScoreResponse, error)
	NextHole(ctx context.Context, req *NextHoleRequest) (*NextHoleResponse, error)
	CancelGame(ctx context.Context, req *CancelGameRequest) (*CancelGameResponse, error)
	Cleanup(ctx context.Context, req *CleanupRequest) (*CleanupResponse, error)
	Course(ctx context.Context, req *CourseRequest) (*CourseResponse, error)
	CourseSetting(ctx context.Context, req *CourseSettingRequest) (*CourseSettingResponse, error)
	PutCourseSetting(ctx context.Context, req *PutCourseSettingRequest) (*CourseSettingResponse, error)
	AddPhoto(ctx context.Context, req *AddPhotoRequest) (*AddPhotoResponse, error)
	ListPhotos(ctx context.Context, req *ListPhotosRequest) (*ListPhotosResponse, error)
}
