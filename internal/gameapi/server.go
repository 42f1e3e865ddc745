package gameapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"

	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/httputil"
	"github.com/quietfield/fairway/internal/util/slogx"
)

// ActorHeader carries the id of the player performing a host-gated action.
const ActorHeader = "X-Player-Id"

type ServerOptions struct {
	// Join codes are short and guessable by design, so the join endpoint is
	// throttled against brute-force scanning.
	JoinRPSLimit float64 `toml:"join-rps-limit"`
	JoinRPSBurst int     `toml:"join-rps-burst"`
}

func (o ServerOptions) Clone() ServerOptions {
	return o
}

func (o *ServerOptions) FillDefaults() {
	if o.JoinRPSLimit == 0.0 {
		o.JoinRPSLimit = 3
	}
	if o.JoinRPSBurst == 0 {
		o.JoinRPSBurst = 10
	}
}

// Server adapts the keeper to the JSON API.
type Server struct {
	keeper      *gamekeeper.Keeper
	joinLimiter *rate.Limiter
}

var _ API = (*Server)(nil)

func NewServer(keeper *gamekeeper.Keeper, o ServerOptions) *Server {
	o = o.Clone()
	o.FillDefaults()
	return &Server{
		keeper:      keeper,
		joinLimiter: rate.NewLimiter(rate.Limit(o.JoinRPSLimit), o.JoinRPSBurst),
	}
}

func errorFromKeeper(err error) *Error {
	for _, m := range []struct {
		target error
		code   ErrorCode
	}{
		{gamekeeper.ErrGameNotFound, ErrGameNotFound},
		{gamekeeper.ErrPlayerNotFound, ErrPlayerNotFound},
		{gamekeeper.ErrGameNotWaiting, ErrGameNotWaiting},
		{gamekeeper.ErrAlreadyStarted, ErrAlreadyStarted},
		{gamekeeper.ErrGameNotPlaying, ErrGameNotPlaying},
		{gamekeeper.ErrGameCompleted, ErrGameCompleted},
		{gamekeeper.ErrScoresIncomplete, ErrScoresIncomplete},
		{gamekeeper.ErrNameTaken, ErrNameTaken},
		{gamekeeper.ErrNotHost, ErrNotHost},
		{gamekeeper.ErrValidation, ErrBadRequest},
	} {
		if errors.Is(err, m.target) {
			return &Error{Code: m.code, Message: err.Error()}
		}
	}
	return nil
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if apiErr := errorFromKeeper(err); apiErr != nil {
		return apiErr
	}
	return err
}

func (s *Server) CreateGame(ctx context.Context, req *CreateGameRequest) (*CreateGameResponse, error) {
	data, err := s.keeper.CreateGame(ctx, req.HostName, req.CourseType, req.Title)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &CreateGameResponse{Game: data.Game, Player: data.Players[0]}, nil
}

func (s *Server) JoinGame(ctx context.Context, req *JoinGameRequest) (*JoinGameResponse, error) {
	if !s.joinLimiter.Allow() {
		return nil, &Error{Code: ErrRateLimited, Message: "too many join attempts, slow down"}
	}
	game, player, err := s.keeper.JoinGame(ctx, req.Code, req.Name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &JoinGameResponse{Game: game, Player: player}, nil
}

func (s *Server) GameState(ctx context.Context, req *GameStateRequest) (*GameStateResponse, error) {
	data, board, err := s.keeper.GameState(ctx, req.GameID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &GameStateResponse{
		Game:        data.Game,
		Players:     data.Players,
		Scores:      data.Scores,
		Leaderboard: board,
	}, nil
}

func (s *Server) AddPlayer(ctx context.Context, req *AddPlayerRequest) (*AddPlayerResponse, error) {
	player, err := s.keeper.AddLocalPlayer(ctx, req.GameID, req.ActorID, req.Name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &AddPlayerResponse{Player: player}, nil
}

func (s *Server) StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error) {
	if err := s.keeper.StartGame(ctx, req.GameID, req.ActorID); err != nil {
		return nil, wrapErr(err)
	}
	return &StartGameResponse{Success: true}, nil
}

func (s *Server) EnterScore(ctx context.Context, req *EnterScoreRequest) (*EnterScoreResponse, error) {
	score, err := s.keeper.EnterScore(ctx, req.GameID, req.PlayerID, req.Hole, req.Strokes)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &EnterScoreResponse{Score: score}, nil
}

func (s *Server) NextHole(ctx context.Context, req *NextHoleRequest) (*NextHoleResponse, error) {
	res, err := s.keeper.AdvanceHole(ctx, req.GameID, req.ActorID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &NextHoleResponse{NextHole: res.NextHole, GameCompleted: res.GameCompleted}, nil
}

func (s *Server) CancelGame(ctx context.Context, req *CancelGameRequest) (*CancelGameResponse, error) {
	if err := s.keeper.CancelGame(ctx, req.GameID, req.ActorID); err != nil {
		return nil, wrapErr(err)
	}
	return &CancelGameResponse{Message: "game canceled"}, nil
}

func (s *Server) Cleanup(ctx context.Context, req *CleanupRequest) (*CleanupResponse, error) {
	n, err := s.keeper.CleanupNow(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &CleanupResponse{DeletedGames: n}, nil
}

func (s *Server) Course(ctx context.Context, req *CourseRequest) (*CourseResponse, error) {
	course, ok := gamekeeper.CourseByType(req.CourseType)
	if !ok {
		return nil, &Error{Code: ErrBadRequest, Message: fmt.Sprintf("unknown course type %q", req.CourseType)}
	}
	return &CourseResponse{Course: course}, nil
}

func (s *Server) CourseSetting(ctx context.Context, req *CourseSettingRequest) (*CourseSettingResponse, error) {
	setting, err := s.keeper.CourseSetting(ctx, req.CourseType)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &CourseSettingResponse{Setting: setting}, nil
}

func (s *Server) PutCourseSetting(ctx context.Context, req *PutCourseSettingRequest) (*CourseSettingResponse, error) {
	setting, err := s.keeper.SetCourseSetting(ctx, req.CourseType, req.SatelliteImagePath)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &CourseSettingResponse{Setting: setting}, nil
}

func (s *Server) AddPhoto(ctx context.Context, req *AddPhotoRequest) (*AddPhotoResponse, error) {
	photo, err := s.keeper.AddPhoto(ctx, gamekeeper.Photo{
		GameID:      req.GameID,
		PlayerID:    req.PlayerID,
		Hole:        req.Hole,
		Caption:     req.Caption,
		ContentType: req.ContentType,
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &AddPhotoResponse{Photo: photo}, nil
}

func (s *Server) ListPhotos(ctx context.Context, req *ListPhotosRequest) (*ListPhotosResponse, error) {
	photos, err := s.keeper.Photos(ctx, req.GameID)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &ListPhotosResponse{Photos: photos}, nil
}

func statusFromCode(code ErrorCode) int {
	switch code {
	case ErrGameNotFound, ErrPlayerNotFound:
		return http.StatusNotFound
	case ErrGameNotWaiting, ErrAlreadyStarted, ErrGameNotPlaying,
		ErrGameCompleted, ErrScoresIncomplete, ErrNameTaken:
		return http.StatusConflict
	case ErrNotHost:
		return http.StatusForbidden
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

func makeHandler[Req any, Rsp any](
	log *slog.Logger,
	fill func(hReq *http.Request, req *Req),
	fn func(context.Context, *Req) (*Rsp, error),
) http.Handler {
	h := func(w http.ResponseWriter, hReq *http.Request) {
		hReq = httputil.WrapRequest(hReq)
		log := log.With(
			slog.String("rid", httputil.ExtractReqID(hReq.Context())),
			slog.String("addr", hReq.RemoteAddr),
		)

		if err := func() error {
			log.Info("handle api request")

			req := new(Req)
			reqBytes, err := io.ReadAll(hReq.Body)
			if err != nil {
				log.Info("error reading request", slogx.Err(err))
				return nil
			}
			if len(reqBytes) != 0 {
				if err := json.Unmarshal(reqBytes, req); err != nil {
					log.Warn("error unmarshalling json", slogx.Err(err))
					return &Error{Code: ErrBadRequest, Message: "unmarshal json request"}
				}
			}
			if fill != nil {
				fill(hReq, req)
			}

			rsp, err := fn(hReq.Context(), req)
			if err != nil {
				if apiErr := (*Error)(nil); errors.As(err, &apiErr) {
					return err
				}
				log.Warn("handler failed", slogx.Err(err))
				return httputil.MakeError(http.StatusInternalServerError, "internal server error")
			}

			rspBytes, err := json.Marshal(rsp)
			if err != nil {
				log.Warn("error marshalling json", slogx.Err(err))
				return httputil.MakeError(http.StatusInternalServerError, "marshal json response")
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(rspBytes); err != nil {
				log.Info("error writing response", slogx.Err(err))
			}
			return nil
		}(); err != nil {
			var apiError *Error
			if errors.As(err, &apiError) {
				data, err := json.Marshal(apiError)
				if err != nil {
					log.Warn("error marshalling error json", slogx.Err(err))
					if err := httputil.WriteErrorResponse(fmt.Errorf("marshal error json"), w); err != nil {
						log.Info("error writing error response", slogx.Err(err))
					}
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(statusFromCode(apiError.Code))
				if _, err := w.Write(data); err != nil {
					log.Info("error writing error response", slogx.Err(err))
				}
				return
			}
			if err := httputil.WriteErrorResponse(err, w); err != nil {
				log.Info("error writing error response", slogx.Err(err))
			}
		}
	}
	return gziphandler.GzipHandler(http.HandlerFunc(h))
}

func fillGameActor[Req any](set func(req *Req, gameID, actorID string)) func(*http.Request, *Req) {
	return func(hReq *http.Request, req *Req) {
		set(req, hReq.PathValue("id"), hReq.Header.Get(ActorHeader))
	}
}

// RegisterServer mounts the API under prefix (e.g. "/api").
func RegisterServer(s API, mux *http.ServeMux, prefix string, log *slog.Logger) {
	withMethod := func(method string) *slog.Logger {
		return log.With(slog.String("method", method))
	}

	mux.Handle("POST "+prefix+"/games",
		makeHandler(withMethod("createGame"), nil, s.CreateGame))
	mux.Handle("POST "+prefix+"/games/join",
		makeHandler(withMethod("joinGame"), nil, s.JoinGame))
	mux.Handle("POST "+prefix+"/games/cleanup",
		makeHandler(withMethod("cleanup"), nil, s.Cleanup))
	mux.Handle("GET "+prefix+"/games/{id}",
		makeHandler(withMethod("gameState"), func(hReq *http.Request, req *GameStateRequest) {
			req.GameID = hReq.PathValue("id")
		}, s.GameState))
	mux.Handle("POST "+prefix+"/games/{id}/players",
		makeHandler(withMethod("addPlayer"), fillGameActor(func(req *AddPlayerRequest, gameID, actorID string) {
			req.GameID, req.ActorID = gameID, actorID
		}), s.AddPlayer))
	mux.Handle("PATCH "+prefix+"/games/{id}/start",
		makeHandler(withMethod("startGame"), fillGameActor(func(req *StartGameRequest, gameID, actorID string) {
			req.GameID, req.ActorID = gameID, actorID
		}), s.StartGame))
	mux.Handle("POST "+prefix+"/games/{id}/next-hole",
		makeHandler(withMethod("nextHole"), fillGameActor(func(req *NextHoleRequest, gameID, actorID string) {
			req.GameID, req.ActorID = gameID, actorID
		}), s.NextHole))
	mux.Handle("DELETE "+prefix+"/games/{id}/cancel",
		makeHandler(withMethod("cancelGame"), fillGameActor(func(req *CancelGameRequest, gameID, actorID string) {
			req.GameID, req.ActorID = gameID, actorID
		}), s.CancelGame))
	mux.Handle("POST "+prefix+"/scores",
		makeHandler(withMethod("enterScore"), nil, s.EnterScore))
	mux.Handle("GET "+prefix+"/courses/{courseType}",
		makeHandler(withMethod("course"), func(hReq *http.Request, req *CourseRequest) {
			req.CourseType = gamekeeper.CourseType(hReq.PathValue("courseType"))
		}, s.Course))
	mux.Handle("GET "+prefix+"/courses/{courseType}/setting",
		makeHandler(withMethod("courseSetting"), func(hReq *http.Request, req *CourseSettingRequest) {
			req.CourseType = gamekeeper.CourseType(hReq.PathValue("courseType"))
		}, s.CourseSetting))
	mux.Handle("PUT "+prefix+"/courses/{courseType}/setting",
		makeHandler(withMethod("putCourseSetting"), func(hReq *http.Request, req *PutCourseSettingRequest) {
			req.CourseType = gamekeeper.CourseType(hReq.PathValue("courseType"))
		}, s.PutCourseSetting))
	mux.Handle("POST "+prefix+"/games/{id}/photos",
		makeHandler(withMethod("addPhoto"), func(hReq *http.Request, req *AddPhotoRequest) {
			req.GameID = hReq.PathValue("id")
		}, s.AddPhoto))
	mux.Handle("GET "+prefix+"/games/{id}/photos",
		makeHandler(withMethod("listPhotos"), func(hReq *http.Request, req *ListPhotosRequest) {
			req.GameID = hReq.PathValue("id")
		}, s.ListPhotos))
}
