package gameapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quietfield/fairway/internal/database"
	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/idgen"
	"github.com/quietfield/fairway/internal/util/slogx"
	"github.com/quietfield/fairway/internal/util/timeutil"
)

type testEnv struct {
	srv *httptest.Server
	db  *database.DB
}

func newTestEnv(t *testing.T, o ServerOptions) *testEnv {
	t.Helper()
	log := slogx.DiscardLogger()
	db, err := database.New(log, database.Options{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(db.Close)
	keeper := gamekeeper.New(log, db, gamekeeper.Options{})
	t.Cleanup(keeper.Close)

	mux := http.NewServeMux()
	RegisterServer(NewServer(keeper, o), mux, "/api", log)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: db}
}

func (e *testEnv) clientFor(playerID string) API {
	return NewClient(ClientOptions{
		Endpoint: e.srv.URL + "/api",
		PlayerID: playerID,
	}, e.srv.Client())
}

func TestFullRound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	anon := env.clientFor("")

	created, err := anon.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFront9,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	game, hostPlayer := created.Game, created.Player
	if game.Status != gamekeeper.StatusWaiting || game.CurrentHole != 1 {
		t.Fatalf("unexpected new game: %+v", game)
	}
	if !hostPlayer.IsHost {
		t.Fatalf("creator must be host: %+v", hostPlayer)
	}
	if game.Title == "" {
		t.Fatalf("empty title must be auto-generated")
	}

	// Codes are case-insensitive on join.
	joined, err := anon.JoinGame(ctx, &JoinGameRequest{
		Code: strings.ToLower(game.Code),
		Name: "Bob",
	})
	if err != nil {
		t.Fatalf("join game: %v", err)
	}
	guestPlayer := joined.Player

	host := env.clientFor(hostPlayer.ID)
	guest := env.clientFor(guestPlayer.ID)

	// Only the host may start.
	if _, err := guest.StartGame(ctx, &StartGameRequest{GameID: game.ID}); !MatchesError(err, ErrNotHost) {
		t.Fatalf("guest start: want ErrNotHost, got %v", err)
	}
	if _, err := host.StartGame(ctx, &StartGameRequest{GameID: game.ID}); err != nil {
		t.Fatalf("host start: %v", err)
	}
	if _, err := host.StartGame(ctx, &StartGameRequest{GameID: game.ID}); !MatchesError(err, ErrAlreadyStarted) {
		t.Fatalf("double start: want ErrAlreadyStarted, got %v", err)
	}

	// Cannot advance until everyone has a score on the current hole.
	if _, err := host.EnterScore(ctx, &EnterScoreRequest{
		GameID: game.ID, PlayerID: hostPlayer.ID, Hole: 1, Strokes: 3,
	}); err != nil {
		t.Fatalf("host score: %v", err)
	}
	if _, err := host.NextHole(ctx, &NextHoleRequest{GameID: game.ID}); !MatchesError(err, ErrScoresIncomplete) {
		t.Fatalf("early advance: want ErrScoresIncomplete, got %v", err)
	}
	if _, err := guest.EnterScore(ctx, &EnterScoreRequest{
		GameID: game.ID, PlayerID: guestPlayer.ID, Hole: 1, Strokes: 5,
	}); err != nil {
		t.Fatalf("guest score: %v", err)
	}
	if _, err := guest.NextHole(ctx, &NextHoleRequest{GameID: game.ID}); !MatchesError(err, ErrNotHost) {
		t.Fatalf("guest advance: want ErrNotHost, got %v", err)
	}

	adv, err := host.NextHole(ctx, &NextHoleRequest{GameID: game.ID})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if adv.NextHole != 2 || adv.GameCompleted {
		t.Fatalf("unexpected advance: %+v", adv)
	}

	for hole := 2; hole <= 9; hole++ {
		for _, p := range []gamekeeper.Player{hostPlayer, guestPlayer} {
			if _, err := host.EnterScore(ctx, &EnterScoreRequest{
				GameID: game.ID, PlayerID: p.ID, Hole: hole, Strokes: 3,
			}); err != nil {
				t.Fatalf("score hole %v: %v", hole, err)
			}
		}
		adv, err = host.NextHole(ctx, &NextHoleRequest{GameID: game.ID})
		if err != nil {
			t.Fatalf("advance hole %v: %v", hole, err)
		}
	}
	if !adv.GameCompleted {
		t.Fatalf("game must complete after the last hole: %+v", adv)
	}

	state, err := anon.GameState(ctx, &GameStateRequest{GameID: game.ID})
	if err != nil {
		t.Fatalf("game state: %v", err)
	}
	if state.Game.Status != gamekeeper.StatusCompleted {
		t.Fatalf("status = %v, want completed", state.Game.Status)
	}
	if len(state.Leaderboard) != 2 {
		t.Fatalf("leaderboard size = %v", len(state.Leaderboard))
	}
	// Bob took two extra strokes on hole 1.
	if state.Leaderboard[0].Name != "Alice" || state.Leaderboard[1].Name != "Bob" {
		t.Fatalf("unexpected leaderboard order: %+v", state.Leaderboard)
	}
	if state.Leaderboard[1].ParDelta != state.Leaderboard[0].ParDelta+2 {
		t.Fatalf("unexpected deltas: %+v", state.Leaderboard)
	}

	// Completed games stay on the books.
	if _, err := host.CancelGame(ctx, &CancelGameRequest{GameID: game.ID}); !MatchesError(err, ErrGameCompleted) {
		t.Fatalf("cancel completed: want ErrGameCompleted, got %v", err)
	}

	// Scoring after completion is rejected.
	if _, err := host.EnterScore(ctx, &EnterScoreRequest{
		GameID: game.ID, PlayerID: hostPlayer.ID, Hole: 9, Strokes: 4,
	}); !MatchesError(err, ErrGameNotPlaying) {
		t.Fatalf("score after completion: want ErrGameNotPlaying, got %v", err)
	}
}

func TestJoinErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	c := env.clientFor("")

	created, err := c.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFull18,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if _, err := c.JoinGame(ctx, &JoinGameRequest{Code: "ZZZZZZ", Name: "Bob"}); !MatchesError(err, ErrGameNotFound) {
		t.Fatalf("unknown code: want ErrGameNotFound, got %v", err)
	}
	// Malformed codes fail the same way as unknown ones.
	if _, err := c.JoinGame(ctx, &JoinGameRequest{Code: "O0LI1!", Name: "Bob"}); !MatchesError(err, ErrGameNotFound) {
		t.Fatalf("malformed code: want ErrGameNotFound, got %v", err)
	}
	if _, err := c.JoinGame(ctx, &JoinGameRequest{Code: created.Game.Code, Name: "alice"}); !MatchesError(err, ErrNameTaken) {
		t.Fatalf("duplicate name: want ErrNameTaken, got %v", err)
	}
	if _, err := c.JoinGame(ctx, &JoinGameRequest{Code: created.Game.Code, Name: ""}); !MatchesError(err, ErrBadRequest) {
		t.Fatalf("empty name: want ErrBadRequest, got %v", err)
	}
}

func TestJoinRateLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{JoinRPSLimit: 0.01, JoinRPSBurst: 1})
	c := env.clientFor("")

	// The first attempt eats the whole burst, the second must bounce.
	_, _ = c.JoinGame(ctx, &JoinGameRequest{Code: "ABC234", Name: "Bob"})
	if _, err := c.JoinGame(ctx, &JoinGameRequest{Code: "ABC234", Name: "Bob"}); !MatchesError(err, ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
}

func TestAddLocalPlayer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	anon := env.clientFor("")

	created, err := anon.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFront9,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	host := env.clientFor(created.Player.ID)

	added, err := host.AddPlayer(ctx, &AddPlayerRequest{GameID: created.Game.ID, Name: "Kid"})
	if err != nil {
		t.Fatalf("add local player: %v", err)
	}
	if !added.Player.IsLocal || added.Player.IsHost {
		t.Fatalf("unexpected local player: %+v", added.Player)
	}

	joined, err := anon.JoinGame(ctx, &JoinGameRequest{Code: created.Game.Code, Name: "Bob"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	guest := env.clientFor(joined.Player.ID)
	if _, err := guest.AddPlayer(ctx, &AddPlayerRequest{GameID: created.Game.ID, Name: "Tag"}); !MatchesError(err, ErrNotHost) {
		t.Fatalf("guest add: want ErrNotHost, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	c := env.clientFor("")

	if _, err := c.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: "minigolf",
	}); !MatchesError(err, ErrBadRequest) {
		t.Fatalf("bad course: want ErrBadRequest, got %v", err)
	}

	created, err := c.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFront9,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	host := env.clientFor(created.Player.ID)
	if _, err := host.StartGame(ctx, &StartGameRequest{GameID: created.Game.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, req := range []*EnterScoreRequest{
		{GameID: created.Game.ID, PlayerID: created.Player.ID, Hole: 1, Strokes: 16},
		{GameID: created.Game.ID, PlayerID: created.Player.ID, Hole: 1, Strokes: -1},
		{GameID: created.Game.ID, PlayerID: created.Player.ID, Hole: 10, Strokes: 3},
	} {
		if _, err := host.EnterScore(ctx, req); !MatchesError(err, ErrBadRequest) {
			t.Fatalf("score %+v: want ErrBadRequest, got %v", req, err)
		}
	}

	if _, err := host.EnterScore(ctx, &EnterScoreRequest{
		GameID: created.Game.ID, PlayerID: "no-such-player", Hole: 1, Strokes: 3,
	}); !MatchesError(err, ErrPlayerNotFound) {
		t.Fatalf("unknown player: want ErrPlayerNotFound, got %v", err)
	}
}

func TestPhotos(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	c := env.clientFor("")

	created, err := c.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFront9,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	hole := 1
	added, err := c.AddPhoto(ctx, &AddPhotoRequest{
		GameID:      created.Game.ID,
		PlayerID:    &created.Player.ID,
		Hole:        &hole,
		Caption:     "tee shot",
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if added.Photo.ID == "" || added.Photo.Caption != "tee shot" {
		t.Fatalf("unexpected photo: %+v", added.Photo)
	}

	other := "no-such-player"
	if _, err := c.AddPhoto(ctx, &AddPhotoRequest{
		GameID:   created.Game.ID,
		PlayerID: &other,
		Caption:  "ghost",
	}); !MatchesError(err, ErrPlayerNotFound) {
		t.Fatalf("unknown player photo: want ErrPlayerNotFound, got %v", err)
	}

	listed, err := c.ListPhotos(ctx, &ListPhotosRequest{GameID: created.Game.ID})
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(listed.Photos) != 1 || listed.Photos[0].ID != added.Photo.ID {
		t.Fatalf("unexpected photo list: %+v", listed.Photos)
	}
}

func TestCourseEndpoints(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	c := env.clientFor("")

	course, err := c.Course(ctx, &CourseRequest{CourseType: gamekeeper.CourseBack9})
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if course.Course.HoleCount() != 9 || course.Course.Holes[0].PhysicalHole != 10 {
		t.Fatalf("unexpected course: %+v", course.Course)
	}
	if _, err := c.Course(ctx, &CourseRequest{CourseType: "minigolf"}); !MatchesError(err, ErrBadRequest) {
		t.Fatalf("unknown course: want ErrBadRequest, got %v", err)
	}

	put, err := c.PutCourseSetting(ctx, &PutCourseSettingRequest{
		CourseType:         gamekeeper.CourseBack9,
		SatelliteImagePath: "/img/back9.png",
	})
	if err != nil {
		t.Fatalf("put setting: %v", err)
	}
	if put.Setting.SatelliteImagePath != "/img/back9.png" {
		t.Fatalf("unexpected setting: %+v", put.Setting)
	}
	got, err := c.CourseSetting(ctx, &CourseSettingRequest{CourseType: gamekeeper.CourseBack9})
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if got.Setting.SatelliteImagePath != "/img/back9.png" {
		t.Fatalf("setting did not round-trip: %+v", got.Setting)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ServerOptions{})
	c := env.clientFor("")

	old := timeutil.NowUTC().Add(-6 * time.Hour)
	stale := gamekeeper.Game{
		ID:          idgen.ID(),
		Code:        "ABC234",
		Title:       "abandoned",
		HostName:    "Ghost",
		CourseType:  gamekeeper.CourseFront9,
		CurrentHole: 1,
		Status:      gamekeeper.StatusWaiting,
		CreatedAt:   old,
	}
	host := gamekeeper.Player{
		ID:        idgen.ID(),
		GameID:    stale.ID,
		Name:      "Ghost",
		IsHost:    true,
		CreatedAt: old,
	}
	if err := env.db.CreateGame(ctx, stale, host); err != nil {
		t.Fatalf("seed stale game: %v", err)
	}

	fresh, err := c.CreateGame(ctx, &CreateGameRequest{
		HostName:   "Alice",
		CourseType: gamekeeper.CourseFront9,
	})
	if err != nil {
		t.Fatalf("create fresh game: %v", err)
	}

	rsp, err := c.Cleanup(ctx, &CleanupRequest{})
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if rsp.DeletedGames != 1 {
		t.Fatalf("deleted = %v, want 1", rsp.DeletedGames)
	}
	if _, err := c.GameState(ctx, &GameStateRequest{GameID: stale.ID}); !MatchesError(err, ErrGameNotFound) {
		t.Fatalf("stale game survived: %v", err)
	}
	if _, err := c.GameState(ctx, &GameStateRequest{GameID: fresh.Game.ID}); err != nil {
		t.Fatalf("fresh game deleted: %v", err)
	}
}
