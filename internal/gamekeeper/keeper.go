package gamekeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"golang.org/x/sync/singleflight"

	"github.com/quietfield/fairway/internal/util/idgen"
	"github.com/quietfield/fairway/internal/util/slogx"
	"github.com/quietfield/fairway/internal/util/timeutil"
)

type Options struct {
	// JanitorInterval is how often the stale-game sweep runs. The interval
	// only bounds how long an abandoned game lingers; correctness does not
	// depend on it.
	JanitorInterval time.Duration `toml:"janitor-interval"`
	// StaleAfter is the age past which a non-completed game is deleted.
	StaleAfter time.Duration `toml:"stale-after"`
	// CodeAttempts bounds retries on join code collision.
	CodeAttempts int `toml:"code-attempts"`
}

func (o Options) Clone() Options {
	return o
}

func (o *Options) FillDefaults() {
	if o.JanitorInterval == 0 {
		o.JanitorInterval = 1 * time.Hour
	}
	if o.StaleAfter == 0 {
		o.StaleAfter = 5 * time.Hour
	}
	if o.CodeAttempts == 0 {
		o.CodeAttempts = 10
	}
}

// Keeper owns the game progression state machine: creation, joining, the
// waiting -> playing -> completed lifecycle, score entry, and the janitor
// that expires abandoned games.
type Keeper struct {
	DB
	o      *Options
	log    *slog.Logger
	group  singleflight.Group
	ctx    context.Context
	cancel func()
	done   chan struct{}
}

func New(log *slog.Logger, db DB, o Options) *Keeper {
	o = o.Clone()
	o.FillDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	k := &Keeper{
		DB:     db,
		o:      &o,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go k.loop()
	return k
}

func (k *Keeper) Close() {
	k.cancel()
	<-k.done
}

func (k *Keeper) CreateGame(ctx context.Context, hostName string, courseType CourseType, title string) (GameFullData, error) {
	if err := ValidatePlayerName(hostName); err != nil {
		return GameFullData{}, fmt.Errorf("validate host name: %w", err)
	}
	if err := ValidateCourseType(courseType); err != nil {
		return GameFullData{}, err
	}
	if title == "" {
		title = petname.Generate(2, "-")
	}
	now := timeutil.NowUTC()
	for range k.o.CodeAttempts {
		code, err := idgen.JoinCode()
		if err != nil {
			return GameFullData{}, fmt.Errorf("generate join code: %w", err)
		}
		game := Game{
			ID:          idgen.ID(),
			Code:        code,
			Title:       title,
			HostName:    hostName,
			CourseType:  courseType,
			CurrentHole: 1,
			Status:      StatusWaiting,
			CreatedAt:   now,
		}
		host := Player{
			ID:        idgen.ID(),
			GameID:    game.ID,
			Name:      hostName,
			IsHost:    true,
			CreatedAt: now,
		}
		if err := k.DB.CreateGame(ctx, game, host); err != nil {
			if errors.Is(err, ErrCodeTaken) {
				continue
			}
			return GameFullData{}, fmt.Errorf("create game: %w", err)
		}
		k.log.Info("game created",
			slog.String("game_id", game.ID),
			slog.String("code", game.Code),
			slog.String("course", string(courseType)),
		)
		return GameFullData{Game: game, Players: []Player{host}}, nil
	}
	return GameFullData{}, fmt.Errorf("could not generate a free join code")
}

func (k *Keeper) JoinGame(ctx context.Context, code, name string) (Game, Player, error) {
	if err := ValidatePlayerName(name); err != nil {
		return Game{}, Player{}, fmt.Errorf("validate player name: %w", err)
	}
	code = idgen.NormalizeJoinCode(code)
	if !idgen.IsJoinCode(code) {
		return Game{}, Player{}, ErrGameNotFound
	}
	game, err := k.DB.GetGameByCode(ctx, code)
	if err != nil {
		return Game{}, Player{}, err
	}
	player := Player{
		ID:        idgen.ID(),
		GameID:    game.ID,
		Name:      name,
		CreatedAt: timeutil.NowUTC(),
	}
	if err := k.DB.AddPlayer(ctx, player); err != nil {
		return Game{}, Player{}, err
	}
	k.log.Info("player joined",
		slog.String("game_id", game.ID),
		slog.String("player_id", player.ID),
	)
	return game, player, nil
}

// AddLocalPlayer registers a player managed directly by the host, for people
// sharing the host's device.
func (k *Keeper) AddLocalPlayer(ctx context.Context, gameID, actorID, name string) (Player, error) {
	if err := ValidatePlayerName(name); err != nil {
		return Player{}, fmt.Errorf("validate player name: %w", err)
	}
	if _, err := k.requireHost(ctx, gameID, actorID); err != nil {
		return Player{}, err
	}
	player := Player{
		ID:        idgen.ID(),
		GameID:    gameID,
		Name:      name,
		IsLocal:   true,
		CreatedAt: timeutil.NowUTC(),
	}
	if err := k.DB.AddPlayer(ctx, player); err != nil {
		return Player{}, err
	}
	return player, nil
}

func (k *Keeper) StartGame(ctx context.Context, gameID, actorID string) error {
	if _, err := k.requireHost(ctx, gameID, actorID); err != nil {
		return err
	}
	if err := k.DB.StartGame(ctx, gameID); err != nil {
		return err
	}
	k.log.Info("game started", slog.String("game_id", gameID))
	return nil
}

// EnterScore upserts the score for (player, hole). Entering a score for an
// already-scored hole overwrites it; the row is confirmed on write.
func (k *Keeper) EnterScore(ctx context.Context, gameID, playerID string, hole, strokes int) (Score, error) {
	game, err := k.DB.GetGame(ctx, gameID)
	if err != nil {
		return Score{}, err
	}
	if game.Status != StatusPlaying {
		return Score{}, ErrGameNotPlaying
	}
	if err := ValidateHole(game.CourseType, hole); err != nil {
		return Score{}, fmt.Errorf("validate hole: %w", err)
	}
	if err := ValidateStrokes(strokes); err != nil {
		return Score{}, fmt.Errorf("validate strokes: %w", err)
	}
	player, err := k.DB.GetPlayer(ctx, playerID)
	if err != nil {
		return Score{}, err
	}
	if player.GameID != gameID {
		return Score{}, ErrPlayerNotFound
	}
	score := Score{
		ID:        idgen.ID(),
		GameID:    gameID,
		PlayerID:  playerID,
		Hole:      hole,
		Strokes:   strokes,
		Confirmed: true,
		UpdatedAt: timeutil.NowUTC(),
	}
	return k.DB.UpsertScore(ctx, score)
}

// AdvanceHole moves the game to the next hole, or completes it on the last
// one. The all-players-scored gate is re-derived by the store at transition
// time, so a late score submission cannot be skipped over.
func (k *Keeper) AdvanceHole(ctx context.Context, gameID, actorID string) (AdvanceResult, error) {
	if _, err := k.requireHost(ctx, gameID, actorID); err != nil {
		return AdvanceResult{}, err
	}
	res, err := k.DB.AdvanceHole(ctx, gameID)
	if err != nil {
		return AdvanceResult{}, err
	}
	if res.GameCompleted {
		k.log.Info("game completed", slog.String("game_id", gameID))
	}
	return res, nil
}

func (k *Keeper) CancelGame(ctx context.Context, gameID, actorID string) error {
	if _, err := k.requireHost(ctx, gameID, actorID); err != nil {
		return err
	}
	if err := k.DB.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	k.log.Info("game canceled", slog.String("game_id", gameID))
	return nil
}

// GameState returns the full game snapshot plus the computed leaderboard.
// Concurrent polls for the same game are collapsed into one store read.
func (k *Keeper) GameState(ctx context.Context, gameID string) (GameFullData, Leaderboard, error) {
	v, err, _ := k.group.Do(gameID, func() (any, error) {
		data, err := k.DB.GetGameFull(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return GameFullData{}, nil, err
	}
	// The result is shared between collapsed callers, hand out a copy.
	data := v.(GameFullData).Clone()
	return data, ComputeLeaderboard(data), nil
}

// CleanupNow runs one janitor sweep and returns the number of deleted games.
func (k *Keeper) CleanupNow(ctx context.Context) (int64, error) {
	cutoff := timeutil.NowUTC().Add(-k.o.StaleAfter)
	n, err := k.DB.DeleteStaleGames(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale games: %w", err)
	}
	if n != 0 {
		k.log.Info("expired stale games", slog.Int64("count", n))
	}
	return n, nil
}

func (k *Keeper) AddPhoto(ctx context.Context, photo Photo) (Photo, error) {
	game, err := k.DB.GetGame(ctx, photo.GameID)
	if err != nil {
		return Photo{}, err
	}
	if photo.PlayerID != nil {
		player, err := k.DB.GetPlayer(ctx, *photo.PlayerID)
		if err != nil {
			return Photo{}, err
		}
		if player.GameID != game.ID {
			return Photo{}, ErrPlayerNotFound
		}
	}
	if photo.Hole != nil {
		if err := ValidateHole(game.CourseType, *photo.Hole); err != nil {
			return Photo{}, fmt.Errorf("validate hole: %w", err)
		}
	}
	photo.ID = idgen.ID()
	photo.CreatedAt = timeutil.NowUTC()
	if err := k.DB.CreatePhoto(ctx, photo); err != nil {
		return Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return photo, nil
}

func (k *Keeper) Photos(ctx context.Context, gameID string) ([]Photo, error) {
	if _, err := k.DB.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return k.DB.ListPhotos(ctx, gameID)
}

func (k *Keeper) CourseSetting(ctx context.Context, courseType CourseType) (CourseSetting, error) {
	if err := ValidateCourseType(courseType); err != nil {
		return CourseSetting{}, err
	}
	setting, ok, err := k.DB.GetCourseSetting(ctx, courseType)
	if err != nil {
		return CourseSetting{}, fmt.Errorf("get course setting: %w", err)
	}
	if !ok {
		return CourseSetting{CourseType: courseType}, nil
	}
	return setting, nil
}

func (k *Keeper) SetCourseSetting(ctx context.Context, courseType CourseType, satellitePath string) (CourseSetting, error) {
	if err := ValidateCourseType(courseType); err != nil {
		return CourseSetting{}, err
	}
	setting := CourseSetting{
		CourseType:         courseType,
		SatelliteImagePath: satellitePath,
		UpdatedAt:          timeutil.NowUTC(),
	}
	if err := k.DB.PutCourseSetting(ctx, setting); err != nil {
		return CourseSetting{}, fmt.Errorf("put course setting: %w", err)
	}
	return setting, nil
}

func (k *Keeper) requireHost(ctx context.Context, gameID, actorID string) (Player, error) {
	player, err := k.DB.GetPlayer(ctx, actorID)
	if err != nil {
		return Player{}, err
	}
	if player.GameID != gameID {
		return Player{}, ErrPlayerNotFound
	}
	if !player.IsHost {
		return Player{}, ErrNotHost
	}
	return player, nil
}

func (k *Keeper) loop() {
	defer close(k.done)
	ticker := time.NewTicker(k.o.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-k.ctx.Done():
			return
		default:
			_, err := k.CleanupNow(k.ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				k.log.Warn("could not expire stale games", slogx.Err(err))
			}
			select {
			case <-k.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}
