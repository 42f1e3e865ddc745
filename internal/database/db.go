package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/slogx"
	"github.com/quietfield/fairway/internal/util/timeutil"
)

type Options struct {
	Path          string        `toml:"path"`
	Debug         bool          `toml:"debug"`
	SlowThreshold time.Duration `toml:"slow-threshold"`
	BusyTimeout   time.Duration `toml:"busy-timeout"`
	UseWAL        bool          `toml:"use-wal"`
}

func (o *Options) FillDefaults() {
	if o.SlowThreshold == 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 1 * time.Minute
	}
}

type DB struct {
	db  *gorm.DB
	log *slog.Logger
}

var _ gamekeeper.DB = (*DB)(nil)

var models = []any{
	&gamekeeper.Game{},
	&gamekeeper.Player{},
	&gamekeeper.Score{},
	&gamekeeper.Photo{},
	&gamekeeper.CourseSetting{},
}

func (d *DB) Close() {
	db, err := d.db.DB()
	if err != nil {
		d.log.Error("could not get underlying db", slogx.Err(err))
		return
	}
	err = db.Close()
	if err != nil {
		d.log.Error("could not close db", slogx.Err(err))
	}
}

func buildPath(o Options) string {
	var params []string
	if o.UseWAL {
		params = append(params, "_journal_mode=WAL")
		params = append(params, "_synchronous=NORMAL")
	}
	params = append(params, fmt.Sprintf("_busy_timeout=%v", o.BusyTimeout.Milliseconds()))
	params = append(params, "_foreign_keys=1")
	paramStr := strings.Join(params, "&")
	if paramStr == "" {
		return o.Path
	}
	return o.Path + "?" + paramStr
}

func New(log *slog.Logger, o Options) (*DB, error) {
	o.FillDefaults()

	log.Info("opening db")
	db, err := gorm.Open(sqlite.Open(buildPath(o)), &gorm.Config{
		Logger: Logger(log, o),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	d := &DB{db: db, log: log}

	log.Info("migrating db")
	if err := db.AutoMigrate(models...); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	log.Info("db opened")
	return d, nil
}

func (d *DB) CreateGame(ctx context.Context, game gamekeeper.Game, host gamekeeper.Player) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result []gamekeeper.Game
		err := tx.Where("code = ?", game.Code).Limit(1).Find(&result).Error
		if err != nil {
			return fmt.Errorf("search for code: %w", err)
		}
		if len(result) != 0 {
			return gamekeeper.ErrCodeTaken
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		if err := tx.Create(&host).Error; err != nil {
			return fmt.Errorf("create host player: %w", err)
		}
		return nil
	})
}

func (d *DB) GetGame(ctx context.Context, gameID string) (gamekeeper.Game, error) {
	return getGame(d.db.WithContext(ctx), gameID)
}

func getGame(tx *gorm.DB, gameID string) (gamekeeper.Game, error) {
	var games []gamekeeper.Game
	err := tx.Where("id = ?", gameID).Limit(1).Find(&games).Error
	if err != nil {
		return gamekeeper.Game{}, fmt.Errorf("get game: %w", err)
	}
	if len(games) == 0 {
		return gamekeeper.Game{}, gamekeeper.ErrGameNotFound
	}
	return games[0], nil
}

func (d *DB) GetGameByCode(ctx context.Context, code string) (gamekeeper.Game, error) {
	var games []gamekeeper.Game
	err := d.db.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&games).Error
	if err != nil {
		return gamekeeper.Game{}, fmt.Errorf("get game by code: %w", err)
	}
	if len(games) == 0 {
		return gamekeeper.Game{}, gamekeeper.ErrGameNotFound
	}
	return games[0], nil
}

func (d *DB) GetGameFull(ctx context.Context, gameID string) (gamekeeper.GameFullData, error) {
	var data gamekeeper.GameFullData
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, gameID)
		if err != nil {
			return err
		}
		data.Game = game
		err = tx.Where("game_id = ?", gameID).Order("created_at").Find(&data.Players).Error
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		err = tx.Where("game_id = ?", gameID).Order("hole").Find(&data.Scores).Error
		if err != nil {
			return fmt.Errorf("list scores: %w", err)
		}
		return nil
	})
	if err != nil {
		return gamekeeper.GameFullData{}, err
	}
	return data, nil
}

func (d *DB) GetPlayer(ctx context.Context, playerID string) (gamekeeper.Player, error) {
	var players []gamekeeper.Player
	err := d.db.WithContext(ctx).Where("id = ?", playerID).Limit(1).Find(&players).Error
	if err != nil {
		return gamekeeper.Player{}, fmt.Errorf("get player: %w", err)
	}
	if len(players) == 0 {
		return gamekeeper.Player{}, gamekeeper.ErrPlayerNotFound
	}
	return players[0], nil
}

func (d *DB) AddPlayer(ctx context.Context, player gamekeeper.Player) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, player.GameID)
		if err != nil {
			return err
		}
		if game.Status != gamekeeper.StatusWaiting {
			return gamekeeper.ErrGameNotWaiting
		}
		var result []gamekeeper.Player
		err = tx.Where("game_id = ? AND name = ? COLLATE NOCASE", player.GameID, player.Name).
			Limit(1).Find(&result).Error
		if err != nil {
			return fmt.Errorf("search for name: %w", err)
		}
		if len(result) != 0 {
			return gamekeeper.ErrNameTaken
		}
		if err := tx.Create(&player).Error; err != nil {
			return fmt.Errorf("create player: %w", err)
		}
		return nil
	})
}

func (d *DB) StartGame(ctx context.Context, gameID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, gameID)
		if err != nil {
			return err
		}
		if game.Status != gamekeeper.StatusWaiting {
			return gamekeeper.ErrAlreadyStarted
		}
		err = tx.Model(&gamekeeper.Game{}).Where("id = ?", gameID).
			Update("status", gamekeeper.StatusPlaying).Error
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
}

func (d *DB) UpsertScore(ctx context.Context, score gamekeeper.Score) (gamekeeper.Score, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []gamekeeper.Score
		err := tx.Where("player_id = ? AND hole = ?", score.PlayerID, score.Hole).
			Limit(1).Find(&existing).Error
		if err != nil {
			return fmt.Errorf("search for score: %w", err)
		}
		if len(existing) != 0 {
			// Overwrite, do not duplicate.
			score.ID = existing[0].ID
			err := tx.Model(&gamekeeper.Score{}).Where("id = ?", score.ID).
				Updates(map[string]any{
					"strokes":    score.Strokes,
					"confirmed":  score.Confirmed,
					"updated_at": score.UpdatedAt,
				}).Error
			if err != nil {
				return fmt.Errorf("update score: %w", err)
			}
			return nil
		}
		if err := tx.Create(&score).Error; err != nil {
			return fmt.Errorf("create score: %w", err)
		}
		return nil
	})
	if err != nil {
		return gamekeeper.Score{}, err
	}
	return score, nil
}

// AdvanceHole recomputes the all-players-scored gate inside the transaction
// rather than trusting any state the caller read earlier.
func (d *DB) AdvanceHole(ctx context.Context, gameID string) (gamekeeper.AdvanceResult, error) {
	var res gamekeeper.AdvanceResult
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, gameID)
		if err != nil {
			return err
		}
		switch game.Status {
		case gamekeeper.StatusWaiting:
			return gamekeeper.ErrGameNotPlaying
		case gamekeeper.StatusCompleted:
			return gamekeeper.ErrGameCompleted
		}
		var playerCount int64
		err = tx.Model(&gamekeeper.Player{}).Where("game_id = ?", gameID).Count(&playerCount).Error
		if err != nil {
			return fmt.Errorf("count players: %w", err)
		}
		var scoredCount int64
		err = tx.Model(&gamekeeper.Score{}).
			Where("game_id = ? AND hole = ?", gameID, game.CurrentHole).
			Distinct("player_id").Count(&scoredCount).Error
		if err != nil {
			return fmt.Errorf("count scored players: %w", err)
		}
		if scoredCount < playerCount {
			return gamekeeper.ErrScoresIncomplete
		}
		holes := gamekeeper.HoleCount(game.CourseType)
		if game.CurrentHole >= holes {
			err = tx.Model(&gamekeeper.Game{}).Where("id = ?", gameID).
				Update("status", gamekeeper.StatusCompleted).Error
			if err != nil {
				return fmt.Errorf("complete game: %w", err)
			}
			res = gamekeeper.AdvanceResult{NextHole: game.CurrentHole, GameCompleted: true}
			return nil
		}
		err = tx.Model(&gamekeeper.Game{}).Where("id = ?", gameID).
			Updates(map[string]any{
				"current_hole": game.CurrentHole + 1,
				"status":       gamekeeper.StatusPlaying,
			}).Error
		if err != nil {
			return fmt.Errorf("advance hole: %w", err)
		}
		res = gamekeeper.AdvanceResult{NextHole: game.CurrentHole + 1}
		return nil
	})
	if err != nil {
		return gamekeeper.AdvanceResult{}, err
	}
	return res, nil
}

func (d *DB) DeleteGame(ctx context.Context, gameID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, gameID)
		if err != nil {
			return err
		}
		if game.Status.IsFinished() {
			return gamekeeper.ErrGameCompleted
		}
		return cascadeDelete(tx, []string{gameID})
	})
}

func cascadeDelete(tx *gorm.DB, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}
	if err := tx.Where("game_id IN ?", gameIDs).Delete(&gamekeeper.Score{}).Error; err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	if err := tx.Where("game_id IN ?", gameIDs).Delete(&gamekeeper.Photo{}).Error; err != nil {
		return fmt.Errorf("delete photos: %w", err)
	}
	if err := tx.Where("game_id IN ?", gameIDs).Delete(&gamekeeper.Player{}).Error; err != nil {
		return fmt.Errorf("delete players: %w", err)
	}
	if err := tx.Where("id IN ?", gameIDs).Delete(&gamekeeper.Game{}).Error; err != nil {
		return fmt.Errorf("delete games: %w", err)
	}
	return nil
}

func (d *DB) DeleteStaleGames(ctx context.Context, cutoff timeutil.UTCTime) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&gamekeeper.Game{}).
			Where("status <> ? AND created_at < ?", gamekeeper.StatusCompleted, cutoff).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("list stale games: %w", err)
		}
		count = int64(len(ids))
		return cascadeDelete(tx, ids)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (d *DB) CreatePhoto(ctx context.Context, photo gamekeeper.Photo) error {
	if err := d.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	return nil
}

func (d *DB) ListPhotos(ctx context.Context, gameID string) ([]gamekeeper.Photo, error) {
	var photos []gamekeeper.Photo
	err := d.db.WithContext(ctx).Where("game_id = ?", gameID).Order("created_at").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

func (d *DB) GetCourseSetting(ctx context.Context, courseType gamekeeper.CourseType) (gamekeeper.CourseSetting, bool, error) {
	var settings []gamekeeper.CourseSetting
	err := d.db.WithContext(ctx).Where("course_type = ?", courseType).Limit(1).Find(&settings).Error
	if err != nil {
		return gamekeeper.CourseSetting{}, false, fmt.Errorf("get course setting: %w", err)
	}
	if len(settings) == 0 {
		return gamekeeper.CourseSetting{}, false, nil
	}
	return settings[0], true, nil
}

func (d *DB) PutCourseSetting(ctx context.Context, setting gamekeeper.CourseSetting) error {
	if err := d.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return fmt.Errorf("put course setting: %w", err)
	}
	return nil
}
