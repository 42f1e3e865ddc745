package gamekeeper

import (
	"github.com/quietfield/fairway/internal/util/clone"
	"github.com/quietfield/fairway/internal/util/timeutil"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

// IsFinished reports whether the status is terminal. Transitions are
// monotonic: a completed game never regresses.
func (s Status) IsFinished() bool {
	return s == StatusCompleted
}

type Game struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	Code        string           `gorm:"uniqueIndex" json:"code"`
	Title       string           `json:"title"`
	HostName    string           `json:"hostName"`
	CourseType  CourseType       `json:"courseType"`
	CurrentHole int              `json:"currentHole"`
	Status      Status           `gorm:"index" json:"status"`
	CreatedAt   timeutil.UTCTime `gorm:"index" json:"createdAt"`
}

func (g Game) Clone() Game {
	return g
}

type Player struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	GameID    string           `gorm:"index" json:"gameId"`
	Name      string           `json:"name"`
	IsHost    bool             `json:"isHost"`
	IsLocal   bool             `json:"isLocal"`
	CreatedAt timeutil.UTCTime `json:"createdAt"`
}

func (p Player) Clone() Player {
	return p
}

type Score struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	GameID    string           `gorm:"index" json:"gameId"`
	PlayerID  string           `gorm:"index:idx_score_player_hole,unique" json:"playerId"`
	Hole      int              `gorm:"index:idx_score_player_hole,unique" json:"hole"`
	Strokes   int              `json:"strokes"`
	Confirmed bool             `json:"confirmed"`
	UpdatedAt timeutil.UTCTime `json:"updatedAt"`
}

func (s Score) Clone() Score {
	return s
}

type Photo struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	GameID      string           `gorm:"index" json:"gameId"`
	PlayerID    *string          `json:"playerId,omitempty"`
	Hole        *int             `json:"hole,omitempty"`
	Caption     string           `json:"caption"`
	ContentType string           `json:"contentType"`
	CreatedAt   timeutil.UTCTime `json:"createdAt"`
}

func (p Photo) Clone() Photo {
	p.PlayerID = clone.TrivialPtr(p.PlayerID)
	p.Hole = clone.TrivialPtr(p.Hole)
	return p
}

// CourseSetting holds per-course configuration that used to live in process
// memory, such as the satellite overlay path. Persisting it survives restarts
// and keeps multiple instances consistent.
type CourseSetting struct {
	CourseType         CourseType       `gorm:"primaryKey" json:"courseType"`
	SatelliteImagePath string           `json:"satelliteImagePath"`
	UpdatedAt          timeutil.UTCTime `json:"updatedAt"`
}

// GameFullData is everything a polling client needs to render one game.
type GameFullData struct {
	Game    Game     `json:"game"`
	Players []Player `json:"players"`
	Scores  []Score  `json:"scores"`
}

func (d GameFullData) Clone() GameFullData {
	return GameFullData{
		Game:    d.Game.Clone(),
		Players: clone.DeepSlice(d.Players),
		Scores:  clone.DeepSlice(d.Scores),
	}
}

// AdvanceResult reports the outcome of a successful hole advancement.
type AdvanceResult struct {
	NextHole      int  `json:"nextHole"`
	GameCompleted bool `json:"gameCompleted"`
}
