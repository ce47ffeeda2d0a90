package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by mutations that target an id with no live row.
var ErrNotFound = errors.New("not found")

// Side is a team side in a match.
type Side string

const (
	SideRadiant Side = "radiant"
	SideDire    Side = "dire"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideRadiant || s == SideDire
}

// Audit carries the soft-delete flag and bookkeeping columns shared by
// every table. Rows are never physically removed; every read filters on
// IsDeleted instead.
type Audit struct {
	IsDeleted    bool      `json:"-"`
	CreateTime   time.Time `json:"createTime"`
	UpdateTime   time.Time `json:"updateTime"`
	CreateUserID *int64    `json:"createUserId"`
	UpdateUserID *int64    `json:"updateUserId"`
}

// Player is a league member. Password holds the bcrypt hash and is never
// serialized.
type Player struct {
	ID                 int64   `json:"id"`
	Nickname           string  `json:"nickname"`
	Username           string  `json:"username"`
	Password           string  `json:"-"`
	Bio                *string `json:"bio"`
	MmrRank            *string `json:"mmrRank"`
	MentalScore        int     `json:"mentalScore"`
	PreferredPositions *string `json:"preferredPositions"`
	Icon               *string `json:"icon"`
	Audit
}

// Hero is reference data mirroring the official hero list.
// PrimaryAttr: 0 strength, 1 agility, 2 intelligence, 3 universal.
type Hero struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	NameLoc        string  `json:"nameLoc"`
	NameEnglishLoc *string `json:"nameEnglishLoc"`
	OrderID        *int64  `json:"orderId"`
	PrimaryAttr    int     `json:"primaryAttr"`
	BioLoc         *string `json:"bioLoc"`
	HypeLoc        *string `json:"hypeLoc"`
	NpeDescLoc     *string `json:"npeDescLoc"`
	Icon           *string `json:"icon"`
	IndexImg       *string `json:"indexImg"`
	TopImg         *string `json:"topImg"`
	TopVideo       *string `json:"topVideo"`
	CropsImg       *string `json:"cropsImg"`
	Audit
}

// Match is a single recorded game.
type Match struct {
	ID         int64     `json:"id"`
	MatchDate  time.Time `json:"matchDate"`
	WinnerSide Side      `json:"winnerSide"`
	Audit
}

// MatchParticipant links a match to a player and a hero. PlayerNickname
// and HeroName are snapshots captured at insert time so historical
// rosters survive later renames.
type MatchParticipant struct {
	ID             int64  `json:"id"`
	MatchID        int64  `json:"matchId"`
	PlayerID       int64  `json:"playerId"`
	PlayerNickname string `json:"playerNickname"`
	HeroID         int64  `json:"heroId"`
	HeroName       string `json:"heroName"`
	TeamSide       Side   `json:"teamSide"`
	Position       int    `json:"position"`
	IsMvp          int    `json:"isMvp"`
	Audit
}

// ParticipantView is a roster row for display: snapshot names plus the
// live hero/player records joined in for current icons and localization.
type ParticipantView struct {
	ID             int64   `json:"id"`
	PlayerID       int64   `json:"playerId"`
	PlayerNickname string  `json:"playerNickname"`
	HeroID         int64   `json:"heroId"`
	HeroName       *string `json:"heroName"`
	NameLoc        *string `json:"nameLoc"`
	HeroIcon       *string `json:"heroIcon"`
	PlayerIcon     *string `json:"playerIcon"`
	TeamSide       Side    `json:"teamSide"`
	Position       int     `json:"position"`
	IsMvp          int     `json:"isMvp"`
}

// MatchWithParticipants is a match with its full roster attached.
type MatchWithParticipants struct {
	Match
	Participants []ParticipantView `json:"participants"`
}

// Participation is one player's appearance joined to its match outcome,
// the shape the stats engine folds over.
type Participation struct {
	MatchID    int64     `json:"matchId"`
	TeamSide   Side      `json:"teamSide"`
	HeroID     int64     `json:"heroId"`
	WinnerSide Side      `json:"winnerSide"`
	MatchDate  time.Time `json:"matchDate"`
}

// PickRow is a participant row joined to its match winner, with whichever
// of the live hero/player columns the query pulled in.
type PickRow struct {
	PlayerID       int64
	PlayerNickname string
	PlayerIcon     *string
	HeroID         int64
	HeroName       string
	HeroNameLoc    string
	HeroIcon       *string
	TeamSide       Side
	WinnerSide     Side
}

// ParticipantRow is a lightweight roster row used for rival and
// attendance computation.
type ParticipantRow struct {
	MatchID        int64
	PlayerID       int64
	PlayerNickname string
	TeamSide       Side
}

// TrendPoint is one match outcome on the dashboard trend chart.
type TrendPoint struct {
	MatchDate  time.Time `json:"matchDate"`
	WinnerSide Side      `json:"winnerSide"`
}

// PlayerFilter narrows ListPlayers.
type PlayerFilter struct {
	Search             string
	MmrRank            string
	PreferredPositions string
}

// HeroFilter narrows ListHeroes.
type HeroFilter struct {
	Search string
}

// PlayerUpdate is a partial player mutation. Nil fields are left alone.
// Password, when set, must already be hashed.
type PlayerUpdate struct {
	Nickname           *string
	Username           *string
	Password           *string
	Bio                *string
	MmrRank            *string
	MentalScore        *int
	PreferredPositions *string
	Icon               *string
	UpdateUserID       int64
}

// HeroUpdate is a partial hero mutation.
type HeroUpdate struct {
	Name           *string
	NameLoc        *string
	NameEnglishLoc *string
	OrderID        *int64
	PrimaryAttr    *int
	BioLoc         *string
	HypeLoc        *string
	NpeDescLoc     *string
	Icon           *string
	IndexImg       *string
	TopImg         *string
	TopVideo       *string
	CropsImg       *string
	UpdateUserID   int64
}

// MatchUpdate is a partial match mutation. A non-nil Participants slice
// replaces the whole roster: old rows are soft-deleted, new rows
// inserted with hero name snapshots resolved again.
type MatchUpdate struct {
	MatchDate    *time.Time
	WinnerSide   *Side
	Participants []MatchParticipant
	UpdateUserID int64
}

// Store is the persistence boundary. Every read excludes soft-deleted
// rows at every joined table unless the method says otherwise.
type Store interface {
	CreatePlayer(ctx context.Context, p *Player) (int64, error)
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*Player, error)
	ListPlayers(ctx context.Context, f PlayerFilter) ([]Player, error)
	UpdatePlayer(ctx context.Context, id int64, u PlayerUpdate) error
	SoftDeletePlayer(ctx context.Context, id, actorID int64) error

	CreateHero(ctx context.Context, h *Hero) (int64, error)
	GetHero(ctx context.Context, id int64) (*Hero, error)
	ListHeroes(ctx context.Context, f HeroFilter) ([]Hero, error)
	UpdateHero(ctx context.Context, id int64, u HeroUpdate) error
	SoftDeleteHero(ctx context.Context, id, actorID int64) error

	// CreateMatch inserts the match and its roster in one transaction,
	// resolving each participant's HeroName snapshot from the hero's
	// current localized name (client value kept only when the hero
	// lookup misses).
	CreateMatch(ctx context.Context, m *Match, participants []MatchParticipant) (int64, error)
	GetMatch(ctx context.Context, id int64) (*Match, error)
	// GetMatchAnyState bypasses the soft-delete filter.
	GetMatchAnyState(ctx context.Context, id int64) (*Match, error)
	GetMatchDetails(ctx context.Context, id int64) (*MatchWithParticipants, error)
	ListMatches(ctx context.Context, page, pageSize int) ([]MatchWithParticipants, error)
	CountMatches(ctx context.Context) (int, error)
	UpdateMatch(ctx context.Context, id int64, u MatchUpdate) error
	// SoftDeleteMatch cascades the soft delete to the match's participants.
	SoftDeleteMatch(ctx context.Context, id, actorID int64) error

	// Aggregation reads.
	ListPlayerParticipations(ctx context.Context, playerID int64) ([]Participation, error)
	ListPicksByPlayer(ctx context.Context, playerID int64) ([]PickRow, error)
	ListPicksByHero(ctx context.Context, heroID int64) ([]PickRow, error)
	ListPicksWithPlayers(ctx context.Context) ([]PickRow, error)
	ListPicksWithHeroes(ctx context.Context) ([]PickRow, error)
	ListParticipantsForMatches(ctx context.Context, matchIDs []int64) ([]ParticipantRow, error)
	ListMatchesInRange(ctx context.Context, from, to time.Time) ([]Match, error)
	ListMatchTimeline(ctx context.Context) ([]TrendPoint, error)
	ListRecentMatches(ctx context.Context, limit int) ([]MatchWithParticipants, error)
	CountPlayers(ctx context.Context) (int, error)
	CountHeroes(ctx context.Context) (int, error)
	CountMatchesWonBy(ctx context.Context, side Side) (int, error)

	Close() error
}
