// Package stats derives aggregate statistics from store records. All
// functions are pure folds over store reads; nothing here mutates.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/edvart/dota-league/internal/store"
)

// Engine computes aggregates on demand. Nothing is cached; every call
// recomputes from current data, which is fine at amateur-league scale.
type Engine struct {
	store store.Store
}

// NewEngine creates a stats engine over the given store.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// PlayerStats is a player's overall record.
type PlayerStats struct {
	TotalMatches  int                   `json:"totalMatches"`
	Wins          int                   `json:"wins"`
	Losses        int                   `json:"losses"`
	WinRate       float64               `json:"winRate"`
	RecentMatches []store.Participation `json:"recentMatches"`
}

// HeroUsage is one hero's record within a player's history.
type HeroUsage struct {
	HeroID   int64   `json:"heroId"`
	HeroName string  `json:"heroName"`
	NameLoc  string  `json:"nameLoc"`
	Count    int     `json:"count"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"winRate"`
}

// Rival is an opposing-team player with the subject's record against them.
type Rival struct {
	PlayerID       int64   `json:"playerId"`
	PlayerNickname string  `json:"playerNickname"`
	Matches        int     `json:"matches"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"winRate"`
}

// HeroStats is a hero's overall record including pick rate.
type HeroStats struct {
	TotalMatches int     `json:"totalMatches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"winRate"`
	PickRate     float64 `json:"pickRate"`
}

// PlayerUsage is one player's record on a given hero.
type PlayerUsage struct {
	PlayerID       int64   `json:"playerId"`
	PlayerNickname string  `json:"playerNickname"`
	Count          int     `json:"count"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"winRate"`
}

// PlayerWinRate is a dashboard leaderboard row.
type PlayerWinRate struct {
	PlayerID       int64   `json:"playerId"`
	PlayerNickname string  `json:"playerNickname"`
	PlayerIcon     *string `json:"playerIcon"`
	TotalMatches   int     `json:"totalMatches"`
	Wins           int     `json:"wins"`
	WinRate        float64 `json:"winRate"`
}

// TopHero is a dashboard most-picked-heroes row.
type TopHero struct {
	HeroID   int64   `json:"heroId"`
	HeroName string  `json:"heroName"`
	NameLoc  string  `json:"nameLoc"`
	Icon     *string `json:"icon"`
	Count    int     `json:"count"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"winRate"`
}

// Dashboard is the landing-page summary.
type Dashboard struct {
	TotalMatches   int                           `json:"totalMatches"`
	TotalPlayers   int                           `json:"totalPlayers"`
	TotalHeroes    int                           `json:"totalHeroes"`
	RadiantWinRate float64                       `json:"radiantWinRate"`
	DireWinRate    float64                       `json:"direWinRate"`
	PlayerWinRates []PlayerWinRate               `json:"playerWinRates"`
	TopHeroes      []TopHero                     `json:"topHeroes"`
	RecentMatches  []store.MatchWithParticipants `json:"recentMatches"`
}

// PlayerAttendance is one player's attendance within a month.
type PlayerAttendance struct {
	PlayerID       int64   `json:"playerId"`
	PlayerNickname string  `json:"playerNickname"`
	MatchCount     int     `json:"matchCount"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// MatchDateCount is the number of matches on one calendar day.
type MatchDateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Attendance is the calendar-month attendance report.
type Attendance struct {
	TotalMatches     int                `json:"totalMatches"`
	PlayerAttendance []PlayerAttendance `json:"playerAttendance"`
	MatchDates       []MatchDateCount   `json:"matchDates"`
}

const (
	recentMatchLimit = 10
	heroUsageLimit   = 10
	rivalLimit       = 5
	topHeroLimit     = 10
)

// winRate returns 100*wins/total, 0 when total is 0.
func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// PlayerStats computes a player's overall record and the 10 most recent
// participations.
func (e *Engine) PlayerStats(ctx context.Context, playerID int64) (*PlayerStats, error) {
	parts, err := e.store.ListPlayerParticipations(ctx, playerID)
	if err != nil {
		return nil, err
	}

	wins := 0
	for _, p := range parts {
		if p.TeamSide == p.WinnerSide {
			wins++
		}
	}

	recent := parts
	if len(recent) > recentMatchLimit {
		recent = recent[:recentMatchLimit]
	}
	if recent == nil {
		recent = []store.Participation{}
	}

	return &PlayerStats{
		TotalMatches:  len(parts),
		Wins:          wins,
		Losses:        len(parts) - wins,
		WinRate:       winRate(wins, len(parts)),
		RecentMatches: recent,
	}, nil
}

// PlayerHeroStats groups a player's picks by hero, top 10 by pick count.
func (e *Engine) PlayerHeroStats(ctx context.Context, playerID int64) ([]HeroUsage, error) {
	picks, err := e.store.ListPicksByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	byHero := make(map[int64]*HeroUsage)
	for _, pick := range picks {
		u := byHero[pick.HeroID]
		if u == nil {
			u = &HeroUsage{HeroID: pick.HeroID, HeroName: pick.HeroName, NameLoc: pick.HeroNameLoc}
			byHero[pick.HeroID] = u
		}
		u.Count++
		if pick.TeamSide == pick.WinnerSide {
			u.Wins++
		}
	}

	usages := make([]HeroUsage, 0, len(byHero))
	for _, u := range byHero {
		u.WinRate = winRate(u.Wins, u.Count)
		usages = append(usages, *u)
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].HeroID < usages[j].HeroID
	})
	if len(usages) > heroUsageLimit {
		usages = usages[:heroUsageLimit]
	}
	return usages, nil
}

// PlayerRivals ranks opposing-team players by the subject's win rate
// against them, hardest matchups first. Same-team co-participants never
// count.
func (e *Engine) PlayerRivals(ctx context.Context, playerID int64) ([]Rival, error) {
	parts, err := e.store.ListPlayerParticipations(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return []Rival{}, nil
	}

	matchIDs := make([]int64, 0, len(parts))
	byMatch := make(map[int64]store.Participation, len(parts))
	for _, p := range parts {
		matchIDs = append(matchIDs, p.MatchID)
		byMatch[p.MatchID] = p
	}

	others, err := e.store.ListParticipantsForMatches(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	byOpponent := make(map[int64]*Rival)
	for _, o := range others {
		if o.PlayerID == playerID {
			continue
		}
		mine, ok := byMatch[o.MatchID]
		if !ok || mine.TeamSide == o.TeamSide {
			continue
		}
		r := byOpponent[o.PlayerID]
		if r == nil {
			r = &Rival{PlayerID: o.PlayerID, PlayerNickname: o.PlayerNickname}
			byOpponent[o.PlayerID] = r
		}
		r.Matches++
		if mine.WinnerSide == mine.TeamSide {
			r.Wins++
		}
	}

	rivals := make([]Rival, 0, len(byOpponent))
	for _, r := range byOpponent {
		r.WinRate = winRate(r.Wins, r.Matches)
		rivals = append(rivals, *r)
	}
	sort.Slice(rivals, func(i, j int) bool {
		if rivals[i].WinRate != rivals[j].WinRate {
			return rivals[i].WinRate < rivals[j].WinRate
		}
		return rivals[i].PlayerID < rivals[j].PlayerID
	})
	if len(rivals) > rivalLimit {
		rivals = rivals[:rivalLimit]
	}
	return rivals, nil
}

// HeroStats computes a hero's record and its pick rate over all
// non-deleted matches.
func (e *Engine) HeroStats(ctx context.Context, heroID int64) (*HeroStats, error) {
	picks, err := e.store.ListPicksByHero(ctx, heroID)
	if err != nil {
		return nil, err
	}

	wins := 0
	for _, p := range picks {
		if p.TeamSide == p.WinnerSide {
			wins++
		}
	}

	allMatches, err := e.store.CountMatches(ctx)
	if err != nil {
		return nil, err
	}
	pickRate := 0.0
	if allMatches > 0 {
		pickRate = float64(len(picks)) / float64(allMatches) * 100
	}

	return &HeroStats{
		TotalMatches: len(picks),
		Wins:         wins,
		Losses:       len(picks) - wins,
		WinRate:      winRate(wins, len(picks)),
		PickRate:     pickRate,
	}, nil
}

// HeroPlayerStats ranks every player who picked the hero by pick count.
func (e *Engine) HeroPlayerStats(ctx context.Context, heroID int64) ([]PlayerUsage, error) {
	picks, err := e.store.ListPicksByHero(ctx, heroID)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64]*PlayerUsage)
	for _, pick := range picks {
		u := byPlayer[pick.PlayerID]
		if u == nil {
			u = &PlayerUsage{PlayerID: pick.PlayerID, PlayerNickname: pick.PlayerNickname}
			byPlayer[pick.PlayerID] = u
		}
		u.Count++
		if pick.TeamSide == pick.WinnerSide {
			u.Wins++
		}
	}

	usages := make([]PlayerUsage, 0, len(byPlayer))
	for _, u := range byPlayer {
		u.WinRate = winRate(u.Wins, u.Count)
		usages = append(usages, *u)
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].PlayerID < usages[j].PlayerID
	})
	return usages, nil
}

// DashboardStats assembles the landing-page summary. With zero recorded
// matches the side win rates default to an even 50/50; every other
// zero-denominator rate is 0.
func (e *Engine) DashboardStats(ctx context.Context) (*Dashboard, error) {
	totalMatches, err := e.store.CountMatches(ctx)
	if err != nil {
		return nil, err
	}
	totalPlayers, err := e.store.CountPlayers(ctx)
	if err != nil {
		return nil, err
	}
	totalHeroes, err := e.store.CountHeroes(ctx)
	if err != nil {
		return nil, err
	}
	radiantWins, err := e.store.CountMatchesWonBy(ctx, store.SideRadiant)
	if err != nil {
		return nil, err
	}

	radiantWinRate := 50.0
	if totalMatches > 0 {
		radiantWinRate = float64(radiantWins) / float64(totalMatches) * 100
	}

	playerWinRates, err := e.playerWinRates(ctx)
	if err != nil {
		return nil, err
	}
	topHeroes, err := e.topHeroes(ctx)
	if err != nil {
		return nil, err
	}
	recentMatches, err := e.store.ListRecentMatches(ctx, recentMatchLimit)
	if err != nil {
		return nil, err
	}
	if recentMatches == nil {
		recentMatches = []store.MatchWithParticipants{}
	}

	return &Dashboard{
		TotalMatches:   totalMatches,
		TotalPlayers:   totalPlayers,
		TotalHeroes:    totalHeroes,
		RadiantWinRate: radiantWinRate,
		DireWinRate:    100 - radiantWinRate,
		PlayerWinRates: playerWinRates,
		TopHeroes:      topHeroes,
		RecentMatches:  recentMatches,
	}, nil
}

func (e *Engine) playerWinRates(ctx context.Context) ([]PlayerWinRate, error) {
	picks, err := e.store.ListPicksWithPlayers(ctx)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64]*PlayerWinRate)
	for _, pick := range picks {
		r := byPlayer[pick.PlayerID]
		if r == nil {
			r = &PlayerWinRate{PlayerID: pick.PlayerID, PlayerNickname: pick.PlayerNickname, PlayerIcon: pick.PlayerIcon}
			byPlayer[pick.PlayerID] = r
		}
		r.TotalMatches++
		if pick.TeamSide == pick.WinnerSide {
			r.Wins++
		}
	}

	rates := make([]PlayerWinRate, 0, len(byPlayer))
	for _, r := range byPlayer {
		r.WinRate = winRate(r.Wins, r.TotalMatches)
		rates = append(rates, *r)
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].WinRate != rates[j].WinRate {
			return rates[i].WinRate > rates[j].WinRate
		}
		return rates[i].PlayerID < rates[j].PlayerID
	})
	return rates, nil
}

func (e *Engine) topHeroes(ctx context.Context) ([]TopHero, error) {
	picks, err := e.store.ListPicksWithHeroes(ctx)
	if err != nil {
		return nil, err
	}

	byHero := make(map[int64]*TopHero)
	for _, pick := range picks {
		h := byHero[pick.HeroID]
		if h == nil {
			h = &TopHero{HeroID: pick.HeroID, HeroName: pick.HeroName, NameLoc: pick.HeroNameLoc, Icon: pick.HeroIcon}
			byHero[pick.HeroID] = h
		}
		h.Count++
		if pick.TeamSide == pick.WinnerSide {
			h.Wins++
		}
	}

	heroes := make([]TopHero, 0, len(byHero))
	for _, h := range byHero {
		h.WinRate = winRate(h.Wins, h.Count)
		heroes = append(heroes, *h)
	}
	sort.Slice(heroes, func(i, j int) bool {
		if heroes[i].Count != heroes[j].Count {
			return heroes[i].Count > heroes[j].Count
		}
		return heroes[i].HeroID < heroes[j].HeroID
	})
	if len(heroes) > topHeroLimit {
		heroes = heroes[:topHeroLimit]
	}
	return heroes, nil
}

// AttendanceStats reports per-player attendance over one calendar month,
// plus match counts per day for the heatmap. A month with no matches
// yields a zero-value report, not an error.
func (e *Engine) AttendanceStats(ctx context.Context, year int, month time.Month) (*Attendance, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	matches, err := e.store.ListMatchesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &Attendance{
		TotalMatches:     len(matches),
		PlayerAttendance: []PlayerAttendance{},
		MatchDates:       []MatchDateCount{},
	}
	if len(matches) == 0 {
		return report, nil
	}

	matchIDs := make([]int64, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}
	parts, err := e.store.ListParticipantsForMatches(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64]*PlayerAttendance)
	for _, p := range parts {
		a := byPlayer[p.PlayerID]
		if a == nil {
			a = &PlayerAttendance{PlayerID: p.PlayerID, PlayerNickname: p.PlayerNickname}
			byPlayer[p.PlayerID] = a
		}
		a.MatchCount++
	}
	for _, a := range byPlayer {
		a.AttendanceRate = float64(a.MatchCount) / float64(len(matches)) * 100
		report.PlayerAttendance = append(report.PlayerAttendance, *a)
	}
	sort.Slice(report.PlayerAttendance, func(i, j int) bool {
		ri, rj := report.PlayerAttendance[i], report.PlayerAttendance[j]
		if ri.AttendanceRate != rj.AttendanceRate {
			return ri.AttendanceRate > rj.AttendanceRate
		}
		return ri.PlayerID < rj.PlayerID
	})

	byDay := make(map[string]int)
	for _, m := range matches {
		byDay[m.MatchDate.UTC().Format("2006-01-02")]++
	}
	for day, count := range byDay {
		report.MatchDates = append(report.MatchDates, MatchDateCount{Date: day, Count: count})
	}
	sort.Slice(report.MatchDates, func(i, j int) bool {
		return report.MatchDates[i].Date < report.MatchDates[j].Date
	})

	return report, nil
}

// WinRateTrend returns every match outcome in date order for the
// dashboard trend chart.
func (e *Engine) WinRateTrend(ctx context.Context) ([]store.TrendPoint, error) {
	points, err := e.store.ListMatchTimeline(ctx)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []store.TrendPoint{}
	}
	return points, nil
}
