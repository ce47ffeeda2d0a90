package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const playerCols = `id, nickname, username, password, bio, mmr_rank, mental_score,
	preferred_positions, icon, is_deleted, create_time, update_time, create_user_id, update_user_id`

func scanPlayer(row interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	err := row.Scan(
		&p.ID, &p.Nickname, &p.Username, &p.Password, &p.Bio, &p.MmrRank,
		&p.MentalScore, &p.PreferredPositions, &p.Icon, &p.IsDeleted,
		&p.CreateTime, &p.UpdateTime, &p.CreateUserID, &p.UpdateUserID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlayer inserts a new player and returns its id.
func (s *SQLiteStore) CreatePlayer(ctx context.Context, p *Player) (int64, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players (nickname, username, password, bio, mmr_rank, mental_score,
			preferred_positions, icon, create_time, update_time, create_user_id, update_user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Nickname, p.Username, p.Password, p.Bio, p.MmrRank, p.MentalScore,
		p.PreferredPositions, p.Icon, now, now, p.CreateUserID, p.UpdateUserID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPlayer retrieves a non-deleted player by id.
func (s *SQLiteStore) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerCols+` FROM players WHERE id = ? AND is_deleted = 0`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPlayerByUsername retrieves a non-deleted player by login name.
func (s *SQLiteStore) GetPlayerByUsername(ctx context.Context, username string) (*Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerCols+` FROM players WHERE username = ? AND is_deleted = 0`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListPlayers returns non-deleted players, newest first.
func (s *SQLiteStore) ListPlayers(ctx context.Context, f PlayerFilter) ([]Player, error) {
	query := `SELECT ` + playerCols + ` FROM players WHERE is_deleted = 0`
	args := []interface{}{}

	if f.Search != "" {
		query += " AND nickname LIKE ?"
		args = append(args, "%"+f.Search+"%")
	}
	if f.MmrRank != "" {
		query += " AND mmr_rank = ?"
		args = append(args, f.MmrRank)
	}
	if f.PreferredPositions != "" {
		query += " AND preferred_positions LIKE ?"
		args = append(args, "%"+f.PreferredPositions+"%")
	}
	query += " ORDER BY create_time DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// UpdatePlayer applies a partial update to a non-deleted player.
func (s *SQLiteStore) UpdatePlayer(ctx context.Context, id int64, u PlayerUpdate) error {
	sets := []string{"update_time = ?", "update_user_id = ?"}
	args := []interface{}{time.Now(), u.UpdateUserID}

	appendSet := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if u.Nickname != nil {
		appendSet("nickname", *u.Nickname)
	}
	if u.Username != nil {
		appendSet("username", *u.Username)
	}
	if u.Password != nil {
		appendSet("password", *u.Password)
	}
	if u.Bio != nil {
		appendSet("bio", *u.Bio)
	}
	if u.MmrRank != nil {
		appendSet("mmr_rank", *u.MmrRank)
	}
	if u.MentalScore != nil {
		appendSet("mental_score", *u.MentalScore)
	}
	if u.PreferredPositions != nil {
		appendSet("preferred_positions", *u.PreferredPositions)
	}
	if u.Icon != nil {
		appendSet("icon", *u.Icon)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE players SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0",
		append(args, id)...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SoftDeletePlayer marks a player deleted without removing the row.
func (s *SQLiteStore) SoftDeletePlayer(ctx context.Context, id, actorID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET is_deleted = 1, update_time = ?, update_user_id = ?
		 WHERE id = ? AND is_deleted = 0`,
		time.Now(), actorID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const heroCols = `id, name, name_loc, name_english_loc, order_id, primary_attr, bio_loc,
	hype_loc, npe_desc_loc, icon, index_img, top_img, top_video, crops_img,
	is_deleted, create_time, update_time, create_user_id, update_user_id`

func scanHero(row interface{ Scan(...any) error }) (*Hero, error) {
	var h Hero
	err := row.Scan(
		&h.ID, &h.Name, &h.NameLoc, &h.NameEnglishLoc, &h.OrderID, &h.PrimaryAttr,
		&h.BioLoc, &h.HypeLoc, &h.NpeDescLoc, &h.Icon, &h.IndexImg, &h.TopImg,
		&h.TopVideo, &h.CropsImg, &h.IsDeleted, &h.CreateTime, &h.UpdateTime,
		&h.CreateUserID, &h.UpdateUserID,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHero inserts a new hero and returns its id.
func (s *SQLiteStore) CreateHero(ctx context.Context, h *Hero) (int64, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO heroes (name, name_loc, name_english_loc, order_id, primary_attr,
			bio_loc, hype_loc, npe_desc_loc, icon, index_img, top_img, top_video, crops_img,
			create_time, update_time, create_user_id, update_user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, h.NameLoc, h.NameEnglishLoc, h.OrderID, h.PrimaryAttr,
		h.BioLoc, h.HypeLoc, h.NpeDescLoc, h.Icon, h.IndexImg, h.TopImg, h.TopVideo, h.CropsImg,
		now, now, h.CreateUserID, h.UpdateUserID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetHero retrieves a non-deleted hero by id.
func (s *SQLiteStore) GetHero(ctx context.Context, id int64) (*Hero, error) {
	h, err := scanHero(s.db.QueryRowContext(ctx,
		`SELECT `+heroCols+` FROM heroes WHERE id = ? AND is_deleted = 0`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return h, err
}

// ListHeroes returns non-deleted heroes, newest first.
func (s *SQLiteStore) ListHeroes(ctx context.Context, f HeroFilter) ([]Hero, error) {
	query := `SELECT ` + heroCols + ` FROM heroes WHERE is_deleted = 0`
	args := []interface{}{}

	if f.Search != "" {
		query += " AND (name LIKE ? OR name_loc LIKE ? OR name_english_loc LIKE ?)"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY create_time DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heroes []Hero
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, err
		}
		heroes = append(heroes, *h)
	}
	return heroes, rows.Err()
}

// UpdateHero applies a partial update to a non-deleted hero.
func (s *SQLiteStore) UpdateHero(ctx context.Context, id int64, u HeroUpdate) error {
	sets := []string{"update_time = ?", "update_user_id = ?"}
	args := []interface{}{time.Now(), u.UpdateUserID}

	appendSet := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if u.Name != nil {
		appendSet("name", *u.Name)
	}
	if u.NameLoc != nil {
		appendSet("name_loc", *u.NameLoc)
	}
	if u.NameEnglishLoc != nil {
		appendSet("name_english_loc", *u.NameEnglishLoc)
	}
	if u.OrderID != nil {
		appendSet("order_id", *u.OrderID)
	}
	if u.PrimaryAttr != nil {
		appendSet("primary_attr", *u.PrimaryAttr)
	}
	if u.BioLoc != nil {
		appendSet("bio_loc", *u.BioLoc)
	}
	if u.HypeLoc != nil {
		appendSet("hype_loc", *u.HypeLoc)
	}
	if u.NpeDescLoc != nil {
		appendSet("npe_desc_loc", *u.NpeDescLoc)
	}
	if u.Icon != nil {
		appendSet("icon", *u.Icon)
	}
	if u.IndexImg != nil {
		appendSet("index_img", *u.IndexImg)
	}
	if u.TopImg != nil {
		appendSet("top_img", *u.TopImg)
	}
	if u.TopVideo != nil {
		appendSet("top_video", *u.TopVideo)
	}
	if u.CropsImg != nil {
		appendSet("crops_img", *u.CropsImg)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE heroes SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0",
		append(args, id)...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SoftDeleteHero marks a hero deleted without removing the row.
func (s *SQLiteStore) SoftDeleteHero(ctx context.Context, id, actorID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE heroes SET is_deleted = 1, update_time = ?, update_user_id = ?
		 WHERE id = ? AND is_deleted = 0`,
		time.Now(), actorID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const matchCols = `id, match_date, winner_side, is_deleted, create_time, update_time,
	create_user_id, update_user_id`

func scanMatch(row interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.MatchDate, &m.WinnerSide, &m.IsDeleted,
		&m.CreateTime, &m.UpdateTime, &m.CreateUserID, &m.UpdateUserID,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMatch inserts a match and its roster in a single transaction.
// Participant hero name snapshots are resolved from the current hero
// rows; the client-supplied name is kept only when the lookup misses.
func (s *SQLiteStore) CreateMatch(ctx context.Context, m *Match, participants []MatchParticipant) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO matches (match_date, winner_side, create_time, update_time, create_user_id, update_user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.MatchDate, m.WinnerSide, now, now, m.CreateUserID, m.UpdateUserID,
	)
	if err != nil {
		return 0, err
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	heroNames, err := heroNamesByID(ctx, tx, participants)
	if err != nil {
		return 0, err
	}

	for _, mp := range participants {
		heroName := mp.HeroName
		if name, ok := heroNames[mp.HeroID]; ok {
			heroName = name
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO match_participants (match_id, player_id, player_nickname, hero_id, hero_name,
				team_side, position, is_mvp, create_time, update_time, create_user_id, update_user_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			matchID, mp.PlayerID, mp.PlayerNickname, mp.HeroID, heroName,
			mp.TeamSide, mp.Position, mp.IsMvp, now, now, mp.CreateUserID, mp.UpdateUserID,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return matchID, nil
}

func heroNamesByID(ctx context.Context, tx *sql.Tx, participants []MatchParticipant) (map[int64]string, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, mp := range participants {
		if !seen[mp.HeroID] {
			seen[mp.HeroID] = true
			ids = append(ids, mp.HeroID)
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `SELECT id, name_loc FROM heroes WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := tx.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMatch retrieves a non-deleted match by id.
func (s *SQLiteStore) GetMatch(ctx context.Context, id int64) (*Match, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx,
		`SELECT `+matchCols+` FROM matches WHERE id = ? AND is_deleted = 0`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// GetMatchAnyState retrieves a match by id regardless of its soft-delete
// state. Used for audit inspection; aggregates never go through here.
func (s *SQLiteStore) GetMatchAnyState(ctx context.Context, id int64) (*Match, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx,
		`SELECT `+matchCols+` FROM matches WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// GetMatchDetails retrieves a match with its full roster.
func (s *SQLiteStore) GetMatchDetails(ctx context.Context, id int64) (*MatchWithParticipants, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}

	participants, err := s.matchParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MatchWithParticipants{Match: *m, Participants: participants}, nil
}

// matchParticipants returns the roster for a match: snapshot names plus
// live hero/player columns. Deleted heroes/players leave their live
// columns null rather than dropping the row, so historical rosters stay
// complete.
func (s *SQLiteStore) matchParticipants(ctx context.Context, matchID int64) ([]ParticipantView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.id, mp.player_id, mp.player_nickname, mp.hero_id,
			h.name, h.name_loc, h.icon, p.icon, mp.team_side, mp.position, mp.is_mvp
		 FROM match_participants mp
		 LEFT JOIN heroes h ON mp.hero_id = h.id AND h.is_deleted = 0
		 LEFT JOIN players p ON mp.player_id = p.id AND p.is_deleted = 0
		 WHERE mp.match_id = ? AND mp.is_deleted = 0
		 ORDER BY mp.team_side, mp.position`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []ParticipantView
	for rows.Next() {
		var v ParticipantView
		if err := rows.Scan(&v.ID, &v.PlayerID, &v.PlayerNickname, &v.HeroID,
			&v.HeroName, &v.NameLoc, &v.HeroIcon, &v.PlayerIcon,
			&v.TeamSide, &v.Position, &v.IsMvp); err != nil {
			return nil, err
		}
		participants = append(participants, v)
	}
	return participants, rows.Err()
}

// ListMatches returns a page of non-deleted matches with rosters, newest
// match date first.
func (s *SQLiteStore) ListMatches(ctx context.Context, page, pageSize int) ([]MatchWithParticipants, error) {
	offset := (page - 1) * pageSize
	return s.listMatchesWithRosters(ctx,
		`SELECT `+matchCols+` FROM matches WHERE is_deleted = 0
		 ORDER BY match_date DESC LIMIT ? OFFSET ?`, pageSize, offset)
}

// ListRecentMatches returns the most recent non-deleted matches with
// rosters.
func (s *SQLiteStore) ListRecentMatches(ctx context.Context, limit int) ([]MatchWithParticipants, error) {
	return s.listMatchesWithRosters(ctx,
		`SELECT `+matchCols+` FROM matches WHERE is_deleted = 0
		 ORDER BY match_date DESC LIMIT ?`, limit)
}

func (s *SQLiteStore) listMatchesWithRosters(ctx context.Context, query string, args ...interface{}) ([]MatchWithParticipants, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]MatchWithParticipants, 0, len(matches))
	for _, m := range matches {
		participants, err := s.matchParticipants(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, MatchWithParticipants{Match: m, Participants: participants})
	}
	return result, nil
}

// CountMatches counts non-deleted matches.
func (s *SQLiteStore) CountMatches(ctx context.Context) (int, error) {
	return s.countWhere(ctx, `SELECT COUNT(*) FROM matches WHERE is_deleted = 0`)
}

// CountPlayers counts non-deleted players.
func (s *SQLiteStore) CountPlayers(ctx context.Context) (int, error) {
	return s.countWhere(ctx, `SELECT COUNT(*) FROM players WHERE is_deleted = 0`)
}

// CountHeroes counts non-deleted heroes.
func (s *SQLiteStore) CountHeroes(ctx context.Context) (int, error) {
	return s.countWhere(ctx, `SELECT COUNT(*) FROM heroes WHERE is_deleted = 0`)
}

// CountMatchesWonBy counts non-deleted matches won by the given side.
func (s *SQLiteStore) CountMatchesWonBy(ctx context.Context, side Side) (int, error) {
	return s.countWhere(ctx,
		`SELECT COUNT(*) FROM matches WHERE winner_side = ? AND is_deleted = 0`, side)
}

func (s *SQLiteStore) countWhere(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateMatch applies a partial update; a non-nil roster replaces all
// existing participant rows (old rows soft-deleted, new rows inserted).
func (s *SQLiteStore) UpdateMatch(ctx context.Context, id int64, u MatchUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	sets := []string{"update_time = ?", "update_user_id = ?"}
	args := []interface{}{now, u.UpdateUserID}
	if u.MatchDate != nil {
		sets = append(sets, "match_date = ?")
		args = append(args, *u.MatchDate)
	}
	if u.WinnerSide != nil {
		sets = append(sets, "winner_side = ?")
		args = append(args, *u.WinnerSide)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE matches SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0",
		append(args, id)...)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if u.Participants != nil {
		_, err := tx.ExecContext(ctx,
			`UPDATE match_participants SET is_deleted = 1, update_time = ?, update_user_id = ?
			 WHERE match_id = ? AND is_deleted = 0`,
			now, u.UpdateUserID, id)
		if err != nil {
			return err
		}

		heroNames, err := heroNamesByID(ctx, tx, u.Participants)
		if err != nil {
			return err
		}
		for _, mp := range u.Participants {
			heroName := mp.HeroName
			if name, ok := heroNames[mp.HeroID]; ok {
				heroName = name
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO match_participants (match_id, player_id, player_nickname, hero_id, hero_name,
					team_side, position, is_mvp, create_time, update_time, create_user_id, update_user_id)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, mp.PlayerID, mp.PlayerNickname, mp.HeroID, heroName,
				mp.TeamSide, mp.Position, mp.IsMvp, now, now, mp.CreateUserID, mp.UpdateUserID,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// SoftDeleteMatch marks a match deleted and cascades to its participants.
func (s *SQLiteStore) SoftDeleteMatch(ctx context.Context, id, actorID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE matches SET is_deleted = 1, update_time = ?, update_user_id = ?
		 WHERE id = ? AND is_deleted = 0`,
		now, actorID, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE match_participants SET is_deleted = 1, update_time = ?, update_user_id = ?
		 WHERE match_id = ? AND is_deleted = 0`,
		now, actorID, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListPlayerParticipations returns a player's appearances joined to their
// match outcomes, most recent match first.
func (s *SQLiteStore) ListPlayerParticipations(ctx context.Context, playerID int64) ([]Participation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.match_id, mp.team_side, mp.hero_id, m.winner_side, m.match_date
		 FROM match_participants mp
		 JOIN matches m ON mp.match_id = m.id
		 WHERE mp.player_id = ? AND mp.is_deleted = 0 AND m.is_deleted = 0
		 ORDER BY m.match_date DESC, mp.id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []Participation
	for rows.Next() {
		var p Participation
		if err := rows.Scan(&p.MatchID, &p.TeamSide, &p.HeroID, &p.WinnerSide, &p.MatchDate); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ListPicksByPlayer returns a player's picks with live hero columns.
// Soft-deleted heroes are excluded so they never count toward hero
// breakdowns.
func (s *SQLiteStore) ListPicksByPlayer(ctx context.Context, playerID int64) ([]PickRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.hero_id, h.name, h.name_loc, h.icon, mp.team_side, m.winner_side
		 FROM match_participants mp
		 JOIN matches m ON mp.match_id = m.id
		 JOIN heroes h ON mp.hero_id = h.id
		 WHERE mp.player_id = ? AND mp.is_deleted = 0 AND m.is_deleted = 0 AND h.is_deleted = 0`,
		playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []PickRow
	for rows.Next() {
		var r PickRow
		if err := rows.Scan(&r.HeroID, &r.HeroName, &r.HeroNameLoc, &r.HeroIcon, &r.TeamSide, &r.WinnerSide); err != nil {
			return nil, err
		}
		picks = append(picks, r)
	}
	return picks, rows.Err()
}

// ListPicksByHero returns all picks of a hero with snapshot nicknames.
func (s *SQLiteStore) ListPicksByHero(ctx context.Context, heroID int64) ([]PickRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.player_id, mp.player_nickname, mp.team_side, m.winner_side
		 FROM match_participants mp
		 JOIN matches m ON mp.match_id = m.id
		 WHERE mp.hero_id = ? AND mp.is_deleted = 0 AND m.is_deleted = 0`,
		heroID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []PickRow
	for rows.Next() {
		var r PickRow
		if err := rows.Scan(&r.PlayerID, &r.PlayerNickname, &r.TeamSide, &r.WinnerSide); err != nil {
			return nil, err
		}
		picks = append(picks, r)
	}
	return picks, rows.Err()
}

// ListPicksWithPlayers returns every pick joined to its live player row.
// Soft-deleted players are excluded.
func (s *SQLiteStore) ListPicksWithPlayers(ctx context.Context) ([]PickRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.player_id, mp.player_nickname, p.icon, mp.team_side, m.winner_side
		 FROM match_participants mp
		 JOIN matches m ON mp.match_id = m.id
		 JOIN players p ON mp.player_id = p.id
		 WHERE mp.is_deleted = 0 AND m.is_deleted = 0 AND p.is_deleted = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []PickRow
	for rows.Next() {
		var r PickRow
		if err := rows.Scan(&r.PlayerID, &r.PlayerNickname, &r.PlayerIcon, &r.TeamSide, &r.WinnerSide); err != nil {
			return nil, err
		}
		picks = append(picks, r)
	}
	return picks, rows.Err()
}

// ListPicksWithHeroes returns every pick joined to its live hero row.
// Soft-deleted heroes are excluded.
func (s *SQLiteStore) ListPicksWithHeroes(ctx context.Context) ([]PickRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mp.hero_id, h.name, h.name_loc, h.icon, mp.team_side, m.winner_side
		 FROM match_participants mp
		 JOIN matches m ON mp.match_id = m.id
		 JOIN heroes h ON mp.hero_id = h.id
		 WHERE mp.is_deleted = 0 AND m.is_deleted = 0 AND h.is_deleted = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []PickRow
	for rows.Next() {
		var r PickRow
		if err := rows.Scan(&r.HeroID, &r.HeroName, &r.HeroNameLoc, &r.HeroIcon, &r.TeamSide, &r.WinnerSide); err != nil {
			return nil, err
		}
		picks = append(picks, r)
	}
	return picks, rows.Err()
}

// ListParticipantsForMatches returns all non-deleted participant rows of
// the given matches.
func (s *SQLiteStore) ListParticipantsForMatches(ctx context.Context, matchIDs []int64) ([]ParticipantRow, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query := `SELECT match_id, player_id, player_nickname, team_side
		 FROM match_participants
		 WHERE match_id IN (` + placeholders(len(matchIDs)) + `) AND is_deleted = 0`
	rows, err := s.db.QueryContext(ctx, query, int64Args(matchIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []ParticipantRow
	for rows.Next() {
		var p ParticipantRow
		if err := rows.Scan(&p.MatchID, &p.PlayerID, &p.PlayerNickname, &p.TeamSide); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ListMatchesInRange returns non-deleted matches within [from, to].
func (s *SQLiteStore) ListMatchesInRange(ctx context.Context, from, to time.Time) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchCols+` FROM matches
		 WHERE is_deleted = 0 AND match_date >= ? AND match_date <= ?
		 ORDER BY match_date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// ListMatchTimeline returns every non-deleted match outcome in date order.
func (s *SQLiteStore) ListMatchTimeline(ctx context.Context) ([]TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_date, winner_side FROM matches WHERE is_deleted = 0 ORDER BY match_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.MatchDate, &p.WinnerSide); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
