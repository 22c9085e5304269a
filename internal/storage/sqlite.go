// Package storage provides SQLite-based persistence for finished episodes.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/collector/internal/registry"
)

// Store manages the SQLite database connection for episode history.
type Store struct {
	db *sql.DB
}

// EpisodeEntry is one finished episode.
type EpisodeEntry struct {
	ID            int64
	GameID        string
	Seed          int64
	Locator       string
	Ticks         int
	TotalReward   float64
	LevelComplete bool
	FuelLeft      float64
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			locator TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			level_complete INTEGER NOT NULL DEFAULT 0,
			fuel_left REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_game_id ON episodes(game_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(game_id, total_reward DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns its row ID.
func (s *Store) SaveEpisode(r registry.Result) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (game_id, seed, locator, ticks, total_reward, level_complete, fuel_left)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Seed, r.Locator, r.Ticks, r.TotalReward, r.LevelComplete, r.FuelLeft,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const episodeColumns = `id, game_id, seed, locator, ticks, total_reward, level_complete, fuel_left, created_at`

// TopEpisodes retrieves the best N episodes for a preset by total reward.
func (s *Store) TopEpisodes(gameID string, limit int) ([]EpisodeEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEpisodes(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE game_id = ?
		 ORDER BY total_reward DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// RecentEpisodes retrieves the latest episodes across all presets.
func (s *Store) RecentEpisodes(limit int) ([]EpisodeEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryEpisodes(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// EpisodesBySeed retrieves every episode played on a seed, oldest first.
func (s *Store) EpisodesBySeed(seed int64) ([]EpisodeEntry, error) {
	return s.queryEpisodes(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE seed = ?
		 ORDER BY id ASC`,
		seed,
	)
}

func (s *Store) queryEpisodes(query string, args ...any) ([]EpisodeEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []EpisodeEntry
	for rows.Next() {
		var e EpisodeEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seed, &e.Locator, &e.Ticks,
			&e.TotalReward, &e.LevelComplete, &e.FuelLeft, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// BestReward returns the highest total reward for a preset, or 0 and false
// when nothing was played yet.
func (s *Store) BestReward(gameID string) (float64, bool, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(total_reward) FROM episodes WHERE game_id = ?",
		gameID,
	).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best reward: %w", err)
	}
	return best.Float64, best.Valid, nil
}

// ClearEpisodes deletes all episodes for the given preset.
func (s *Store) ClearEpisodes(gameID string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a preset.
type GameStats struct {
	GameID     string
	Episodes   int
	Completed  int
	BestReward float64
	AvgReward  float64
	AvgTicks   float64
	LastPlayed time.Time
}

// CompletionRate returns the share of episodes that ended in a full goal.
func (g GameStats) CompletionRate() float64 {
	if g.Episodes == 0 {
		return 0
	}
	return float64(g.Completed) / float64(g.Episodes)
}

// GetGameStats retrieves aggregated statistics for a specific preset.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(level_complete), 0), COALESCE(MAX(total_reward), 0),
		        COALESCE(AVG(total_reward), 0), COALESCE(AVG(ticks), 0)
		 FROM episodes WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Episodes, &stats.Completed, &stats.BestReward, &stats.AvgReward, &stats.AvgTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM episodes WHERE game_id = ? ORDER BY id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every preset that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(level_complete), MAX(total_reward), AVG(total_reward), AVG(ticks), MAX(created_at)
		 FROM episodes
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var g GameStats
		var lastPlayed any
		if err := rows.Scan(&g.GameID, &g.Episodes, &g.Completed, &g.BestReward,
			&g.AvgReward, &g.AvgTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		g.LastPlayed = parseTime(lastPlayed)
		stats[g.GameID] = &g
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
