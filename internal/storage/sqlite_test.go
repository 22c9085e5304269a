package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/collector/internal/registry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(gameID string, seed int64, reward float64, complete bool) registry.Result {
	return registry.Result{
		GameID:        gameID,
		Seed:          seed,
		Locator:       "symmetric",
		Ticks:         100,
		TotalReward:   reward,
		LevelComplete: complete,
		FuelLeft:      42.5,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []registry.Result{
		result("collector", 1, -150, false),
		result("collector", 2, 80.5, true),
		result("collector", 3, -20, false),
		result("collector_random", 4, 500, true),
	} {
		if _, err := store.SaveEpisode(r); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}

	top, err := store.TopEpisodes("collector", 10)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 episodes, got %d", len(top))
	}
	if top[0].TotalReward != 80.5 || top[1].TotalReward != -20 || top[2].TotalReward != -150 {
		t.Errorf("Episodes not sorted by reward: %+v", top)
	}

	best := top[0]
	if best.Seed != 2 || !best.LevelComplete || best.Locator != "symmetric" || best.Ticks != 100 || best.FuelLeft != 42.5 {
		t.Errorf("Round trip lost fields: %+v", best)
	}
	if best.CreatedAt.IsZero() || time.Since(best.CreatedAt) > 24*time.Hour {
		t.Errorf("Unexpected created_at %v", best.CreatedAt)
	}
	if top[1].LevelComplete {
		t.Error("Expected incomplete episode to stay incomplete")
	}
}

func TestStoreTopEpisodesLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		store.SaveEpisode(result("test", int64(i), float64((i+1)*100), false))
	}

	top, err := store.TopEpisodes("test", 3)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 episodes with limit, got %d", len(top))
	}
	if top[0].TotalReward != 500 || top[1].TotalReward != 400 || top[2].TotalReward != 300 {
		t.Errorf("Episodes not in expected order: %+v", top)
	}
}

func TestStoreRecentAndBySeed(t *testing.T) {
	store := openTestStore(t)
	store.SaveEpisode(result("collector", 7, 1, false))
	store.SaveEpisode(result("collector_inline", 7, 2, false))
	store.SaveEpisode(result("collector", 8, 3, false))

	recent, err := store.RecentEpisodes(2)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Seed != 8 || recent[1].GameID != "collector_inline" {
		t.Errorf("Unexpected recent episodes: %+v", recent)
	}

	seven, err := store.EpisodesBySeed(7)
	if err != nil {
		t.Fatalf("EpisodesBySeed() failed: %v", err)
	}
	if len(seven) != 2 || seven[0].GameID != "collector" {
		t.Errorf("Unexpected episodes for seed 7: %+v", seven)
	}
}

func TestStoreBestReward(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.BestReward("collector"); err != nil || ok {
		t.Fatalf("BestReward() on empty store = ok %v, err %v", ok, err)
	}

	store.SaveEpisode(result("collector", 1, -300, false))
	store.SaveEpisode(result("collector", 2, -40, false))

	best, ok, err := store.BestReward("collector")
	if err != nil {
		t.Fatalf("BestReward() failed: %v", err)
	}
	if !ok || best != -40 {
		t.Errorf("Expected best reward -40, got %v (ok %v)", best, ok)
	}
}

func TestStoreClearEpisodes(t *testing.T) {
	store := openTestStore(t)
	store.SaveEpisode(result("collector", 1, 1, false))
	store.SaveEpisode(result("collector", 2, 2, false))
	store.SaveEpisode(result("collector_random", 3, 3, false))

	if err := store.ClearEpisodes("collector"); err != nil {
		t.Fatalf("ClearEpisodes() failed: %v", err)
	}

	left, _ := store.TopEpisodes("collector", 10)
	if len(left) != 0 {
		t.Errorf("Expected 0 episodes after clear, got %d", len(left))
	}
	other, _ := store.TopEpisodes("collector_random", 10)
	if len(other) != 1 {
		t.Error("Other presets should not be affected by clearing")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("collector")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.Episodes != 0 || empty.CompletionRate() != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Unexpected stats for empty preset: %+v", empty)
	}

	store.SaveEpisode(result("collector", 1, 100, true))
	store.SaveEpisode(result("collector", 2, -50, false))
	store.SaveEpisode(result("collector", 3, -20, false))
	store.SaveEpisode(result("collector", 4, 10, true))
	store.SaveEpisode(result("collector_inline", 5, 7, false))

	stats, err := store.GetGameStats("collector")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Episodes != 4 || stats.Completed != 2 || stats.BestReward != 100 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgReward != 10 || stats.AvgTicks != 100 {
		t.Errorf("Unexpected averages: %+v", stats)
	}
	if stats.CompletionRate() != 0.5 {
		t.Errorf("CompletionRate() = %v, expected 0.5", stats.CompletionRate())
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["collector_inline"].Episodes != 1 || all["collector"].Completed != 2 {
		t.Errorf("Unexpected stats map: %+v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
