package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/fleet-command/game/config"
	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
)

// restartable returns a file store in a temp dir; each call to the returned
// func builds a fresh manager over it, as a server restart would.
func restartable(t *testing.T) (*FilePersistence, *engine.GameConfig, func() *Manager) {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	store, err := NewFilePersistence(t.TempDir(), configs)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return store, configs.GetDefault(), func() *Manager { return NewManagerWithPersistence(store) }
}

func TestPersistentManager_WritesThroughOnCreate(t *testing.T) {
	store, board, boot := restartable(t)

	created, err := boot().Create("harbor", board, "Alice", "Bob")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if !store.Exists(created.ID) {
		t.Fatal("Expected session file right after Create")
	}

	onDisk, err := store.Load(created.ID)
	if err != nil {
		t.Fatalf("Failed to load written session: %v", err)
	}
	if got := onDisk.Game.Players(); got[0].Name != "Alice" || got[1].Name != "Bob" {
		t.Errorf("Expected Alice and Bob on disk, got %v", got)
	}
}

func TestPersistentManager_RevivesAfterRestart(t *testing.T) {
	_, board, boot := restartable(t)

	first := boot()
	sess, _ := first.Create("harbor", board, "Alice", "Bob")
	bob := sess.Game.Players()[1]
	if err := sess.Game.CreateShip(bob.ID, engine.Battleship, engine.NewCoordinate(4, 4), engine.Landscape); err != nil {
		t.Fatalf("Failed to place ship: %v", err)
	}
	if err := first.Save("harbor"); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	second := boot()
	revived, err := second.Get("harbor")
	if err != nil {
		t.Fatalf("Expected revive from disk, got %v", err)
	}
	again, _ := second.Get("harbor")
	if again != revived {
		t.Error("Expected revived session to be cached")
	}

	ships, err := revived.Game.Ships(bob.ID)
	if err != nil {
		t.Fatalf("Expected player ids to survive a restart: %v", err)
	}
	if len(ships) != 1 || ships[0].Origin() != engine.NewCoordinate(4, 4) {
		t.Errorf("Expected Bob's battleship at D4, got %v", ships)
	}
}

func TestPersistentManager_UnsavedChangesAreLost(t *testing.T) {
	_, board, boot := restartable(t)

	first := boot()
	sess, _ := first.Create("harbor", board, "Alice", "Bob")
	alice := sess.Game.Players()[0]
	sess.Game.CreateShip(alice.ID, engine.PatrolBoat, engine.NewCoordinate(1, 1), engine.Portrait)

	revived, err := boot().Get("harbor")
	if err != nil {
		t.Fatalf("Failed to revive session: %v", err)
	}
	if ships, _ := revived.Game.Ships(alice.ID); len(ships) != 0 {
		t.Errorf("Expected only saved state on disk, got %v", ships)
	}
}

func TestPersistentManager_Delete(t *testing.T) {
	store, board, boot := restartable(t)
	manager := boot()

	manager.Create("gone", board, "Alice", "Bob")
	manager.Create("parked", board, "Alice", "Bob")

	if err := manager.Delete("gone"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if store.Exists("gone") {
		t.Error("Expected Delete to remove the file")
	}
	if _, err := manager.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}

	if err := manager.DeleteFromMemory("parked"); err != nil {
		t.Fatalf("Failed to drop session from memory: %v", err)
	}
	if !store.Exists("parked") {
		t.Error("Expected DeleteFromMemory to leave the file")
	}
	if _, err := manager.Get("parked"); err != nil {
		t.Errorf("Expected parked session to revive, got %v", err)
	}
}

func TestPersistentManager_CleanupKeepsFiles(t *testing.T) {
	store, board, boot := restartable(t)
	manager := boot()

	sess, _ := manager.Create("idle", board, "Alice", "Bob")
	sess.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Fatalf("Expected 1 expired session, got %d", removed)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected empty memory, got %d", manager.Count())
	}
	if !store.Exists("idle") {
		t.Error("Expected expiry to keep the file")
	}
}

func TestPersistentManager_LoadPersistedSessions(t *testing.T) {
	store, board, boot := restartable(t)

	ids := []string{"north", "south", "east"}
	first := boot()
	for _, id := range ids {
		if _, err := first.Create(id, board, "Alice", "Bob"); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}
	// Unreadable files are skipped
	os.WriteFile(filepath.Join(store.sessionsDir, "broken.json"), []byte("{"), 0644)

	second := boot()
	if err := second.LoadPersistedSessions(); err != nil {
		t.Fatalf("Failed to load persisted sessions: %v", err)
	}
	if second.Count() != len(ids) {
		t.Errorf("Expected %d sessions loaded, got %d", len(ids), second.Count())
	}
	for _, id := range ids {
		if _, err := second.Get(id); err != nil {
			t.Errorf("Expected %s in memory, got %v", id, err)
		}
	}
}

func TestPersistentManager_UpdateLastAccessed(t *testing.T) {
	_, board, boot := restartable(t)
	manager := boot()

	sess, _ := manager.Create("ping", board, "Alice", "Bob")
	before := sess.LastAccessedAt
	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ping"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	revived, err := boot().Get("ping")
	if err != nil {
		t.Fatalf("Failed to revive session: %v", err)
	}
	if !revived.LastAccessedAt.After(before) {
		t.Error("Expected touched timestamp on disk")
	}
}

// failingStore accepts reads but rejects every write
type failingStore struct {
	SessionPersistence
}

func (failingStore) Save(s *service.Session) error { return errors.New("disk full") }
func (failingStore) Exists(id string) bool         { return false }

func TestPersistentManager_SaveAllSessionsJoinsErrors(t *testing.T) {
	manager := NewManagerWithPersistence(failingStore{})
	board := createTestConfig()
	manager.Create("one", board, "Alice", "Bob")
	manager.Create("two", board, "Alice", "Bob")

	err := manager.SaveAllSessions()
	if err == nil {
		t.Fatal("Expected SaveAllSessions to report failures")
	}
	for _, id := range []string{"one", "two"} {
		if !strings.Contains(err.Error(), "session "+id) {
			t.Errorf("Expected error to name session %s, got %v", id, err)
		}
	}

	if err := NewManager().SaveAllSessions(); err != nil {
		t.Errorf("Expected no-op without persistence, got %v", err)
	}
}

func TestPersistentManager_MixedCaseDeleteAndRevive(t *testing.T) {
	store, board, boot := restartable(t)
	manager := boot()

	sess, err := manager.Create("72b0", board, "Alice", "Bob")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	upper := strings.ToUpper(sess.ID)

	// Expired from memory, then asked for in another case
	sess.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	manager.CleanupExpiredSessions(time.Hour)
	if _, err := manager.Get(upper); err != nil {
		t.Fatalf("Expected %s to revive from disk, got %v", upper, err)
	}

	if err := manager.Delete(upper); err != nil {
		t.Fatalf("Failed to delete %s: %v", upper, err)
	}
	if store.Exists(sess.ID) {
		t.Error("Expected session file to be removed")
	}
	if _, err := manager.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected deleted session to stay gone, got %v", err)
	}

	restarted := boot()
	if err := restarted.LoadPersistedSessions(); err != nil {
		t.Fatalf("Failed to load persisted sessions: %v", err)
	}
	if restarted.Count() != 0 {
		t.Errorf("Expected no sessions after restart, got %d", restarted.Count())
	}
}
