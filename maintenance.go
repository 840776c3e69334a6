package main

import (
	"context"
	"log"
	"time"

	"github.com/wricardo/fleet-command/game/session"
)

const (
	cleanupInterval = time.Hour
	sessionMaxAge   = 24 * time.Hour
	syncInterval    = 5 * time.Second
)

// runMaintenance expires idle sessions and drops sessions whose file was
// deleted out from under the server, until ctx is done.
func runMaintenance(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()
	diskSync := time.NewTicker(syncInterval)
	defer diskSync.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		case <-diskSync.C:
			if pruned := pruneOrphans(manager, persistence); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

// pruneOrphans removes in-memory sessions that no longer have a file
func pruneOrphans(manager *session.Manager, persistence session.SessionPersistence) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (file deleted)", s.ID)
		}
	}
	return pruned
}
