package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/treekeeper/internal/client/repository"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	if !c.watcher.Online() {
		return fmt.Errorf("remote system is not reachable, changes stay queued")
	}

	c.io.Println("Starting synchronization with server...")
	result := c.syncService.Sync(ctx)

	c.io.Println()
	if result.Failed() == 0 {
		c.io.Println("✓ Synchronization completed successfully!")
	} else {
		c.io.Println("⚠️  Synchronization completed with errors")
	}
	c.io.Println()
	c.io.Printf("Registrations synced: %d\n", result.Registrations)
	c.io.Printf("Trees updated:        %d\n", result.EditGroups)
	c.io.Printf("Edits cleared:        %d\n", result.EditsCleared)
	if result.Deferred > 0 {
		c.io.Printf("Deferred:             %d\n", result.Deferred)
	}
	if result.Failed() > 0 {
		c.io.Printf("Failed (will retry):  %d\n", result.Failed())
	}

	return nil
}

func (c *Cli) runPending(ctx context.Context) error {
	edits, err := c.repo.GetPendingEditCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending edits: %w", err)
	}
	regs, err := c.repo.GetPendingRegistrationCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending registrations: %w", err)
	}

	c.io.Printf("Pending edits:         %d\n", edits)
	c.io.Printf("Pending registrations: %d\n", regs)
	return nil
}

func (c *Cli) runWarm(ctx context.Context) error {
	result, err := c.repo.WarmCache(ctx)
	if errors.Is(err, repository.ErrOffline) {
		return fmt.Errorf("cannot download inventory while offline")
	}
	if err != nil {
		return err
	}

	c.io.Printf("✓ Cached %d tree(s) and %d species\n", result.Trees, result.Species)
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()
	c.io.Printf("Connectivity: %s\n", c.onlineLabel())

	last, err := c.store.GetLastSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last sync: %w", err)
	}
	if last.At.IsZero() {
		c.io.Println("Last sync:    never")
	} else {
		c.io.Printf("Last sync:    %s (%d synced, %d failed)\n",
			last.At.Format(time.RFC3339), last.Synced, last.Failed)
	}

	pendingCount, err := c.syncService.GetPendingSyncCount(ctx)
	if err != nil {
		// Не прерываем выполнение, просто предупреждаем
		c.io.Printf("\nWarning: Failed to get pending sync count: %v\n", err)
		return nil
	}

	c.io.Println()
	if pendingCount > 0 {
		c.io.Printf("⚠️  Pending sync: %d record(s) waiting to be synchronized\n", pendingCount)
		c.io.Println("Run 'treekeeper sync' to synchronize with server.")
	} else {
		c.io.Println("✓ All data synchronized with server")
	}
	return nil
}
