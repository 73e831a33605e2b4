package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/viewmodel"
)

// runWatch держит список деревьев актуальным и синхронизирует очередь
// при каждом восстановлении связи, пока ctx не отменен
func (c *Cli) runWatch(ctx context.Context, signal connectivity.Signal) error {
	view := viewmodel.NewTreeListView(c.repo, c.syncService, c.watcher, c.logger, c.printListState)
	defer view.Close()

	if err := view.Load(ctx); err != nil {
		return err
	}

	poller := connectivity.NewPoller(c.watcher, signal, c.pollInterval, c.logger)
	go poller.Run(ctx)

	c.io.Println("Watching for connectivity changes. Press Ctrl+C to stop.")
	err := view.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Cli) printListState(state viewmodel.ListState) {
	if state.Err != nil {
		c.io.Printf("[%s] error: %v\n", time.Now().Format(time.TimeOnly), state.Err)
		return
	}
	line := fmt.Sprintf("[%s] %s: %d tree(s), %d species, %d pending",
		time.Now().Format(time.TimeOnly), c.onlineLabel(),
		len(state.Trees), len(state.Species), state.PendingCount)
	if state.Message != "" {
		line += " - " + state.Message
	}
	c.io.Println(line)
}
