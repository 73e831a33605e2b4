package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/iocli"
	"github.com/iudanet/treekeeper/internal/client/repository"
	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/models"
)

// Cli выполняет команды поверх репозитория и сервиса синхронизации
type Cli struct {
	io           iocli.IO
	repo         *repository.Repository
	syncService  sync.Service
	store        storage.Store
	watcher      *connectivity.Watcher
	logger       *slog.Logger
	closers      []func() error
	pollInterval time.Duration
}

// New собирает Cli из готовых компонентов
func New(io iocli.IO, repo *repository.Repository, syncService sync.Service, store storage.Store, watcher *connectivity.Watcher, logger *slog.Logger) *Cli {
	return &Cli{
		io:           io,
		repo:         repo,
		syncService:  syncService,
		store:        store,
		watcher:      watcher,
		logger:       logger,
		pollInterval: connectivity.DefaultPollInterval,
	}
}

// Close releases everything opened for the command, in reverse order.
func (c *Cli) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Cli) onlineLabel() string {
	if c.watcher.Online() {
		return "online"
	}
	return "offline"
}

func (c *Cli) printTreeSummary(i int, tree *models.Tree) {
	number := valueOr(tree.ManagementNumber, "-")
	if models.IsTempID(tree.ID) {
		number = "(not synced)"
	}
	c.io.Printf("%d. %s  %s\n", i, number, tree.Species.Name)
	c.io.Printf("   ID:       %s\n", tree.ID)
	c.io.Printf("   Height:   %.1f m, %d trunk(s)\n", tree.Height, tree.TrunkCount)
	c.io.Printf("   Status:   %s\n", tree.Status)
	if tree.Location != nil && *tree.Location != "" {
		c.io.Printf("   Location: %s\n", *tree.Location)
	}
}

func (c *Cli) printTreeDetails(tree *models.Tree) {
	c.io.Printf("ID:                %s\n", tree.ID)
	c.io.Printf("Management number: %s\n", valueOr(tree.ManagementNumber, "-"))
	c.io.Printf("Species:           %s\n", tree.Species.Name)
	c.io.Printf("Height:            %.1f m\n", tree.Height)
	c.io.Printf("Trunks:            %d\n", tree.TrunkCount)
	c.io.Printf("Price:             %d\n", tree.Price)
	c.io.Printf("Status:            %s\n", tree.Status)
	if tree.Client != nil {
		c.io.Printf("Client:            %s\n", tree.Client.Name)
	}
	if tree.Location != nil {
		c.io.Printf("Location:          %s\n", *tree.Location)
	}
	if tree.Notes != nil {
		c.io.Printf("Notes:             %s\n", *tree.Notes)
	}
	if tree.ShippedAt != nil {
		c.io.Printf("Shipped at:        %s\n", *tree.ShippedAt)
	}
	if tree.EstimateNumber != nil {
		c.io.Printf("Estimate:          %s\n", *tree.EstimateNumber)
	}
	if tree.ArrivedAt != "" {
		c.io.Printf("Arrived at:        %s\n", tree.ArrivedAt)
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// parseAssignments разбирает аргументы вида field=value
func parseAssignments(args []string) (map[string]string, error) {
	result := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected field=value", arg)
		}
		if _, dup := result[field]; dup {
			return nil, fmt.Errorf("field %s given twice", field)
		}
		result[field] = value
	}
	return result, nil
}
