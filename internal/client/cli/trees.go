package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/treekeeper/internal/models"
)

// TreesOptions фильтры команды trees
type TreesOptions struct {
	Location string
	Status   string
}

func (c *Cli) runTrees(ctx context.Context, opts TreesOptions) error {
	if opts.Status != "" && !models.TreeStatus(opts.Status).Valid() {
		return fmt.Errorf("unknown status %q", opts.Status)
	}

	trees, err := c.repo.GetAllTrees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list trees: %w", err)
	}

	filtered := make([]*models.Tree, 0, len(trees))
	for _, tree := range trees {
		if opts.Location != "" && valueOr(tree.Location, "") != opts.Location {
			continue
		}
		if opts.Status != "" && string(tree.Status) != opts.Status {
			continue
		}
		filtered = append(filtered, tree)
	}

	c.io.Printf("=== Trees (%s) ===\n", c.onlineLabel())
	c.io.Println()

	if len(filtered) == 0 {
		c.io.Println("No trees found.")
		c.io.Println()
		c.io.Println("Use 'treekeeper warm' while online to download the inventory.")
		return nil
	}

	c.io.Printf("Found %d tree(s):\n", len(filtered))
	c.io.Println()
	for i, tree := range filtered {
		c.printTreeSummary(i+1, tree)
		c.io.Println()
	}

	if locations := models.Locations(filtered); len(locations) > 0 {
		c.io.Printf("Locations: %v\n", locations)
	}
	return nil
}

func (c *Cli) runTree(ctx context.Context, id string) error {
	tree, err := c.repo.GetTree(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get tree: %w", err)
	}
	if tree == nil {
		return fmt.Errorf("tree not found with ID: %s", id)
	}

	c.io.Println("=== Tree Details ===")
	c.io.Println()
	c.printTreeDetails(tree)

	pending, err := c.store.ListUnsyncedEditsForTree(ctx, tree.ID)
	if err != nil {
		c.logger.Warn("Failed to read pending edits", "tree_id", tree.ID, "error", err)
		return nil
	}
	if models.IsTempID(tree.ID) {
		c.io.Println()
		c.io.Println("⚠️  Registered offline, waiting for sync")
	}
	if len(pending) > 0 {
		c.io.Println()
		c.io.Printf("⚠️  %d field edit(s) waiting for sync\n", len(pending))
	}
	return nil
}

func (c *Cli) runSpecies(ctx context.Context) error {
	species, err := c.repo.GetAllSpecies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list species: %w", err)
	}

	c.io.Println("=== Species ===")
	c.io.Println()

	if len(species) == 0 {
		c.io.Println("No species found.")
		return nil
	}

	for _, s := range species {
		c.io.Printf("%-6s %s\n", valueOr(s.Code, "-"), s.Name)
		c.io.Printf("       ID: %s\n", s.ID)
	}
	return nil
}
