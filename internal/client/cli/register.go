package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iudanet/treekeeper/internal/models"
)

// RegisterOptions значения нового дерева, заданные флагами
type RegisterOptions struct {
	Species    string // UUID или код вида
	Notes      string
	Location   string
	Height     float64
	TrunkCount int
	Price      int
}

func (c *Cli) runRegister(ctx context.Context, opts RegisterOptions) error {
	if opts.Species == "" {
		if !c.io.IsInteractive() {
			return fmt.Errorf("--species is required when input is not a terminal")
		}
		if err := c.promptRegister(&opts); err != nil {
			return err
		}
	}

	species, err := c.findSpecies(ctx, opts.Species)
	if err != nil {
		return err
	}

	draft := &models.TreeDraft{
		SpeciesID:   species.ID,
		SpeciesName: species.Name,
		SpeciesCode: species.Code,
		Height:      opts.Height,
		TrunkCount:  opts.TrunkCount,
		Price:       opts.Price,
		Notes:       models.StringPtr(opts.Notes),
		Location:    models.StringPtr(opts.Location),
	}

	tempID, err := c.repo.RegisterTreeOffline(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to register tree: %w", err)
	}

	c.io.Println("✓ Tree registered locally")
	c.io.Printf("Temporary ID: %s\n", tempID)
	c.io.Println("The management number is assigned on the next 'treekeeper sync'.")
	return nil
}

func (c *Cli) promptRegister(opts *RegisterOptions) error {
	c.io.Println("=== Register Tree ===")
	c.io.Println()

	species, err := c.io.ReadInput("Species (code or ID): ")
	if err != nil {
		return fmt.Errorf("failed to read species: %w", err)
	}
	opts.Species = species

	height, err := c.io.ReadInput("Height, m: ")
	if err != nil {
		return fmt.Errorf("failed to read height: %w", err)
	}
	if opts.Height, err = strconv.ParseFloat(height, 64); err != nil {
		return fmt.Errorf("invalid height %q: %w", height, err)
	}

	trunks, err := c.io.ReadInput("Trunk count [1]: ")
	if err != nil {
		return fmt.Errorf("failed to read trunk count: %w", err)
	}
	opts.TrunkCount = 1
	if trunks != "" {
		if opts.TrunkCount, err = strconv.Atoi(trunks); err != nil {
			return fmt.Errorf("invalid trunk count %q: %w", trunks, err)
		}
	}

	price, err := c.io.ReadInput("Price [0]: ")
	if err != nil {
		return fmt.Errorf("failed to read price: %w", err)
	}
	if price != "" {
		if opts.Price, err = strconv.Atoi(price); err != nil {
			return fmt.Errorf("invalid price %q: %w", price, err)
		}
	}

	if opts.Location, err = c.io.ReadInput("Location (optional): "); err != nil {
		return fmt.Errorf("failed to read location: %w", err)
	}
	if opts.Notes, err = c.io.ReadInput("Notes (optional): "); err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	return nil
}

// findSpecies ищет вид по UUID или коду
func (c *Cli) findSpecies(ctx context.Context, key string) (*models.Species, error) {
	species, err := c.repo.GetAllSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load species: %w", err)
	}

	for _, s := range species {
		if s.ID == key || (s.Code != nil && *s.Code == key) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown species %q. Run 'treekeeper species' to list them", key)
}
