// Package seed loads reference data (species master, clients) into an
// empty server database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/server/storage"
)

// Species описывает вид в файле начальных данных
type Species struct {
	NameKana string `yaml:"name_kana"`
	Code     string `yaml:"code"`
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
}

// Client описывает клиента в файле начальных данных
type Client struct {
	Phone string `yaml:"phone"`
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
}

// Data is the content of a seed file
type Data struct {
	Species []Species `yaml:"species"`
	Clients []Client  `yaml:"clients"`
}

// Store is the storage subset seeding writes to
type Store interface {
	CreateSpecies(ctx context.Context, species *models.Species) (*models.Species, error)
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
}

// Result counts created and already present rows
type Result struct {
	Species int
	Clients int
	Skipped int
}

// Load decodes a seed file. Unknown keys are an error.
func Load(r io.Reader) (*Data, error) {
	var data Data

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	return &data, nil
}

// Apply creates every row of data. Rows that already exist (same id or
// species code) are skipped, so a seed file can be applied on each start.
func Apply(ctx context.Context, store Store, data *Data, logger *slog.Logger) (Result, error) {
	var result Result

	for _, sp := range data.Species {
		_, err := store.CreateSpecies(ctx, &models.Species{
			ID:       sp.ID,
			Name:     sp.Name,
			NameKana: models.StringPtr(sp.NameKana),
			Code:     models.StringPtr(sp.Code),
		})
		switch {
		case err == nil:
			result.Species++
		case errors.Is(err, storage.ErrConflict):
			result.Skipped++
		default:
			return result, fmt.Errorf("failed to seed species %q: %w", sp.Name, err)
		}
	}

	for _, c := range data.Clients {
		_, err := store.CreateClient(ctx, &models.Client{
			ID:    c.ID,
			Name:  c.Name,
			Phone: models.StringPtr(c.Phone),
		})
		switch {
		case err == nil:
			result.Clients++
		case errors.Is(err, storage.ErrConflict):
			result.Skipped++
		default:
			return result, fmt.Errorf("failed to seed client %q: %w", c.Name, err)
		}
	}

	logger.Info("Seed data applied",
		"species", result.Species,
		"clients", result.Clients,
		"skipped", result.Skipped,
	)

	return result, nil
}
