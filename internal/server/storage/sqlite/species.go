package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/internal/validation"
	"github.com/iudanet/treekeeper/pkg/api"
)

var speciesTable = table{
	columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"name_kana": "name_kana",
		"code":      "code",
	},
	defaultOrder: "COALESCE(name_kana, '') = '', COALESCE(name_kana, ''), id",
}

// ListSpecies returns species matching q
func (s *Storage) ListSpecies(ctx context.Context, q api.Query) ([]*models.Species, error) {
	where, args, err := speciesTable.where(q)
	if err != nil {
		return nil, err
	}
	tail, err := speciesTable.orderLimit(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, name_kana, code FROM species_master"+where+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Species, 0)
	for rows.Next() {
		var (
			sp             models.Species
			nameKana, code sql.NullString
		)
		if err := rows.Scan(&sp.ID, &sp.Name, &nameKana, &code); err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		sp.NameKana = nullString(nameKana)
		sp.Code = nullString(code)
		result = append(result, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate species: %w", err)
	}

	return result, nil
}

// CreateSpecies inserts a species; an empty id is generated
func (s *Storage) CreateSpecies(ctx context.Context, species *models.Species) (*models.Species, error) {
	if species == nil || species.Name == "" {
		return nil, fmt.Errorf("%w: species name is required", storage.ErrInvalidQuery)
	}
	if species.Code != nil {
		if err := validation.ValidateSpeciesCode(*species.Code); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
		}
	}

	created := *species
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO species_master (id, name, name_kana, code) VALUES (?, ?, ?, ?)",
		created.ID, created.Name, sqlValue(created.NameKana), sqlValue(created.Code),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert species: %w", mapError(err))
	}

	return &created, nil
}
