package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/internal/validation"
	"github.com/iudanet/treekeeper/pkg/api"
)

const fieldManagementNumber = "management_number"

var treesTable = table{
	columns: map[string]string{
		"id":                      "t.id",
		models.FieldSpeciesID:      "t.species_id",
		models.FieldClientID:       "t.client_id",
		models.FieldHeight:         "t.height",
		models.FieldTrunkCount:     "t.trunk_count",
		models.FieldPrice:          "t.price",
		models.FieldStatus:         "t.status",
		models.FieldNotes:          "t.notes",
		models.FieldShippedAt:      "t.shipped_at",
		models.FieldEstimateNumber: "t.estimate_number",
		models.FieldPhotoURL:       "t.photo_url",
		models.FieldLocation:       "t.location",
		fieldManagementNumber:      "t.management_number",
		"arrived_at":               "t.arrived_at",
		"created_at":               "t.created_at",
		"updated_at":               "t.updated_at",
	},
	defaultOrder: "t.created_at DESC, t.id",
}

const selectTrees = `
	SELECT t.id, t.species_id, t.client_id, t.height, t.trunk_count, t.price,
		t.status, t.notes, t.shipped_at, t.estimate_number, t.photo_url,
		t.location, t.management_number, t.arrived_at, t.created_at, t.updated_at,
		s.name, c.name
	FROM trees t
	JOIN species_master s ON s.id = t.species_id
	LEFT JOIN clients c ON c.id = t.client_id`

// ListTrees returns trees with embedded species and client matching q
func (s *Storage) ListTrees(ctx context.Context, q api.Query) ([]*models.Tree, error) {
	where, args, err := treesTable.where(q)
	if err != nil {
		return nil, err
	}
	tail, err := treesTable.orderLimit(q)
	if err != nil {
		return nil, err
	}

	return queryTrees(ctx, s.db, selectTrees+where+tail, args...)
}

// CreateTree inserts a tree and returns the stored row
func (s *Storage) CreateTree(ctx context.Context, fields models.FieldUpdates) (*models.Tree, error) {
	if err := validateInsert(fields); err != nil {
		return nil, err
	}

	now := s.nowFunc()
	id := uuid.New().String()

	row := map[string]any{
		"id":                   id,
		models.FieldStatus:     string(models.TreeStatusInStock),
		models.FieldTrunkCount: 1,
		models.FieldPrice:      0,
		"arrived_at":           now.Format(time.DateOnly),
		"created_at":           now.UnixMicro(),
		"updated_at":           now.UnixMicro(),
	}
	for field, value := range fields {
		row[field] = sqlValue(value)
	}

	columns := sortedKeys(row)
	args := make([]any, 0, len(columns))
	for _, c := range columns {
		args = append(args, row[c])
	}

	query := fmt.Sprintf("INSERT INTO trees (%s) VALUES (%s)",
		strings.Join(columns, ", "), placeholders(len(columns)))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert tree: %w", mapError(err))
	}

	trees, err := queryTrees(ctx, s.db, selectTrees+" WHERE t.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("tree %s not found after insert: %w", id, storage.ErrNotFound)
	}
	return trees[0], nil
}

// UpdateTrees sets fields on every tree matching q in one transaction
func (s *Storage) UpdateTrees(ctx context.Context, q api.Query, fields models.FieldUpdates) ([]*models.Tree, error) {
	if len(q.Filters) == 0 {
		return nil, fmt.Errorf("%w: update requires a filter", storage.ErrInvalidQuery)
	}
	if err := validation.ValidateFieldUpdates(fields); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}

	where, args, err := treesTable.where(q)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := queryIDs(ctx, tx, "SELECT t.id FROM trees t"+where, args...)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.Tree{}, nil
	}

	columns := sortedKeys(fields)
	sets := make([]string, 0, len(columns)+1)
	setArgs := make([]any, 0, len(columns)+1+len(ids))
	for _, c := range columns {
		sets = append(sets, c+" = ?")
		setArgs = append(setArgs, sqlValue(fields[c]))
	}
	sets = append(sets, "updated_at = ?")
	setArgs = append(setArgs, s.nowFunc().UnixMicro())

	idArgs := make([]any, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}
	setArgs = append(setArgs, idArgs...)

	update := fmt.Sprintf("UPDATE trees SET %s WHERE id IN (%s)",
		strings.Join(sets, ", "), placeholders(len(ids)))
	if _, err := tx.ExecContext(ctx, update, setArgs...); err != nil {
		return nil, fmt.Errorf("failed to update trees: %w", mapError(err))
	}

	tail, err := treesTable.orderLimit(api.Query{Order: q.Order})
	if err != nil {
		return nil, err
	}
	trees, err := queryTrees(ctx, tx,
		selectTrees+" WHERE t.id IN ("+placeholders(len(ids))+")"+tail, idArgs...)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return trees, nil
}

// CountTrees returns the number of trees
func (s *Storage) CountTrees(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trees").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trees: %w", err)
	}
	return n, nil
}

// validateInsert checks an insert column set: editable columns plus the
// management number, with species and height required.
func validateInsert(fields models.FieldUpdates) error {
	editable := make(models.FieldUpdates, len(fields))
	for field, value := range fields {
		if field == fieldManagementNumber {
			if value == nil {
				continue
			}
			if n, ok := sqlValue(value).(string); !ok || n == "" {
				return fmt.Errorf("%w: management_number must be a non-empty string or null", storage.ErrInvalidQuery)
			}
			continue
		}
		editable[field] = value
	}

	if _, ok := editable[models.FieldSpeciesID]; !ok {
		return fmt.Errorf("%w: species_id is required", storage.ErrInvalidQuery)
	}
	if _, ok := editable[models.FieldHeight]; !ok {
		return fmt.Errorf("%w: height is required", storage.ErrInvalidQuery)
	}
	if err := validation.ValidateFieldUpdates(editable); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}
	return nil
}

// sqlValue приводит значение поля к типу, понятному драйверу
func sqlValue(value any) any {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case models.TreeStatus:
		return string(v)
	}
	return value
}

func queryIDs(ctx context.Context, db querier, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func queryTrees(ctx context.Context, db querier, query string, args ...any) ([]*models.Tree, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trees: %w", err)
	}
	defer rows.Close()

	trees := make([]*models.Tree, 0)
	for rows.Next() {
		tree, err := scanTree(rows)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trees: %w", err)
	}
	return trees, nil
}

func scanTree(rows *sql.Rows) (*models.Tree, error) {
	var (
		tree                                        models.Tree
		status                                      string
		clientID, notes, shippedAt, estimate, photo sql.NullString
		location, managementNumber, clientName      sql.NullString
		createdAt, updatedAt                        int64
	)

	err := rows.Scan(
		&tree.ID, &tree.SpeciesID, &clientID, &tree.Height, &tree.TrunkCount, &tree.Price,
		&status, &notes, &shippedAt, &estimate, &photo,
		&location, &managementNumber, &tree.ArrivedAt, &createdAt, &updatedAt,
		&tree.Species.Name, &clientName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tree: %w", err)
	}

	tree.Status = models.TreeStatus(status)
	tree.Species.ID = tree.SpeciesID
	tree.ClientID = nullString(clientID)
	tree.Notes = nullString(notes)
	tree.ShippedAt = nullString(shippedAt)
	tree.EstimateNumber = nullString(estimate)
	tree.PhotoURL = nullString(photo)
	tree.Location = nullString(location)
	tree.ManagementNumber = nullString(managementNumber)
	tree.CreatedAt = toTime(createdAt)
	tree.UpdatedAt = toTime(updatedAt)

	if tree.ClientID != nil && clientName.Valid {
		tree.Client = &models.ClientRef{ID: *tree.ClientID, Name: clientName.String}
	}

	return &tree, nil
}
