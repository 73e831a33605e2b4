package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/pkg/api"
)

var clientsTable = table{
	columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"phone":      "phone",
		"created_at": "created_at",
	},
	defaultOrder: "name, id",
}

// ListClients returns clients matching q
func (s *Storage) ListClients(ctx context.Context, q api.Query) ([]*models.Client, error) {
	where, args, err := clientsTable.where(q)
	if err != nil {
		return nil, err
	}
	tail, err := clientsTable.orderLimit(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, phone, created_at FROM clients"+where+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Client, 0)
	for rows.Next() {
		var (
			c         models.Client
			phone     sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &phone, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.Phone = nullString(phone)
		c.CreatedAt = toTime(createdAt)
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return result, nil
}

// CreateClient inserts a client; an empty id is generated
func (s *Storage) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	if client == nil || client.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", storage.ErrInvalidQuery)
	}

	created := *client
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	created.CreatedAt = toTime(s.nowFunc().UnixMicro())

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, name, phone, created_at) VALUES (?, ?, ?, ?)",
		created.ID, created.Name, sqlValue(created.Phone), created.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert client: %w", mapError(err))
	}

	return &created, nil
}
