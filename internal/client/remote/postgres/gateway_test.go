package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

func TestBuildSelect(t *testing.T) {
	query, args, err := buildSelect("trees_view", remote.Query{
		Filters: []api.Filter{api.Like("management_number", "26-AO-*"), api.Eq("status", "in_stock")},
		Order:   []api.Order{{Column: "management_number", Desc: true}},
		Limit:   1,
	})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT coalesce(json_agg(row_to_json(r)), '[]'::json) FROM (`+
			`SELECT * FROM "trees_view" WHERE "management_number"::text LIKE $1 AND "status"::text = $2 `+
			`ORDER BY "management_number" DESC LIMIT 1) r`,
		query)
	assert.Equal(t, []any{"26-AO-%", "in_stock"}, args)
}

func TestBuildSelect_QuotesIdentifiers(t *testing.T) {
	query, _, err := buildSelect("species_master", remote.Query{
		Filters: []api.Filter{api.Eq(`id"; DROP TABLE trees; --`, "x")},
	})
	require.NoError(t, err)
	assert.Contains(t, query, `"id""; DROP TABLE trees; --"::text = $1`)

	_, _, err = buildSelect("trees_view", remote.Query{
		Filters: []api.Filter{{Column: "height", Op: "gt", Value: "3"}},
	})
	assert.Error(t, err)
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert("trees", models.FieldUpdates{
		"species_id": "sp-ao",
		"height":     2.0,
		"notes":      nil,
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "trees" ("height", "notes", "species_id") VALUES ($1, $2, $3) RETURNING id::text`, query)
	assert.Equal(t, []any{2.0, nil, "sp-ao"}, args)

	_, _, err = buildInsert("trees", models.FieldUpdates{})
	assert.Error(t, err)
}

func TestBuildUpdate(t *testing.T) {
	query, args, err := buildUpdate("trees", "t1", models.FieldUpdates{"height": 4.0, "price": 30000}, true)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "trees" SET "height" = $1, "price" = $2, updated_at = now() WHERE id::text = $3`, query)
	assert.Equal(t, []any{4.0, 30000, "t1"}, args)

	query, _, err = buildUpdate("clients", "c1", models.FieldUpdates{"name": "x"}, false)
	require.NoError(t, err)
	assert.NotContains(t, query, "updated_at")
}

// withSearchPath добавляет search_path в DSN как runtime-параметр
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

// Интеграционный тест запускается только при заданном TREEKEEPER_TEST_PG_DSN
func TestGateway_Integration(t *testing.T) {
	dsn := os.Getenv("TREEKEEPER_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TREEKEEPER_TEST_PG_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	admin, err := New(ctx, dsn, logger)
	require.NoError(t, err)
	defer admin.Close()

	schema := fmt.Sprintf("treekeeper_test_%d", time.Now().UnixNano())
	_, err = admin.pool.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	defer func() {
		_, _ = admin.pool.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	}()

	gw, err := New(ctx, withSearchPath(dsn, schema), logger)
	require.NoError(t, err)
	defer gw.Close()

	_, err = gw.pool.Exec(ctx, `
		CREATE TABLE species_master (id text PRIMARY KEY, name text NOT NULL, name_kana text, code text);
		CREATE TABLE clients (id text PRIMARY KEY, name text NOT NULL);
		CREATE TABLE trees (
			id text PRIMARY KEY DEFAULT gen_random_uuid()::text,
			species_id text NOT NULL REFERENCES species_master(id),
			client_id text REFERENCES clients(id),
			height double precision NOT NULL,
			trunk_count integer NOT NULL DEFAULT 1,
			price integer NOT NULL DEFAULT 0,
			status text NOT NULL DEFAULT 'in_stock',
			notes text, shipped_at text, estimate_number text, photo_url text, location text,
			management_number text UNIQUE,
			arrived_at text NOT NULL DEFAULT to_char(now(), 'YYYY-MM-DD'),
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE VIEW trees_view AS
			SELECT t.*, json_build_object('id', s.id, 'name', s.name) AS species,
				CASE WHEN c.id IS NULL THEN NULL ELSE json_build_object('id', c.id, 'name', c.name) END AS client
			FROM trees t JOIN species_master s ON s.id = t.species_id LEFT JOIN clients c ON c.id = t.client_id;
		INSERT INTO species_master (id, name, code) VALUES ('sp-ao', 'Aodamo', 'AO');
	`)
	require.NoError(t, err)

	var created models.Tree
	err = gw.Insert(ctx, remote.EntityTrees, models.FieldUpdates{
		"species_id":        "sp-ao",
		"height":            2.0,
		"management_number": "26-AO-0001",
	}, &created)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Aodamo", created.Species.Name)

	err = gw.Insert(ctx, remote.EntityTrees, models.FieldUpdates{
		"species_id":        "sp-ao",
		"height":            2.0,
		"management_number": "26-AO-0001",
	}, nil)
	assert.ErrorIs(t, err, remote.ErrConflict)

	require.NoError(t, gw.Update(ctx, remote.EntityTrees, created.ID, models.FieldUpdates{"height": 4.0}))
	assert.ErrorIs(t, gw.Update(ctx, remote.EntityTrees, "missing", models.FieldUpdates{"height": 1.0}), remote.ErrNotFound)

	var got models.Tree
	require.NoError(t, gw.SelectOne(ctx, remote.EntityTrees, created.ID, &got))
	assert.Equal(t, 4.0, got.Height)

	var latest []*models.Tree
	require.NoError(t, gw.Select(ctx, remote.EntityTrees, remote.Query{
		Filters: []api.Filter{api.Like("management_number", "26-AO-*")},
		Order:   []api.Order{{Column: "management_number", Desc: true}},
		Limit:   1,
	}, &latest))
	require.Len(t, latest, 1)
	assert.Equal(t, "26-AO-0001", *latest[0].ManagementNumber)
}
