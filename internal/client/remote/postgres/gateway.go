// Package postgres implements remote.Gateway directly over PostgreSQL.
//
// Reads go through JSON-shaped sources: trees are read from the trees_view
// view, which must expose the trees columns plus "species" and "client"
// json objects; species_master and clients are read as tables. Writes go
// to the base tables.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

const sqlStateUniqueViolation = "23505"

type source struct {
	read       string // откуда читать строки в JSON-форме
	write      string // таблица для INSERT/UPDATE
	hasUpdated bool   // есть ли колонка updated_at
}

var sources = map[remote.Entity]source{
	remote.EntityTrees:   {read: "trees_view", write: "trees", hasUpdated: true},
	remote.EntitySpecies: {read: "species_master", write: "species_master"},
	remote.EntityClients: {read: "clients", write: "clients"},
}

// Gateway is a pgxpool-backed remote.Gateway.
type Gateway struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ remote.Gateway = (*Gateway)(nil)

// New connects to dsn and verifies the connection.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Gateway, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	// Клиент одного устройства: много соединений не нужно
	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}

	return &Gateway{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (g *Gateway) Close() {
	g.pool.Close()
}

// Check pings the database. It satisfies connectivity.Probe.
func (g *Gateway) Check(ctx context.Context) error {
	return g.pool.Ping(ctx)
}

// Select returns the rows of entity matching q
func (g *Gateway) Select(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
	src, err := lookup(entity)
	if err != nil {
		return err
	}

	query, args, err := buildSelect(src.read, q)
	if err != nil {
		return fmt.Errorf("select %s failed: %w", entity, err)
	}

	var data []byte
	if err := g.pool.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		return fmt.Errorf("select %s failed: %w", entity, mapError(err))
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", entity, err)
	}
	return nil
}

// SelectOne returns one row by id
func (g *Gateway) SelectOne(ctx context.Context, entity remote.Entity, id string, dest any) error {
	var rows []json.RawMessage
	q := remote.Query{Filters: []api.Filter{api.Eq("id", id)}, Limit: 1}
	if err := g.Select(ctx, entity, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("select %s %s failed: %w", entity, id, remote.ErrNotFound)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", entity, id, err)
	}
	return nil
}

// Insert creates a row and reads it back through the read source
func (g *Gateway) Insert(ctx context.Context, entity remote.Entity, fields models.FieldUpdates, dest any) error {
	src, err := lookup(entity)
	if err != nil {
		return err
	}

	query, args, err := buildInsert(src.write, fields)
	if err != nil {
		return fmt.Errorf("insert %s failed: %w", entity, err)
	}

	var id string
	if err := g.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("insert %s failed: %w", entity, mapError(err))
	}

	g.logger.Debug("Remote row inserted", "entity", entity, "id", id)

	if dest == nil {
		return nil
	}
	return g.SelectOne(ctx, entity, id, dest)
}

// Update overwrites fields of one row
func (g *Gateway) Update(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
	src, err := lookup(entity)
	if err != nil {
		return err
	}

	query, args, err := buildUpdate(src.write, id, fields, src.hasUpdated)
	if err != nil {
		return fmt.Errorf("update %s %s failed: %w", entity, id, err)
	}

	tag, err := g.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s %s failed: %w", entity, id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s %s failed: %w", entity, id, remote.ErrNotFound)
	}
	return nil
}

func lookup(entity remote.Entity) (source, error) {
	src, ok := sources[entity]
	if !ok {
		return source{}, fmt.Errorf("unknown entity %q", entity)
	}
	return src, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.SQLState() == sqlStateUniqueViolation {
			return fmt.Errorf("%w: %s", remote.ErrConflict, pgErr.Message)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	// Ошибки соединения считаем недоступностью сервера
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}
	return err
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// buildSelect собирает запрос, возвращающий все строки одним JSON-массивом
func buildSelect(from string, q remote.Query) (string, []any, error) {
	var (
		sb    strings.Builder
		args  []any
		conds []string
	)

	for _, f := range q.Filters {
		args = append(args, f.Value)
		switch f.Op {
		case api.OpEq:
			conds = append(conds, fmt.Sprintf("%s::text = $%d", ident(f.Column), len(args)))
		case api.OpLike:
			args[len(args)-1] = strings.ReplaceAll(f.Value, "*", "%")
			conds = append(conds, fmt.Sprintf("%s::text LIKE $%d", ident(f.Column), len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", f.Op)
		}
	}

	sb.WriteString("SELECT * FROM ")
	sb.WriteString(ident(from))
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, ident(o.Column)+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	query := "SELECT coalesce(json_agg(row_to_json(r)), '[]'::json) FROM (" + sb.String() + ") r"
	return query, args, nil
}

func sortedColumns(fields models.FieldUpdates) []string {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, fields models.FieldUpdates) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to insert")
	}

	cols := sortedColumns(fields)
	names := make([]string, 0, len(cols))
	params := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		names = append(names, ident(col))
		params = append(params, fmt.Sprintf("$%d", i+1))
		args = append(args, fields[col])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id::text",
		ident(table), strings.Join(names, ", "), strings.Join(params, ", "))
	return query, args, nil
}

func buildUpdate(table, id string, fields models.FieldUpdates, touch bool) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	cols := sortedColumns(fields)
	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(col), i+1))
		args = append(args, fields[col])
	}
	if touch {
		sets = append(sets, "updated_at = now()")
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id::text = $%d",
		ident(table), strings.Join(sets, ", "), len(args))
	return query, args, nil
}
