package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx execution methods Collection needs. It is
// satisfied by *pgxpool.Pool, *pgxpool.Conn, and pgx.Tx, so a Collection can
// be scoped to whichever handle the caller owns.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Filter expresses equality constraints, column name to expected value.
type Filter map[string]any

// Collection is a thin fluent query helper over one table, bound to a
// specific Querier. It covers the find/sort/all plus insert/update surface
// that simple CRUD pages need; anything richer should use pgx directly.
type Collection struct {
	q     Querier
	table string
}

// NewCollection binds a table name to a Querier.
func NewCollection(q Querier, table string) *Collection {
	return &Collection{q: q, table: table}
}

// Table returns the collection's table name.
func (c *Collection) Table() string {
	return c.table
}

// Find starts a query constrained by filter. A nil filter selects all rows.
func (c *Collection) Find(filter Filter) *Query {
	return &Query{coll: c, filter: filter}
}

// Insert adds one row with the given column values.
func (c *Collection) Insert(ctx context.Context, row map[string]any) error {
	sql, args := buildInsert(c.table, row)
	_, err := c.q.Exec(ctx, sql, args...)
	return err
}

// Update sets the given columns on all rows matching filter and returns the
// number of rows affected.
func (c *Collection) Update(ctx context.Context, filter Filter, set map[string]any) (int64, error) {
	sql, args := buildUpdate(c.table, filter, set)
	tag, err := c.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes all rows matching filter and returns the number removed.
func (c *Collection) Delete(ctx context.Context, filter Filter) (int64, error) {
	sql, args := buildDelete(c.table, filter)
	tag, err := c.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Query accumulates find/sort/limit state and executes on demand.
type Query struct {
	coll     *Collection
	filter   Filter
	sortBy   string
	sortDesc bool
	limit    int
}

// Sort orders results ascending by column.
func (q *Query) Sort(column string) *Query {
	q.sortBy, q.sortDesc = column, false
	return q
}

// SortDesc orders results descending by column.
func (q *Query) SortDesc(column string) *Query {
	q.sortBy, q.sortDesc = column, true
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Rows executes the query and returns the raw pgx rows.
func (q *Query) Rows(ctx context.Context) (pgx.Rows, error) {
	sql, args := q.build()
	return q.coll.q.Query(ctx, sql, args...)
}

// All executes q and scans every row into T by column name.
func All[T any](ctx context.Context, q *Query) ([]T, error) {
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

// One executes q and scans the first row into T.
// Returns ErrNoRows when nothing matches.
func One[T any](ctx context.Context, q *Query) (T, error) {
	var zero T
	rows, err := q.Rows(ctx)
	if err != nil {
		return zero, err
	}
	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if err == pgx.ErrNoRows {
			return zero, ErrNoRows
		}
		return zero, err
	}
	return v, nil
}

func (q *Query) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(quoteIdent(q.coll.table))

	args := appendWhere(&sb, q.filter, nil)

	if q.sortBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(quoteIdent(q.sortBy))
		if q.sortDesc {
			sb.WriteString(" DESC")
		}
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.limit)
	}
	return sb.String(), args
}

func buildInsert(table string, row map[string]any) (string, []any) {
	cols := sortedKeys(row)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(table))
	sb.WriteString(" (")

	args := make([]any, 0, len(cols))
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(col))
		args = append(args, row[col])
	}

	sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", i+1)
	}
	sb.WriteString(")")
	return sb.String(), args
}

func buildUpdate(table string, filter Filter, set map[string]any) (string, []any) {
	cols := sortedKeys(set)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(quoteIdent(table))
	sb.WriteString(" SET ")

	args := make([]any, 0, len(cols)+len(filter))
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = $%d", quoteIdent(col), len(args)+1)
		args = append(args, set[col])
	}

	args = appendWhere(&sb, filter, args)
	return sb.String(), args
}

func buildDelete(table string, filter Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteIdent(table))
	args := appendWhere(&sb, filter, nil)
	return sb.String(), args
}

// appendWhere writes a WHERE clause for filter, appending to args.
// Columns are emitted in sorted order so generated SQL is deterministic.
func appendWhere(sb *strings.Builder, filter Filter, args []any) []any {
	if len(filter) == 0 {
		return args
	}
	sb.WriteString(" WHERE ")
	for i, col := range sortedKeys(filter) {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(sb, "%s = $%d", quoteIdent(col), len(args)+1)
		args = append(args, filter[col])
	}
	return args
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
