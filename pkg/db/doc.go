// Package db provides PostgreSQL utilities over [github.com/jackc/pgx/v5]:
// pooled connections with startup retry, goose migrations, a transaction
// helper, and a small fluent query helper (Collection) for CRUD pages.
//
// # Connections
//
//	pool, err := db.Connect(ctx, db.Config{
//		ConnectionString: os.Getenv("DATABASE_CONN_URL"),
//		MaxOpenConns:     10,
//		MinConns:         2,
//		RetryAttempts:    3,
//		RetryInterval:    5 * time.Second,
//	})
//
// Requests check out one connection each from the pool and return it when
// the request ends, so MaxOpenConns bounds in-flight request concurrency at
// the database.
//
// # Collections
//
// Collection scopes find/sort/insert/update to one table on whatever handle
// the caller owns (pool, checked-out conn, or transaction):
//
//	entries := db.NewCollection(conn, "entries")
//	rows, err := db.All[Entry](ctx, entries.Find(nil).SortDesc("created_at").Limit(50))
//	err = entries.Insert(ctx, map[string]any{"id": id, "body": body})
//
// The helper only does equality filters and single-column ordering; richer
// queries belong in plain pgx.
//
// # Migrations
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, "schema_migrations", log)
package db
