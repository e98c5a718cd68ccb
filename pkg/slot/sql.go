package slot

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of an [SQLBackend].
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

var schemas = map[Dialect]string{
	DialectSQLite: `
CREATE TABLE IF NOT EXISTS slots (
	slot_key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`,
	DialectMySQL: `
CREATE TABLE IF NOT EXISTS slots (
	slot_key VARCHAR(191) PRIMARY KEY,
	data LONGBLOB NOT NULL,
	updated_at BIGINT NOT NULL
)`,
}

var upserts = map[Dialect]string{
	DialectSQLite: `INSERT INTO slots (slot_key, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(slot_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
	DialectMySQL: `INSERT INTO slots (slot_key, data, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`,
}

// SQLBackend stores slots in a "slots" table.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLBackend opens dsn with the driver of the dialect and creates the
// table if needed. For SQLite the DSN is a file path.
func NewSQLBackend(ctx context.Context, dialect Dialect, dsn string) (*SQLBackend, error) {
	schema, ok := schemas[dialect]
	if !ok {
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLBackend{db: db, dialect: dialect}, nil
}

// Get returns the row for key.
func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, "SELECT data FROM slots WHERE slot_key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, sqlError("select", err)
	}
	return data, true, nil
}

// Set upserts the row for key.
func (b *SQLBackend) Set(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx, upserts[b.dialect], key, data, time.Now().Unix())
	if err != nil {
		return sqlError("upsert", err)
	}
	return nil
}

// Delete removes the row for key.
func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM slots WHERE slot_key = ?", key); err != nil {
		return sqlError("delete", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLBackend) Close() error { return b.db.Close() }

// Name returns the dialect name.
func (b *SQLBackend) Name() string { return string(b.dialect) }

func sqlError(op string, err error) error {
	wrapped := fmt.Errorf("sql %s: %w", op, err)
	if errors.Is(err, driver.ErrBadConn) {
		return Retryable(wrapped)
	}
	return wrapped
}

var _ Backend = (*SQLBackend)(nil)
