package slot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir holds slot files for the file backend and the default SQLite
	// database.
	Dir string

	RedisURL    string
	RedisPrefix string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// DSN is the data source for the SQL backends.
	DSN string
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileBackend(opts.Dir)
	case BackendNull:
		return NewNullBackend(), nil
	case BackendRedis:
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = "pipecanvas:slot:"
		}
		return NewRedisBackend(ctx, opts.RedisURL, prefix)
	case BackendMongo:
		db, coll := opts.MongoDatabase, opts.MongoCollection
		if db == "" {
			db = "pipecanvas"
		}
		if coll == "" {
			coll = "slots"
		}
		return NewMongoBackend(ctx, opts.MongoURI, db, coll)
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = filepath.Join(opts.Dir, "slots.db")
		}
		return NewSQLBackend(ctx, DialectSQLite, dsn)
	case BackendMySQL:
		return NewSQLBackend(ctx, DialectMySQL, opts.DSN)
	}
	return nil, fmt.Errorf("unknown slot backend %q", opts.Backend)
}
