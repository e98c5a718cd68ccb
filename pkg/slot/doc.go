// Package slot persists editor snapshots in a single opaque slot per
// workspace.
//
// A [Slot] binds a key to a [Backend]. Backends are plain key/value stores:
//
//   - [FileBackend] stores one file per key (the CLI default)
//   - [NullBackend] stores nothing
//   - [RedisBackend] uses a Redis server
//   - [MongoBackend] uses a MongoDB collection
//   - [SQLBackend] uses a SQLite file or a MySQL database
//
// Payloads are sealed before they reach a backend: compressed with zstd and
// prefixed with a BLAKE3 digest of the plain bytes. A payload whose digest
// does not match is reported as CORRUPT_SNAPSHOT instead of being handed to
// the snapshot decoder.
//
// Backend errors wrapped with [Retryable] are retried with exponential
// backoff.
package slot
