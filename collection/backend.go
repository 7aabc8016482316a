package collection

import "context"

// ReplyOK is the acknowledgement a backend returns for a successful
// WriteFields.
const ReplyOK = "OK"

// CursorStart is the start-of-space scan position. A Scan returning it as
// the next cursor has traversed the whole key space.
const CursorStart uint64 = 0

// Backend is the key-value service a Collection is layered on.
type Backend interface {
	// Increment atomically increments the counter at key and returns the
	// post-increment value. A missing counter starts at 0.
	Increment(ctx context.Context, key string) (int64, error)

	// WriteFields merges fields into the hash at key, creating it if needed.
	// Fields not mentioned are left untouched. The returned reply is ReplyOK
	// on success; anything else is the backend's rejection.
	WriteFields(ctx context.Context, key string, fields Record) (string, error)

	Exists(ctx context.Context, key string) (bool, error)

	// ReadFields returns all fields of the hash at key, empty if it does not
	// exist.
	ReadFields(ctx context.Context, key string) (Record, error)

	Delete(ctx context.Context, key string) error

	// Scan walks the key space starting at cursor and returns the next
	// cursor plus the keys matching the glob pattern match. count is a hint:
	// a call may return fewer or more keys, or none at all.
	Scan(ctx context.Context, cursor uint64, match string, count int64) (uint64, []string, error)
}
