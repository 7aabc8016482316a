package collection

import (
	"context"
	"fmt"
)

// DefaultIterateLimit is the page size used when Iterate gets a limit < 1.
const DefaultIterateLimit = 10

// Iterator pages through the records of a collection using the backend scan.
//
// Every page holds exactly limit records except the last one, which may be
// shorter or empty. The scan is not a snapshot: a record inserted, deleted
// or re-created while iterating may be missed or returned more than once.
//
// An Iterator is not safe for concurrent use.
type Iterator struct {
	collection *Collection
	limit      int
	cursor     uint64
	exhausted  bool // the scan is back at CursorStart
	pending    []string
	eof        bool
}

func (c *Collection) Iterate(limit int) *Iterator {
	if limit < 1 {
		limit = DefaultIterateLimit
	}
	return &Iterator{
		collection: c,
		limit:      limit,
		cursor:     CursorStart,
	}
}

// EOF reports whether the last page has already been returned.
func (it *Iterator) EOF() bool {
	return it.eof
}

// NextKeys returns the keys of the next page, or nil once EOF is reached.
func (it *Iterator) NextKeys(ctx context.Context) ([]string, error) {

	if it.eof {
		return nil, nil
	}

	keys := make([]string, 0, it.limit)
	keys = append(keys, it.pending...)
	it.pending = nil

	pattern := Pattern(it.collection.namespace)
	for !it.exhausted && len(keys) < it.limit {
		next, batch, err := it.collection.backend.Scan(ctx, it.cursor, pattern, int64(it.limit-len(keys)))
		if err != nil {
			it.pending = keys
			return nil, fmt.Errorf("scan %s: %w", it.collection.Name, err)
		}
		it.cursor = next
		keys = append(keys, batch...)
		if next == CursorStart {
			it.exhausted = true
		}
	}

	if len(keys) > it.limit {
		it.pending = append(it.pending, keys[it.limit:]...)
		keys = keys[:it.limit]
	}

	if it.exhausted && len(it.pending) == 0 {
		it.eof = true
	}

	return keys, nil
}

// Next returns the records of the next page, or nil once EOF is reached.
// Records deleted between the scan and the read are left out of the page.
func (it *Iterator) Next(ctx context.Context) ([]Record, error) {

	keys, err := it.NextKeys(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		return nil, nil
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		record, err := it.collection.backend.ReadFields(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
