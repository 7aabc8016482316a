// Package memory is an in-process collection.Backend.
//
// Keys are kept in a btree ordered by creation sequence and the scan cursor
// is the sequence of the last key visited. A scan sees every key that exists
// for its whole duration, keys created while scanning are seen at the end,
// and a key deleted and created again may be seen twice. Like a Redis SCAN,
// it is not a snapshot.
package memory

import (
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/tidwall/match"

	"github.com/fulldump/recordstore/collection"
)

const ReplyWrongType = "WRONGTYPE Operation against a key holding the wrong kind of value"

const defaultScanCount = 10

type entry struct {
	key     string
	seq     uint64
	counter *int64
	fields  collection.Record
}

type Backend struct {
	mutex   sync.RWMutex
	entries map[string]*entry
	order   *btree.BTreeG[*entry]
	seq     uint64
}

func New() *Backend {
	return &Backend{
		entries: map[string]*entry{},
		order: btree.NewG(32, func(a, b *entry) bool {
			return a.seq < b.seq
		}),
	}
}

// create must be called with the write lock held.
func (b *Backend) create(key string) *entry {
	b.seq++
	e := &entry{
		key: key,
		seq: b.seq,
	}
	b.entries[key] = e
	b.order.ReplaceOrInsert(e)
	return e
}

func (b *Backend) Increment(ctx context.Context, key string) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	e, exists := b.entries[key]
	if !exists {
		e = b.create(key)
		e.counter = new(int64)
	}
	if e.counter == nil {
		return 0, &Error{Reply: ReplyWrongType}
	}

	*e.counter++
	return *e.counter, nil
}

func (b *Backend) WriteFields(ctx context.Context, key string, fields collection.Record) (string, error) {
	if len(fields) == 0 {
		return "ERR wrong number of arguments for 'hmset' command", nil
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	e, exists := b.entries[key]
	if !exists {
		e = b.create(key)
		e.fields = collection.Record{}
	}
	if e.fields == nil {
		return ReplyWrongType, nil
	}

	for k, v := range fields {
		e.fields[k] = v
	}

	return collection.ReplyOK, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	_, exists := b.entries[key]
	return exists, nil
}

func (b *Backend) ReadFields(ctx context.Context, key string) (collection.Record, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	result := collection.Record{}

	e, exists := b.entries[key]
	if !exists {
		return result, nil
	}
	if e.fields == nil {
		return nil, &Error{Reply: ReplyWrongType}
	}

	for k, v := range e.fields {
		result[k] = v
	}

	return result, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	e, exists := b.entries[key]
	if !exists {
		return nil
	}
	delete(b.entries, key)
	b.order.Delete(e)

	return nil
}

// Scan visits up to count keys after cursor and returns those matching the
// glob pattern.
func (b *Backend) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {
	if count < 1 {
		count = defaultScanCount
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	keys := []string{}
	next := collection.CursorStart
	visited := int64(0)

	b.order.AscendGreaterOrEqual(&entry{seq: cursor + 1}, func(e *entry) bool {
		if visited == count {
			return false
		}
		visited++
		next = e.seq
		if pattern == "" || match.Match(e.key, pattern) {
			keys = append(keys, e.key)
		}
		return true
	})

	if visited < count || next == b.maxSeq() {
		next = collection.CursorStart
	}

	return next, keys, nil
}

func (b *Backend) maxSeq() uint64 {
	last, ok := b.order.Max()
	if !ok {
		return 0
	}
	return last.seq
}

// Len returns the number of keys.
func (b *Backend) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return len(b.entries)
}

// Error is a command rejected by the backend.
type Error struct {
	Reply string
}

func (e *Error) Error() string {
	return e.Reply
}
