package collection_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/recordstore/backend/memory"
	"github.com/fulldump/recordstore/collection"
)

// scriptedBackend replaces the scan of a memory backend with canned pages.
type scriptedBackend struct {
	*memory.Backend
	pages    []scriptedPage
	requests []int64
}

type scriptedPage struct {
	next uint64
	keys []string
	err  error
}

func (b *scriptedBackend) Scan(ctx context.Context, cursor uint64, match string, count int64) (uint64, []string, error) {
	b.requests = append(b.requests, count)
	page := b.pages[0]
	b.pages = b.pages[1:]
	return page.next, page.keys, page.err
}

func TestIterate(t *testing.T) {

	ctx := context.Background()

	Alternative("Iterate", func(a *A) {

		backend := memory.New()
		c := collection.New(backend, "test", collection.Hooks{})

		a.Alternative("Empty collection", func(a *A) {
			it := c.Iterate(5)

			records, err := it.Next(ctx)
			AssertNil(err)
			AssertNotNil(records)
			AssertEqual(len(records), 0)
			AssertTrue(it.EOF())

			records, err = it.Next(ctx)
			AssertNil(err)
			AssertNil(records)
		})

		a.Alternative("More records than limit", func(a *A) {
			for i := 0; i < 25; i++ {
				c.Insert(ctx, collection.Record{"n": strconv.Itoa(i)})
			}
			// keys of other collections are not returned
			other := collection.New(backend, "other", collection.Hooks{})
			other.Insert(ctx, collection.Record{"n": "other"})

			it := c.Iterate(10)
			seen := map[string]bool{}
			sizes := []int{}
			for {
				records, err := it.Next(ctx)
				AssertNil(err)
				if records == nil {
					break
				}
				sizes = append(sizes, len(records))
				for _, record := range records {
					AssertTrue(record["n"] != "other")
					seen[record[collection.IDField]] = true
				}
			}

			AssertEqual(sizes, []int{10, 10, 5})
			AssertEqual(len(seen), 25)
			AssertTrue(it.EOF())
		})

		a.Alternative("Exact multiple of limit", func(a *A) {
			for i := 0; i < 20; i++ {
				c.Insert(ctx, collection.Record{"n": strconv.Itoa(i)})
			}

			it := c.Iterate(10)

			records, _ := it.Next(ctx)
			AssertEqual(len(records), 10)
			AssertFalse(it.EOF())

			records, _ = it.Next(ctx)
			AssertEqual(len(records), 10)
			AssertTrue(it.EOF())

			records, _ = it.Next(ctx)
			AssertNil(records)
		})

		a.Alternative("Default limit", func(a *A) {
			for i := 0; i < 15; i++ {
				c.Insert(ctx, collection.Record{"n": strconv.Itoa(i)})
			}

			it := c.Iterate(0)
			records, _ := it.Next(ctx)
			AssertEqual(len(records), collection.DefaultIterateLimit)
		})

		a.Alternative("Deleted records are not returned", func(a *A) {
			id, _ := c.Insert(ctx, collection.Record{"n": "1"})
			c.Insert(ctx, collection.Record{"n": "2"})

			it := c.Iterate(1)
			keys, err := it.NextKeys(ctx)
			AssertNil(err)
			AssertEqual(keys, []string{collection.Key(c.Namespace(), id)})

			c.Delete(ctx, id+1)

			records, err := it.Next(ctx)
			AssertNil(err)
			AssertEqual(len(records), 0)
			AssertTrue(it.EOF())
		})
	})
}

func TestIterate_ScanIrregularities(t *testing.T) {

	ctx := context.Background()

	Alternative("Scan irregularities", func(a *A) {

		backend := &scriptedBackend{Backend: memory.New()}
		c := collection.New(backend, "test", collection.Hooks{})

		a.Alternative("Short and empty scans are accumulated", func(a *A) {
			backend.pages = []scriptedPage{
				{next: 7, keys: []string{"k1"}},
				{next: 9, keys: []string{}},
				{next: 3, keys: []string{"k2", "k3"}},
				{next: 0, keys: []string{"k4"}},
			}

			it := c.Iterate(3)

			keys, err := it.NextKeys(ctx)
			AssertNil(err)
			AssertEqual(keys, []string{"k1", "k2", "k3"})
			AssertEqual(backend.requests, []int64{3, 2, 2})
			AssertFalse(it.EOF())

			keys, err = it.NextKeys(ctx)
			AssertNil(err)
			AssertEqual(keys, []string{"k4"})
			AssertTrue(it.EOF())

			keys, err = it.NextKeys(ctx)
			AssertNil(err)
			AssertNil(keys)
			AssertEqual(len(backend.requests), 4)
		})

		a.Alternative("Extra keys are kept for the next page", func(a *A) {
			backend.pages = []scriptedPage{
				{next: 5, keys: []string{"k1", "k2", "k3", "k4", "k5"}},
				{next: 0, keys: []string{"k6"}},
			}

			it := c.Iterate(2)

			keys, _ := it.NextKeys(ctx)
			AssertEqual(keys, []string{"k1", "k2"})

			keys, _ = it.NextKeys(ctx)
			AssertEqual(keys, []string{"k3", "k4"})
			AssertEqual(len(backend.requests), 1)

			keys, _ = it.NextKeys(ctx)
			AssertEqual(keys, []string{"k5", "k6"})
			AssertTrue(it.EOF())
		})

		a.Alternative("Exhausted scan with extra keys", func(a *A) {
			backend.pages = []scriptedPage{
				{next: 0, keys: []string{"k1", "k2", "k3"}},
			}

			it := c.Iterate(2)

			keys, _ := it.NextKeys(ctx)
			AssertEqual(keys, []string{"k1", "k2"})
			AssertFalse(it.EOF())

			keys, _ = it.NextKeys(ctx)
			AssertEqual(keys, []string{"k3"})
			AssertTrue(it.EOF())
		})

		a.Alternative("Records vanished after the scan are skipped", func(a *A) {
			id, _ := c.Insert(ctx, collection.Record{"n": "1"})
			backend.pages = []scriptedPage{
				{next: 0, keys: []string{
					collection.Key(c.Namespace(), id),
					collection.Key(c.Namespace(), id+1),
				}},
			}

			it := c.Iterate(2)

			records, err := it.Next(ctx)
			AssertNil(err)
			AssertEqual(len(records), 1)
			AssertEqual(records[0]["n"], "1")
			AssertTrue(it.EOF())
		})

		a.Alternative("Scan error keeps accumulated keys", func(a *A) {
			errScan := errors.New("connection reset")
			backend.pages = []scriptedPage{
				{next: 4, keys: []string{"k1"}},
				{err: errScan},
				{next: 0, keys: []string{"k2"}},
			}

			it := c.Iterate(5)

			keys, err := it.NextKeys(ctx)
			AssertTrue(errors.Is(err, errScan))
			AssertNil(keys)
			AssertFalse(it.EOF())

			keys, err = it.NextKeys(ctx)
			AssertNil(err)
			AssertEqual(keys, []string{"k1", "k2"})
			AssertTrue(it.EOF())
		})
	})
}
