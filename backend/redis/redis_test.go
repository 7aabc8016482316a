package redis

import (
	"context"
	"sort"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	. "github.com/fulldump/biff"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fulldump/recordstore/collection"
)

func newTestBackend(t *testing.T) (*Backend, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	b := New(goredis.NewClient(&goredis.Options{
		Addr: server.Addr(),
	}))
	t.Cleanup(func() {
		b.Close()
	})
	return b, server
}

func TestDial(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	b, err := Dial(ctx, &Config{Addr: server.Addr()})
	AssertNil(err)
	AssertNil(b.Close())

	server.Close()
	_, err = Dial(ctx, &Config{Addr: server.Addr()})
	AssertNotNil(err)
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	b, server := newTestBackend(t)

	n, err := b.Increment(ctx, "__c__")
	AssertNil(err)
	AssertEqual(n, int64(1))

	reply, err := b.WriteFields(ctx, "__c__:1", collection.Record{"a": "1", "b": "2"})
	AssertNil(err)
	AssertEqual(reply, collection.ReplyOK)
	AssertEqual(server.HGet("__c__:1", "a"), "1")

	reply, _ = b.WriteFields(ctx, "__c__:1", collection.Record{"b": "3"})
	AssertEqual(reply, collection.ReplyOK)

	exists, err := b.Exists(ctx, "__c__:1")
	AssertNil(err)
	AssertTrue(exists)

	fields, err := b.ReadFields(ctx, "__c__:1")
	AssertNil(err)
	AssertEqual(fields, collection.Record{"a": "1", "b": "3"})

	AssertNil(b.Delete(ctx, "__c__:1"))
	exists, _ = b.Exists(ctx, "__c__:1")
	AssertFalse(exists)
}

func TestWriteFields_ErrorReply(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	b.Increment(ctx, "counter")

	reply, err := b.WriteFields(ctx, "counter", collection.Record{"a": "1"})
	AssertNil(err)
	AssertTrue(reply != collection.ReplyOK)
}

func TestCollectionOnRedis(t *testing.T) {
	ctx := context.Background()
	b, server := newTestBackend(t)

	c := collection.New(b, "users", collection.Hooks{})

	for i := 0; i < 30; i++ {
		_, err := c.Insert(ctx, collection.Record{"n": strconv.Itoa(i)})
		AssertNil(err)
	}
	AssertEqual(server.HGet("__users__:30", collection.IDField), "30")

	updated, err := c.Update(ctx, 5, collection.Record{"n": "five"})
	AssertNil(err)
	AssertTrue(updated)

	deleted, err := c.Delete(ctx, 6)
	AssertNil(err)
	AssertTrue(deleted)

	record, err := c.Get(ctx, 5)
	AssertNil(err)
	AssertEqual(record, collection.Record{"n": "five", collection.IDField: "5"})

	it := c.Iterate(7)
	seen := []string{}
	for !it.EOF() {
		records, err := it.Next(ctx)
		AssertNil(err)
		for _, record := range records {
			seen = append(seen, record[collection.IDField])
		}
	}
	AssertEqual(len(seen), 29)

	sort.Strings(seen)
	for i := 1; i < len(seen); i++ {
		AssertTrue(seen[i] != seen[i-1])
	}
}
