package collection_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/recordstore/backend/memory"
	"github.com/fulldump/recordstore/collection"
)

func TestRaceInsertIterate(t *testing.T) {

	ctx := context.Background()
	backend := memory.New()

	writers := 4
	inserts := 200

	ids := make(chan int64, writers*inserts)

	var wg sync.WaitGroup

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// every writer has its own Collection value over the same name
			c := collection.New(backend, "race", collection.Hooks{})
			for i := 0; i < inserts; i++ {
				id, err := c.Insert(ctx, collection.Record{"w": strconv.Itoa(w), "i": strconv.Itoa(i)})
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
			}
		}(w)
	}

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		c := collection.New(backend, "race", collection.Hooks{})
		for round := 0; round < 20; round++ {
			it := c.Iterate(7)
			for !it.EOF() {
				_, err := it.Next(ctx)
				if err != nil {
					t.Error(err)
					return
				}
			}
		}
	}()

	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		AssertFalse(seen[id])
		seen[id] = true
	}
	AssertEqual(len(seen), writers*inserts)

	for id := int64(1); id <= int64(writers*inserts); id++ {
		AssertTrue(seen[id])
	}
}
