package main

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

func TestUpdate(c Config) error {

	collectionName, err := CreateCollection(c.Base)
	if err != nil {
		return err
	}

	client := NewClient()

	fmt.Println("Preload records...")
	err = Preload(client, c.Base, collectionName, c.N)
	if err != nil {
		return err
	}

	url := c.Base + "/v1/collections/" + collectionName + ":update"
	next := int64(0)

	t0 := time.Now()
	err = Parallel(c.Workers, func(worker int) error {
		for {
			id := atomic.AddInt64(&next, 1)
			if id > c.N {
				return nil
			}
			_, err := Post(client, url, JSON{
				"id": id,
				"patch": JSON{
					"value":  strconv.FormatInt(id*2, 10),
					"worker": worker,
				},
			})
			if err != nil {
				return err
			}
		}
	})
	if err != nil {
		return err
	}

	Report(c.N, time.Since(t0))
	return nil
}
