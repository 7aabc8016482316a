package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

func TestRemove(c Config) error {

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

	url := c.Base + "/v1/collections/" + collectionName + ":remove"
	next := int64(0)

	t0 := time.Now()
	err = Parallel(c.Workers, func(worker int) error {
		for {
			id := atomic.AddInt64(&next, 1)
			if id > c.N {
				return nil
			}
			_, err := Post(client, url, JSON{"id": id})
			if err != nil {
				return err
			}
		}
	})
	if err != nil {
		return err
	}
	Report(c.N, time.Since(t0))

	data, err := Post(http.DefaultClient, c.Base+"/v1/collections/"+collectionName+":size", JSON{})
	if err != nil {
		return err
	}
	size := struct {
		Records int64 `json:"records"`
	}{}
	err = json.Unmarshal(data, &size)
	if err != nil {
		return err
	}
	if size.Records != 0 {
		return fmt.Errorf("%d records left after remove", size.Records)
	}

	return nil
}
