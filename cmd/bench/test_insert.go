package main

import (
	"bufio"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

func TestInsert(c Config) error {

	collectionName, err := CreateCollection(c.Base)
	if err != nil {
		return err
	}

	client := NewClient()

	items := c.N

	t0 := time.Now()
	err = Parallel(c.Workers, func(worker int) error {

		r, w := io.Pipe()

		wb := bufio.NewWriterSize(w, 1*1024*1024)

		go func() {
			for {
				n := atomic.AddInt64(&items, -1)
				if n < 0 {
					break
				}
				fmt.Fprintf(wb, "{\"n\":\"%d\",\"worker\":%d}\n", n, worker)
			}
			wb.Flush()
			w.Close()
		}()

		resp, err := client.Post(c.Base+"/v1/collections/"+collectionName+":insert", "application/x-ndjson", r)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		_, err = io.Copy(io.Discard, resp.Body)
		return err
	})
	if err != nil {
		return err
	}

	Report(c.N, time.Since(t0))
	return nil
}
