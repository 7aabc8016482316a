package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"
)

func TestFind(c Config) error {

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

	t0 := time.Now()

	payload := fmt.Sprintf(`{"batch":%d}`, c.Batch)
	resp, err := client.Post(c.Base+"/v1/collections/"+collectionName+":find", "application/json", strings.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	found := int64(0)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		found++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	Report(found, time.Since(t0))
	if found != c.N {
		return fmt.Errorf("found %d records, expected %d", found, c.N)
	}

	return nil
}
