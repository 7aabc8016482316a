package apicollectionv1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-json-experiment/json/jsontext"
)

type findRequest struct {
	// Batch is the page size used to walk the collection.
	Batch int `json:"batch"`
	// Limit caps the records returned, 0 means all of them.
	Limit int `json:"limit"`
}

// find streams the records of a collection, one per line, in scan order.
// A failure after the first record is written as a last error line.
func find(ctx context.Context, w http.ResponseWriter, input *findRequest) error {

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/x-ndjson")

	e := jsontext.NewEncoder(w)
	sent := 0

	it := col.Iterate(input.Batch)
	for !it.EOF() {
		records, err := it.Next(ctx)
		if err != nil && sent > 0 {
			return writeStreamError(e, err, fmt.Sprintf("find stopped after %d records", sent))
		}
		if err != nil {
			return err
		}
		for _, record := range records {
			if input.Limit > 0 && sent >= input.Limit {
				return nil
			}
			err := writeRecord(e, record)
			if err != nil {
				return err
			}
			sent++
		}
	}

	return nil
}
