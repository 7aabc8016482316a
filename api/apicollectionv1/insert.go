package apicollectionv1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/recordstore/collection"
)

// insert stores every JSON object of the body (one or many, usually one per
// line) and writes back the stored records, one per line. Once the 201 is
// sent a failure is reported as a last error line and the rest of the body
// is ignored.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	col, err := getOrCreateCollectionFromPath(ctx)
	if err != nil {
		return err
	}

	e := jsontext.NewEncoder(w)
	inserted := 0

	err = readRecords(r.Body, func(i int, record collection.Record) error {

		id, err := col.Insert(ctx, record)
		if id == 0 {
			return err
		}

		stored, getErr := col.Get(ctx, id)
		if getErr != nil {
			return getErr
		}

		if inserted == 0 {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.WriteHeader(http.StatusCreated)
		}
		inserted++

		if stored != nil {
			writeErr := writeRecord(e, stored)
			if writeErr != nil {
				return writeErr
			}
		}

		return err
	})
	if err != nil && inserted > 0 {
		return writeStreamError(e, err, fmt.Sprintf("insert stopped after %d records", inserted))
	}
	if err != nil {
		return err
	}

	if inserted == 0 {
		w.WriteHeader(http.StatusNoContent)
	}

	return nil
}
