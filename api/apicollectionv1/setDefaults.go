package apicollectionv1

import (
	"context"
	"io"
	"net/http"
)

// setDefaults replaces the defaults of a collection, creating it if needed.
// Null values are dropped, so {} clears them.
func setDefaults(ctx context.Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {

	col, err := getOrCreateCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	defaults, err := toRecord(body)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	return s.SetDefaults(ctx, col.Name, defaults)
}
