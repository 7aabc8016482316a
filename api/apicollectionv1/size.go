package apicollectionv1

import (
	"context"
)

const sizeBatch = 500

type sizeResponse struct {
	Records int `json:"records"`
}

// size counts the records of a collection walking all of its keys.
func size(ctx context.Context) (*sizeResponse, error) {

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	result := &sizeResponse{}

	it := col.Iterate(sizeBatch)
	for !it.EOF() {
		keys, err := it.NextKeys(ctx)
		if err != nil {
			return nil, err
		}
		result.Records += len(keys)
	}

	return result, nil
}
