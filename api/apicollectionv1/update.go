package apicollectionv1

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

type updateRequest struct {
	ID    int64           `json:"id"`
	Patch json.RawMessage `json:"patch"`
}

// update merges patch into an existing record and returns the result.
func update(ctx context.Context, input *updateRequest) (interface{}, error) {

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	if len(input.Patch) == 0 {
		return nil, fmt.Errorf("%w: patch is required", ErrBadRequest)
	}

	patch, err := toRecord(jsontext.Value(input.Patch))
	if err != nil {
		return nil, err
	}

	updated, err := col.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: '%d' in '%s'", ErrRecordNotFound, input.ID, col.Name)
	}

	return getRecordByID(ctx, col, input.ID)
}
