package apicollectionv1

import (
	"context"
	"fmt"

	"github.com/fulldump/recordstore/collection"
)

// remove deletes a record and returns it as it was before.
func remove(ctx context.Context, input *recordIDRequest) (collection.Record, error) {

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	record, err := col.Remove(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: '%d' in '%s'", ErrRecordNotFound, input.ID, col.Name)
	}

	return record, nil
}
