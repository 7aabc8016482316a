package apicollectionv1

import (
	"context"
	"fmt"

	"github.com/fulldump/recordstore/collection"
)

func get(ctx context.Context, input *recordIDRequest) (collection.Record, error) {

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	return getRecordByID(ctx, col, input.ID)
}

func getRecordByID(ctx context.Context, col *collection.Collection, id int64) (collection.Record, error) {

	record, err := col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: '%d' in '%s'", ErrRecordNotFound, id, col.Name)
	}

	return record, nil
}
