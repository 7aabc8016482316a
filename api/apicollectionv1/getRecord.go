package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/recordstore/collection"
)

func getRecord(ctx context.Context) (collection.Record, error) {

	id, err := parseRecordID(box.GetUrlParameter(ctx, "recordId"))
	if err != nil {
		return nil, err
	}

	col, err := getCollectionFromPath(ctx)
	if err != nil {
		return nil, err
	}

	return getRecordByID(ctx, col, id)
}
