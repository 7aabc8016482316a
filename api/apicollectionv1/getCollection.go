package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

func getCollection(ctx context.Context) (*CollectionResponse, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	defaults, err := s.GetDefaults(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	return &CollectionResponse{
		Name:     collectionName,
		Defaults: defaults,
	}, nil
}
