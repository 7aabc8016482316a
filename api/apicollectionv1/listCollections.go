package apicollectionv1

import (
	"context"

	"github.com/fulldump/recordstore/utils"
)

func listCollections(ctx context.Context) ([]*CollectionResponse, error) {

	s := GetServicer(ctx)

	collections := s.ListCollections()

	result := make([]*CollectionResponse, 0, len(collections))
	for _, name := range utils.GetKeys(collections) {
		defaults, err := s.GetDefaults(ctx, name)
		if err != nil {
			return nil, err
		}
		result = append(result, &CollectionResponse{
			Name:     name,
			Defaults: defaults,
		})
	}

	return result, nil
}
