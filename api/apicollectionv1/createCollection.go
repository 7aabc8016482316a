package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/recordstore/collection"
)

type createCollectionRequest struct {
	Name string `json:"name"`
}

func createCollection(ctx context.Context, w http.ResponseWriter, input *createCollectionRequest) (*CollectionResponse, error) {

	s := GetServicer(ctx)

	col, err := s.CreateCollection(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return &CollectionResponse{
		Name:     col.Name,
		Defaults: collection.Record{},
	}, nil
}
