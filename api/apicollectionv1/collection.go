package apicollectionv1

import "github.com/fulldump/recordstore/collection"

type CollectionResponse struct {
	Name     string            `json:"name"`
	Defaults collection.Record `json:"defaults"`
}

type recordIDRequest struct {
	ID int64 `json:"id"`
}
