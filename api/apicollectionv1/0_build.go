package apicollectionv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/recordstore/service"
)

func BuildV1Collection(v1 *box.R, s service.Servicer) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections),
			box.Post(createCollection),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(insert),
			box.ActionPost(find),
			box.ActionPost(get),
			box.ActionPost(update),
			box.ActionPost(remove),
			box.ActionPost(size),
			box.ActionPost(setDefaults),
			box.ActionPost(dropCollection),
		)

	v1.Resource("/collections/{collectionName}/records/{recordId}").
		WithActions(
			box.Get(getRecord),
		)

	return collections
}
