package service

import (
	"context"

	"github.com/fulldump/recordstore/collection"
)

type Servicer interface { // todo: review naming
	CreateCollection(ctx context.Context, name string) (*collection.Collection, error)
	GetCollection(name string) (*collection.Collection, error)
	ListCollections() map[string]*collection.Collection
	DeleteCollection(ctx context.Context, name string) error
	GetDefaults(ctx context.Context, name string) (collection.Record, error)
	SetDefaults(ctx context.Context, name string, defaults collection.Record) (collection.Record, error)
}
