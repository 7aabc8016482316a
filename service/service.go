package service

import (
	"context"
	"fmt"

	"github.com/fulldump/recordstore/collection"
	"github.com/fulldump/recordstore/database"
)

var (
	ErrorCollectionNotFound      = database.ErrorCollectionNotFound
	ErrorCollectionAlreadyExists = database.ErrorCollectionAlreadyExists
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateCollection(ctx context.Context, name string) (*collection.Collection, error) {
	return s.db.CreateCollection(ctx, name)
}

func (s *Service) GetCollection(name string) (*collection.Collection, error) {
	return s.db.GetCollection(name)
}

func (s *Service) ListCollections() map[string]*collection.Collection {
	return s.db.ListCollections()
}

func (s *Service) DeleteCollection(ctx context.Context, name string) error {
	return s.db.DropCollection(ctx, name, DefaultsKey(name))
}

func (s *Service) GetDefaults(ctx context.Context, name string) (collection.Record, error) {

	_, err := s.db.GetCollection(name)
	if err != nil {
		return nil, err
	}

	return readDefaults(ctx, s.db.Backend(), name)
}

// SetDefaults replaces the defaults of a collection. An empty set removes
// them.
func (s *Service) SetDefaults(ctx context.Context, name string, defaults collection.Record) (collection.Record, error) {

	_, err := s.db.GetCollection(name)
	if err != nil {
		return nil, err
	}

	backend := s.db.Backend()
	key := DefaultsKey(name)

	err = backend.Delete(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("clear defaults: %w", err)
	}

	if len(defaults) > 0 {
		reply, err := backend.WriteFields(ctx, key, defaults)
		if err != nil {
			return nil, fmt.Errorf("write defaults: %w", err)
		}
		if reply != collection.ReplyOK {
			return nil, fmt.Errorf("write defaults: the server says %s", reply)
		}
	}

	return readDefaults(ctx, backend, name)
}
