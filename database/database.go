package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fulldump/recordstore/collection"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

// dropPageSize is the number of keys scanned per page when dropping.
const dropPageSize = 100

// dropWorkers bounds concurrent deletes when dropping a collection.
const dropWorkers = 8

var (
	ErrorCollectionAlreadyExists = errors.New("collection already exists")
	ErrorCollectionNotFound      = errors.New("collection not found")
	ErrInvalidCollectionName     = errors.New("invalid collection name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

type Config struct {
	Backend collection.Backend

	// Hooks returns the hooks attached to the collection called name.
	// Optional.
	Hooks func(name string) collection.Hooks
}

type Database struct {
	Config      *Config
	status      string
	collections map[string]*collection.Collection
	mutex       *sync.RWMutex
	exit        chan struct{}
}

func NewDatabase(config *Config) *Database {
	return &Database{
		Config:      config,
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		mutex:       &sync.RWMutex{},
		exit:        make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) Backend() collection.Backend {
	return db.Config.Backend
}

func (db *Database) newCollection(name string) *collection.Collection {
	hooks := collection.Hooks{}
	if db.Config.Hooks != nil {
		hooks = db.Config.Hooks(name)
	}
	return collection.New(db.Config.Backend, name, hooks)
}

func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: '%s'", ErrInvalidCollectionName, name)
	}
	return nil
}

// MarkerKey is the hash that keeps a collection registered while it has no
// records. It sits outside the record pattern of the collection.
func MarkerKey(name string) string {
	return collection.Namespace(name) + "#collection"
}

// collectionName returns the collection a counter or marker key belongs to.
func collectionName(key string) (string, bool) {
	if !strings.HasPrefix(key, "__") {
		return "", false
	}
	key = strings.TrimSuffix(key, "#collection")
	if !strings.HasSuffix(key, "__") || len(key) < 4 {
		return "", false
	}
	name := key[2 : len(key)-2]
	if ValidateName(name) != nil {
		return "", false
	}
	return name, true
}

// CreateCollection registers a collection and persists its marker key, so
// Load finds it even before its first insert.
func (db *Database) CreateCollection(ctx context.Context, name string) (*collection.Collection, error) {

	err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.collections[name]; exists {
		return nil, ErrorCollectionAlreadyExists
	}

	reply, err := db.Config.Backend.WriteFields(ctx, MarkerKey(name), collection.Record{"name": name})
	if err != nil {
		return nil, fmt.Errorf("create '%s': %w", name, err)
	}
	if reply != collection.ReplyOK {
		return nil, fmt.Errorf("create '%s': the server says %s", name, reply)
	}

	col := db.newCollection(name)
	db.collections[name] = col

	return col, nil
}

func (db *Database) GetCollection(name string) (*collection.Collection, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	col, exists := db.collections[name]
	if !exists {
		return nil, ErrorCollectionNotFound
	}

	return col, nil
}

// ListCollections returns a snapshot of the registered collections.
func (db *Database) ListCollections() map[string]*collection.Collection {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make(map[string]*collection.Collection, len(db.collections))
	for name, col := range db.collections {
		result[name] = col
	}

	return result
}

// DropCollection removes every record of the collection, its id counter and
// its marker. Delete hooks are not called. extraKeys are deleted along with
// the counter.
func (db *Database) DropCollection(ctx context.Context, name string, extraKeys ...string) error {

	col, err := db.GetCollection(name)
	if err != nil {
		return err
	}

	db.mutex.Lock()
	delete(db.collections, name)
	db.mutex.Unlock()

	backend := db.Config.Backend

	it := col.Iterate(dropPageSize)
	for !it.EOF() {
		keys, err := it.NextKeys(ctx)
		if err != nil {
			return fmt.Errorf("drop '%s': %w", name, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(dropWorkers)
		for _, key := range keys {
			g.Go(func() error {
				return backend.Delete(gctx, key)
			})
		}
		err = g.Wait()
		if err != nil {
			return fmt.Errorf("drop '%s': %w", name, err)
		}
	}

	for _, key := range append([]string{col.Namespace(), MarkerKey(name)}, extraKeys...) {
		err = backend.Delete(ctx, key)
		if err != nil {
			return fmt.Errorf("drop '%s': %w", name, err)
		}
	}

	return nil
}

// Load registers every collection found in the backend. A collection exists
// in the backend as soon as its marker or its id counter does.
func (db *Database) Load(ctx context.Context) error {

	log.Println("Loading collections...")

	backend := db.Config.Backend
	cursor := collection.CursorStart
	for {
		next, keys, err := backend.Scan(ctx, cursor, "__*", dropPageSize)
		if err != nil {
			db.setStatus(StatusClosing)
			return fmt.Errorf("load collections: %w", err)
		}

		for _, key := range keys {
			name, ok := collectionName(key)
			if !ok {
				continue
			}
			db.mutex.Lock()
			if _, exists := db.collections[name]; !exists {
				db.collections[name] = db.newCollection(name)
				log.Printf("Collection '%s' loaded\n", name)
			}
			db.mutex.Unlock()
		}

		if next == collection.CursorStart {
			break
		}
		cursor = next
	}

	db.mutex.Lock()
	if db.status == StatusOpening {
		db.status = StatusOperating
	}
	db.mutex.Unlock()

	return nil
}

func (db *Database) Start() error {

	err := db.Load(context.Background())
	if err != nil {
		return err
	}

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if db.status == StatusClosing {
		return nil
	}
	db.status = StatusClosing
	close(db.exit)

	return nil
}
