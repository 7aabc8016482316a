package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fulldump/recordstore/collection"
)

// DefaultsKey is the hash holding the default field values of a collection.
// It is outside the record key pattern of the collection.
func DefaultsKey(name string) string {
	return collection.Namespace(name) + "#defaults"
}

func readDefaults(ctx context.Context, backend collection.Backend, name string) (collection.Record, error) {
	defaults, err := backend.ReadFields(ctx, DefaultsKey(name))
	if err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}
	return defaults, nil
}

func expandDefault(value string) string {
	switch value {
	case "uuid()":
		return uuid.NewString()
	case "unixnano()":
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return value
}

// DefaultsHooks fills the fields missing from an inserted record with the
// collection defaults.
func DefaultsHooks(backend collection.Backend, name string) collection.Hooks {
	return collection.Hooks{
		BeforeInsert: func(ctx context.Context, record collection.Record) error {
			defaults, err := readDefaults(ctx, backend, name)
			if err != nil {
				return err
			}
			for field, value := range defaults {
				if _, exists := record[field]; exists {
					continue
				}
				record[field] = expandDefault(value)
			}
			return nil
		},
	}
}

// MutationLogHooks logs every committed mutation.
func MutationLogHooks(l *log.Logger, name string) collection.Hooks {
	return collection.Hooks{
		AfterInsert: func(ctx context.Context, record collection.Record, id int64) error {
			l.Println("insert", name, id)
			return nil
		},
		AfterUpdate: func(ctx context.Context, id int64, patch collection.Record) error {
			l.Println("update", name, id, len(patch), "fields")
			return nil
		},
		AfterDelete: func(ctx context.Context, id int64, record collection.Record) error {
			l.Println("delete", name, id)
			return nil
		},
	}
}

// CollectionHooks builds the hooks of every collection served. mutationLog
// is optional.
func CollectionHooks(backend collection.Backend, mutationLog *log.Logger) func(name string) collection.Hooks {
	return func(name string) collection.Hooks {
		hooks := []collection.Hooks{
			DefaultsHooks(backend, name),
		}
		if mutationLog != nil {
			hooks = append(hooks, MutationLogHooks(mutationLog, name))
		}
		return collection.ChainHooks(hooks...)
	}
}
