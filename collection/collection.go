package collection

import (
	"context"
	"fmt"
	"strconv"
)

// Record is a set of opaque string fields.
type Record map[string]string

// Collection is a record store bound to one namespace of a Backend.
//
// It keeps no state between calls: the backend is the only source of truth,
// so any number of Collection values (in any number of processes) may share
// the same name. The only cross-call guarantee relied upon is the atomic
// increment of the id counter.
type Collection struct {
	Name      string
	namespace string
	backend   Backend
	hooks     Hooks
}

func New(backend Backend, name string, hooks Hooks) *Collection {
	return &Collection{
		Name:      name,
		namespace: Namespace(name),
		backend:   backend,
		hooks:     hooks,
	}
}

func (c *Collection) Namespace() string {
	return c.namespace
}

func (c *Collection) key(id int64) string {
	return Key(c.namespace, id)
}

// Insert stores a copy of record under a newly allocated id and returns it.
//
// The record persists once written even if AfterInsert fails afterwards.
func (c *Collection) Insert(ctx context.Context, record Record) (int64, error) {

	item := make(Record, len(record)+1)
	for k, v := range record {
		item[k] = v
	}

	err := c.hooks.beforeInsert(ctx, item)
	if err != nil {
		return 0, err
	}

	id, err := c.backend.Increment(ctx, c.namespace)
	if err != nil {
		return 0, fmt.Errorf("allocate id for %s: %w", c.Name, err)
	}

	item[IDField] = strconv.FormatInt(id, 10)

	err = c.write(ctx, id, item)
	if err != nil {
		return 0, err
	}

	err = c.hooks.afterInsert(ctx, item, id)
	if err != nil {
		return id, err
	}

	return id, nil
}

// Get returns the record with the given id, or nil if it does not exist.
func (c *Collection) Get(ctx context.Context, id int64) (Record, error) {

	key := c.key(id)

	exists, err := c.backend.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", key, err)
	}
	if !exists {
		return nil, nil
	}

	record, err := c.backend.ReadFields(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return record, nil
}

// GetID returns the id stored inside record.
func (c *Collection) GetID(record Record) (int64, error) {
	value, ok := record[IDField]
	if !ok {
		return 0, fmt.Errorf("record has no '%s' field", IDField)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse record id '%s': %w", value, err)
	}
	return id, nil
}

// Update merges patch into the record with the given id. It returns false,
// without calling any hook, if the record does not exist.
func (c *Collection) Update(ctx context.Context, id int64, patch Record) (bool, error) {

	if _, reserved := patch[IDField]; reserved {
		return false, ErrReservedField
	}

	key := c.key(id)

	exists, err := c.backend.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}
	if !exists {
		return false, nil
	}

	err = c.hooks.beforeUpdate(ctx, id, patch)
	if err != nil {
		return false, err
	}

	// an empty HMSET is an error reply
	if len(patch) > 0 {
		err = c.write(ctx, id, patch)
		if err != nil {
			return false, err
		}
	}

	err = c.hooks.afterUpdate(ctx, id, patch)
	if err != nil {
		return true, err
	}

	return true, nil
}

// Delete removes the record with the given id. It returns false, without
// calling any hook, if the record does not exist. A failing BeforeDelete
// keeps the record.
func (c *Collection) Delete(ctx context.Context, id int64) (bool, error) {
	record, err := c.Remove(ctx, id)
	return record != nil, err
}

// Remove works like Delete but returns the record as it was before being
// deleted, or nil when it did not exist.
func (c *Collection) Remove(ctx context.Context, id int64) (Record, error) {

	key := c.key(id)

	exists, err := c.backend.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", key, err)
	}
	if !exists {
		return nil, nil
	}

	record, err := c.backend.ReadFields(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if record == nil {
		record = Record{}
	}

	err = c.hooks.beforeDelete(ctx, id, record)
	if err != nil {
		return nil, err
	}

	err = c.backend.Delete(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", key, err)
	}

	err = c.hooks.afterDelete(ctx, id, record)
	if err != nil {
		return record, err
	}

	return record, nil
}

func (c *Collection) write(ctx context.Context, id int64, fields Record) error {

	reply, err := c.backend.WriteFields(ctx, c.key(id), fields)
	if err != nil {
		return &WriteError{Collection: c.Name, ID: id, Err: err}
	}
	if reply != ReplyOK {
		return &WriteError{Collection: c.Name, ID: id, Reply: reply}
	}

	return nil
}
