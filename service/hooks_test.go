package service

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/fulldump/biff"
	"github.com/google/uuid"

	"github.com/fulldump/recordstore/backend/memory"
	"github.com/fulldump/recordstore/collection"
	"github.com/fulldump/recordstore/database"
)

func newTestService(mutationLog *log.Logger) (*Service, *memory.Backend) {
	backend := memory.New()
	db := database.NewDatabase(&database.Config{
		Backend: backend,
		Hooks:   CollectionHooks(backend, mutationLog),
	})
	biff.AssertNil(db.Load(context.Background()))
	return NewService(db), backend
}

func TestDefaults(t *testing.T) {

	ctx := context.Background()

	biff.Alternative("Defaults", func(a *biff.A) {

		s, backend := newTestService(nil)
		c, err := s.CreateCollection(ctx, "people")
		biff.AssertNil(err)

		a.Alternative("No defaults", func(a *biff.A) {
			defaults, err := s.GetDefaults(ctx, "people")
			biff.AssertNil(err)
			biff.AssertEqual(defaults, collection.Record{})

			id, _ := c.Insert(ctx, collection.Record{"name": "Fulanez"})
			record, _ := c.Get(ctx, id)
			biff.AssertEqual(record, collection.Record{"name": "Fulanez", collection.IDField: "1"})
		})

		a.Alternative("Missing collection", func(a *biff.A) {
			_, err := s.GetDefaults(ctx, "missing")
			biff.AssertEqual(err, ErrorCollectionNotFound)

			_, err = s.SetDefaults(ctx, "missing", collection.Record{"a": "b"})
			biff.AssertEqual(err, ErrorCollectionNotFound)
		})

		a.Alternative("With defaults", func(a *biff.A) {
			defaults, err := s.SetDefaults(ctx, "people", collection.Record{
				"kind": "person",
				"uid":  "uuid()",
			})
			biff.AssertNil(err)
			biff.AssertEqual(defaults, collection.Record{"kind": "person", "uid": "uuid()"})

			a.Alternative("Fill missing fields", func(a *biff.A) {
				id, err := c.Insert(ctx, collection.Record{"name": "Fulanez"})
				biff.AssertNil(err)

				record, _ := c.Get(ctx, id)
				biff.AssertEqual(record["kind"], "person")
				_, err = uuid.Parse(record["uid"])
				biff.AssertNil(err)
			})

			a.Alternative("Keep given fields", func(a *biff.A) {
				id, _ := c.Insert(ctx, collection.Record{"kind": "robot", "uid": "r2d2"})

				record, _ := c.Get(ctx, id)
				biff.AssertEqual(record["kind"], "robot")
				biff.AssertEqual(record["uid"], "r2d2")
			})

			a.Alternative("Every record gets its own uuid", func(a *biff.A) {
				id1, _ := c.Insert(ctx, collection.Record{})
				id2, _ := c.Insert(ctx, collection.Record{})

				record1, _ := c.Get(ctx, id1)
				record2, _ := c.Get(ctx, id2)
				biff.AssertTrue(record1["uid"] != record2["uid"])
			})

			a.Alternative("Defaults are not records", func(a *biff.A) {
				it := c.Iterate(10)
				keys, err := it.NextKeys(ctx)
				biff.AssertNil(err)
				biff.AssertEqual(len(keys), 0)
			})

			a.Alternative("Clear defaults", func(a *biff.A) {
				defaults, err := s.SetDefaults(ctx, "people", collection.Record{})
				biff.AssertNil(err)
				biff.AssertEqual(defaults, collection.Record{})

				exists, _ := backend.Exists(ctx, DefaultsKey("people"))
				biff.AssertFalse(exists)
			})

			a.Alternative("Delete collection removes defaults", func(a *biff.A) {
				c.Insert(ctx, collection.Record{"name": "Fulanez"})

				biff.AssertNil(s.DeleteCollection(ctx, "people"))
				biff.AssertEqual(backend.Len(), 0)

				_, err := s.GetCollection("people")
				biff.AssertEqual(err, ErrorCollectionNotFound)
			})
		})
	})
}

func TestExpandDefault(t *testing.T) {

	biff.AssertEqual(expandDefault("plain"), "plain")
	biff.AssertEqual(expandDefault(""), "")

	_, err := uuid.Parse(expandDefault("uuid()"))
	biff.AssertNil(err)

	biff.AssertTrue(expandDefault("unixnano()") != "unixnano()")
}

func TestMutationLog(t *testing.T) {

	ctx := context.Background()
	buffer := &bytes.Buffer{}

	s, _ := newTestService(log.New(buffer, "MUTATION: ", 0))
	c, _ := s.CreateCollection(ctx, "people")

	id, _ := c.Insert(ctx, collection.Record{"name": "Fulanez"})
	c.Update(ctx, id, collection.Record{"name": "Menganez"})
	c.Update(ctx, id+1, collection.Record{"name": "Nobody"})
	c.Delete(ctx, id)

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	biff.AssertEqual(lines, []string{
		"MUTATION: insert people 1",
		"MUTATION: update people 1 1 fields",
		"MUTATION: delete people 1",
	})
}
