package apicollectionv1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/recordstore/collection"
	"github.com/fulldump/recordstore/service"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrBadRequest     = errors.New("bad request")
)

// toRecord flattens a JSON object into record fields. Strings are stored
// unquoted, nulls are dropped and any other value keeps its compact JSON
// text.
func toRecord(value jsontext.Value) (collection.Record, error) {

	fields := map[string]jsontext.Value{}
	err := json.Unmarshal(value, &fields)
	if err != nil {
		return nil, fmt.Errorf("%w: record must be a JSON object: %s", ErrBadRequest, err.Error())
	}

	record := make(collection.Record, len(fields))
	for name, field := range fields {
		switch field.Kind() {
		case 'n':
			continue
		case '"':
			s := ""
			err := json.Unmarshal(field, &s)
			if err != nil {
				return nil, fmt.Errorf("%w: field '%s': %s", ErrBadRequest, name, err.Error())
			}
			record[name] = s
		default:
			raw := field.Clone()
			err := raw.Compact()
			if err != nil {
				return nil, fmt.Errorf("%w: field '%s': %s", ErrBadRequest, name, err.Error())
			}
			record[name] = string(raw)
		}
	}

	return record, nil
}

// readRecords calls f with every JSON object found in r.
func readRecords(r io.Reader, f func(i int, record collection.Record) error) error {

	d := jsontext.NewDecoder(r)
	for i := 0; ; i++ {
		value, err := d.ReadValue()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
		}

		record, err := toRecord(value)
		if err != nil {
			return err
		}

		err = f(i, record)
		if err != nil {
			return err
		}
	}
}

func writeRecord(e *jsontext.Encoder, record collection.Record) error {
	return json.MarshalEncode(e, record, json.Deterministic(true))
}

type streamError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

// writeStreamError ends a stream whose status line is already sent with a
// last line {"error":{...}}, shaped like any other error body.
func writeStreamError(e *jsontext.Encoder, err error, description string) error {
	log.Println("ERROR: stream:", err.Error())
	return json.MarshalEncode(e, map[string]streamError{
		"error": {Message: err.Error(), Description: description},
	})
}

func getCollectionFromPath(ctx context.Context) (*collection.Collection, error) {
	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	return s.GetCollection(collectionName)
}

func getOrCreateCollectionFromPath(ctx context.Context) (*collection.Collection, error) {
	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err == service.ErrorCollectionNotFound {
		col, err = s.CreateCollection(ctx, collectionName)
	}
	return col, err
}

func parseRecordID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: bad record id '%s'", ErrBadRequest, value)
	}
	return id, nil
}
