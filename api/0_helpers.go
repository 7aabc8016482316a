package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/recordstore/api/apicollectionv1"
	"github.com/fulldump/recordstore/collection"
	"github.com/fulldump/recordstore/database"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

// describeError maps an error to its HTTP status and a human description.
func describeError(ctx context.Context, err error) (int, string) {

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var writeErr *collection.WriteError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "request rate exceeded, retry later"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "the database is not operating"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.Is(err, apicollectionv1.ErrBadRequest),
		errors.Is(err, database.ErrInvalidCollectionName),
		errors.Is(err, collection.ErrReservedField):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, database.ErrorCollectionNotFound),
		errors.Is(err, apicollectionv1.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, database.ErrorCollectionAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.As(err, &writeErr):
		return http.StatusBadGateway, fmt.Sprintf("the backend refused the write: %s", writeErr.Reply)
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		status, description := describeError(ctx, err)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
