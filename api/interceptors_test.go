package api

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/fulldump/box"
	"github.com/klauspost/compress/gzip"

	"github.com/fulldump/recordstore/database"
	"github.com/fulldump/recordstore/service"
)

func TestInterceptorUnavailable(t *testing.T) {

	db := newTestDatabase()
	b := Build(service.NewService(db), "test", "", "")
	b.WithInterceptors(
		PrettyErrorInterceptor,
		InterceptorUnavailable(db),
	)
	api := apitest.NewWithHandler(b)

	biff.AssertNil(db.Stop())
	biff.AssertEqual(db.GetStatus(), database.StatusClosing)

	resp := api.Request("GET", "/v1/collections").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
}

func TestRateLimit(t *testing.T) {

	b := Build(service.NewService(newTestDatabase()), "test", "", "")
	b.WithInterceptors(
		PrettyErrorInterceptor,
		RateLimit(0.001, 2),
	)
	api := apitest.NewWithHandler(b)

	biff.AssertEqual(api.Request("GET", "/v1/collections").Do().StatusCode, http.StatusOK)
	biff.AssertEqual(api.Request("GET", "/v1/collections").Do().StatusCode, http.StatusOK)
	biff.AssertEqual(api.Request("GET", "/v1/collections").Do().StatusCode, http.StatusTooManyRequests)
}

func TestRecoverFromPanic(t *testing.T) {

	b := box.NewBox()
	b.WithInterceptors(
		PrettyErrorInterceptor,
		RecoverFromPanic,
	)
	b.Resource("/boom").WithActions(box.Get(func() {
		panic("boom")
	}))

	resp := apitest.NewWithHandler(b).Request("GET", "/boom").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusInternalServerError)
}

func TestAccessLog(t *testing.T) {

	buffer := &bytes.Buffer{}

	b := Build(service.NewService(newTestDatabase()), "test", "", "")
	b.WithInterceptors(
		AccessLog(log.New(buffer, "ACCESS: ", 0)),
		PrettyErrorInterceptor,
	)
	api := apitest.NewWithHandler(b)

	api.Request("GET", "/v1/collections/missing").Do()

	line := buffer.String()
	biff.AssertTrue(strings.HasPrefix(line, "ACCESS: "))
	biff.AssertTrue(strings.Contains(line, "GET /v1/collections/missing"))
	biff.AssertTrue(strings.Contains(line, "collection not found"))
}

func TestCompression(t *testing.T) {

	db := newTestDatabase()
	s := service.NewService(db)
	_, err := s.CreateCollection(context.Background(), "people")
	biff.AssertNil(err)

	b := Build(s, "test", "", "")
	b.WithInterceptors(
		Compression,
		PrettyErrorInterceptor,
	)
	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/v1/collections").
		WithHeader("Accept-Encoding", "gzip").
		Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")

	r, err := gzip.NewReader(bytes.NewReader(resp.BodyBytes()))
	biff.AssertNil(err)
	body, err := io.ReadAll(r)
	biff.AssertNil(err)
	biff.AssertTrue(strings.Contains(string(body), `"people"`))
}
