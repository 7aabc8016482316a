package service

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// readLines decodes a newline delimited JSON body.
func readLines(body string) []JSON {
	result := []JSON{}
	d := json.NewDecoder(strings.NewReader(body))
	for d.More() {
		item := JSON{}
		biff.AssertNil(d.Decode(&item))
		result = append(result, item)
	}
	return result
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name": "my-collection",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"name":     "my-collection",
			"defaults": JSON{},
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Create collection twice", func(a *biff.A) {
			resp := apiRequest("POST", "/collections").
				WithBodyJson(JSON{
					"name": "my-collection",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedBody})
		})

		a.Alternative("Drop collection", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:dropCollection").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped collection", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection").
					Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Insert nothing", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString("").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		})

		a.Alternative("Insert something that is not an object", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString("[1,2,3]").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Insert one", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyJson(JSON{
					"name":    "Fulanez",
					"address": "Elm Street 11",
					"age":     33,
					"tags":    []string{"a", "b"},
					"nothing": nil,
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			stored := JSON{
				"__id__":  "1",
				"name":    "Fulanez",
				"address": "Elm Street 11",
				"age":     "33",
				"tags":    `["a","b"]`,
			}
			biff.AssertEqualJson(resp.BodyJson(), stored)

			a.Alternative("Get", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:get").
					WithBodyJson(JSON{"id": 1}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), stored)
			})

			a.Alternative("Get by path", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection/records/1").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), stored)
			})

			a.Alternative("Get by path with a bad id", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection/records/one").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Get missing", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:get").
					WithBodyJson(JSON{"id": 2}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Update", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:update").
					WithBodyJson(JSON{
						"id":    1,
						"patch": JSON{"name": "Menganez", "city": "Madrid"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"__id__":  "1",
					"name":    "Menganez",
					"city":    "Madrid",
					"address": "Elm Street 11",
					"age":     "33",
					"tags":    `["a","b"]`,
				})
			})

			a.Alternative("Update the id", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:update").
					WithBodyJson(JSON{
						"id":    1,
						"patch": JSON{"__id__": "7"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Update missing", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:update").
					WithBodyJson(JSON{
						"id":    5,
						"patch": JSON{"name": "Nobody"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)

				resp = apiRequest("POST", "/collections/my-collection:size").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"records": 1})
			})

			a.Alternative("Remove", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:remove").
					WithBodyJson(JSON{"id": 1}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), stored)

				a.Alternative("Remove again", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:remove").
						WithBodyJson(JSON{"id": 1}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Size after remove", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:size").Do()

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"records": 0})
				})
			})
		})

		a.Alternative("Insert many", func(a *biff.A) {

			body := ""
			for i := 0; i < 5; i++ {
				body += `{"n":"` + strconv.Itoa(i) + `"}` + "\n"
			}
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(body).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqual(len(readLines(resp.BodyString())), 5)

			a.Alternative("Find all", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{"batch": 2}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)

				ids := map[interface{}]bool{}
				for _, record := range readLines(resp.BodyString()) {
					ids[record["__id__"]] = true
				}
				biff.AssertEqual(len(ids), 5)
			})

			a.Alternative("Find with limit", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{"batch": 2, "limit": 3}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqual(len(readLines(resp.BodyString())), 3)
			})

			a.Alternative("Size", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:size").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"records": 5})
			})
		})

		a.Alternative("Insert stops at a bad line", func(a *biff.A) {
			body := `{"n":"1"}` + "\n" + `[1,2,3]` + "\n" + `{"n":"3"}` + "\n"
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(body).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			lines := readLines(resp.BodyString())
			biff.AssertEqual(len(lines), 2)
			biff.AssertEqual(lines[0]["n"], "1")
			biff.AssertEqual(lines[1]["error"].(JSON)["description"], "insert stopped after 1 records")

			resp = apiRequest("POST", "/collections/my-collection:size").Do()
			biff.AssertEqualJson(resp.BodyJson(), JSON{"records": 1})
		})

		a.Alternative("Set defaults", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:setDefaults").
				WithBodyJson(JSON{
					"kind":    "person",
					"created": "unixnano()",
					"ignored": nil,
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			defaults := JSON{
				"kind":    "person",
				"created": "unixnano()",
			}
			biff.AssertEqualJson(resp.BodyJson(), defaults)

			a.Alternative("Retrieve collection with defaults", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection").Do()

				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"name":     "my-collection",
					"defaults": defaults,
				})
			})

			a.Alternative("Insert with defaults", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:insert").
					WithBodyJson(JSON{"name": "Fulanez", "kind": "robot"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
				stored := resp.BodyJson().(JSON)
				biff.AssertEqual(stored["name"], "Fulanez")
				biff.AssertEqual(stored["kind"], "robot")

				created, err := strconv.ParseInt(stored["created"].(string), 10, 64)
				biff.AssertNil(err)
				biff.AssertTrue(created > 0)
			})

			a.Alternative("Clear defaults", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:setDefaults").
					WithBodyJson(JSON{}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{})
			})
		})
	})

	a.Alternative("Create collection with a bad name", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name": "bad name!",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert creates the collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/auto:insert").
			WithBodyJson(JSON{"name": "Fulanez"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		resp = apiRequest("GET", "/collections/auto").Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
	})

	a.Alternative("Find in a missing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/missing:find").
			WithBodyJson(JSON{}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}
