package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fulldump/recordstore/bootstrap"
	"github.com/fulldump/recordstore/configuration"
)

type JSON = map[string]any

// Parallel runs f in workers goroutines and returns the first error.
func Parallel(workers int, f func(worker int) error) error {
	g := &errgroup.Group{}
	for i := 0; i < workers; i++ {
		worker := i
		g.Go(func() error {
			return f(worker)
		})
	}
	return g.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "recordstore_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
		Timeout: 30 * time.Second,
	}
}

func Post(client *http.Client, url string, body any) ([]byte, error) {

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("POST %s: %d %s", url, resp.StatusCode, string(data))
	}

	return data, nil
}

func CreateCollection(base string) (string, error) {

	name := "col-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	_, err := Post(http.DefaultClient, base+"/v1/collections", JSON{"name": name})
	if err != nil {
		return "", err
	}

	return name, nil
}

// Preload inserts n records in one streamed request.
func Preload(client *http.Client, base, collectionName string, n int64) error {

	r, w := io.Pipe()

	encoder := json.NewEncoder(w)
	go func() {
		for i := int64(0); i < n; i++ {
			encoder.Encode(JSON{
				"n":     strconv.FormatInt(i, 10),
				"value": 0,
			})
		}
		w.Close()
	}()

	resp, err := client.Post(base+"/v1/collections/"+collectionName+":insert", "application/x-ndjson", r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

// StartServer starts an in-process server when no base URL is given.
func StartServer(c *Config) {

	if c.Base != "" {
		return
	}

	conf := configuration.Default()
	conf.HttpAddr = "127.0.0.1:18080"
	conf.Backend = c.Backend
	conf.ShowBanner = false
	conf.RateLimit = 0

	if c.Backend == "sqlite" {
		dir, cleanup := TempDir()
		cleanups = append(cleanups, cleanup)
		conf.SqlitePath = filepath.Join(dir, "bench.db")
	}

	c.Base = "http://" + conf.HttpAddr

	start, stop := bootstrap.Bootstrap(conf)
	cleanups = append(cleanups, stop)
	go start()

	// wait for the listener and the collections load
	for i := 0; i < 50; i++ {
		resp, err := http.Get(c.Base + "/release")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func Report(n int64, took time.Duration) {
	fmt.Println("sent:", n)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(n)/took.Seconds())
}
