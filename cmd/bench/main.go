package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | INSERT | UPDATE | REMOVE | FIND"`
	Base    string `usage:"base URL, empty to start an in-process server"`
	Backend string `usage:"backend of the in-process server: memory | redis | sqlite"`
	N       int64  `usage:"number of records"`
	Workers int    `usage:"number of workers"`
	Batch   int    `usage:"page size used by FIND"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "insert",
		Base:    "",
		Backend: "memory",
		N:       100_000,
		Workers: 16,
		Batch:   1000,
	}
	goconfig.Read(&c)

	StartServer(&c)

	var err error
	switch strings.ToUpper(c.Test) {
	case "ALL":
		for _, test := range []func(Config) error{TestInsert, TestUpdate, TestFind, TestRemove} {
			err = test(c)
			if err != nil {
				break
			}
		}
	case "INSERT":
		err = TestInsert(c)
	case "UPDATE":
		err = TestUpdate(c)
	case "REMOVE":
		err = TestRemove(c)
	case "FIND":
		err = TestFind(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

	if err != nil {
		log.Println("ERROR:", err.Error())
	}
}
