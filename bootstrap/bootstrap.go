package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"

	"github.com/fulldump/recordstore/api"
	"github.com/fulldump/recordstore/backend/memory"
	"github.com/fulldump/recordstore/backend/redis"
	"github.com/fulldump/recordstore/backend/sqlite"
	"github.com/fulldump/recordstore/collection"
	"github.com/fulldump/recordstore/configuration"
	"github.com/fulldump/recordstore/database"
	"github.com/fulldump/recordstore/service"
)

var VERSION = "dev"

// OpenBackend returns the backend selected by c and a function to release
// it.
func OpenBackend(ctx context.Context, c *configuration.Configuration) (collection.Backend, func() error, error) {

	switch c.Backend {
	case "", "memory":
		return memory.New(), func() error { return nil }, nil

	case "redis":
		b, err := redis.Dial(ctx, &redis.Config{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil

	case "sqlite":
		b, err := sqlite.Open(ctx, c.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown backend '%s', must be [memory|redis|sqlite]", c.Backend)
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	backend, closeBackend, err := OpenBackend(context.Background(), c)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("backend", c.Backend)

	var mutationLog *log.Logger
	if c.LogMutations {
		mutationLog = log.New(os.Stdout, "MUTATION: ", log.LstdFlags)
	}

	db := database.NewDatabase(&database.Config{
		Backend: backend,
		Hooks:   service.CollectionHooks(backend, mutationLog),
	})

	b := api.Build(service.NewService(db), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.PrettyErrorInterceptor,
	)
	if c.RateLimit > 0 {
		b.WithInterceptors(api.RateLimit(c.RateLimit, c.RateBurst))
	}
	b.WithInterceptors(
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			db.Stop()
			s.Shutdown(context.Background())
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				fmt.Println(err.Error())
				stop()
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				fmt.Println(err.Error())
			}
		}()

		wg.Wait()

		err := closeBackend()
		if err != nil {
			fmt.Println("close backend:", err.Error())
		}
	}

	return
}
