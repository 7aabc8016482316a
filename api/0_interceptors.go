package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"golang.org/x/time/rate"
)

var (
	ErrPanic           = errors.New("internal panic")
	ErrTooManyRequests = errors.New("too many requests")
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Println("PANIC:", r, string(debug.Stack()))
				box.SetError(ctx, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				errMessage := "-"
				if err := box.GetError(ctx); err != nil {
					errMessage = err.Error()
				}
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now), errMessage)
			}()

			next(ctx)
		}
	}
}

// RateLimit rejects requests over perSecond (with bursts of burst).
func RateLimit(perSecond float64, burst int) box.I {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			if !limiter.Allow() {
				box.SetError(ctx, ErrTooManyRequests)
				return
			}
			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}
