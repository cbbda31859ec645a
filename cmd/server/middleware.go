package main

import (
	"bufio"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/justinas/alice"
	"github.com/pkg/errors"

	"github.com/mairateam/calculators/internal/log"
)

const slowRequest = 500 * time.Millisecond

// logRequests tags each request with a correlation ID and logs its outcome.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := log.WithCorrelationID(r.Context())
		r = r.WithContext(ctx)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		logger := log.ForContext(ctx).WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": sw.status,
			"duration_ms": elapsed.Milliseconds(),
		})

		switch {
		case sw.status >= 500:
			logger.Error("request failed")
		case sw.status >= 400:
			logger.Warn("request rejected")
		default:
			logger.Info("request completed")
		}
		if elapsed > slowRequest {
			logger.Warnf("slow request: %s", elapsed)
		}
	})
}

// middleware wraps the router. Recovery runs inside logRequests so a panic is
// logged with the request's correlation ID and counted as a 500.
func middleware() alice.Chain {
	return alice.New(logRequests, recoverPanic)
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				log.ForContext(r.Context()).WithFields(log.Fields{
					"panic_error": err,
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(stack),
				}).Error("unhandled panic")

				if hj, ok := w.(interface{ Hijacked() bool }); ok && hj.Hijacked() {
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status   int
	hijacked bool
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sw.status = http.StatusSwitchingProtocols
	sw.hijacked = true
	return hj.Hijack()
}

// Hijacked reports whether the connection was taken over. Nothing may be
// written through the ResponseWriter afterwards.
func (sw *statusWriter) Hijacked() bool {
	return sw.hijacked
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
