// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package requestlog provides an http.Handler that logs information about
// each simulated API request.
package requestlog

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opencensus.io/trace"
)

// Logger wraps the Log method. Log must be safe to call from multiple
// goroutines. Log must not hold onto an Entry after it returns.
type Logger interface {
	Log(*Entry)
}

// An Entry records information about one completed request.
type Entry struct {
	ReceivedTime time.Time
	Method       string
	URL          string
	Proto        string
	RemoteIP     string
	UserAgent    string
	Referer      string

	RequestBodySize  int64
	Status           int
	ResponseBodySize int64
	Latency          time.Duration

	TraceID trace.TraceID
	SpanID  trace.SpanID
}

// A Handler emits request information to a Logger.
type Handler struct {
	log Logger
	h   http.Handler
}

// NewHandler returns a handler that emits information to log and calls
// h.ServeHTTP.
func NewHandler(log Logger, h http.Handler) *Handler {
	return &Handler{log: log, h: h}
}

// ServeHTTP calls the underlying handler, then logs the completed request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sc := trace.FromContext(r.Context()).SpanContext()
	ent := &Entry{
		ReceivedTime: start,
		Method:       r.Method,
		URL:          r.URL.String(),
		Proto:        r.Proto,
		RemoteIP:     ipFromHostPort(r.RemoteAddr),
		UserAgent:    r.UserAgent(),
		Referer:      r.Referer(),
		TraceID:      sc.TraceID,
		SpanID:       sc.SpanID,
	}

	r2 := new(http.Request)
	*r2 = *r
	rcc := &readCounterCloser{r: r.Body}
	r2.Body = rcc
	w2 := &responseStats{w: w}

	h.h.ServeHTTP(w2, r2)

	ent.Latency = time.Since(start)
	// The handler may not have read the whole body; prefer the declared
	// Content-Length when one was sent.
	ent.RequestBodySize = rcc.n
	if cl := r.Header.Get("Content-Length"); cl != "" {
		ent.RequestBodySize, _ = strconv.ParseInt(cl, 10, 64)
	}
	ent.Status = w2.code
	if ent.Status == 0 {
		ent.Status = http.StatusOK
	}
	ent.ResponseBodySize = int64(w2.wc)
	h.log.Log(ent)
}

func ipFromHostPort(hp string) string {
	h, _, err := net.SplitHostPort(hp)
	if err != nil {
		return ""
	}
	if len(h) > 0 && h[0] == '[' {
		return h[1 : len(h)-1]
	}
	return h
}

type readCounterCloser struct {
	r   io.ReadCloser
	n   int64
	err error
}

func (rcc *readCounterCloser) Read(p []byte) (n int, err error) {
	if rcc.err != nil {
		return 0, rcc.err
	}
	n, rcc.err = rcc.r.Read(p)
	rcc.n += int64(n)
	return n, rcc.err
}

func (rcc *readCounterCloser) Close() error {
	rcc.err = errors.New("read from closed reader")
	return rcc.r.Close()
}

type writeCounter int64

func (wc *writeCounter) Write(p []byte) (n int, err error) {
	*wc += writeCounter(len(p))
	return len(p), nil
}

type responseStats struct {
	w    http.ResponseWriter
	wc   writeCounter
	code int
}

func (r *responseStats) Header() http.Header {
	return r.w.Header()
}

func (r *responseStats) WriteHeader(statusCode int) {
	if r.code != 0 {
		return
	}
	r.w.WriteHeader(statusCode)
	r.code = statusCode
}

func (r *responseStats) Write(p []byte) (n int, err error) {
	if r.code == 0 {
		r.WriteHeader(http.StatusOK)
	}
	n, err = r.w.Write(p)
	r.wc.Write(p[:n])
	return
}

func (r *responseStats) Flush() {
	if fl, ok := r.w.(http.Flusher); ok {
		fl.Flush()
	}
}
