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

package requestlog

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.opencensus.io/trace"
)

// A JSONLogger writes one JSON object per request, one per line, suitable
// for ingestion by structured log collectors.
type JSONLogger struct {
	onErr func(error)

	mu  sync.Mutex
	w   io.Writer
	buf bytes.Buffer
	enc *json.Encoder
}

// NewJSONLogger returns a new logger that writes to w.
// A nil onErr is treated the same as func(error) {}.
func NewJSONLogger(w io.Writer, onErr func(error)) *JSONLogger {
	l := &JSONLogger{
		w:     w,
		onErr: onErr,
	}
	l.enc = json.NewEncoder(&l.buf)
	return l
}

// Log writes a record to its writer. Multiple concurrent calls will produce
// sequential writes to its writer.
func (l *JSONLogger) Log(ent *Entry) {
	if err := l.log(ent); err != nil && l.onErr != nil {
		l.onErr(err)
	}
}

func (l *JSONLogger) log(ent *Entry) error {
	defer l.mu.Unlock()
	l.mu.Lock()

	l.buf.Reset()
	var r struct {
		Time      string `json:"time"`
		Method    string `json:"method"`
		URL       string `json:"url"`
		Status    int    `json:"status"`
		ReqSize   int64  `json:"requestSize"`
		RespSize  int64  `json:"responseSize"`
		LatencyMS int64  `json:"latencyMs"`
		RemoteIP  string `json:"remoteIp,omitempty"`
		UserAgent string `json:"userAgent,omitempty"`
		TraceID   string `json:"traceId,omitempty"`
		SpanID    string `json:"spanId,omitempty"`
	}
	r.Time = ent.ReceivedTime.UTC().Format(time.RFC3339Nano)
	r.Method = ent.Method
	r.URL = ent.URL
	r.Status = ent.Status
	r.ReqSize = ent.RequestBodySize
	r.RespSize = ent.ResponseBodySize
	r.LatencyMS = ent.Latency.Milliseconds()
	r.RemoteIP = ent.RemoteIP
	r.UserAgent = ent.UserAgent
	if ent.TraceID != (trace.TraceID{}) {
		r.TraceID = ent.TraceID.String()
		r.SpanID = ent.SpanID.String()
	}
	if err := l.enc.Encode(r); err != nil {
		return err
	}
	_, err := l.w.Write(l.buf.Bytes())
	return err
}
