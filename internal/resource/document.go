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

// Package resource implements the mechanisms shared by every simulated
// vendor API: JSON-like resource documents, caller-supplied preconditions,
// the conditional-update procedure, and response projection.
//
// Version counters (generation, metageneration, etag, version) are held in
// documents as string-encoded decimal integers, matching the vendor wire
// format. All arithmetic happens on int64; the string form exists only at
// the JSON boundary.
package resource

import (
	"strconv"
	"time"

	"simcloud.dev/internal/simerr"
)

// TimeFormat is the timestamp layout used in resource documents:
// RFC 3339 UTC with milliseconds and a trailing "Z", as in the real
// vendor responses.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// A Document is one JSON-like resource: a bucket, a video, a comment.
// Values are the types produced by encoding/json: string, float64, bool,
// nil, []interface{} and map[string]interface{}.
type Document map[string]interface{}

// FormatTime renders t in the document timestamp layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a document timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeFormat, s)
}

// CopyValue deep-copies one document value of any JSON-like type.
func CopyValue(v interface{}) interface{} {
	return deepCopyValue(v)
}

// DeepCopy returns a copy of d sharing no mutable state with it.
func (d Document) DeepCopy() Document {
	if d == nil {
		return nil
	}
	return deepCopyMap(d)
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(v)
	case Document:
		return deepCopyMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// StringField returns the value of the possibly dotted field path as a
// string. Missing fields return "". Non-string scalars are rendered the way
// encoding/json would render them, so preconditions can compare against a
// field's string representation regardless of its stored type.
func (d Document) StringField(path string) string {
	v, ok := GetPath(d, path)
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Counter reads the string-encoded decimal counter at the given field path.
// A missing field reads as 0.
func (d Document) Counter(path string) (int64, error) {
	v, ok := GetPath(d, path)
	if !ok || v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, simerr.Newf(simerr.Internal, nil, "counter field %q is a %T, not a string", path, v)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, simerr.Newf(simerr.Internal, err, "counter field %q holds %q", path, s)
	}
	return n, nil
}

// BumpCounter increments the string-encoded decimal counter at the given
// field path by exactly 1, creating it as "1" if absent.
func (d Document) BumpCounter(path string) error {
	n, err := d.Counter(path)
	if err != nil {
		return err
	}
	return SetPath(d, path, strconv.FormatInt(n+1, 10))
}
