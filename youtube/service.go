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

// Package youtube simulates the YouTube Data API v3 (videos, comments,
// playlists and channels) against an in-memory resource store. Response
// documents mirror the youtube#video, youtube#comment, youtube#playlist and
// youtube#channel resource shapes.
//
// Where the real API versions resources with opaque etags, the simulator
// uses string-encoded decimal etags bumped by exactly 1 on every successful
// mutation, so the same conditional-update machinery serves all vendors.
package youtube

import (
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

// Store collection names.
const (
	videosCollection    = "videos"
	commentsCollection  = "comments"
	playlistsCollection = "playlists"
	channelsCollection  = "channels"
)

// Options are optional arguments to NewService.
type Options struct {
	// Now returns the current time. It exists so tests can control the
	// clock; nil means time.Now.
	Now func() time.Time

	// NewID returns a fresh resource id; nil means uuid-based ids.
	NewID func() string
}

// Service implements the simulated YouTube Data API against a store.
type Service struct {
	st    *store.Store
	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by st.
func NewService(st *store.Store, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}
	s := &Service{st: st, now: opts.Now, newID: opts.NewID}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *Service) stamp() string {
	return resource.FormatTime(s.now())
}

// videoID derives an 11-character video-style id, the way the real service
// renders them.
func (s *Service) videoID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])[:11]
}

// checkParts validates the comma-separated part parameter against the parts
// a resource supports. The normalized list always includes "id", which every
// response carries.
func checkParts(part string, allowed map[string]bool) ([]string, error) {
	if part == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: required")
	}
	seen := map[string]bool{"id": true}
	for _, p := range strings.Split(part, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p != "id" && !allowed[p] {
			return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: invalid value %q", p)
		}
		seen[p] = true
	}
	parts := make([]string, 0, len(seen))
	for p := range seen {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return parts, nil
}

// selectParts copies the requested parts of a stored resource into a
// response document. kind and etag always ride along.
func selectParts(doc resource.Document, parts []string) resource.Document {
	out := resource.Document{}
	for _, k := range []string{"kind", "etag"} {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	for _, p := range parts {
		if v, ok := doc[p]; ok {
			out[p] = resource.CopyValue(v)
		}
	}
	return out
}

// listResponse wraps items in the standard list envelope.
func listResponse(kind string, items []interface{}) resource.Document {
	return resource.Document{
		"kind": kind,
		"pageInfo": map[string]interface{}{
			"totalResults":   float64(len(items)),
			"resultsPerPage": float64(len(items)),
		},
		"items": items,
	}
}
