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

// Package figma simulates part of the Figma REST API: file retrieval,
// project and team listings, and file comments. Files and projects are
// seeded through store fixtures; comments are the mutable surface.
//
// Files carry a "version" counter in the same string-encoded decimal form
// the other simulated vendors use, bumped whenever a comment mutates the
// file.
package figma

import (
	"time"

	"github.com/google/uuid"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/store"
)

// Store collection names.
const (
	filesCollection    = "figmaFiles"
	commentsCollection = "figmaComments"
	projectsCollection = "figmaProjects"
)

// Options are optional arguments to NewService.
type Options struct {
	// Now returns the current time; nil means time.Now.
	Now func() time.Time

	// NewID returns a fresh comment id; nil means uuid-based ids.
	NewID func() string
}

// Service implements the simulated Figma REST API against a store.
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
