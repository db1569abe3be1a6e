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

// Package gcstorage simulates the Google Cloud Storage JSON API (buckets and
// object metadata) against an in-memory resource store. Response documents
// mirror the storage#bucket and storage#object resource shapes; media bytes
// are not stored, only object metadata.
//
// Mutating operations accept ifMetagenerationMatch / ifMetagenerationNotMatch
// preconditions with the same semantics as the real API: a mismatch aborts
// the operation with a FailedPrecondition error and no partial write.
package gcstorage

import (
	"time"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/store"
)

// Store collection names.
const (
	bucketsCollection = "buckets"
	objectsCollection = "objects"
)

// Fields stripped by the noAcl projection.
var aclFields = []string{"acl", "defaultObjectAcl", "owner"}

// Fields that caller-supplied data may never overwrite on a full update.
var bucketProtectedFields = []string{
	"kind",
	"id",
	"name",
	"projectNumber",
	"timeCreated",
	"metageneration",
	"generation",
	"softDeleteTime",
	"hardDeleteTime",
}

// Options are optional arguments to NewService.
type Options struct {
	// Now returns the current time. It exists so tests can control the
	// clock; nil means time.Now.
	Now func() time.Time
}

// Service implements the simulated Cloud Storage API against a store.
type Service struct {
	st  *store.Store
	now func() time.Time
}

// NewService returns a Service backed by st.
func NewService(st *store.Store, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{st: st, now: now}
}

func (s *Service) stamp() string {
	return resource.FormatTime(s.now())
}
