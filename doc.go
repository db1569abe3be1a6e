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

/*
Package simcloud contains in-memory simulations of public web service APIs
for testing and local development.

Each simulated service lives in its own top-level package and mirrors the
resource model, validation rules, and error behavior of the API it stands in
for:

  - gcstorage simulates the Google Cloud Storage JSON API (buckets and
    objects, metageneration preconditions, retention policies).
  - youtube simulates the YouTube Data API v3 (videos, comments, playlists,
    and channels, with part selection and etag counters).
  - figma simulates the Figma REST API (files, projects, and comments).

All services share a single document store (internal/store) that holds
resources as JSON-like documents and applies mutations transactionally, so
preconditions and version counters behave the same way everywhere. Errors
carry portable codes; see the scerrors package for inspecting them.

The api package exposes the services over HTTP with each vendor's wire
format, and cmd/simcloudd is a daemon that serves all three from a fixture
file. The server package provides the HTTP server harness with request
logging, health checks, and tracing.
*/
package simcloud // import "simcloud.dev"
