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

// Package api exposes the simulated vendor services over HTTP. Each vendor
// gets its own subrouter and its own error envelope, matching the JSON the
// real APIs return.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"simcloud.dev/figma"
	"simcloud.dev/gcstorage"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/youtube"
)

// Handler routes requests to the simulated services.
type Handler struct {
	storage *gcstorage.Service
	youtube *youtube.Service
	figma   *figma.Service
}

// NewHandler returns an http.Handler serving all three vendor APIs:
// Google Cloud Storage under /storage/v1, YouTube Data under /youtube/v3,
// and Figma under /v1.
func NewHandler(storage *gcstorage.Service, yt *youtube.Service, fg *figma.Service) http.Handler {
	h := &Handler{storage: storage, youtube: yt, figma: fg}
	r := mux.NewRouter()
	h.registerStorage(r.PathPrefix("/storage/v1").Subrouter())
	h.registerYouTube(r.PathPrefix("/youtube/v3").Subrouter())
	h.registerFigma(r.PathPrefix("/v1").Subrouter())
	return r
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields. A missing body decodes into the zero value.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return simerr.Newf(simerr.InvalidArgument, err, "decoding request body")
	}
	return nil
}

// decodeLooseBody decodes a JSON request body without a field whitelist,
// for merge-patch documents whose keys the service validates itself.
func decodeLooseBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return simerr.Newf(simerr.InvalidArgument, err, "decoding request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// int64Param parses an optional int64 query parameter; nil means absent.
func int64Param(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, simerr.Newf(simerr.InvalidArgument, err, "%s: not an integer", name)
	}
	return &n, nil
}

func intParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, simerr.Newf(simerr.InvalidArgument, err, "%s: not an integer", name)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}
