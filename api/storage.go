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

package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"simcloud.dev/gcstorage"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

func (h *Handler) registerStorage(r *mux.Router) {
	r.HandleFunc("/b", h.storageInsertBucket).Methods("POST")
	r.HandleFunc("/b", h.storageListBuckets).Methods("GET")
	r.HandleFunc("/b/{bucket}", h.storageGetBucket).Methods("GET")
	r.HandleFunc("/b/{bucket}", h.storagePatchBucket).Methods("PATCH")
	r.HandleFunc("/b/{bucket}", h.storageUpdateBucket).Methods("PUT")
	r.HandleFunc("/b/{bucket}", h.storageDeleteBucket).Methods("DELETE")
	r.HandleFunc("/b/{bucket}/lockRetentionPolicy", h.storageLockRetentionPolicy).Methods("POST")
	r.HandleFunc("/b/{bucket}/restore", h.storageRestoreBucket).Methods("POST")

	r.HandleFunc("/b/{bucket}/o", h.storageInsertObject).Methods("POST")
	r.HandleFunc("/b/{bucket}/o", h.storageListObjects).Methods("GET")
	r.HandleFunc("/b/{bucket}/o/{object}", h.storageGetObject).Methods("GET")
	r.HandleFunc("/b/{bucket}/o/{object}", h.storageDeleteObject).Methods("DELETE")
}

func (h *Handler) storageInsertBucket(w http.ResponseWriter, r *http.Request) {
	var b gcstorage.Bucket
	if err := decodeBody(r, &b); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.InsertBucket(&gcstorage.InsertBucketRequest{
		Project:    r.URL.Query().Get("project"),
		Bucket:     &b,
		Projection: r.URL.Query().Get("projection"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageListBuckets(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "maxResults")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.ListBuckets(&gcstorage.ListBucketsRequest{
		Project:     r.URL.Query().Get("project"),
		Prefix:      r.URL.Query().Get("prefix"),
		Projection:  r.URL.Query().Get("projection"),
		MaxResults:  maxResults,
		PageToken:   r.URL.Query().Get("pageToken"),
		SoftDeleted: boolParam(r, "softDeleted"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// metagenPreconditions pulls the two metageneration precondition parameters
// off a request.
func metagenPreconditions(r *http.Request) (match, notMatch *int64, err error) {
	if match, err = int64Param(r, "ifMetagenerationMatch"); err != nil {
		return nil, nil, err
	}
	if notMatch, err = int64Param(r, "ifMetagenerationNotMatch"); err != nil {
		return nil, nil, err
	}
	return match, notMatch, nil
}

func (h *Handler) storageGetBucket(w http.ResponseWriter, r *http.Request) {
	match, notMatch, err := metagenPreconditions(r)
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.GetBucket(&gcstorage.GetBucketRequest{
		Name:                     mux.Vars(r)["bucket"],
		Projection:               r.URL.Query().Get("projection"),
		SoftDeleted:              boolParam(r, "softDeleted"),
		IfMetagenerationMatch:    match,
		IfMetagenerationNotMatch: notMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storagePatchBucket(w http.ResponseWriter, r *http.Request) {
	match, notMatch, err := metagenPreconditions(r)
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	var patch resource.Document
	// The service checks patch keys against the mutable-field list, so the
	// body decodes without a struct schema here.
	if err := decodeLooseBody(r, &patch); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.PatchBucket(&gcstorage.PatchBucketRequest{
		Name:                     mux.Vars(r)["bucket"],
		Patch:                    patch,
		Projection:               r.URL.Query().Get("projection"),
		IfMetagenerationMatch:    match,
		IfMetagenerationNotMatch: notMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageUpdateBucket(w http.ResponseWriter, r *http.Request) {
	match, notMatch, err := metagenPreconditions(r)
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	var b gcstorage.Bucket
	if err := decodeBody(r, &b); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.UpdateBucket(&gcstorage.UpdateBucketRequest{
		Name:                     mux.Vars(r)["bucket"],
		Bucket:                   &b,
		Projection:               r.URL.Query().Get("projection"),
		IfMetagenerationMatch:    match,
		IfMetagenerationNotMatch: notMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageDeleteBucket(w http.ResponseWriter, r *http.Request) {
	match, notMatch, err := metagenPreconditions(r)
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	err = h.storage.DeleteBucket(&gcstorage.DeleteBucketRequest{
		Name:                     mux.Vars(r)["bucket"],
		IfMetagenerationMatch:    match,
		IfMetagenerationNotMatch: notMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storageLockRetentionPolicy(w http.ResponseWriter, r *http.Request) {
	match, err := int64Param(r, "ifMetagenerationMatch")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.storage.LockBucketRetentionPolicy(&gcstorage.LockBucketRetentionPolicyRequest{
		Name:                  mux.Vars(r)["bucket"],
		IfMetagenerationMatch: match,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageRestoreBucket(w http.ResponseWriter, r *http.Request) {
	gen, err := strconv.ParseInt(r.URL.Query().Get("generation"), 10, 64)
	if err != nil {
		writeGoogleError(w, simerr.Newf(simerr.InvalidArgument, err, "generation: required integer"))
		return
	}
	doc, err := h.storage.RestoreBucket(&gcstorage.RestoreBucketRequest{
		Name:       mux.Vars(r)["bucket"],
		Generation: gen,
		Projection: r.URL.Query().Get("projection"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageInsertObject(w http.ResponseWriter, r *http.Request) {
	genMatch, err := int64Param(r, "ifGenerationMatch")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	var o gcstorage.Object
	if err := decodeBody(r, &o); err != nil {
		writeGoogleError(w, err)
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		o.Name = name
	}
	doc, err := h.storage.InsertObject(&gcstorage.InsertObjectRequest{
		Bucket:                 mux.Vars(r)["bucket"],
		Object:                 &o,
		GenerationPrecondition: genMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageListObjects(w http.ResponseWriter, r *http.Request) {
	doc, err := h.storage.ListObjects(&gcstorage.ListObjectsRequest{
		Bucket: mux.Vars(r)["bucket"],
		Prefix: r.URL.Query().Get("prefix"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageGetObject(w http.ResponseWriter, r *http.Request) {
	doc, err := h.storage.GetObject(&gcstorage.GetObjectRequest{
		Bucket: mux.Vars(r)["bucket"],
		Name:   mux.Vars(r)["object"],
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) storageDeleteObject(w http.ResponseWriter, r *http.Request) {
	genMatch, err := int64Param(r, "ifGenerationMatch")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	err = h.storage.DeleteObject(&gcstorage.DeleteObjectRequest{
		Bucket:                 mux.Vars(r)["bucket"],
		Name:                   mux.Vars(r)["object"],
		GenerationPrecondition: genMatch,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
