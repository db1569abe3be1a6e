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

package gcstorage

import (
	"strconv"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

func objectID(bucket, name string) string {
	return bucket + "/" + name
}

// InsertObject creates or overwrites object metadata. Overwriting bumps the
// object's generation and resets its metageneration, as in the real API.
func (s *Service) InsertObject(req *InsertObjectRequest) (resource.Document, error) {
	if err := checkBucketName(req.Bucket); err != nil {
		return nil, err
	}
	if req.Object == nil {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "object: required")
	}
	if err := checkObjectName(req.Object.Name); err != nil {
		return nil, err
	}
	if req.Object.Size < 0 {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "object size: must be non-negative")
	}

	var doc resource.Document
	err := s.st.Txn(func(tx *store.Txn) error {
		bucket, err := tx.Get(bucketsCollection, req.Bucket)
		if err != nil {
			return err
		}
		if isSoftDeleted(bucket) {
			return simerr.Newf(simerr.NotFound, nil, "buckets: %q not found", req.Bucket)
		}

		id := objectID(req.Bucket, req.Object.Name)
		var generation int64
		if cur, err := tx.Get(objectsCollection, id); err == nil {
			if generation, err = cur.Counter("generation"); err != nil {
				return err
			}
		}
		if p := req.GenerationPrecondition; p != nil && *p != generation {
			return simerr.Newf(simerr.FailedPrecondition, nil,
				"objects: %q generation is %d, want %d", id, generation, *p)
		}

		stamp := s.stamp()
		doc = resource.Document{
			"kind":           "storage#object",
			"id":             id,
			"bucket":         req.Bucket,
			"name":           req.Object.Name,
			"generation":     strconv.FormatInt(generation+1, 10),
			"metageneration": "1",
			"size":           strconv.FormatInt(req.Object.Size, 10),
			"timeCreated":    stamp,
			"updated":        stamp,
		}
		if req.Object.ContentType != "" {
			doc["contentType"] = req.Object.ContentType
		}
		if len(req.Object.Metadata) > 0 {
			md := map[string]interface{}{}
			for k, v := range req.Object.Metadata {
				md[k] = v
			}
			doc["metadata"] = md
		}
		tx.Put(objectsCollection, id, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetObject returns object metadata.
func (s *Service) GetObject(req *GetObjectRequest) (resource.Document, error) {
	if req.Bucket == "" || req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket and object: required")
	}
	return s.st.Get(objectsCollection, objectID(req.Bucket, req.Name))
}

// ListObjects lists the metadata of a bucket's objects in name order.
func (s *Service) ListObjects(req *ListObjectsRequest) (resource.Document, error) {
	if req.Bucket == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	if _, err := s.st.Get(bucketsCollection, req.Bucket); err != nil {
		return nil, err
	}
	docs := s.st.List(objectsCollection, func(o resource.Document) bool {
		if o.StringField("bucket") != req.Bucket {
			return false
		}
		return req.Prefix == "" || hasPrefix(o.StringField("name"), req.Prefix)
	})
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		items = append(items, map[string]interface{}(d))
	}
	return resource.Document{"kind": "storage#objects", "items": items}, nil
}

// DeleteObject removes object metadata, subject to an optional generation
// precondition.
func (s *Service) DeleteObject(req *DeleteObjectRequest) error {
	if req.Bucket == "" || req.Name == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "bucket and object: required")
	}
	id := objectID(req.Bucket, req.Name)
	return s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(objectsCollection, id)
		if err != nil {
			return err
		}
		if p := req.GenerationPrecondition; p != nil {
			pres := []resource.Precondition{{Field: "generation", Value: strconv.FormatInt(*p, 10)}}
			if err := resource.CheckPreconditions(cur, pres); err != nil {
				return err
			}
		}
		return tx.Delete(objectsCollection, id)
	})
}
