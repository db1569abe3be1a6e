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
	"encoding/json"
	"strconv"
	"time"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

// docFromStruct converts a typed request resource into a stored document via
// its JSON form, so stored values have the same types a fixture load would
// produce.
func docFromStruct(v interface{}) (resource.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, simerr.Newf(simerr.Internal, err, "encoding resource")
	}
	var doc resource.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, simerr.Newf(simerr.Internal, err, "decoding resource")
	}
	return doc, nil
}

func isSoftDeleted(doc resource.Document) bool {
	_, ok := doc["softDeleteTime"]
	return ok
}

// InsertBucket creates a new bucket. The name must be unused, including by
// soft-deleted buckets that have not yet been permanently removed.
func (s *Service) InsertBucket(req *InsertBucketRequest) (resource.Document, error) {
	if req.Project == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "project: required")
	}
	if req.Bucket == nil {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}
	if err := checkBucketName(req.Bucket.Name); err != nil {
		return nil, err
	}
	if req.Bucket.StorageClass != "" {
		if err := checkStorageClass(req.Bucket.StorageClass); err != nil {
			return nil, err
		}
	}
	if rp := req.Bucket.RetentionPolicy; rp != nil {
		n, err := checkSeconds("retentionPolicy.retentionPeriod", rp.RetentionPeriod)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, simerr.Newf(simerr.InvalidArgument, nil, "retentionPolicy.retentionPeriod: must be positive")
		}
	}
	if sdp := req.Bucket.SoftDeletePolicy; sdp != nil {
		if _, err := checkSeconds("softDeletePolicy.retentionDurationSeconds", sdp.RetentionDurationSeconds); err != nil {
			return nil, err
		}
	}

	doc, err := docFromStruct(req.Bucket)
	if err != nil {
		return nil, err
	}
	name := req.Bucket.Name
	stamp := s.stamp()
	doc["kind"] = "storage#bucket"
	doc["id"] = name
	doc["selfLink"] = "https://www.googleapis.com/storage/v1/b/" + name
	doc["timeCreated"] = stamp
	doc["updated"] = stamp
	doc["metageneration"] = "1"
	doc["generation"] = "1"
	if doc["location"] == nil {
		doc["location"] = "US"
	}
	if doc["storageClass"] == nil {
		doc["storageClass"] = "STANDARD"
	}
	if doc["acl"] == nil {
		doc["acl"] = []interface{}{
			map[string]interface{}{"entity": "project-owners", "role": "OWNER"},
		}
	}
	if doc["defaultObjectAcl"] == nil {
		doc["defaultObjectAcl"] = []interface{}{
			map[string]interface{}{"entity": "project-owners", "role": "OWNER"},
		}
	}
	doc["owner"] = map[string]interface{}{"entity": "project-owners"}
	if req.Bucket.RetentionPolicy != nil {
		resource.SetPath(doc, "retentionPolicy.effectiveTime", stamp)
		resource.SetPath(doc, "retentionPolicy.isLocked", false)
	}
	if req.Bucket.SoftDeletePolicy != nil {
		resource.SetPath(doc, "softDeletePolicy.effectiveTime", stamp)
	}

	if err := s.st.Insert(bucketsCollection, name, doc); err != nil {
		return nil, err
	}
	return resource.Project(doc, projection, aclFields)
}

// GetBucket returns bucket metadata. Soft-deleted buckets are hidden unless
// the request asks for them.
func (s *Service) GetBucket(req *GetBucketRequest) (resource.Document, error) {
	if req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}
	doc, err := s.st.Get(bucketsCollection, req.Name)
	if err != nil {
		return nil, err
	}
	if isSoftDeleted(doc) != req.SoftDeleted {
		return nil, simerr.Newf(simerr.NotFound, nil, "buckets: %q not found", req.Name)
	}
	pres := metagenerationPreconditions(req.IfMetagenerationMatch, req.IfMetagenerationNotMatch)
	if err := resource.CheckPreconditions(doc, pres); err != nil {
		return nil, err
	}
	return resource.Project(doc, projection, aclFields)
}

// ListBuckets lists live (or, with SoftDeleted, soft-deleted) buckets in
// name order, with optional prefix filtering and token-based paging.
func (s *Service) ListBuckets(req *ListBucketsRequest) (resource.Document, error) {
	if req.Project == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "project: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}

	docs := s.st.List(bucketsCollection, func(d resource.Document) bool {
		if isSoftDeleted(d) != req.SoftDeleted {
			return false
		}
		name := d.StringField("name")
		if req.Prefix != "" && !hasPrefix(name, req.Prefix) {
			return false
		}
		return req.PageToken == "" || name > req.PageToken
	})

	var nextToken string
	if req.MaxResults > 0 && len(docs) > req.MaxResults {
		docs = docs[:req.MaxResults]
		nextToken = docs[len(docs)-1].StringField("name")
	}

	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		p, err := resource.Project(d, projection, aclFields)
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]interface{}(p))
	}
	out := resource.Document{"kind": "storage#buckets", "items": items}
	if nextToken != "" {
		out["nextPageToken"] = nextToken
	}
	return out, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// PatchBucket merges the supplied fields into the stored bucket. Fields not
// present in the patch keep their stored values; the metageneration counter
// is bumped by exactly 1 on success.
func (s *Service) PatchBucket(req *PatchBucketRequest) (resource.Document, error) {
	if req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}
	if err := checkPatchFields(req.Patch); err != nil {
		return nil, err
	}

	var updated resource.Document
	err = s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(bucketsCollection, req.Name)
		if err != nil {
			return err
		}
		if isSoftDeleted(cur) {
			return simerr.Newf(simerr.NotFound, nil, "buckets: %q not found", req.Name)
		}
		if _, touches := req.Patch["retentionPolicy"]; touches && retentionLocked(cur) {
			return simerr.Newf(simerr.FailedPrecondition, nil, "buckets: %q retention policy is locked", req.Name)
		}
		op := &resource.UpdateOp{
			Body:          req.Patch,
			Preconditions: metagenerationPreconditions(req.IfMetagenerationMatch, req.IfMetagenerationNotMatch),
			CounterField:  "metageneration",
			UpdatedField:  "updated",
		}
		updated, err = tx.Apply(bucketsCollection, req.Name, op, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return resource.Project(updated, projection, aclFields)
}

// UpdateBucket replaces the stored bucket with the supplied resource.
// Protected fields keep their stored values regardless of what the caller
// supplied for them.
func (s *Service) UpdateBucket(req *UpdateBucketRequest) (resource.Document, error) {
	if req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	if req.Bucket == nil {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket resource: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}
	if req.Bucket.Name != "" && req.Bucket.Name != req.Name {
		return nil, simerr.Newf(simerr.InvalidArgument, nil,
			"bucket resource name %q does not match request bucket %q", req.Bucket.Name, req.Name)
	}
	if req.Bucket.StorageClass != "" {
		if err := checkStorageClass(req.Bucket.StorageClass); err != nil {
			return nil, err
		}
	}

	var updated resource.Document
	err = s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(bucketsCollection, req.Name)
		if err != nil {
			return err
		}
		if isSoftDeleted(cur) {
			return simerr.Newf(simerr.NotFound, nil, "buckets: %q not found", req.Name)
		}
		body, err := docFromStruct(req.Bucket)
		if err != nil {
			return err
		}
		if err := s.carryRetentionState(cur, body, req.Bucket); err != nil {
			return err
		}
		op := &resource.UpdateOp{
			Body:          body,
			Replace:       true,
			Protected:     bucketProtectedFields,
			Preconditions: metagenerationPreconditions(req.IfMetagenerationMatch, req.IfMetagenerationNotMatch),
			CounterField:  "metageneration",
			UpdatedField:  "updated",
		}
		updated, err = tx.Apply(bucketsCollection, req.Name, op, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return resource.Project(updated, projection, aclFields)
}

func retentionLocked(doc resource.Document) bool {
	v, _ := resource.GetPath(doc, "retentionPolicy.isLocked")
	locked, _ := v.(bool)
	return locked
}

// carryRetentionState fills in the server-maintained parts of the retention
// and soft-delete policies on a replacement body: a locked policy cannot be
// changed or dropped, an unchanged policy keeps its effective time, and a new
// or changed one is re-stamped.
func (s *Service) carryRetentionState(cur, body resource.Document, b *Bucket) error {
	curPeriod := cur.StringField("retentionPolicy.retentionPeriod")
	if retentionLocked(cur) {
		if b.RetentionPolicy == nil || b.RetentionPolicy.RetentionPeriod != curPeriod {
			return simerr.Newf(simerr.FailedPrecondition, nil, "retention policy is locked")
		}
	}
	if b.RetentionPolicy != nil {
		if b.RetentionPolicy.RetentionPeriod == curPeriod && curPeriod != "" {
			resource.SetPath(body, "retentionPolicy.effectiveTime", cur.StringField("retentionPolicy.effectiveTime"))
			resource.SetPath(body, "retentionPolicy.isLocked", retentionLocked(cur))
		} else {
			n, err := checkSeconds("retentionPolicy.retentionPeriod", b.RetentionPolicy.RetentionPeriod)
			if err != nil {
				return err
			}
			if n == 0 {
				return simerr.Newf(simerr.InvalidArgument, nil, "retentionPolicy.retentionPeriod: must be positive")
			}
			resource.SetPath(body, "retentionPolicy.effectiveTime", s.stamp())
			resource.SetPath(body, "retentionPolicy.isLocked", false)
		}
	}
	if b.SoftDeletePolicy != nil {
		if _, err := checkSeconds("softDeletePolicy.retentionDurationSeconds", b.SoftDeletePolicy.RetentionDurationSeconds); err != nil {
			return err
		}
		curDur := cur.StringField("softDeletePolicy.retentionDurationSeconds")
		if b.SoftDeletePolicy.RetentionDurationSeconds == curDur && curDur != "" {
			resource.SetPath(body, "softDeletePolicy.effectiveTime", cur.StringField("softDeletePolicy.effectiveTime"))
		} else {
			resource.SetPath(body, "softDeletePolicy.effectiveTime", s.stamp())
		}
	}
	return nil
}

// DeleteBucket deletes a bucket. A bucket that still contains objects cannot
// be deleted. If the bucket has a soft-delete policy, the first delete
// transitions it to the soft-deleted state; deleting it again permanently
// removes it once the retention window has elapsed.
func (s *Service) DeleteBucket(req *DeleteBucketRequest) error {
	if req.Name == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	now := s.now()
	return s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(bucketsCollection, req.Name)
		if err != nil {
			return err
		}
		pres := metagenerationPreconditions(req.IfMetagenerationMatch, req.IfMetagenerationNotMatch)
		if err := resource.CheckPreconditions(cur, pres); err != nil {
			return err
		}
		n := tx.Count(objectsCollection, func(o resource.Document) bool {
			return o.StringField("bucket") == req.Name
		})
		if n > 0 {
			return simerr.Newf(simerr.Conflict, nil, "buckets: %q not empty: %d objects remain", req.Name, n)
		}

		if isSoftDeleted(cur) {
			hard, err := resource.ParseTime(cur.StringField("hardDeleteTime"))
			if err != nil {
				return simerr.Newf(simerr.Internal, err, "buckets: %q has a malformed hardDeleteTime", req.Name)
			}
			if now.Before(hard) {
				return simerr.Newf(simerr.Conflict, nil,
					"buckets: %q retention still active until %s", req.Name, cur.StringField("hardDeleteTime"))
			}
			return tx.Delete(bucketsCollection, req.Name)
		}

		sdp, hasPolicy := resource.GetPath(cur, "softDeletePolicy.retentionDurationSeconds")
		if !hasPolicy {
			return tx.Delete(bucketsCollection, req.Name)
		}
		durStr, ok := sdp.(string)
		if !ok {
			return simerr.Newf(simerr.Internal, nil, "buckets: %q has a malformed soft delete policy", req.Name)
		}
		dur, err := checkSeconds("softDeletePolicy.retentionDurationSeconds", durStr)
		if err != nil {
			return err
		}
		op := &resource.UpdateOp{
			Body: resource.Document{
				"softDeleteTime": resource.FormatTime(now),
				"hardDeleteTime": resource.FormatTime(now.Add(time.Duration(dur) * time.Second)),
			},
			CounterField: "metageneration",
			UpdatedField: "updated",
		}
		_, err = tx.Apply(bucketsCollection, req.Name, op, now)
		return err
	})
}

// LockBucketRetentionPolicy permanently locks the bucket's retention policy.
// The metageneration precondition is required, matching the real API.
func (s *Service) LockBucketRetentionPolicy(req *LockBucketRetentionPolicyRequest) (resource.Document, error) {
	if req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	if req.IfMetagenerationMatch == nil {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "ifMetagenerationMatch: required")
	}

	var updated resource.Document
	err := s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(bucketsCollection, req.Name)
		if err != nil {
			return err
		}
		if isSoftDeleted(cur) {
			return simerr.Newf(simerr.NotFound, nil, "buckets: %q not found", req.Name)
		}
		if _, ok := resource.GetPath(cur, "retentionPolicy.retentionPeriod"); !ok {
			return simerr.Newf(simerr.Conflict, nil, "buckets: %q has no retention policy to lock", req.Name)
		}
		if retentionLocked(cur) {
			return simerr.Newf(simerr.FailedPrecondition, nil, "buckets: %q retention policy is already locked", req.Name)
		}
		op := &resource.UpdateOp{
			Body: resource.Document{
				"retentionPolicy": map[string]interface{}{
					"isLocked":      true,
					"effectiveTime": s.stamp(),
				},
			},
			Preconditions: metagenerationPreconditions(req.IfMetagenerationMatch, nil),
			CounterField:  "metageneration",
			UpdatedField:  "updated",
		}
		updated, err = tx.Apply(bucketsCollection, req.Name, op, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RestoreBucket returns a soft-deleted bucket to the live state. The
// caller-supplied generation must equal the stored generation exactly.
func (s *Service) RestoreBucket(req *RestoreBucketRequest) (resource.Document, error) {
	if req.Name == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "bucket: required")
	}
	projection, err := normalizeProjection(req.Projection)
	if err != nil {
		return nil, err
	}

	var updated resource.Document
	err = s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(bucketsCollection, req.Name)
		if err != nil {
			return err
		}
		if !isSoftDeleted(cur) {
			return simerr.Newf(simerr.Conflict, nil, "buckets: %q is not soft-deleted", req.Name)
		}
		op := &resource.UpdateOp{
			Body: resource.Document{
				"softDeleteTime": nil, // merge-patch null deletes the key
				"hardDeleteTime": nil,
			},
			Preconditions: []resource.Precondition{{
				Field: "generation",
				Value: strconv.FormatInt(req.Generation, 10),
			}},
			CounterField: "metageneration",
			UpdatedField: "updated",
		}
		updated, err = tx.Apply(bucketsCollection, req.Name, op, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return resource.Project(updated, projection, aclFields)
}
