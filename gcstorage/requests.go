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

import "simcloud.dev/internal/resource"

// A Bucket carries the caller-supplied fields of a storage#bucket resource.
// Zero-valued optional fields are ignored.
type Bucket struct {
	// Name is the bucket name. Bucket names must be 3-63 characters of
	// lowercase letters, digits, dashes, underscores and dots, must start
	// and end with a letter or number, and must not begin with "goog".
	Name string `json:"name"`

	Location     string            `json:"location,omitempty"`
	StorageClass string            `json:"storageClass,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`

	Versioning       *BucketVersioning `json:"versioning,omitempty"`
	RetentionPolicy  *RetentionPolicy  `json:"retentionPolicy,omitempty"`
	SoftDeletePolicy *SoftDeletePolicy `json:"softDeletePolicy,omitempty"`

	ACL              []ACLRule `json:"acl,omitempty"`
	DefaultObjectACL []ACLRule `json:"defaultObjectAcl,omitempty"`
}

// BucketVersioning is the versioning sub-resource of a bucket.
type BucketVersioning struct {
	Enabled bool `json:"enabled"`
}

// RetentionPolicy is the object retention policy of a bucket.
type RetentionPolicy struct {
	// RetentionPeriod is the retention period in seconds, as a string-encoded
	// decimal integer on the wire.
	RetentionPeriod string `json:"retentionPeriod"`
}

// SoftDeletePolicy configures bucket soft deletion. A bucket with a soft
// delete policy transitions to a soft-deleted state on delete and can be
// restored until its retention window elapses.
type SoftDeletePolicy struct {
	// RetentionDurationSeconds is how long a soft-deleted bucket is retained
	// before it becomes eligible for permanent deletion, as a string-encoded
	// decimal integer on the wire.
	RetentionDurationSeconds string `json:"retentionDurationSeconds"`
}

// An ACLRule binds an entity to a role on a bucket or object.
type ACLRule struct {
	Entity string `json:"entity"`
	Role   string `json:"role"`
}

// A request to create a bucket, accepted by Service.InsertBucket.
type InsertBucketRequest struct {
	// Project is the project to create the bucket under. Must be non-empty.
	// The simulator does not model projects; the value is recorded but not
	// checked against a project registry.
	Project string

	// Bucket holds the bucket resource to create. Bucket.Name must be set.
	Bucket *Bucket

	// Projection selects the response shape: "full" or "noAcl".
	// Empty means "full".
	Projection string
}

// A request to fetch bucket metadata, accepted by Service.GetBucket.
type GetBucketRequest struct {
	Name       string
	Projection string

	// SoftDeleted selects the soft-deleted version of the bucket instead of
	// the live one.
	SoftDeleted bool

	// If non-nil, the bucket is returned only if its current metageneration
	// matches (or, for NotMatch, differs from) the given value.
	IfMetagenerationMatch    *int64
	IfMetagenerationNotMatch *int64
}

// A request to list buckets, accepted by Service.ListBuckets.
type ListBucketsRequest struct {
	// Project is required but, as with InsertBucketRequest, not checked
	// against a project registry; every live bucket is listed.
	Project string

	// Prefix restricts the listing to bucket names with the given prefix.
	Prefix string

	Projection string

	// MaxResults caps the page size; values < 1 mean no cap.
	MaxResults int

	// PageToken resumes a listing from a previous page's NextPageToken.
	PageToken string

	// SoftDeleted lists soft-deleted buckets instead of live ones.
	SoftDeleted bool
}

// A request to patch bucket metadata, accepted by Service.PatchBucket.
type PatchBucketRequest struct {
	Name string

	// Patch is an RFC 7386 merge-patch document: supplied keys overlay the
	// stored bucket, nested objects merge, explicit nulls delete. Only
	// documented mutable bucket fields are accepted.
	Patch resource.Document

	Projection string

	IfMetagenerationMatch    *int64
	IfMetagenerationNotMatch *int64
}

// A request to replace bucket metadata, accepted by Service.UpdateBucket.
type UpdateBucketRequest struct {
	Name string

	// Bucket is the complete replacement resource. Protected fields (id,
	// kind, name, creation time, version counters) keep their stored values
	// regardless of what the caller supplies.
	Bucket *Bucket

	Projection string

	IfMetagenerationMatch    *int64
	IfMetagenerationNotMatch *int64
}

// A request to delete a bucket, accepted by Service.DeleteBucket.
type DeleteBucketRequest struct {
	Name string

	IfMetagenerationMatch    *int64
	IfMetagenerationNotMatch *int64
}

// A request to lock a bucket's retention policy, accepted by
// Service.LockBucketRetentionPolicy.
type LockBucketRetentionPolicyRequest struct {
	Name string

	// IfMetagenerationMatch is required by the real API, and here too.
	IfMetagenerationMatch *int64
}

// A request to restore a soft-deleted bucket, accepted by
// Service.RestoreBucket.
type RestoreBucketRequest struct {
	Name string

	// Generation must equal the stored generation of the soft-deleted bucket
	// exactly.
	Generation int64

	Projection string
}

// An Object carries the caller-supplied fields of a storage#object resource.
type Object struct {
	// Name is the object name. Object names must be non-empty, no longer
	// than 1024 bytes, valid UTF-8, and must not contain U+000A or U+000D.
	Name string `json:"name"`

	ContentType string            `json:"contentType,omitempty"`
	Size        int64             `json:"size,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// A request to create or overwrite an object, accepted by
// Service.InsertObject.
type InsertObjectRequest struct {
	Bucket string
	Object *Object

	// If non-nil, the object is created or overwritten only if the current
	// generation for the object name equals the given value. Zero means the
	// object must not exist.
	GenerationPrecondition *int64
}

// A request to fetch object metadata, accepted by Service.GetObject.
type GetObjectRequest struct {
	Bucket string
	Name   string
}

// A request to list objects, accepted by Service.ListObjects.
type ListObjectsRequest struct {
	Bucket string
	Prefix string
}

// A request to delete an object, accepted by Service.DeleteObject.
type DeleteObjectRequest struct {
	Bucket string
	Name   string

	// If non-nil, the object is deleted only if its current generation
	// equals the given value.
	GenerationPrecondition *int64
}
