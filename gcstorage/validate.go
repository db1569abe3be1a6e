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
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

// Bucket naming rules:
// https://cloud.google.com/storage/docs/buckets#naming
var bucketNameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,61}[a-z0-9]$`)

var storageClasses = map[string]bool{
	"STANDARD":       true,
	"NEARLINE":       true,
	"COLDLINE":       true,
	"ARCHIVE":        true,
	"MULTI_REGIONAL": true,
	"REGIONAL":       true,
}

// Mutable bucket fields accepted in a patch body. Anything else is rejected
// rather than silently dropped.
var patchableBucketFields = map[string]bool{
	"acl":              true,
	"defaultObjectAcl": true,
	"labels":           true,
	"retentionPolicy":  true,
	"softDeletePolicy": true,
	"storageClass":     true,
	"versioning":       true,
}

func checkBucketName(name string) error {
	if name == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "bucket name: required")
	}
	if !bucketNameRE.MatchString(name) {
		return simerr.Newf(simerr.InvalidArgument, nil,
			"bucket name %q: must be 3-63 lowercase letters, numbers, dashes, underscores and dots, starting and ending with a letter or number", name)
	}
	if strings.HasPrefix(name, "goog") {
		return simerr.Newf(simerr.InvalidArgument, nil, "bucket name %q: must not begin with \"goog\"", name)
	}
	return nil
}

// Object naming rules follow
// https://cloud.google.com/storage/docs/objects#naming
func checkObjectName(name string) error {
	switch {
	case name == "":
		return simerr.Newf(simerr.InvalidArgument, nil, "object name: required")
	case len(name) > 1024:
		return simerr.Newf(simerr.InvalidArgument, nil, "object name: longer than 1024 bytes")
	case !utf8.ValidString(name):
		return simerr.Newf(simerr.InvalidArgument, nil, "object name: not valid UTF-8")
	case strings.ContainsAny(name, "\n\r"):
		return simerr.Newf(simerr.InvalidArgument, nil, "object name: must not contain line feed or carriage return")
	}
	return nil
}

func checkStorageClass(c string) error {
	if !storageClasses[c] {
		return simerr.Newf(simerr.InvalidArgument, nil, "storageClass: invalid value %q", c)
	}
	return nil
}

// checkSeconds validates a string-encoded non-negative number of seconds.
func checkSeconds(field, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, simerr.Newf(simerr.InvalidArgument, err, "%s: %q is not a non-negative number of seconds", field, s)
	}
	return n, nil
}

// normalizeProjection applies the API default ("full") and rejects
// unrecognized selectors up front, before any state is touched.
func normalizeProjection(p string) (string, error) {
	if p == "" {
		return resource.ProjectionFull, nil
	}
	if p != resource.ProjectionFull && p != resource.ProjectionNoACL {
		return "", simerr.Newf(simerr.InvalidArgument, nil,
			"projection: invalid value %q, want %q or %q", p, resource.ProjectionFull, resource.ProjectionNoACL)
	}
	return p, nil
}

// metagenerationPreconditions builds the precondition list for the common
// ifMetagenerationMatch / ifMetagenerationNotMatch parameter pair.
func metagenerationPreconditions(match, notMatch *int64) []resource.Precondition {
	var pres []resource.Precondition
	if match != nil {
		pres = append(pres, resource.Precondition{
			Field: "metageneration",
			Value: strconv.FormatInt(*match, 10),
		})
	}
	if notMatch != nil {
		pres = append(pres, resource.Precondition{
			Field: "metageneration",
			Value: strconv.FormatInt(*notMatch, 10),
			Not:   true,
		})
	}
	return pres
}

// checkPatchFields rejects patch bodies that mention fields outside the
// documented mutable set, and validates the values of restricted-choice
// fields it does accept.
func checkPatchFields(patch resource.Document) error {
	for k := range patch {
		if !patchableBucketFields[k] {
			return simerr.Newf(simerr.InvalidArgument, nil, "patch: unknown or immutable field %q", k)
		}
	}
	if v, ok := patch["storageClass"]; ok {
		c, isString := v.(string)
		if !isString {
			return simerr.Newf(simerr.InvalidArgument, nil, "patch: storageClass must be a string")
		}
		if err := checkStorageClass(c); err != nil {
			return err
		}
	}
	if err := checkPatchSeconds(patch, "retentionPolicy", "retentionPeriod", true); err != nil {
		return err
	}
	return checkPatchSeconds(patch, "softDeletePolicy", "retentionDurationSeconds", false)
}

// checkPatchSeconds validates the seconds value inside a policy sub-document
// of a patch body. A null policy deletes it and is always allowed; a supplied
// value must pass the same checks the insert and update paths apply.
func checkPatchSeconds(patch resource.Document, policy, field string, positive bool) error {
	v, ok := patch[policy]
	if !ok || v == nil {
		return nil
	}
	m, isMap := v.(map[string]interface{})
	if !isMap {
		return simerr.Newf(simerr.InvalidArgument, nil, "patch: %s must be an object", policy)
	}
	p, ok := m[field]
	if !ok {
		return nil
	}
	s, isString := p.(string)
	if !isString {
		return simerr.Newf(simerr.InvalidArgument, nil, "patch: %s.%s must be a string", policy, field)
	}
	n, err := checkSeconds(policy+"."+field, s)
	if err != nil {
		return err
	}
	if positive && n == 0 {
		return simerr.Newf(simerr.InvalidArgument, nil, "%s.%s: must be positive", policy, field)
	}
	return nil
}
