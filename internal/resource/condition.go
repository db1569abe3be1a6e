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

package resource

import (
	"encoding/json"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"simcloud.dev/internal/simerr"
)

// A Precondition is a caller-supplied expected value for a field, compared
// for exact equality against the stored field's string representation before
// a mutation is allowed. With Not set, the mutation is allowed only if the
// stored value differs.
type Precondition struct {
	Field string
	Value string
	Not   bool
}

// CheckPreconditions compares each precondition against doc. The first one
// that does not hold is reported as a FailedPrecondition error; doc is never
// mutated.
func CheckPreconditions(doc Document, pres []Precondition) error {
	for _, p := range pres {
		cur := doc.StringField(p.Field)
		if p.Not {
			if cur == p.Value {
				return simerr.Newf(simerr.FailedPrecondition, nil,
					"precondition failed: %s is %q", p.Field, cur)
			}
		} else if cur != p.Value {
			return simerr.Newf(simerr.FailedPrecondition, nil,
				"precondition failed: %s is %q, want %q", p.Field, cur, p.Value)
		}
	}
	return nil
}

// An UpdateOp describes one conditional update of a resource document.
type UpdateOp struct {
	// Body is the caller-supplied partial document (patch semantics) or
	// complete replacement document (replace semantics).
	Body Document

	// Replace selects replace semantics: the result starts from Body and the
	// Protected fields are re-overlaid from the existing document. When
	// false, Body is overlaid onto the existing document as an RFC 7386
	// merge patch.
	Replace bool

	// Protected names field paths that caller-supplied data may never
	// overwrite, such as the id, kind, creation timestamp and generation.
	Protected []string

	// Preconditions must all hold against the existing document or the
	// update is aborted without any mutation.
	Preconditions []Precondition

	// CounterField is the field path of the version counter incremented by
	// exactly 1 on success.
	CounterField string

	// UpdatedField, if non-empty, is the field path of the timestamp
	// re-stamped to now on success.
	UpdatedField string
}

// Apply computes the updated document from cur. cur is never mutated; on any
// error the returned document is nil and the stored state is unaffected.
func (op *UpdateOp) Apply(cur Document, now time.Time) (Document, error) {
	if err := CheckPreconditions(cur, op.Preconditions); err != nil {
		return nil, err
	}

	var merged Document
	switch {
	case op.Replace:
		merged = op.Body.DeepCopy()
		for _, f := range op.Protected {
			if v, ok := GetPath(cur, f); ok {
				if err := SetPath(merged, f, deepCopyValue(v)); err != nil {
					return nil, err
				}
			} else {
				DeletePath(merged, f)
			}
		}
	default:
		var err error
		if merged, err = mergePatch(cur, op.Body); err != nil {
			return nil, err
		}
	}

	if op.CounterField != "" {
		if err := merged.BumpCounter(op.CounterField); err != nil {
			return nil, err
		}
	}
	if op.UpdatedField != "" {
		if err := SetPath(merged, op.UpdatedField, FormatTime(now)); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// mergePatch overlays patch onto cur per RFC 7386: nested maps merge
// recursively, explicit nulls delete keys, everything else replaces.
func mergePatch(cur, patch Document) (Document, error) {
	curJSON, err := json.Marshal(cur)
	if err != nil {
		return nil, simerr.Newf(simerr.Internal, err, "encoding stored document")
	}
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, simerr.Newf(simerr.InvalidArgument, err, "encoding patch document")
	}
	mergedJSON, err := jsonpatch.MergePatch(curJSON, patchJSON)
	if err != nil {
		return nil, simerr.Newf(simerr.InvalidArgument, err, "applying merge patch")
	}
	var merged Document
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, simerr.Newf(simerr.Internal, err, "decoding merged document")
	}
	return merged, nil
}
