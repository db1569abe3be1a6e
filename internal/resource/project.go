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

import "simcloud.dev/internal/simerr"

// Recognized projection selectors.
const (
	ProjectionFull  = "full"
	ProjectionNoACL = "noAcl"
)

// Project shapes the outgoing representation of doc: "full" keeps every
// field, "noAcl" drops the given ACL-related field paths. The result is a
// copy; the stored document is never mutated.
func Project(doc Document, projection string, aclFields []string) (Document, error) {
	out := doc.DeepCopy()
	switch projection {
	case ProjectionFull:
	case ProjectionNoACL:
		for _, f := range aclFields {
			DeletePath(out, f)
		}
	default:
		return nil, simerr.Newf(simerr.InvalidArgument, nil,
			"projection: invalid value %q, want %q or %q", projection, ProjectionFull, ProjectionNoACL)
	}
	return out, nil
}
