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
	"strings"

	"simcloud.dev/internal/simerr"
)

// Field paths are dotted: "retentionPolicy.isLocked" names the isLocked key
// of the retentionPolicy sub-document.

// GetPath returns the value of m at the given field path, reporting whether
// the full path exists.
func GetPath(m map[string]interface{}, path string) (interface{}, bool) {
	fp := strings.Split(path, ".")
	m2, err := parentMap(m, fp, false)
	if err != nil || m2 == nil {
		return nil, false
	}
	v, ok := m2[fp[len(fp)-1]]
	return v, ok
}

// SetPath sets m's value at the given field path, creating intermediate maps
// as needed. It returns an error if a non-final component of the path does
// not denote a map.
func SetPath(m map[string]interface{}, path string, val interface{}) error {
	fp := strings.Split(path, ".")
	m2, err := parentMap(m, fp, true)
	if err != nil {
		return err
	}
	m2[fp[len(fp)-1]] = val
	return nil
}

// DeletePath removes the value at the given field path, if it exists.
func DeletePath(m map[string]interface{}, path string) {
	fp := strings.Split(path, ".")
	m2, _ := parentMap(m, fp, false) // ignore error
	if m2 != nil {
		delete(m2, fp[len(fp)-1])
	}
}

// parentMap returns the map that directly contains the given field path;
// that is, the value of m at the field path that excludes the last component
// of fp. If a non-map is encountered along the way, an Internal error is
// returned. If nil is encountered, nil is returned unless create is true, in
// which case a map is added at that point.
func parentMap(m map[string]interface{}, fp []string, create bool) (map[string]interface{}, error) {
	for _, k := range fp[:len(fp)-1] {
		if m[k] == nil {
			if !create {
				return nil, nil
			}
			m[k] = map[string]interface{}{}
		}
		switch sub := m[k].(type) {
		case map[string]interface{}:
			m = sub
		case Document:
			m = sub
		default:
			return nil, simerr.Newf(simerr.Internal, nil, "invalid field path %q at %q", strings.Join(fp, "."), k)
		}
	}
	return m, nil
}
