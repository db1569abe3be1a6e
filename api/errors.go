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

	"simcloud.dev/internal/simerr"
)

// reasonForCode maps error codes to the short reason strings Google APIs
// carry inside their error envelopes.
func reasonForCode(c simerr.ErrorCode) string {
	switch c {
	case simerr.InvalidArgument:
		return "invalid"
	case simerr.NotFound:
		return "notFound"
	case simerr.AlreadyExists, simerr.Conflict:
		return "conflict"
	case simerr.FailedPrecondition:
		return "conditionNotMet"
	case simerr.Unimplemented:
		return "notImplemented"
	default:
		return "backendError"
	}
}

// writeGoogleError renders the {"error":{code,message,errors:[...]}}
// envelope shared by the Cloud Storage and YouTube APIs.
func writeGoogleError(w http.ResponseWriter, err error) {
	code := simerr.HTTPCode(simerr.Code(err))
	writeJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": err.Error(),
			"errors": []interface{}{
				map[string]interface{}{
					"reason":  reasonForCode(simerr.Code(err)),
					"message": err.Error(),
				},
			},
		},
	})
}

// writeFigmaError renders Figma's flat {"status":N,"err":"..."} envelope.
func writeFigmaError(w http.ResponseWriter, err error) {
	code := simerr.HTTPCode(simerr.Code(err))
	writeJSON(w, code, map[string]interface{}{
		"status": code,
		"err":    err.Error(),
	})
}
