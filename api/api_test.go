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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"simcloud.dev/figma"
	"simcloud.dev/gcstorage"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/store"
	"simcloud.dev/youtube"
)

func newTestHandler(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st := store.New()
	now := func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	h := NewHandler(
		gcstorage.NewService(st, &gcstorage.Options{Now: now}),
		youtube.NewService(st, &youtube.Options{Now: now}),
		figma.NewService(st, &figma.Options{Now: now}),
	)
	return h, st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return m
}

func TestStorageBucketLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/storage/v1/b?project=demo", `{"name":"my-bucket"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert: status = %d\n%s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["name"] != "my-bucket" {
		t.Errorf("insert: name = %v", got["name"])
	}
	if got["metageneration"] != "1" {
		t.Errorf("insert: metageneration = %v, want \"1\"", got["metageneration"])
	}

	w = do(t, h, "GET", "/storage/v1/b/my-bucket", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	// Patch with a matching precondition bumps the counter.
	w = do(t, h, "PATCH", "/storage/v1/b/my-bucket?ifMetagenerationMatch=1",
		`{"labels":{"env":"test"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status = %d\n%s", w.Code, w.Body.String())
	}
	got = decode(t, w)
	if got["metageneration"] != "2" {
		t.Errorf("patch: metageneration = %v, want \"2\"", got["metageneration"])
	}

	// A stale precondition maps to 412 with the Google error envelope.
	w = do(t, h, "PATCH", "/storage/v1/b/my-bucket?ifMetagenerationMatch=1",
		`{"labels":{"env":"prod"}}`)
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("stale patch: status = %d, want 412", w.Code)
	}
	envelope := decode(t, w)["error"].(map[string]interface{})
	if envelope["code"] != float64(http.StatusPreconditionFailed) {
		t.Errorf("error.code = %v, want 412", envelope["code"])
	}
	reasons := envelope["errors"].([]interface{})
	if reasons[0].(map[string]interface{})["reason"] != "conditionNotMet" {
		t.Errorf("error.errors[0].reason = %v, want conditionNotMet", reasons[0])
	}

	w = do(t, h, "DELETE", "/storage/v1/b/my-bucket", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = do(t, h, "GET", "/storage/v1/b/my-bucket", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestStorageDeleteNonEmptyBucketConflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h, "POST", "/storage/v1/b?project=demo", `{"name":"full-bucket"}`)
	w := do(t, h, "POST", "/storage/v1/b/full-bucket/o?name=a.txt", `{"size":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert object: status = %d\n%s", w.Code, w.Body.String())
	}

	w = do(t, h, "DELETE", "/storage/v1/b/full-bucket", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("delete non-empty: status = %d, want 409", w.Code)
	}

	do(t, h, "DELETE", "/storage/v1/b/full-bucket/o/a.txt", "")
	w = do(t, h, "DELETE", "/storage/v1/b/full-bucket", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete empty: status = %d, want 204", w.Code)
	}
}

func TestStorageRejectsUnknownBodyFields(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "POST", "/storage/v1/b?project=demo", `{"name":"b1","bogus":true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestYouTubeVideoRoutes(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/youtube/v3/videos?part=snippet,status",
		`{"snippet":{"title":"A video"},"status":{"privacyStatus":"public"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert: status = %d\n%s", w.Code, w.Body.String())
	}
	id := decode(t, w)["id"].(string)

	w = do(t, h, "GET", "/youtube/v3/videos?part=snippet&id="+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	items := decode(t, w)["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("list: got %d items", len(items))
	}

	w = do(t, h, "POST", "/youtube/v3/videos/rate?id="+id+"&rating=like", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("rate: status = %d", w.Code)
	}
	w = do(t, h, "POST", "/youtube/v3/videos/rate?id="+id+"&rating=love", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad rating: status = %d, want 400", w.Code)
	}

	w = do(t, h, "DELETE", "/youtube/v3/videos?id="+id, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = do(t, h, "DELETE", "/youtube/v3/videos?id="+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestYouTubeCommentModeration(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "POST", "/youtube/v3/videos?part=snippet", `{"snippet":{"title":"v"}}`)
	videoID := decode(t, w)["id"].(string)
	w = do(t, h, "POST", "/youtube/v3/comments?part=snippet",
		`{"snippet":{"videoId":"`+videoID+`","textOriginal":"hello"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("insert comment: status = %d\n%s", w.Code, w.Body.String())
	}
	commentID := decode(t, w)["id"].(string)

	w = do(t, h, "POST", "/youtube/v3/comments/setModerationStatus?id="+commentID+"&moderationStatus=rejected&banAuthor=true", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("moderate: status = %d\n%s", w.Code, w.Body.String())
	}
	w = do(t, h, "POST", "/youtube/v3/comments/setModerationStatus?id="+commentID+"&moderationStatus=published&banAuthor=true", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("banAuthor with published: status = %d, want 400", w.Code)
	}
}

func TestFigmaRoutes(t *testing.T) {
	h, st := newTestHandler(t)
	st.Put("figmaFiles", "abc123", resource.Document{
		"key":          "abc123",
		"name":         "Mockups",
		"project_id":   "proj-1",
		"version":      "1",
		"lastModified": "2026-08-01T00:00:00.000Z",
	})

	w := do(t, h, "GET", "/v1/files/abc123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get file: status = %d", w.Code)
	}

	w = do(t, h, "POST", "/v1/files/abc123/comments",
		`{"message":"nice","client_meta":{"x":1,"y":2}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("post comment: status = %d\n%s", w.Code, w.Body.String())
	}
	commentID := decode(t, w)["id"].(string)

	w = do(t, h, "POST", "/v1/files/abc123/comments/"+commentID+"/resolve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: status = %d\n%s", w.Code, w.Body.String())
	}
	w = do(t, h, "POST", "/v1/files/abc123/comments/"+commentID+"/resolve", "")
	if w.Code != http.StatusPreconditionFailed {
		t.Errorf("double resolve: status = %d, want 412", w.Code)
	}

	// Figma's error envelope is flat, not the Google shape.
	w = do(t, h, "GET", "/v1/files/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing file: status = %d, want 404", w.Code)
	}
	envelope := decode(t, w)
	if envelope["status"] != float64(http.StatusNotFound) {
		t.Errorf("status field = %v, want 404", envelope["status"])
	}
	if _, ok := envelope["err"].(string); !ok {
		t.Errorf("err field missing: %v", envelope)
	}

	w = do(t, h, "DELETE", "/v1/files/abc123/comments/"+commentID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete comment: status = %d", w.Code)
	}
}
