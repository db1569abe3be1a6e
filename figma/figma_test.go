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

package figma

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	ids := 0
	st := store.New()
	svc := NewService(st, &Options{
		Now: func() time.Time { return clock },
		NewID: func() string {
			ids++
			return fmt.Sprintf("comment-%04d", ids)
		},
	})
	return svc, st
}

func seedFile(t *testing.T, st *store.Store, key, name, projectID string) {
	t.Helper()
	st.Put(filesCollection, key, resource.Document{
		"key":          key,
		"name":         name,
		"project_id":   projectID,
		"version":      "1",
		"lastModified": "2026-08-01T00:00:00.000Z",
		"document": map[string]interface{}{
			"id":   "0:0",
			"name": "Document",
			"type": "DOCUMENT",
			"children": []interface{}{
				map[string]interface{}{
					"id":   "0:1",
					"name": "Page 1",
					"type": "CANVAS",
					"children": []interface{}{
						map[string]interface{}{
							"id":   "1:2",
							"name": "Frame",
							"type": "FRAME",
						},
					},
				},
			},
		},
	})
}

func seedProject(t *testing.T, st *store.Store, id, name, teamID, teamName string) {
	t.Helper()
	st.Put(projectsCollection, id, resource.Document{
		"id":        id,
		"name":      name,
		"team_id":   teamID,
		"team_name": teamName,
	})
}

func TestGetFile(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")

	doc, err := svc.GetFile(&GetFileRequest{Key: "abc123"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.StringField("name"), "Mockups"; got != want {
		t.Errorf("name = %q, want %q", got, want)
	}
	if got, want := doc.StringField("version"), "1"; got != want {
		t.Errorf("version = %q, want %q", got, want)
	}

	if _, err := svc.GetFile(&GetFileRequest{Key: "missing"}); simerr.Code(err) != simerr.NotFound {
		t.Errorf("missing file: got %v, want NotFound", err)
	}
	if _, err := svc.GetFile(&GetFileRequest{Key: "abc123", Version: "99"}); simerr.Code(err) != simerr.NotFound {
		t.Errorf("unknown version: got %v, want NotFound", err)
	}
	if _, err := svc.GetFile(&GetFileRequest{Key: "abc123", Version: "1"}); err != nil {
		t.Errorf("current version: got %v, want nil", err)
	}
}

func TestGetFileDepth(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")

	doc, err := svc.GetFile(&GetFileRequest{Key: "abc123", Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	root := doc["document"].(map[string]interface{})
	pages := root["children"].([]interface{})
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	// Depth 1 keeps the pages but strips their children.
	if _, ok := pages[0].(map[string]interface{})["children"]; ok {
		t.Error("page children present at depth 1")
	}

	// Pruning a response must not touch stored state.
	stored, err := st.Get(filesCollection, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	page := stored["document"].(map[string]interface{})["children"].([]interface{})[0]
	if _, ok := page.(map[string]interface{})["children"]; !ok {
		t.Error("stored document lost its children after a depth-pruned read")
	}

	// Zero means the whole tree; negative values are rejected.
	doc, err = svc.GetFile(&GetFileRequest{Key: "abc123", Depth: 0})
	if err != nil {
		t.Fatal(err)
	}
	root = doc["document"].(map[string]interface{})
	page = root["children"].([]interface{})[0]
	if _, ok := page.(map[string]interface{})["children"]; !ok {
		t.Error("depth 0 pruned the tree")
	}
	if _, err := svc.GetFile(&GetFileRequest{Key: "abc123", Depth: -1}); simerr.Code(err) != simerr.InvalidArgument {
		t.Errorf("negative depth: got %v, want InvalidArgument", err)
	}
}

func TestListProjectFiles(t *testing.T) {
	svc, st := newTestService(t)
	seedProject(t, st, "proj-1", "Website", "team-1", "Design")
	seedFile(t, st, "aaa", "Home", "proj-1")
	seedFile(t, st, "bbb", "About", "proj-1")
	seedFile(t, st, "ccc", "Other", "proj-2")

	resp, err := svc.ListProjectFiles(&ListProjectFilesRequest{ProjectID: "proj-1"})
	if err != nil {
		t.Fatal(err)
	}
	want := resource.Document{
		"name": "Website",
		"files": []interface{}{
			map[string]interface{}{"key": "aaa", "name": "Home", "last_modified": "2026-08-01T00:00:00.000Z"},
			map[string]interface{}{"key": "bbb", "name": "About", "last_modified": "2026-08-01T00:00:00.000Z"},
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("ListProjectFiles mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.ListProjectFiles(&ListProjectFilesRequest{ProjectID: "missing"}); simerr.Code(err) != simerr.NotFound {
		t.Errorf("missing project: got %v, want NotFound", err)
	}
}

func TestListTeamProjects(t *testing.T) {
	svc, st := newTestService(t)
	seedProject(t, st, "proj-1", "Website", "team-1", "Design")
	seedProject(t, st, "proj-2", "App", "team-1", "Design")
	seedProject(t, st, "proj-3", "Internal", "team-2", "Platform")

	resp, err := svc.ListTeamProjects(&ListTeamProjectsRequest{TeamID: "team-1"})
	if err != nil {
		t.Fatal(err)
	}
	want := resource.Document{
		"name": "Design",
		"projects": []interface{}{
			map[string]interface{}{"id": "proj-1", "name": "Website"},
			map[string]interface{}{"id": "proj-2", "name": "App"},
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("ListTeamProjects mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.ListTeamProjects(&ListTeamProjectsRequest{TeamID: "team-404"}); simerr.Code(err) != simerr.NotFound {
		t.Errorf("missing team: got %v, want NotFound", err)
	}
}

func TestPostFileComment(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")

	doc, err := svc.PostFileComment(&PostFileCommentRequest{
		FileKey:    "abc123",
		Message:    "Looks great",
		ClientMeta: &ClientMeta{X: 10, Y: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc["id"], "comment-0001"; got != want {
		t.Errorf("id = %v, want %v", got, want)
	}
	if got, want := doc["order_id"], "1"; got != want {
		t.Errorf("order_id = %v, want %v", got, want)
	}
	if got, want := doc.StringField("created_at"), "2026-08-29T12:00:00.000Z"; got != want {
		t.Errorf("created_at = %q, want %q", got, want)
	}
	if doc["resolved_at"] != nil {
		t.Errorf("resolved_at = %v, want nil", doc["resolved_at"])
	}
	meta := doc["client_meta"].(map[string]interface{})
	if meta["x"] != 10.0 || meta["y"] != 20.0 {
		t.Errorf("client_meta = %v, want x=10 y=20", meta)
	}

	// Posting a comment moved the file version.
	f, err := st.Get(filesCollection, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.StringField("version"), "2"; got != want {
		t.Errorf("file version = %q, want %q", got, want)
	}
	if got, want := f.StringField("lastModified"), "2026-08-29T12:00:00.000Z"; got != want {
		t.Errorf("file lastModified = %q, want %q", got, want)
	}

	for _, test := range []struct {
		name string
		req  *PostFileCommentRequest
		code simerr.ErrorCode
	}{
		{"blank message", &PostFileCommentRequest{FileKey: "abc123", Message: "  "}, simerr.InvalidArgument},
		{"missing file", &PostFileCommentRequest{FileKey: "nope", Message: "hi"}, simerr.NotFound},
		{"missing parent", &PostFileCommentRequest{FileKey: "abc123", Message: "hi", CommentID: "nope"}, simerr.NotFound},
	} {
		if _, err := svc.PostFileComment(test.req); simerr.Code(err) != test.code {
			t.Errorf("%s: got %v, want %v", test.name, err, test.code)
		}
	}
}

func TestPostFileCommentReply(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")
	seedFile(t, st, "other", "Other", "proj-1")
	top, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "top"})
	if err != nil {
		t.Fatal(err)
	}

	reply, err := svc.PostFileComment(&PostFileCommentRequest{
		FileKey:   "abc123",
		Message:   "reply",
		CommentID: top["id"].(string),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := reply.StringField("parent_id"), top["id"].(string); got != want {
		t.Errorf("parent_id = %q, want %q", got, want)
	}

	// A reply cannot name a comment on a different file.
	_, err = svc.PostFileComment(&PostFileCommentRequest{
		FileKey:   "other",
		Message:   "cross-file",
		CommentID: top["id"].(string),
	})
	if simerr.Code(err) != simerr.InvalidArgument {
		t.Errorf("cross-file reply: got %v, want InvalidArgument", err)
	}
}

func TestListFileComments(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")
	seedFile(t, st, "other", "Other", "proj-1")
	if _, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "one"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "other", Message: "elsewhere"}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ListFileComments(&ListFileCommentsRequest{FileKey: "abc123"})
	if err != nil {
		t.Fatal(err)
	}
	comments := resp["comments"].([]interface{})
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0].(map[string]interface{})
	if got, want := c["message"], "one"; got != want {
		t.Errorf("message = %v, want %v", got, want)
	}

	resp, err = svc.ListFileComments(&ListFileCommentsRequest{FileKey: "abc123", AsMD: true})
	if err != nil {
		t.Fatal(err)
	}
	c = resp["comments"].([]interface{})[0].(map[string]interface{})
	if got, want := c["message_md"], "one"; got != want {
		t.Errorf("message_md = %v, want %v", got, want)
	}
	if _, ok := c["message"]; ok {
		t.Error("message present alongside message_md")
	}

	if _, err := svc.ListFileComments(&ListFileCommentsRequest{FileKey: "missing"}); simerr.Code(err) != simerr.NotFound {
		t.Errorf("missing file: got %v, want NotFound", err)
	}
}

func TestDeleteFileComment(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")
	doc, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "oops"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteFileComment(&DeleteFileCommentRequest{FileKey: "abc123", CommentID: doc["id"].(string)}); err != nil {
		t.Fatal(err)
	}
	if st.Exists(commentsCollection, doc["id"].(string)) {
		t.Error("comment still present after delete")
	}
	// Post bumped to 2, delete to 3.
	f, err := st.Get(filesCollection, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.StringField("version"), "3"; got != want {
		t.Errorf("file version = %q, want %q", got, want)
	}

	err = svc.DeleteFileComment(&DeleteFileCommentRequest{FileKey: "abc123", CommentID: doc["id"].(string)})
	if simerr.Code(err) != simerr.NotFound {
		t.Errorf("second delete: got %v, want NotFound", err)
	}
}

func TestPostFileCommentOrderAfterDelete(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")

	first, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "one"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "two"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteFileComment(&DeleteFileCommentRequest{FileKey: "abc123", CommentID: first["id"].(string)}); err != nil {
		t.Fatal(err)
	}

	// A deleted comment's order_id is never reused.
	third, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "three"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := third["order_id"], "3"; got != want {
		t.Errorf("order_id = %v, want %v", got, want)
	}

	// Orders are tracked per file.
	seedFile(t, st, "def456", "Icons", "proj-1")
	other, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "def456", Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := other["order_id"], "1"; got != want {
		t.Errorf("other file order_id = %v, want %v", got, want)
	}
}

func TestResolveFileComment(t *testing.T) {
	svc, st := newTestService(t)
	seedFile(t, st, "abc123", "Mockups", "proj-1")
	doc, err := svc.PostFileComment(&PostFileCommentRequest{FileKey: "abc123", Message: "fix me"})
	if err != nil {
		t.Fatal(err)
	}
	id := doc["id"].(string)

	resolved, err := svc.ResolveFileComment(&ResolveFileCommentRequest{FileKey: "abc123", CommentID: id})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := resolved.StringField("resolved_at"), "2026-08-29T12:00:00.000Z"; got != want {
		t.Errorf("resolved_at = %q, want %q", got, want)
	}
	f, err := st.Get(filesCollection, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.StringField("version"), "3"; got != want {
		t.Errorf("file version = %q, want %q", got, want)
	}

	_, err = svc.ResolveFileComment(&ResolveFileCommentRequest{FileKey: "abc123", CommentID: id})
	if simerr.Code(err) != simerr.FailedPrecondition {
		t.Errorf("double resolve: got %v, want FailedPrecondition", err)
	}
}
