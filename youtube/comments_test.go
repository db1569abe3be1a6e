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

package youtube

import (
	"testing"
	"time"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

func mustInsertComment(t *testing.T, svc *Service, videoID, parentID, text string) resource.Document {
	t.Helper()
	doc, err := svc.InsertComment(&InsertCommentRequest{
		Part: "snippet",
		Snippet: &CommentSnippet{
			VideoID:      videoID,
			ParentID:     parentID,
			TextOriginal: text,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestInsertComment(t *testing.T) {
	svc, st, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "commented")
	videoID := video["id"].(string)

	doc := mustInsertComment(t, svc, videoID, "", "first!")
	if got, want := doc["kind"], "youtube#comment"; got != want {
		t.Errorf("kind = %v, want %v", got, want)
	}
	if got, want := doc["id"], "id-0001"; got != want {
		t.Errorf("id = %v, want %v", got, want)
	}
	if got, want := doc["etag"], "1"; got != want {
		t.Errorf("etag = %v, want %v", got, want)
	}
	if got, want := doc.StringField("snippet.moderationStatus"), "published"; got != want {
		t.Errorf("snippet.moderationStatus = %q, want %q", got, want)
	}
	if got, want := doc.StringField("snippet.publishedAt"), "2026-08-29T12:00:00.000Z"; got != want {
		t.Errorf("snippet.publishedAt = %q, want %q", got, want)
	}

	v, err := st.Get(videosCollection, videoID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.StringField("statistics.commentCount"), "1"; got != want {
		t.Errorf("video commentCount = %q, want %q", got, want)
	}
}

func TestInsertCommentValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	videoID := video["id"].(string)

	for _, test := range []struct {
		name string
		req  *InsertCommentRequest
		code simerr.ErrorCode
	}{
		{"missing part", &InsertCommentRequest{Snippet: &CommentSnippet{VideoID: videoID, TextOriginal: "t"}}, simerr.InvalidArgument},
		{"no snippet", &InsertCommentRequest{Part: "snippet"}, simerr.InvalidArgument},
		{"blank text", &InsertCommentRequest{Part: "snippet", Snippet: &CommentSnippet{VideoID: videoID, TextOriginal: "   "}}, simerr.InvalidArgument},
		{"no selector", &InsertCommentRequest{Part: "snippet", Snippet: &CommentSnippet{TextOriginal: "t"}}, simerr.InvalidArgument},
		{"missing video", &InsertCommentRequest{Part: "snippet", Snippet: &CommentSnippet{VideoID: "nope", TextOriginal: "t"}}, simerr.NotFound},
		{"missing parent", &InsertCommentRequest{Part: "snippet", Snippet: &CommentSnippet{ParentID: "nope", TextOriginal: "t"}}, simerr.NotFound},
	} {
		_, err := svc.InsertComment(test.req)
		if simerr.Code(err) != test.code {
			t.Errorf("%s: got %v, want %v", test.name, err, test.code)
		}
	}
}

func TestInsertCommentReply(t *testing.T) {
	svc, _, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	videoID := video["id"].(string)
	top := mustInsertComment(t, svc, videoID, "", "top")

	reply := mustInsertComment(t, svc, "", top["id"].(string), "reply")
	if got, want := reply.StringField("snippet.videoId"), videoID; got != want {
		t.Errorf("reply videoId = %q, want inherited %q", got, want)
	}
	if got, want := reply.StringField("snippet.parentId"), top["id"].(string); got != want {
		t.Errorf("reply parentId = %q, want %q", got, want)
	}

	// A reply cannot itself be a parent.
	_, err := svc.InsertComment(&InsertCommentRequest{
		Part:    "snippet",
		Snippet: &CommentSnippet{ParentID: reply["id"].(string), TextOriginal: "nested"},
	})
	if simerr.Code(err) != simerr.InvalidArgument {
		t.Errorf("reply to a reply: got %v, want InvalidArgument", err)
	}
}

func TestListComments(t *testing.T) {
	svc, _, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	videoID := video["id"].(string)
	top1 := mustInsertComment(t, svc, videoID, "", "one")
	top2 := mustInsertComment(t, svc, videoID, "", "two")
	mustInsertComment(t, svc, "", top1["id"].(string), "reply")

	resp, err := svc.ListComments(&ListCommentsRequest{Part: "snippet", VideoID: videoID})
	if err != nil {
		t.Fatal(err)
	}
	// Listing by video returns top-level comments only.
	if got := len(resp["items"].([]interface{})); got != 2 {
		t.Errorf("by video: got %d items, want 2", got)
	}

	resp, err = svc.ListComments(&ListCommentsRequest{Part: "snippet", ParentID: top1["id"].(string)})
	if err != nil {
		t.Fatal(err)
	}
	items := resp["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("by parent: got %d items, want 1", len(items))
	}
	got := resource.Document(items[0].(map[string]interface{}))
	if got.StringField("snippet.textOriginal") != "reply" {
		t.Errorf("by parent: textOriginal = %q, want %q", got.StringField("snippet.textOriginal"), "reply")
	}

	resp, err = svc.ListComments(&ListCommentsRequest{Part: "snippet", IDs: []string{top2["id"].(string), "missing"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(resp["items"].([]interface{})); got != 1 {
		t.Errorf("by ids: got %d items, want 1", got)
	}

	// Zero or two selectors are rejected.
	for _, req := range []*ListCommentsRequest{
		{Part: "snippet"},
		{Part: "snippet", VideoID: videoID, ParentID: top1["id"].(string)},
	} {
		if _, err := svc.ListComments(req); simerr.Code(err) != simerr.InvalidArgument {
			t.Errorf("ListComments(%+v): got %v, want InvalidArgument", req, err)
		}
	}
}

func TestUpdateComment(t *testing.T) {
	svc, _, clock := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	doc := mustInsertComment(t, svc, video["id"].(string), "", "before")
	published := doc.StringField("snippet.publishedAt")
	clock.advance(time.Minute)

	updated, err := svc.UpdateComment(&UpdateCommentRequest{
		Part:         "snippet",
		ID:           doc["id"].(string),
		TextOriginal: "after",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := updated["etag"], "2"; got != want {
		t.Errorf("etag = %v, want %v", got, want)
	}
	if got, want := updated.StringField("snippet.textOriginal"), "after"; got != want {
		t.Errorf("snippet.textOriginal = %q, want %q", got, want)
	}
	if got, want := updated.StringField("snippet.updatedAt"), "2026-08-29T12:01:00.000Z"; got != want {
		t.Errorf("snippet.updatedAt = %q, want %q", got, want)
	}
	if got := updated.StringField("snippet.publishedAt"); got != published {
		t.Errorf("snippet.publishedAt = %q, want unchanged %q", got, published)
	}

	_, err = svc.UpdateComment(&UpdateCommentRequest{Part: "snippet", ID: doc["id"].(string)})
	if simerr.Code(err) != simerr.InvalidArgument {
		t.Errorf("blank text: got %v, want InvalidArgument", err)
	}
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	svc, st, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	videoID := video["id"].(string)
	top := mustInsertComment(t, svc, videoID, "", "top")
	mustInsertComment(t, svc, "", top["id"].(string), "reply one")
	mustInsertComment(t, svc, "", top["id"].(string), "reply two")
	other := mustInsertComment(t, svc, videoID, "", "unrelated")

	if err := svc.DeleteComment(&DeleteCommentRequest{ID: top["id"].(string)}); err != nil {
		t.Fatal(err)
	}
	remaining := st.List(commentsCollection, nil)
	if len(remaining) != 1 {
		t.Fatalf("got %d comments, want 1", len(remaining))
	}
	if got, want := remaining[0]["id"], other["id"]; got != want {
		t.Errorf("surviving comment = %v, want %v", got, want)
	}
	v, err := st.Get(videosCollection, videoID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.StringField("statistics.commentCount"), "1"; got != want {
		t.Errorf("video commentCount = %q, want %q", got, want)
	}
}

func TestSetCommentModerationStatus(t *testing.T) {
	svc, st, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	videoID := video["id"].(string)
	a := mustInsertComment(t, svc, videoID, "", "a")
	b := mustInsertComment(t, svc, videoID, "", "b")

	err := svc.SetCommentModerationStatus(&SetCommentModerationStatusRequest{
		IDs:              []string{a["id"].(string), b["id"].(string)},
		ModerationStatus: "rejected",
		BanAuthor:        true,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{a["id"].(string), b["id"].(string)} {
		doc, err := st.Get(commentsCollection, id)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := doc.StringField("snippet.moderationStatus"), "rejected"; got != want {
			t.Errorf("%s: moderationStatus = %q, want %q", id, got, want)
		}
		if got, want := doc.StringField("snippet.authorBanned"), "true"; got != want {
			t.Errorf("%s: authorBanned = %q, want %q", id, got, want)
		}
	}

	// banAuthor is only valid with rejected.
	err = svc.SetCommentModerationStatus(&SetCommentModerationStatusRequest{
		IDs:              []string{a["id"].(string)},
		ModerationStatus: "published",
		BanAuthor:        true,
	})
	if simerr.Code(err) != simerr.InvalidArgument {
		t.Errorf("banAuthor with published: got %v, want InvalidArgument", err)
	}

	// A missing id fails the whole request and rolls back the rest.
	before, _ := st.Get(commentsCollection, a["id"].(string))
	err = svc.SetCommentModerationStatus(&SetCommentModerationStatusRequest{
		IDs:              []string{a["id"].(string), "missing"},
		ModerationStatus: "published",
	})
	if simerr.Code(err) != simerr.NotFound {
		t.Errorf("missing id: got %v, want NotFound", err)
	}
	after, _ := st.Get(commentsCollection, a["id"].(string))
	if got, want := after.StringField("etag"), before.StringField("etag"); got != want {
		t.Errorf("etag = %q after failed batch, want unchanged %q", got, want)
	}
}

func TestMarkCommentAsSpam(t *testing.T) {
	svc, st, _ := newTestService(t)
	video := mustInsertVideo(t, svc, "v")
	doc := mustInsertComment(t, svc, video["id"].(string), "", "buy gold")

	if err := svc.MarkCommentAsSpam(&MarkCommentAsSpamRequest{IDs: []string{doc["id"].(string)}}); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(commentsCollection, doc["id"].(string))
	if err != nil {
		t.Fatal(err)
	}
	if s := got.StringField("snippet.moderationStatus"); s != "heldForReview" {
		t.Errorf("moderationStatus = %q, want %q", s, "heldForReview")
	}
	if s := got.StringField("etag"); s != "2" {
		t.Errorf("etag = %q, want %q", s, "2")
	}
}
