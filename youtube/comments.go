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
	"strconv"
	"strings"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

var commentParts = map[string]bool{
	"snippet": true,
}

var moderationStatuses = map[string]bool{
	"heldForReview": true,
	"published":     true,
	"rejected":      true,
}

// A CommentSnippet carries the caller-supplied snippet part of a comment.
type CommentSnippet struct {
	// VideoID names the video commented on. Required for top-level
	// comments; replies inherit it from their parent.
	VideoID string `json:"videoId,omitempty"`

	// ParentID names the top-level comment a reply attaches to.
	ParentID string `json:"parentId,omitempty"`

	// TextOriginal is the comment text. Required and non-blank.
	TextOriginal string `json:"textOriginal"`

	AuthorDisplayName string `json:"authorDisplayName,omitempty"`
}

// A request to post a comment, accepted by Service.InsertComment.
type InsertCommentRequest struct {
	// Part must include "snippet".
	Part string

	Snippet *CommentSnippet
}

// A request to list comments, accepted by Service.ListComments. Exactly one
// of IDs, ParentID and VideoID must be set.
type ListCommentsRequest struct {
	Part string

	IDs      []string
	ParentID string
	VideoID  string

	MaxResults int
}

// A request to edit a comment's text, accepted by Service.UpdateComment.
type UpdateCommentRequest struct {
	Part string
	ID   string

	// TextOriginal replaces the stored comment text. Nothing else about
	// the comment is caller-editable.
	TextOriginal string
}

// A request to delete a comment, accepted by Service.DeleteComment.
type DeleteCommentRequest struct {
	ID string
}

// A request to moderate comments, accepted by
// Service.SetCommentModerationStatus.
type SetCommentModerationStatusRequest struct {
	IDs []string

	// ModerationStatus is one of "heldForReview", "published" or
	// "rejected".
	ModerationStatus string

	// BanAuthor is only valid alongside ModerationStatus "rejected".
	BanAuthor bool
}

// A request to flag comments as spam, accepted by
// Service.MarkCommentAsSpam.
type MarkCommentAsSpamRequest struct {
	IDs []string
}

// bumpCommentCount adjusts the owning video's comment count by delta,
// bumping the video's etag as any mutation does.
func (s *Service) bumpCommentCount(tx *store.Txn, videoID string, delta int64) error {
	video, err := tx.Get(videosCollection, videoID)
	if err != nil {
		return err
	}
	n, err := video.Counter("statistics.commentCount")
	if err != nil {
		return err
	}
	op := &resource.UpdateOp{
		Body: resource.Document{
			"statistics": map[string]interface{}{
				"commentCount": strconv.FormatInt(n+delta, 10),
			},
		},
		CounterField: "etag",
	}
	_, err = tx.Apply(videosCollection, videoID, op, s.now())
	return err
}

// InsertComment posts a top-level comment on a video, or a reply when
// snippet.parentId is set. The owning video's comment count goes up by one
// in the same atomic step.
func (s *Service) InsertComment(req *InsertCommentRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, commentParts)
	if err != nil {
		return nil, err
	}
	if !contains(parts, "snippet") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: must include snippet")
	}
	sn := req.Snippet
	if sn == nil {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "snippet: required")
	}
	if strings.TrimSpace(sn.TextOriginal) == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "snippet.textOriginal: required")
	}
	if sn.ParentID == "" && sn.VideoID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "snippet.videoId: required for top-level comments")
	}

	id := s.newID()
	var doc resource.Document
	err = s.st.Txn(func(tx *store.Txn) error {
		videoID := sn.VideoID
		if sn.ParentID != "" {
			parent, err := tx.Get(commentsCollection, sn.ParentID)
			if err != nil {
				return err
			}
			if parent.StringField("snippet.parentId") != "" {
				return simerr.Newf(simerr.InvalidArgument, nil, "snippet.parentId: %q is itself a reply", sn.ParentID)
			}
			parentVideo := parent.StringField("snippet.videoId")
			if videoID == "" {
				videoID = parentVideo
			} else if videoID != parentVideo {
				return simerr.Newf(simerr.InvalidArgument, nil, "snippet.videoId: %q does not match parent's video %q", videoID, parentVideo)
			}
		} else if !tx.Exists(videosCollection, videoID) {
			return simerr.Newf(simerr.NotFound, nil, "videos: %q not found", videoID)
		}

		now := s.stamp()
		snippet := map[string]interface{}{
			"videoId":          videoID,
			"textOriginal":     sn.TextOriginal,
			"textDisplay":      sn.TextOriginal,
			"publishedAt":      now,
			"updatedAt":        now,
			"likeCount":        "0",
			"moderationStatus": "published",
		}
		if sn.ParentID != "" {
			snippet["parentId"] = sn.ParentID
		}
		if sn.AuthorDisplayName != "" {
			snippet["authorDisplayName"] = sn.AuthorDisplayName
		}
		doc = resource.Document{
			"kind":    "youtube#comment",
			"etag":    "1",
			"id":      id,
			"snippet": snippet,
		}
		if err := tx.Insert(commentsCollection, id, doc); err != nil {
			return err
		}
		return s.bumpCommentCount(tx, videoID, 1)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListComments lists comments by id, by parent, or by video. Listing by
// video returns top-level comments only, the way comment threads do.
func (s *Service) ListComments(req *ListCommentsRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, commentParts)
	if err != nil {
		return nil, err
	}
	selectors := 0
	for _, set := range []bool{len(req.IDs) > 0, req.ParentID != "", req.VideoID != ""} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "exactly one of id, parentId and videoId must be set")
	}

	var docs []resource.Document
	switch {
	case len(req.IDs) > 0:
		for _, id := range req.IDs {
			if doc, err := s.st.Get(commentsCollection, id); err == nil {
				docs = append(docs, doc)
			}
		}
	case req.ParentID != "":
		docs = s.st.List(commentsCollection, func(c resource.Document) bool {
			return c.StringField("snippet.parentId") == req.ParentID
		})
	default:
		docs = s.st.List(commentsCollection, func(c resource.Document) bool {
			return c.StringField("snippet.videoId") == req.VideoID &&
				c.StringField("snippet.parentId") == ""
		})
	}

	if req.MaxResults > 0 && len(docs) > req.MaxResults {
		docs = docs[:req.MaxResults]
	}
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		items = append(items, map[string]interface{}(selectParts(d, parts)))
	}
	return listResponse("youtube#commentListResponse", items), nil
}

// UpdateComment replaces a comment's text. Only textOriginal is editable;
// updatedAt is re-stamped and the etag bumped.
func (s *Service) UpdateComment(req *UpdateCommentRequest) (resource.Document, error) {
	if _, err := checkParts(req.Part, commentParts); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	if strings.TrimSpace(req.TextOriginal) == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "snippet.textOriginal: required")
	}
	op := &resource.UpdateOp{
		Body: resource.Document{
			"snippet": map[string]interface{}{
				"textOriginal": req.TextOriginal,
				"textDisplay":  req.TextOriginal,
			},
		},
		CounterField: "etag",
		UpdatedField: "snippet.updatedAt",
	}
	return s.st.Apply(commentsCollection, req.ID, op, s.now())
}

// DeleteComment removes a comment. Deleting a top-level comment removes its
// replies too, and the owning video's comment count drops by the number of
// comments removed.
func (s *Service) DeleteComment(req *DeleteCommentRequest) error {
	if req.ID == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	return s.st.Txn(func(tx *store.Txn) error {
		doc, err := tx.Get(commentsCollection, req.ID)
		if err != nil {
			return err
		}
		removed := int64(1)
		if err := tx.Delete(commentsCollection, req.ID); err != nil {
			return err
		}
		if doc.StringField("snippet.parentId") == "" {
			for _, reply := range tx.List(commentsCollection, func(c resource.Document) bool {
				return c.StringField("snippet.parentId") == req.ID
			}) {
				if err := tx.Delete(commentsCollection, reply.StringField("id")); err != nil {
					return err
				}
				removed++
			}
		}
		videoID := doc.StringField("snippet.videoId")
		if !tx.Exists(videosCollection, videoID) {
			// The video may already be gone; the comment delete stands.
			return nil
		}
		return s.bumpCommentCount(tx, videoID, -removed)
	})
}

// SetCommentModerationStatus sets the moderation status of the named
// comments. All of them must exist; a missing id fails the whole request.
func (s *Service) SetCommentModerationStatus(req *SetCommentModerationStatusRequest) error {
	if len(req.IDs) == 0 {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	if !moderationStatuses[req.ModerationStatus] {
		return simerr.Newf(simerr.InvalidArgument, nil, "moderationStatus: invalid value %q", req.ModerationStatus)
	}
	if req.BanAuthor && req.ModerationStatus != "rejected" {
		return simerr.Newf(simerr.InvalidArgument, nil, "banAuthor: only valid with moderationStatus rejected")
	}
	return s.st.Txn(func(tx *store.Txn) error {
		for _, id := range req.IDs {
			body := resource.Document{
				"snippet": map[string]interface{}{
					"moderationStatus": req.ModerationStatus,
				},
			}
			if req.BanAuthor {
				body["snippet"].(map[string]interface{})["authorBanned"] = true
			}
			op := &resource.UpdateOp{Body: body, CounterField: "etag"}
			if _, err := tx.Apply(commentsCollection, id, op, s.now()); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkCommentAsSpam flags the named comments as spam, which holds them for
// review.
func (s *Service) MarkCommentAsSpam(req *MarkCommentAsSpamRequest) error {
	if len(req.IDs) == 0 {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	return s.st.Txn(func(tx *store.Txn) error {
		for _, id := range req.IDs {
			op := &resource.UpdateOp{
				Body: resource.Document{
					"snippet": map[string]interface{}{
						"moderationStatus": "heldForReview",
					},
				},
				CounterField: "etag",
			}
			if _, err := tx.Apply(commentsCollection, id, op, s.now()); err != nil {
				return err
			}
		}
		return nil
	})
}
