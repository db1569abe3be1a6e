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
	"strconv"
	"strings"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

// ClientMeta is the canvas position a comment is pinned to.
type ClientMeta struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// A request to list a file's comments, accepted by
// Service.ListFileComments.
type ListFileCommentsRequest struct {
	FileKey string

	// AsMD returns comment messages as markdown. The simulator stores
	// plain text, so this only toggles which field carries the message.
	AsMD bool
}

// A request to post a comment on a file, accepted by
// Service.PostFileComment.
type PostFileCommentRequest struct {
	FileKey string

	// Message is required and non-blank.
	Message string

	// ClientMeta optionally pins the comment to a canvas position.
	ClientMeta *ClientMeta

	// CommentID, when set, makes the new comment a reply to that comment.
	CommentID string
}

// A request to delete a comment, accepted by Service.DeleteFileComment.
type DeleteFileCommentRequest struct {
	FileKey   string
	CommentID string
}

// A request to resolve a comment, accepted by Service.ResolveFileComment.
type ResolveFileCommentRequest struct {
	FileKey   string
	CommentID string
}

// bumpFileVersion advances the file's version counter and re-stamps
// lastModified. Comment mutations are the only thing that moves a file in
// the simulator.
func (s *Service) bumpFileVersion(tx *store.Txn, fileKey string) error {
	op := &resource.UpdateOp{
		Body:         resource.Document{},
		CounterField: "version",
		UpdatedField: "lastModified",
	}
	_, err := tx.Apply(filesCollection, fileKey, op, s.now())
	return err
}

// ListFileComments lists the comments on a file, ordered by id.
func (s *Service) ListFileComments(req *ListFileCommentsRequest) (resource.Document, error) {
	if req.FileKey == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "file_key: required")
	}
	if !s.st.Exists(filesCollection, req.FileKey) {
		return nil, simerr.Newf(simerr.NotFound, nil, "files: %q not found", req.FileKey)
	}
	comments := make([]interface{}, 0)
	for _, c := range s.st.List(commentsCollection, func(c resource.Document) bool {
		return c.StringField("file_key") == req.FileKey
	}) {
		if req.AsMD {
			c["message_md"] = c["message"]
			delete(c, "message")
		}
		comments = append(comments, map[string]interface{}(c))
	}
	return resource.Document{"comments": comments}, nil
}

// PostFileComment posts a comment on a file, or a reply when comment_id
// names an existing comment. The file's version advances in the same atomic
// step.
func (s *Service) PostFileComment(req *PostFileCommentRequest) (resource.Document, error) {
	if req.FileKey == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "file_key: required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "message: required")
	}

	id := s.newID()
	var doc resource.Document
	err := s.st.Txn(func(tx *store.Txn) error {
		if !tx.Exists(filesCollection, req.FileKey) {
			return simerr.Newf(simerr.NotFound, nil, "files: %q not found", req.FileKey)
		}
		if req.CommentID != "" {
			parent, err := tx.Get(commentsCollection, req.CommentID)
			if err != nil {
				return err
			}
			if parent.StringField("file_key") != req.FileKey {
				return simerr.Newf(simerr.InvalidArgument, nil, "comment_id: %q belongs to another file", req.CommentID)
			}
		}

		// order_id is a high-water mark: deleting a comment never frees its
		// number for reuse.
		order := 1
		for _, c := range tx.List(commentsCollection, func(c resource.Document) bool {
			return c.StringField("file_key") == req.FileKey
		}) {
			if n, err := strconv.Atoi(c.StringField("order_id")); err == nil && n >= order {
				order = n + 1
			}
		}
		doc = resource.Document{
			"id":          id,
			"file_key":    req.FileKey,
			"message":     req.Message,
			"order_id":    strconv.Itoa(order),
			"created_at":  s.stamp(),
			"resolved_at": nil,
		}
		if req.CommentID != "" {
			doc["parent_id"] = req.CommentID
		}
		if req.ClientMeta != nil {
			doc["client_meta"] = map[string]interface{}{
				"x": req.ClientMeta.X,
				"y": req.ClientMeta.Y,
			}
		}
		if err := tx.Insert(commentsCollection, id, doc); err != nil {
			return err
		}
		return s.bumpFileVersion(tx, req.FileKey)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteFileComment removes a comment from a file.
func (s *Service) DeleteFileComment(req *DeleteFileCommentRequest) error {
	if req.FileKey == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "file_key: required")
	}
	if req.CommentID == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "comment_id: required")
	}
	return s.st.Txn(func(tx *store.Txn) error {
		doc, err := tx.Get(commentsCollection, req.CommentID)
		if err != nil {
			return err
		}
		if doc.StringField("file_key") != req.FileKey {
			return simerr.Newf(simerr.NotFound, nil, "comments: %q not found on file %q", req.CommentID, req.FileKey)
		}
		if err := tx.Delete(commentsCollection, req.CommentID); err != nil {
			return err
		}
		return s.bumpFileVersion(tx, req.FileKey)
	})
}

// ResolveFileComment marks a comment resolved. Resolving an already
// resolved comment fails rather than silently re-stamping it.
func (s *Service) ResolveFileComment(req *ResolveFileCommentRequest) (resource.Document, error) {
	if req.FileKey == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "file_key: required")
	}
	if req.CommentID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "comment_id: required")
	}
	var updated resource.Document
	err := s.st.Txn(func(tx *store.Txn) error {
		doc, err := tx.Get(commentsCollection, req.CommentID)
		if err != nil {
			return err
		}
		if doc.StringField("file_key") != req.FileKey {
			return simerr.Newf(simerr.NotFound, nil, "comments: %q not found on file %q", req.CommentID, req.FileKey)
		}
		if doc.StringField("resolved_at") != "" {
			return simerr.Newf(simerr.FailedPrecondition, nil, "comments: %q already resolved", req.CommentID)
		}
		op := &resource.UpdateOp{
			Body: resource.Document{"resolved_at": s.stamp()},
		}
		if updated, err = tx.Apply(commentsCollection, req.CommentID, op, s.now()); err != nil {
			return err
		}
		return s.bumpFileVersion(tx, req.FileKey)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
