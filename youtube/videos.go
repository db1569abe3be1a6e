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
	"sort"
	"strconv"
	"strings"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
	"simcloud.dev/internal/store"
)

var videoParts = map[string]bool{
	"snippet":    true,
	"status":     true,
	"statistics": true,
}

var privacyStatuses = map[string]bool{
	"public":   true,
	"private":  true,
	"unlisted": true,
}

// A VideoSnippet carries the caller-supplied snippet part of a video.
type VideoSnippet struct {
	// Title is required, at most 100 characters, and must not contain
	// angle brackets.
	Title string `json:"title"`

	// Description is at most 5000 bytes and must not contain angle brackets.
	Description string `json:"description,omitempty"`

	// Tags may hold at most 500 entries.
	Tags []string `json:"tags,omitempty"`

	CategoryID string `json:"categoryId,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
}

// A VideoStatus carries the caller-supplied status part of a video.
type VideoStatus struct {
	// PrivacyStatus is one of "public", "private" or "unlisted".
	// Empty means "private".
	PrivacyStatus string `json:"privacyStatus,omitempty"`
}

// A request to upload video metadata, accepted by Service.InsertVideo.
type InsertVideoRequest struct {
	// Part names the parts carried by the request body. Must include
	// "snippet".
	Part string

	Snippet *VideoSnippet
	Status  *VideoStatus
}

// A request to list videos, accepted by Service.ListVideos. Exactly one of
// IDs and Chart must be set.
type ListVideosRequest struct {
	Part string

	// IDs selects videos by id.
	IDs []string

	// Chart must be "mostPopular" when set; videos are returned by
	// descending view count.
	Chart string

	// MaxResults caps the number of items; values < 1 mean no cap.
	MaxResults int
}

// A request to update video metadata, accepted by Service.UpdateVideo.
// The parts named in Part are merged onto the stored video; parts the
// request omits keep their stored values.
type UpdateVideoRequest struct {
	Part string
	ID   string

	Snippet *VideoSnippet
	Status  *VideoStatus
}

// A request to delete a video, accepted by Service.DeleteVideo.
type DeleteVideoRequest struct {
	ID string
}

// A request to rate a video, accepted by Service.RateVideo.
type RateVideoRequest struct {
	ID string

	// Rating is one of "like", "dislike" or "none".
	Rating string
}

func checkVideoSnippet(sn *VideoSnippet) error {
	if sn == nil {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet: required")
	}
	if strings.TrimSpace(sn.Title) == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.title: required")
	}
	if len([]rune(sn.Title)) > 100 {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.title: longer than 100 characters")
	}
	if strings.ContainsAny(sn.Title, "<>") {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.title: must not contain angle brackets")
	}
	if len(sn.Description) > 5000 {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.description: longer than 5000 bytes")
	}
	if strings.ContainsAny(sn.Description, "<>") {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.description: must not contain angle brackets")
	}
	if len(sn.Tags) > 500 {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.tags: more than 500 tags")
	}
	return nil
}

func checkPrivacyStatus(st *VideoStatus) error {
	if st == nil || st.PrivacyStatus == "" {
		return nil
	}
	if !privacyStatuses[st.PrivacyStatus] {
		return simerr.Newf(simerr.InvalidArgument, nil, "status.privacyStatus: invalid value %q", st.PrivacyStatus)
	}
	return nil
}

func snippetDoc(sn *VideoSnippet) map[string]interface{} {
	out := map[string]interface{}{"title": sn.Title}
	if sn.Description != "" {
		out["description"] = sn.Description
	}
	if len(sn.Tags) > 0 {
		tags := make([]interface{}, len(sn.Tags))
		for i, t := range sn.Tags {
			tags[i] = t
		}
		out["tags"] = tags
	}
	if sn.CategoryID != "" {
		out["categoryId"] = sn.CategoryID
	}
	return out
}

// InsertVideo creates video metadata with default status and zeroed
// statistics.
func (s *Service) InsertVideo(req *InsertVideoRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, videoParts)
	if err != nil {
		return nil, err
	}
	if !contains(parts, "snippet") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: must include snippet")
	}
	if err := checkVideoSnippet(req.Snippet); err != nil {
		return nil, err
	}
	if err := checkPrivacyStatus(req.Status); err != nil {
		return nil, err
	}

	privacy := "private"
	if req.Status != nil && req.Status.PrivacyStatus != "" {
		privacy = req.Status.PrivacyStatus
	}
	channelID := req.Snippet.ChannelID
	snippet := snippetDoc(req.Snippet)
	snippet["publishedAt"] = s.stamp()
	if channelID != "" {
		snippet["channelId"] = channelID
		if ch, err := s.st.Get(channelsCollection, channelID); err == nil {
			snippet["channelTitle"] = ch.StringField("snippet.title")
		}
	}

	id := s.videoID()
	doc := resource.Document{
		"kind":    "youtube#video",
		"etag":    "1",
		"id":      id,
		"snippet": snippet,
		"status": map[string]interface{}{
			"uploadStatus":  "processed",
			"privacyStatus": privacy,
		},
		"statistics": map[string]interface{}{
			"viewCount":    "0",
			"likeCount":    "0",
			"dislikeCount": "0",
			"commentCount": "0",
		},
	}
	if err := s.st.Insert(videosCollection, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListVideos lists videos by id or by chart.
func (s *Service) ListVideos(req *ListVideosRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, videoParts)
	if err != nil {
		return nil, err
	}
	if (len(req.IDs) > 0) == (req.Chart != "") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "exactly one of id and chart must be set")
	}

	var docs []resource.Document
	switch {
	case len(req.IDs) > 0:
		// Unknown ids are skipped, not errors, matching the real API.
		for _, id := range req.IDs {
			if doc, err := s.st.Get(videosCollection, id); err == nil {
				docs = append(docs, doc)
			}
		}
	case req.Chart == "mostPopular":
		docs = s.st.List(videosCollection, nil)
		sort.SliceStable(docs, func(i, j int) bool {
			vi, _ := docs[i].Counter("statistics.viewCount")
			vj, _ := docs[j].Counter("statistics.viewCount")
			return vi > vj
		})
	default:
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "chart: invalid value %q", req.Chart)
	}

	if req.MaxResults > 0 && len(docs) > req.MaxResults {
		docs = docs[:req.MaxResults]
	}
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		items = append(items, map[string]interface{}(selectParts(d, parts)))
	}
	return listResponse("youtube#videoListResponse", items), nil
}

// UpdateVideo merges the supplied parts onto the stored video and bumps its
// etag by exactly 1.
func (s *Service) UpdateVideo(req *UpdateVideoRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, videoParts)
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}

	body := resource.Document{}
	if contains(parts, "snippet") {
		if err := checkVideoSnippet(req.Snippet); err != nil {
			return nil, err
		}
		body["snippet"] = snippetDoc(req.Snippet)
	}
	if contains(parts, "status") {
		if req.Status == nil {
			return nil, simerr.Newf(simerr.InvalidArgument, nil, "status: required when part includes status")
		}
		if err := checkPrivacyStatus(req.Status); err != nil {
			return nil, err
		}
		if req.Status.PrivacyStatus != "" {
			body["status"] = map[string]interface{}{"privacyStatus": req.Status.PrivacyStatus}
		}
	}
	if len(body) == 0 {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: no updatable parts supplied")
	}

	op := &resource.UpdateOp{
		Body:         body,
		CounterField: "etag",
	}
	updated, err := s.st.Apply(videosCollection, req.ID, op, s.now())
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVideo removes a video and its comments.
func (s *Service) DeleteVideo(req *DeleteVideoRequest) error {
	if req.ID == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	return s.st.Txn(func(tx *store.Txn) error {
		if err := tx.Delete(videosCollection, req.ID); err != nil {
			return err
		}
		for _, c := range tx.List(commentsCollection, func(c resource.Document) bool {
			return c.StringField("snippet.videoId") == req.ID
		}) {
			if err := tx.Delete(commentsCollection, c.StringField("id")); err != nil {
				return err
			}
		}
		return nil
	})
}

// RateVideo records a like or dislike on a video. Ratings are anonymous:
// "like" and "dislike" increment the corresponding statistic, and "none"
// leaves the counts alone since the simulator does not track per-caller
// rating state.
func (s *Service) RateVideo(req *RateVideoRequest) error {
	if req.ID == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	var field string
	switch req.Rating {
	case "like":
		field = "statistics.likeCount"
	case "dislike":
		field = "statistics.dislikeCount"
	case "none":
		field = ""
	default:
		return simerr.Newf(simerr.InvalidArgument, nil, "rating: invalid value %q, want like, dislike or none", req.Rating)
	}

	return s.st.Txn(func(tx *store.Txn) error {
		cur, err := tx.Get(videosCollection, req.ID)
		if err != nil {
			return err
		}
		if field == "" {
			return nil
		}
		n, err := cur.Counter(field)
		if err != nil {
			return err
		}
		_, which := splitLast(field)
		op := &resource.UpdateOp{
			Body: resource.Document{
				"statistics": map[string]interface{}{
					which: strconv.FormatInt(n+1, 10),
				},
			},
			CounterField: "etag",
		}
		_, err = tx.Apply(videosCollection, req.ID, op, s.now())
		return err
	})
}

func splitLast(path string) (string, string) {
	i := strings.LastIndex(path, ".")
	return path[:i], path[i+1:]
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
