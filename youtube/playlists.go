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
	"strings"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

var playlistParts = map[string]bool{
	"snippet":        true,
	"status":         true,
	"contentDetails": true,
}

// A PlaylistSnippet carries the caller-supplied snippet part of a playlist.
type PlaylistSnippet struct {
	// Title is required and at most 150 characters.
	Title string `json:"title"`

	Description string `json:"description,omitempty"`
	ChannelID   string `json:"channelId,omitempty"`
}

// A request to create a playlist, accepted by Service.InsertPlaylist.
type InsertPlaylistRequest struct {
	// Part must include "snippet".
	Part string

	Snippet *PlaylistSnippet
	Status  *VideoStatus
}

// A request to list playlists, accepted by Service.ListPlaylists. Exactly
// one of IDs and ChannelID must be set.
type ListPlaylistsRequest struct {
	Part string

	IDs       []string
	ChannelID string

	MaxResults int
}

// A request to update a playlist, accepted by Service.UpdatePlaylist.
type UpdatePlaylistRequest struct {
	Part string
	ID   string

	Snippet *PlaylistSnippet
	Status  *VideoStatus
}

// A request to delete a playlist, accepted by Service.DeletePlaylist.
type DeletePlaylistRequest struct {
	ID string
}

func checkPlaylistSnippet(sn *PlaylistSnippet) error {
	if sn == nil {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet: required")
	}
	if strings.TrimSpace(sn.Title) == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.title: required")
	}
	if len([]rune(sn.Title)) > 150 {
		return simerr.Newf(simerr.InvalidArgument, nil, "snippet.title: longer than 150 characters")
	}
	return nil
}

func playlistSnippetDoc(sn *PlaylistSnippet) map[string]interface{} {
	out := map[string]interface{}{"title": sn.Title}
	if sn.Description != "" {
		out["description"] = sn.Description
	}
	return out
}

// InsertPlaylist creates a playlist with default private status and an
// empty item count.
func (s *Service) InsertPlaylist(req *InsertPlaylistRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, playlistParts)
	if err != nil {
		return nil, err
	}
	if !contains(parts, "snippet") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: must include snippet")
	}
	if err := checkPlaylistSnippet(req.Snippet); err != nil {
		return nil, err
	}
	if err := checkPrivacyStatus(req.Status); err != nil {
		return nil, err
	}

	privacy := "private"
	if req.Status != nil && req.Status.PrivacyStatus != "" {
		privacy = req.Status.PrivacyStatus
	}
	snippet := playlistSnippetDoc(req.Snippet)
	snippet["publishedAt"] = s.stamp()
	if req.Snippet.ChannelID != "" {
		snippet["channelId"] = req.Snippet.ChannelID
	}

	id := s.newID()
	doc := resource.Document{
		"kind":    "youtube#playlist",
		"etag":    "1",
		"id":      id,
		"snippet": snippet,
		"status":  map[string]interface{}{"privacyStatus": privacy},
		"contentDetails": map[string]interface{}{
			"itemCount": float64(0),
		},
	}
	if err := s.st.Insert(playlistsCollection, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListPlaylists lists playlists by id or by channel.
func (s *Service) ListPlaylists(req *ListPlaylistsRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, playlistParts)
	if err != nil {
		return nil, err
	}
	if (len(req.IDs) > 0) == (req.ChannelID != "") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "exactly one of id and channelId must be set")
	}

	var docs []resource.Document
	if len(req.IDs) > 0 {
		for _, id := range req.IDs {
			if doc, err := s.st.Get(playlistsCollection, id); err == nil {
				docs = append(docs, doc)
			}
		}
	} else {
		docs = s.st.List(playlistsCollection, func(p resource.Document) bool {
			return p.StringField("snippet.channelId") == req.ChannelID
		})
	}

	if req.MaxResults > 0 && len(docs) > req.MaxResults {
		docs = docs[:req.MaxResults]
	}
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		items = append(items, map[string]interface{}(selectParts(d, parts)))
	}
	return listResponse("youtube#playlistListResponse", items), nil
}

// UpdatePlaylist merges the supplied parts onto the stored playlist.
func (s *Service) UpdatePlaylist(req *UpdatePlaylistRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, playlistParts)
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}

	body := resource.Document{}
	if contains(parts, "snippet") {
		if err := checkPlaylistSnippet(req.Snippet); err != nil {
			return nil, err
		}
		body["snippet"] = playlistSnippetDoc(req.Snippet)
	}
	if contains(parts, "status") && req.Status != nil {
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
	return s.st.Apply(playlistsCollection, req.ID, op, s.now())
}

// DeletePlaylist removes a playlist.
func (s *Service) DeletePlaylist(req *DeletePlaylistRequest) error {
	if req.ID == "" {
		return simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}
	return s.st.Delete(playlistsCollection, req.ID)
}
