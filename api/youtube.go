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
	"strings"

	"github.com/gorilla/mux"
	"simcloud.dev/youtube"
)

func (h *Handler) registerYouTube(r *mux.Router) {
	r.HandleFunc("/videos", h.youtubeListVideos).Methods("GET")
	r.HandleFunc("/videos", h.youtubeInsertVideo).Methods("POST")
	r.HandleFunc("/videos", h.youtubeUpdateVideo).Methods("PUT")
	r.HandleFunc("/videos", h.youtubeDeleteVideo).Methods("DELETE")
	r.HandleFunc("/videos/rate", h.youtubeRateVideo).Methods("POST")

	r.HandleFunc("/comments", h.youtubeListComments).Methods("GET")
	r.HandleFunc("/comments", h.youtubeInsertComment).Methods("POST")
	r.HandleFunc("/comments", h.youtubeUpdateComment).Methods("PUT")
	r.HandleFunc("/comments", h.youtubeDeleteComment).Methods("DELETE")
	r.HandleFunc("/comments/setModerationStatus", h.youtubeSetCommentModerationStatus).Methods("POST")
	r.HandleFunc("/comments/markAsSpam", h.youtubeMarkCommentAsSpam).Methods("POST")

	r.HandleFunc("/playlists", h.youtubeListPlaylists).Methods("GET")
	r.HandleFunc("/playlists", h.youtubeInsertPlaylist).Methods("POST")
	r.HandleFunc("/playlists", h.youtubeUpdatePlaylist).Methods("PUT")
	r.HandleFunc("/playlists", h.youtubeDeletePlaylist).Methods("DELETE")

	r.HandleFunc("/channels", h.youtubeListChannels).Methods("GET")
	r.HandleFunc("/channels", h.youtubeUpdateChannel).Methods("PUT")
}

// idsParam splits the comma-separated id parameter the YouTube API uses for
// multi-get requests.
func idsParam(r *http.Request) []string {
	s := r.URL.Query().Get("id")
	if s == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Handler) youtubeListVideos(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "maxResults")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.ListVideos(&youtube.ListVideosRequest{
		Part:       r.URL.Query().Get("part"),
		IDs:        idsParam(r),
		Chart:      r.URL.Query().Get("chart"),
		MaxResults: maxResults,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type videoBody struct {
	ID      string                `json:"id,omitempty"`
	Snippet *youtube.VideoSnippet `json:"snippet,omitempty"`
	Status  *youtube.VideoStatus  `json:"status,omitempty"`
}

func (h *Handler) youtubeInsertVideo(w http.ResponseWriter, r *http.Request) {
	var body videoBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.InsertVideo(&youtube.InsertVideoRequest{
		Part:    r.URL.Query().Get("part"),
		Snippet: body.Snippet,
		Status:  body.Status,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var body videoBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.UpdateVideo(&youtube.UpdateVideoRequest{
		Part:    r.URL.Query().Get("part"),
		ID:      body.ID,
		Snippet: body.Snippet,
		Status:  body.Status,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeDeleteVideo(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.DeleteVideo(&youtube.DeleteVideoRequest{
		ID: r.URL.Query().Get("id"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) youtubeRateVideo(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.RateVideo(&youtube.RateVideoRequest{
		ID:     r.URL.Query().Get("id"),
		Rating: r.URL.Query().Get("rating"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) youtubeListComments(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "maxResults")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.ListComments(&youtube.ListCommentsRequest{
		Part:       r.URL.Query().Get("part"),
		IDs:        idsParam(r),
		ParentID:   r.URL.Query().Get("parentId"),
		VideoID:    r.URL.Query().Get("videoId"),
		MaxResults: maxResults,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type commentBody struct {
	ID      string                  `json:"id,omitempty"`
	Snippet *youtube.CommentSnippet `json:"snippet,omitempty"`
}

func (h *Handler) youtubeInsertComment(w http.ResponseWriter, r *http.Request) {
	var body commentBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.InsertComment(&youtube.InsertCommentRequest{
		Part:    r.URL.Query().Get("part"),
		Snippet: body.Snippet,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeUpdateComment(w http.ResponseWriter, r *http.Request) {
	var body commentBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	var text string
	if body.Snippet != nil {
		text = body.Snippet.TextOriginal
	}
	doc, err := h.youtube.UpdateComment(&youtube.UpdateCommentRequest{
		Part:         r.URL.Query().Get("part"),
		ID:           body.ID,
		TextOriginal: text,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.DeleteComment(&youtube.DeleteCommentRequest{
		ID: r.URL.Query().Get("id"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) youtubeSetCommentModerationStatus(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.SetCommentModerationStatus(&youtube.SetCommentModerationStatusRequest{
		IDs:              idsParam(r),
		ModerationStatus: r.URL.Query().Get("moderationStatus"),
		BanAuthor:        boolParam(r, "banAuthor"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) youtubeMarkCommentAsSpam(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.MarkCommentAsSpam(&youtube.MarkCommentAsSpamRequest{
		IDs: idsParam(r),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playlistBody struct {
	ID      string                   `json:"id,omitempty"`
	Snippet *youtube.PlaylistSnippet `json:"snippet,omitempty"`
	Status  *youtube.VideoStatus     `json:"status,omitempty"`
}

func (h *Handler) youtubeListPlaylists(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "maxResults")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.ListPlaylists(&youtube.ListPlaylistsRequest{
		Part:       r.URL.Query().Get("part"),
		IDs:        idsParam(r),
		ChannelID:  r.URL.Query().Get("channelId"),
		MaxResults: maxResults,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeInsertPlaylist(w http.ResponseWriter, r *http.Request) {
	var body playlistBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.InsertPlaylist(&youtube.InsertPlaylistRequest{
		Part:    r.URL.Query().Get("part"),
		Snippet: body.Snippet,
		Status:  body.Status,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body playlistBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.UpdatePlaylist(&youtube.UpdatePlaylistRequest{
		Part:    r.URL.Query().Get("part"),
		ID:      body.ID,
		Snippet: body.Snippet,
		Status:  body.Status,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) youtubeDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	err := h.youtube.DeletePlaylist(&youtube.DeletePlaylistRequest{
		ID: r.URL.Query().Get("id"),
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) youtubeListChannels(w http.ResponseWriter, r *http.Request) {
	maxResults, err := intParam(r, "maxResults")
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.ListChannels(&youtube.ListChannelsRequest{
		Part:        r.URL.Query().Get("part"),
		IDs:         idsParam(r),
		ForUsername: r.URL.Query().Get("forUsername"),
		MaxResults:  maxResults,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type channelBody struct {
	ID               string                 `json:"id,omitempty"`
	BrandingSettings map[string]interface{} `json:"brandingSettings,omitempty"`
	Status           map[string]interface{} `json:"status,omitempty"`
}

func (h *Handler) youtubeUpdateChannel(w http.ResponseWriter, r *http.Request) {
	var body channelBody
	if err := decodeBody(r, &body); err != nil {
		writeGoogleError(w, err)
		return
	}
	doc, err := h.youtube.UpdateChannel(&youtube.UpdateChannelRequest{
		Part:             r.URL.Query().Get("part"),
		ID:               body.ID,
		BrandingSettings: body.BrandingSettings,
		Status:           body.Status,
	})
	if err != nil {
		writeGoogleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
