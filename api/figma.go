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

	"github.com/gorilla/mux"
	"simcloud.dev/figma"
)

func (h *Handler) registerFigma(r *mux.Router) {
	r.HandleFunc("/files/{key}", h.figmaGetFile).Methods("GET")
	r.HandleFunc("/projects/{project}/files", h.figmaListProjectFiles).Methods("GET")
	r.HandleFunc("/teams/{team}/projects", h.figmaListTeamProjects).Methods("GET")

	r.HandleFunc("/files/{key}/comments", h.figmaListFileComments).Methods("GET")
	r.HandleFunc("/files/{key}/comments", h.figmaPostFileComment).Methods("POST")
	r.HandleFunc("/files/{key}/comments/{comment}", h.figmaDeleteFileComment).Methods("DELETE")
	r.HandleFunc("/files/{key}/comments/{comment}/resolve", h.figmaResolveFileComment).Methods("POST")
}

func (h *Handler) figmaGetFile(w http.ResponseWriter, r *http.Request) {
	depth, err := intParam(r, "depth")
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	doc, err := h.figma.GetFile(&figma.GetFileRequest{
		Key:     mux.Vars(r)["key"],
		Version: r.URL.Query().Get("version"),
		Depth:   depth,
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) figmaListProjectFiles(w http.ResponseWriter, r *http.Request) {
	doc, err := h.figma.ListProjectFiles(&figma.ListProjectFilesRequest{
		ProjectID: mux.Vars(r)["project"],
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) figmaListTeamProjects(w http.ResponseWriter, r *http.Request) {
	doc, err := h.figma.ListTeamProjects(&figma.ListTeamProjectsRequest{
		TeamID: mux.Vars(r)["team"],
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) figmaListFileComments(w http.ResponseWriter, r *http.Request) {
	doc, err := h.figma.ListFileComments(&figma.ListFileCommentsRequest{
		FileKey: mux.Vars(r)["key"],
		AsMD:    boolParam(r, "as_md"),
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type figmaCommentBody struct {
	Message    string            `json:"message"`
	ClientMeta *figma.ClientMeta `json:"client_meta,omitempty"`
	CommentID  string            `json:"comment_id,omitempty"`
}

func (h *Handler) figmaPostFileComment(w http.ResponseWriter, r *http.Request) {
	var body figmaCommentBody
	if err := decodeBody(r, &body); err != nil {
		writeFigmaError(w, err)
		return
	}
	doc, err := h.figma.PostFileComment(&figma.PostFileCommentRequest{
		FileKey:    mux.Vars(r)["key"],
		Message:    body.Message,
		ClientMeta: body.ClientMeta,
		CommentID:  body.CommentID,
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) figmaDeleteFileComment(w http.ResponseWriter, r *http.Request) {
	err := h.figma.DeleteFileComment(&figma.DeleteFileCommentRequest{
		FileKey:   mux.Vars(r)["key"],
		CommentID: mux.Vars(r)["comment"],
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": 200, "err": nil})
}

func (h *Handler) figmaResolveFileComment(w http.ResponseWriter, r *http.Request) {
	doc, err := h.figma.ResolveFileComment(&figma.ResolveFileCommentRequest{
		FileKey:   mux.Vars(r)["key"],
		CommentID: mux.Vars(r)["comment"],
	})
	if err != nil {
		writeFigmaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
