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
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

// A request to fetch a file, accepted by Service.GetFile.
type GetFileRequest struct {
	// Key identifies the file.
	Key string

	// Version, when set, must name the file's current version; the
	// simulator keeps no version history.
	Version string

	// Depth, when > 0, prunes the document tree to that many levels of
	// children. Zero returns the whole tree; negative values are invalid.
	Depth int
}

// A request to list the files of a project, accepted by
// Service.ListProjectFiles.
type ListProjectFilesRequest struct {
	ProjectID string
}

// A request to list the projects of a team, accepted by
// Service.ListTeamProjects.
type ListTeamProjectsRequest struct {
	TeamID string
}

// pruneDepth truncates a node's children beyond the given number of levels,
// the way the real API's depth parameter does.
func pruneDepth(node map[string]interface{}, depth int) {
	children, ok := node["children"].([]interface{})
	if !ok {
		return
	}
	if depth <= 0 {
		delete(node, "children")
		return
	}
	for _, c := range children {
		if child, ok := c.(map[string]interface{}); ok {
			pruneDepth(child, depth-1)
		}
	}
}

// GetFile returns a file by key, optionally pruned to a node depth.
func (s *Service) GetFile(req *GetFileRequest) (resource.Document, error) {
	if req.Key == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "key: required")
	}
	if req.Depth < 0 {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "depth: invalid value %d", req.Depth)
	}
	doc, err := s.st.Get(filesCollection, req.Key)
	if err != nil {
		return nil, err
	}
	if req.Version != "" && req.Version != doc.StringField("version") {
		return nil, simerr.Newf(simerr.NotFound, nil, "files: version %q of %q not found", req.Version, req.Key)
	}
	if req.Depth > 0 {
		if root, ok := doc["document"].(map[string]interface{}); ok {
			pruneDepth(root, req.Depth)
		}
	}
	return doc, nil
}

// ListProjectFiles lists the files belonging to a project, ordered by key.
func (s *Service) ListProjectFiles(req *ListProjectFilesRequest) (resource.Document, error) {
	if req.ProjectID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "project_id: required")
	}
	project, err := s.st.Get(projectsCollection, req.ProjectID)
	if err != nil {
		return nil, err
	}
	files := make([]interface{}, 0)
	for _, f := range s.st.List(filesCollection, func(f resource.Document) bool {
		return f.StringField("project_id") == req.ProjectID
	}) {
		// The project files listing uses snake_case timestamps even though
		// the file resource itself says lastModified; the real API does the
		// same.
		files = append(files, map[string]interface{}{
			"key":           f.StringField("key"),
			"name":          f.StringField("name"),
			"last_modified": f.StringField("lastModified"),
		})
	}
	return resource.Document{
		"name":  project.StringField("name"),
		"files": files,
	}, nil
}

// ListTeamProjects lists a team's projects.
func (s *Service) ListTeamProjects(req *ListTeamProjectsRequest) (resource.Document, error) {
	if req.TeamID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "team_id: required")
	}
	matched := s.st.List(projectsCollection, func(p resource.Document) bool {
		return p.StringField("team_id") == req.TeamID
	})
	if len(matched) == 0 {
		return nil, simerr.Newf(simerr.NotFound, nil, "teams: %q not found", req.TeamID)
	}
	teamName := matched[0].StringField("team_name")
	projects := make([]interface{}, 0, len(matched))
	for _, p := range matched {
		projects = append(projects, map[string]interface{}{
			"id":   p.StringField("id"),
			"name": p.StringField("name"),
		})
	}
	return resource.Document{
		"name":     teamName,
		"projects": projects,
	}, nil
}
