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
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

var channelParts = map[string]bool{
	"snippet":          true,
	"statistics":       true,
	"status":           true,
	"brandingSettings": true,
	"contentDetails":   true,
}

// A request to list channels, accepted by Service.ListChannels. Exactly one
// of IDs and ForUsername must be set. Channels are seeded through store
// fixtures; the simulator has no channel-creation operation.
type ListChannelsRequest struct {
	Part string

	IDs         []string
	ForUsername string

	MaxResults int
}

// A request to update channel settings, accepted by Service.UpdateChannel.
// Only the brandingSettings and status parts are updatable.
type UpdateChannelRequest struct {
	Part string
	ID   string

	// BrandingSettings is merged onto the stored part.
	BrandingSettings map[string]interface{}

	// Status is merged onto the stored part.
	Status map[string]interface{}
}

var updatableChannelParts = map[string]bool{
	"brandingSettings": true,
	"status":           true,
}

// ListChannels lists channels by id or by username.
func (s *Service) ListChannels(req *ListChannelsRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, channelParts)
	if err != nil {
		return nil, err
	}
	if (len(req.IDs) > 0) == (req.ForUsername != "") {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "exactly one of id and forUsername must be set")
	}

	var docs []resource.Document
	if len(req.IDs) > 0 {
		for _, id := range req.IDs {
			if doc, err := s.st.Get(channelsCollection, id); err == nil {
				docs = append(docs, doc)
			}
		}
	} else {
		docs = s.st.List(channelsCollection, func(c resource.Document) bool {
			return c.StringField("snippet.customUrl") == req.ForUsername
		})
	}

	if req.MaxResults > 0 && len(docs) > req.MaxResults {
		docs = docs[:req.MaxResults]
	}
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		items = append(items, map[string]interface{}(selectParts(d, parts)))
	}
	return listResponse("youtube#channelListResponse", items), nil
}

// UpdateChannel merges caller-supplied brandingSettings and status onto the
// stored channel. Any other part in the request is rejected.
func (s *Service) UpdateChannel(req *UpdateChannelRequest) (resource.Document, error) {
	parts, err := checkParts(req.Part, updatableChannelParts)
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "id: required")
	}

	body := resource.Document{}
	if contains(parts, "brandingSettings") && req.BrandingSettings != nil {
		body["brandingSettings"] = req.BrandingSettings
	}
	if contains(parts, "status") && req.Status != nil {
		body["status"] = req.Status
	}
	if len(body) == 0 {
		return nil, simerr.Newf(simerr.InvalidArgument, nil, "part: no updatable parts supplied")
	}

	op := &resource.UpdateOp{
		Body:         body,
		CounterField: "etag",
	}
	return s.st.Apply(channelsCollection, req.ID, op, s.now())
}
