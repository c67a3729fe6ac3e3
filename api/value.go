// Copyright 2018 Multiscale Genomics.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

type valueResponse struct {
	Links      links  `json:"_links"`
	ChrA       string `json:"chrA"`
	ChrB       string `json:"chrB"`
	Resolution int64  `json:"resolution"`
	PosX       int64  `json:"pos_x"`
	PosY       int64  `json:"pos_y"`
	Value      int64  `json:"value"`
}

func (server *Server) serveValue(c *gin.Context) {
	op := valueOperation

	userID, err := server.auth(c.Request)
	if err != nil {
		server.writeFailure(c, op, nil, newForbiddenError(err))
		return
	}

	raw := op.extract(c.Request.URL.Query())
	if len(raw) == 0 {
		server.writeUsage(c, op, http.StatusOK, nil, "")
		return
	}
	if missing := op.missingRequired(raw); len(missing) > 0 {
		server.writeFailure(c, op, raw, newMissingParametersError(missing))
		return
	}
	typed, err := op.coerceNumeric(raw)
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	ctx := c.Request.Context()
	fileID, resolution := raw["file_id"], typed["res"]

	details, err := server.store.Details(ctx, userID, fileID)
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}
	if !details.SupportsResolution(resolution) {
		server.writeFailure(c, op, raw, newResolutionNotAvailableError(resolution))
		return
	}

	handle, err := server.store.Open(ctx, userID, fileID, resolution)
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}
	defer handle.Close()

	value, err := handle.Value(ctx, typed["pos_x"], typed["pos_y"])
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	// The two coordinates are resolved independently; an interaction may
	// join bins on different chromosomes.
	chrA, err := handle.ChromosomeForIndex(typed["pos_x"])
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}
	chrB, err := handle.ChromosomeForIndex(typed["pos_y"])
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	self := url.Values{}
	self.Set("file_id", fileID)
	self.Set("res", strconv.FormatInt(resolution, 10))
	self.Set("pos_x", strconv.FormatInt(typed["pos_x"], 10))
	self.Set("pos_y", strconv.FormatInt(typed["pos_y"], 10))

	base := requestBaseURL(c.Request)
	c.JSON(http.StatusOK, valueResponse{
		Links: links{
			"_self":   base + apiRoot + "/getValue?" + self.Encode(),
			"_parent": base + apiRoot,
		},
		ChrA:       chrA,
		ChrB:       chrB,
		Resolution: resolution,
		PosX:       typed["pos_x"],
		PosY:       typed["pos_y"],
		Value:      value,
	})
}
