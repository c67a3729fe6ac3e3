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

	"github.com/gin-gonic/gin"

	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

type detailsResponse struct {
	Links       links                 `json:"_links"`
	Chromosomes []genomics.Chromosome `json:"chromosomes"`
	Resolutions []int64               `json:"resolutions"`
}

func (server *Server) serveDetails(c *gin.Context) {
	op := detailsOperation

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

	details, err := server.store.Details(c.Request.Context(), userID, raw["file_id"])
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	base := requestBaseURL(c.Request)
	c.JSON(http.StatusOK, detailsResponse{
		Links: links{
			"_self":   base + c.Request.URL.Path,
			"_parent": base + apiRoot,
		},
		Chromosomes: details.Chromosomes,
		Resolutions: details.Resolutions,
	})
}
