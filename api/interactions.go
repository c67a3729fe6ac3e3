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
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

const tsvContentType = "application/tsv"

// interactionsResponse is the structured form of a range query answer.  The
// limit fields are null unless a limiting region was supplied, and
// InteractionCount always equals len(Values).
type interactionsResponse struct {
	Links            links                  `json:"_links,omitempty"`
	Resolution       int64                  `json:"resolution"`
	Chromosome       string                 `json:"chr"`
	Start            int64                  `json:"start"`
	End              int64                  `json:"end"`
	LimitChr         *string                `json:"limit_chr"`
	LimitStart       *int64                 `json:"limit_start"`
	LimitEnd         *int64                 `json:"limit_end"`
	InteractionCount int                    `json:"interaction_count"`
	Values           []genomics.Interaction `json:"values"`
	Log              []string               `json:"log"`
}

func (server *Server) serveInteractions(c *gin.Context) {
	op := interactionsOperation

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

	// The resolution gate runs before any handle is opened, so an
	// unsupported resolution never acquires a dataset handle.
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

	limit, err := limitRegion(raw)
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	result, err := handle.Range(ctx, genomics.RangeQuery{
		Region: genomics.Region{
			Chromosome: raw["chr"],
			Start:      typed["start"],
			End:        typed["end"],
		},
		Limit: limit,
	})
	if err != nil {
		server.writeFailure(c, op, raw, err)
		return
	}

	if result.Interactions == nil {
		result.Interactions = []genomics.Interaction{}
	}
	if result.Log == nil {
		result.Log = []string{}
	}

	if strings.Contains(c.GetHeader("Accept"), tsvContentType) {
		writeTSV(c, result.Interactions)
		return
	}

	response := interactionsResponse{
		Resolution:       resolution,
		Chromosome:       raw["chr"],
		Start:            typed["start"],
		End:              typed["end"],
		InteractionCount: len(result.Interactions),
		Values:           result.Interactions,
		Log:              result.Log,
	}
	if limit != nil {
		response.LimitChr = &limit.Chromosome
		response.LimitStart = &limit.Start
		response.LimitEnd = &limit.End
	}
	if _, suppress := c.GetQuery("no_links"); !suppress {
		base := requestBaseURL(c.Request)
		response.Links = links{
			"_self":   base + c.Request.URL.Path + "?" + c.Request.URL.RawQuery,
			"_parent": base + apiRoot,
		}
	}
	c.JSON(http.StatusOK, response)
}

// writeTSV emits one line per interaction as five tab-separated fields in
// fixed order.  The tabular form is lossy: links, echoed parameters, counts
// and the anomaly log are all omitted.
func writeTSV(c *gin.Context, interactions []genomics.Interaction) {
	var buf bytes.Buffer
	for _, interaction := range interactions {
		fmt.Fprintf(&buf, "%s\t%d\t%s\t%d\t%d\n",
			interaction.ChrA, interaction.StartA,
			interaction.ChrB, interaction.StartB,
			interaction.Value)
	}
	c.Data(http.StatusOK, tsvContentType, buf.Bytes())
}
