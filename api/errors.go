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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// apiError is used to capture errors that have a name and status code defined
// by the API.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newForbiddenError(err error) error {
	return &apiError{"Forbidden", http.StatusForbidden, err}
}

func newMissingParametersError(missing []string) error {
	return &apiError{"MissingParameters", http.StatusBadRequest,
		fmt.Errorf("required parameters absent: %s", strings.Join(missing, ", "))}
}

func newIncorrectParameterTypeError(name, value string) error {
	return &apiError{"IncorrectParameterType", http.StatusBadRequest,
		fmt.Errorf("parameter %s=%q is not an integer", name, value)}
}

func newResolutionNotAvailableError(resolution int64) error {
	return &apiError{"ResolutionNotAvailable", http.StatusBadRequest,
		fmt.Errorf("resolution %d is not available in this dataset", resolution)}
}

// usagePayload is the self-describing body used for every non-2xx outcome and
// for parameter-less discovery calls.  Error is absent for discovery
// responses; Provided echoes the raw (pre-coercion) values the caller sent.
type usagePayload struct {
	Usage      usageBlock        `json:"usage"`
	StatusCode int               `json:"status_code"`
	Provided   map[string]string `json:"provided_parameters,omitempty"`
	Error      string            `json:"error,omitempty"`
}

type usageBlock struct {
	Links      links                `json:"_links"`
	Parameters map[string]paramSpec `json:"parameters"`
}

// writeUsage renders the usage payload for op.  errName is empty for
// discovery responses.
func (server *Server) writeUsage(c *gin.Context, op operation, code int, provided map[string]string, errName string) {
	base := requestBaseURL(c.Request)
	payload := usagePayload{
		Usage: usageBlock{
			Links: links{
				"_self":   base + c.Request.URL.Path,
				"_parent": base + apiRoot,
			},
			Parameters: op.parameterSpecs(),
		},
		StatusCode: code,
		Provided:   provided,
		Error:      errName,
	}
	c.JSON(code, payload)
}

// writeFailure renders err for op.  Errors from the API taxonomy produce the
// usage payload with the matching status code; anything else (a collaborator
// failure) is surfaced as a bare 500 without interpretation.
func (server *Server) writeFailure(c *gin.Context, op operation, provided map[string]string, err error) {
	var known *apiError
	if errors.As(err, &known) {
		server.logger.Warn("request rejected",
			zap.String("endpoint", op.name),
			zap.Error(err))
		server.writeUsage(c, op, known.code, provided, known.name)
		return
	}

	server.logger.Error("request failed",
		zap.String("endpoint", op.name),
		zap.Error(err))
	c.String(http.StatusInternalServerError, "%s: %v",
		http.StatusText(http.StatusInternalServerError), err)
	c.Abort()
}
