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

// Package api implements the adjacency matrix retrieval API.
//
// The API answers range queries ("all interactions in region X at resolution
// R, optionally restricted to interactions with region Y") and single-cell
// lookups against a pre-indexed adjacency store.  Every non-2xx outcome, and
// every parameter-less discovery call, carries a self-describing usage
// payload so callers can correct a request without external documentation.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiRoot = "/mug/api/adjacency"

// Server provides the adjacency retrieval API over an external Store and
// authorization decision function.  Must be created with NewServer.
type Server struct {
	store  Store
	auth   AuthFunc
	logger *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request outcomes and anomalies.
func WithLogger(logger *zap.Logger) Option {
	return func(server *Server) {
		server.logger = logger
	}
}

// NewServer returns a Server that reads datasets through store and authorizes
// requests through auth.
func NewServer(store Store, auth AuthFunc, opts ...Option) *Server {
	server := &Server{store: store, auth: auth, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

// Export registers the API endpoints with router.
func (server *Server) Export(router *gin.Engine) {
	router.GET(apiRoot, server.serveRoot)
	router.GET(apiRoot+"/details", server.serveDetails)
	router.GET(apiRoot+"/getInteractions", server.serveInteractions)
	router.GET(apiRoot+"/getValue", server.serveValue)
	router.GET(apiRoot+"/ping", server.servePing)
}

// links is the navigation block of a response.
type links map[string]string

func (server *Server) serveRoot(c *gin.Context) {
	base := requestBaseURL(c.Request)
	c.JSON(http.StatusOK, gin.H{
		"_links": links{
			"_self":            base + apiRoot,
			"_details":         base + apiRoot + "/details",
			"_getInteractions": base + apiRoot + "/getInteractions",
			"_getValue":        base + apiRoot + "/getValue",
			"_ping":            base + apiRoot + "/ping",
			"_parent":          base + "/mug/api",
		},
	})
}

func (server *Server) servePing(c *gin.Context) {
	base := requestBaseURL(c.Request)
	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"name":        Name,
		"description": Description,
		"version":     Version,
		"author":      Author,
		"license":     License,
		"_links": links{
			"_self":   base + apiRoot + "/ping",
			"_parent": base + apiRoot,
		},
	})
}

// requestBaseURL reconstructs the scheme and host the client used, so that
// navigation links point back at this service.
func requestBaseURL(req *http.Request) string {
	var base string
	if req.Host != "" {
		if req.TLS != nil {
			base = "https://"
		} else {
			base = "http://"
		}
		base += req.Host
	}
	return base
}
