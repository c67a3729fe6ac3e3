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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/mug/api/adjacency/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("/mug/api/adjacency/ping", "200"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/mug/api/adjacency/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Wrong status code: got %v, want %v", w.Code, http.StatusOK)
	}

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("/mug/api/adjacency/ping", "200"))
	if after != before+1 {
		t.Errorf("Counter not incremented: before=%v after=%v", before, after)
	}
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("unmatched", "404"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/no/such/route", nil))

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("unmatched", "404"))
	if after != before+1 {
		t.Errorf("Counter not incremented for unmatched route: before=%v after=%v", before, after)
	}
}
