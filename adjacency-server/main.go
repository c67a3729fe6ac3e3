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

// This binary provides the adjacency REST service over local dataset stores.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/multiscale-genomics/mg-rest-adjacency/api"
	"github.com/multiscale-genomics/mg-rest-adjacency/internal/metrics"
	"github.com/multiscale-genomics/mg-rest-adjacency/logger"
	filestore "github.com/multiscale-genomics/mg-rest-adjacency/sources/file"
	sqlitestore "github.com/multiscale-genomics/mg-rest-adjacency/sources/sqlite"
)

var (
	port = flag.Int("port", 5001, "HTTP service port")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")

	source = flag.String("source", "sqlite", "dataset store backend: sqlite or file")
	debug  = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *secure && (*httpsCert == "" || *httpsKey == "") {
		fmt.Fprintln(os.Stderr, "You must specify both -https_cert and -https_key in secure mode.")
		os.Exit(1)
	}

	level := zapcore.InfoLevel
	if *debug {
		level = zapcore.DebugLevel
	}
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env found, using local environment")
	}

	dataDir := os.Getenv("ADJACENCY_DATA")
	if dataDir == "" {
		logger.Warn("ADJACENCY_DATA not set, using ./data")
		dataDir = "./data"
	}

	var store api.Store
	switch *source {
	case "sqlite":
		store = sqlitestore.NewStore(dataDir, logger.L())
	case "file":
		store = filestore.NewStore(dataDir, logger.L())
	default:
		logger.Fatal("Unknown source backend", zap.String("source", *source))
	}

	auth := api.StaticUserAuth("anonymous")
	if path := os.Getenv("ADJACENCY_AUTH_TOKENS"); path != "" {
		var err error
		auth, err = api.NewTokenFileAuth(path)
		if err != nil {
			logger.Fatal("Loading token table failed", zap.Error(err))
		}
	} else {
		logger.Warn("ADJACENCY_AUTH_TOKENS not set, authorizing every request as \"anonymous\"")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(logger.L()), metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := api.NewServer(store, auth, api.WithLogger(logger.L()))
	server.Export(router)

	address := fmt.Sprintf(":%d", *port)
	logger.Info("Server starting",
		zap.String("address", address),
		zap.String("data", dataDir),
		zap.String("source", *source),
		zap.String("version", api.Version))

	var err error
	if *secure {
		err = http.ListenAndServeTLS(address, *httpsCert, *httpsKey, router)
	} else {
		err = http.ListenAndServe(address, router)
	}
	logger.Error("Server returned an error", zap.Error(err))
}
