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

// This binary provides a simple command line client for the adjacency REST
// service.  Each argument is a full request URL; responses are concatenated
// to standard output or to -o.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/pkg/profile"
)

var (
	token      = flag.String("token", "", "bearer token used for authorization")
	tsv        = flag.Bool("tsv", false, "request tab separated output")
	output     = flag.String("o", "", "output filename")
	cpuProfile = flag.Bool("profile", false, "write a CPU profile to the current directory")
)

func main() {
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to open output file: %v", err)
		}
		defer f.Close()

		w = f
	}

	for _, target := range flag.Args() {
		log.Printf("Fetching %q", target)
		req, err := http.NewRequest("GET", target, nil)
		if err != nil {
			log.Fatalf("Failed to build request for %q: %v", target, err)
		}
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}
		if *tsv {
			req.Header.Set("Accept", "application/tsv")
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			log.Fatalf("Unexpected response: %v", errorFromResponse(resp))
		}
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Fatalf("Failed to read response body: %v", err)
		}
		resp.Body.Close()
	}
}

// errorFromResponse extracts the API error name from a rejection payload,
// falling back to the bare HTTP status.
func errorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, body.Error)
	}
	return fmt.Errorf("%s", resp.Status)
}
