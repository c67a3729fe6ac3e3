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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

var errMissingOrInvalidToken = errors.New("missing or invalid token")

// AuthFunc is the authorization decision function: it returns the
// authenticated user ID for a request, or an error denying it.  The API never
// inspects tokens itself.
type AuthFunc func(*http.Request) (string, error)

// BearerToken extracts the bearer token from the Authorization header of req.
func BearerToken(req *http.Request) (string, error) {
	fields := strings.Split(req.Header.Get("Authorization"), " ")
	if len(fields) != 2 || fields[0] != "Bearer" {
		return "", errMissingOrInvalidToken
	}
	return fields[1], nil
}

// NewTokenFileAuth returns an AuthFunc backed by a JSON token table of the
// form {"users": {"<token>": "<user_id>"}}.  The table is read once at
// startup.
func NewTokenFileAuth(path string) (AuthFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token table: %v", err)
	}

	var table struct {
		Users map[string]string `json:"users"`
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing token table %q: %v", path, err)
	}

	return func(req *http.Request) (string, error) {
		token, err := BearerToken(req)
		if err != nil {
			return "", err
		}
		userID, ok := table.Users[token]
		if !ok {
			return "", errMissingOrInvalidToken
		}
		return userID, nil
	}, nil
}

// StaticUserAuth authorizes every request as userID.  Intended for
// development setups without an authorization service.
func StaticUserAuth(userID string) AuthFunc {
	return func(*http.Request) (string, error) {
		return userID, nil
	}
}
