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
	"net/url"
	"strconv"

	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

// paramSpec describes one query parameter for usage payloads.
type paramSpec struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Constraint  string `json:"constraint"`
}

const (
	typeString = "str"
	typeInt    = "int"

	constraintRequired = "REQUIRED"
	constraintOptional = "OPTIONAL"
)

// parameterSpecs is the process-wide parameter table.  It is immutable and
// used only to build usage and error payloads.
var parameterSpecs = map[string]paramSpec{
	"file_id": {"File ID", typeString, constraintRequired},
	"chr":     {"Chromosome", typeString, constraintRequired},
	"start":   {"Start", typeInt, constraintRequired},
	"end":     {"End", typeInt, constraintRequired},
	"res":     {"Resolution", typeInt, constraintRequired},
	"limit_chr": {
		"Limit interactions to those interacting with a specific chromosome",
		typeString, constraintOptional},
	"limit_start": {
		"Limits interactions to a region within the chromosome defined by limit_chr. Requires limit_chr and limit_end",
		typeInt, constraintOptional},
	"limit_end": {
		"Limits interactions to a region within the chromosome defined by limit_chr. Requires limit_chr and limit_start",
		typeInt, constraintOptional},
	"pos_x": {"Position i", typeInt, constraintRequired},
	"pos_y": {"Position j", typeInt, constraintRequired},
}

// operation describes the parameter contract of one endpoint.
type operation struct {
	name     string
	relevant []string // every parameter the endpoint understands
	required []string
	numeric  []string // required parameters that must coerce to integers
}

var (
	detailsOperation = operation{
		name:     "details",
		relevant: []string{"file_id"},
		required: []string{"file_id"},
	}

	interactionsOperation = operation{
		name:     "getInteractions",
		relevant: []string{"file_id", "chr", "start", "end", "res", "limit_chr", "limit_start", "limit_end"},
		required: []string{"file_id", "chr", "start", "end", "res"},
		numeric:  []string{"start", "end", "res"},
	}

	valueOperation = operation{
		name:     "getValue",
		relevant: []string{"file_id", "res", "pos_x", "pos_y"},
		required: []string{"file_id", "res", "pos_x", "pos_y"},
		numeric:  []string{"res", "pos_x", "pos_y"},
	}
)

// extract pulls the raw values of every parameter relevant to the operation.
// No validation happens here; the values are echoed back verbatim in usage
// and error payloads.
func (op operation) extract(query url.Values) map[string]string {
	raw := make(map[string]string)
	for _, name := range op.relevant {
		if value, ok := queryValue(query, name); ok {
			raw[name] = value
		}
	}
	return raw
}

// queryValue looks up one parameter.  "chrom" is accepted as an alias for
// "chr".
func queryValue(query url.Values, name string) (string, bool) {
	if values, ok := query[name]; ok && len(values) > 0 {
		return values[0], true
	}
	if name == "chr" {
		if values, ok := query["chrom"]; ok && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// missingRequired returns the required parameters absent from raw, evaluated
// field by field in declaration order.
func (op operation) missingRequired(raw map[string]string) []string {
	var missing []string
	for _, name := range op.required {
		if _, ok := raw[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// coerceNumeric type-checks every required numeric parameter.  The offending
// raw value, not a coerced one, is reported on failure.
func (op operation) coerceNumeric(raw map[string]string) (map[string]int64, error) {
	typed := make(map[string]int64)
	for _, name := range op.numeric {
		value := raw[name]
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, newIncorrectParameterTypeError(name, value)
		}
		typed[name] = n
	}
	return typed, nil
}

// parameterSpecs returns the subset of the parameter table relevant to this
// operation.
func (op operation) parameterSpecs() map[string]paramSpec {
	specs := make(map[string]paramSpec, len(op.relevant))
	for _, name := range op.relevant {
		specs[name] = parameterSpecs[name]
	}
	return specs
}

// limitRegion validates the limit_chr/limit_start/limit_end triple as a unit:
// either all three are present and well typed, or none may be.  It runs only
// after the primary required set has passed, so a partial triple never masks
// a primary missing-field error.
func limitRegion(raw map[string]string) (*genomics.Region, error) {
	chromosome, hasChr := raw["limit_chr"]
	start, hasStart := raw["limit_start"]
	end, hasEnd := raw["limit_end"]
	if !hasChr && !hasStart && !hasEnd {
		return nil, nil
	}

	var missing []string
	if !hasChr {
		missing = append(missing, "limit_chr")
	}
	if !hasStart {
		missing = append(missing, "limit_start")
	}
	if !hasEnd {
		missing = append(missing, "limit_end")
	}
	if len(missing) > 0 {
		return nil, newMissingParametersError(missing)
	}

	startN, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return nil, newIncorrectParameterTypeError("limit_start", start)
	}
	endN, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return nil, newIncorrectParameterTypeError("limit_end", end)
	}

	return &genomics.Region{Chromosome: chromosome, Start: startN, End: endN}, nil
}
