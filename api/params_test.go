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
	"net/url"
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	query := url.Values{}
	query.Set("file_id", "test_file")
	query.Set("chrom", "chr1") // alias for chr
	query.Set("start", "abc")  // extraction never validates
	query.Set("unrelated", "x")

	raw := interactionsOperation.extract(query)
	want := map[string]string{"file_id": "test_file", "chr": "chr1", "start": "abc"}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("Wrong extraction: got %v, want %v", raw, want)
	}
}

func TestMissingRequiredOrder(t *testing.T) {
	raw := map[string]string{"file_id": "f", "end": "10"}
	missing := interactionsOperation.missingRequired(raw)
	want := []string{"chr", "start", "res"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("Wrong missing set: got %v, want %v", missing, want)
	}
}

func TestCoerceNumeric(t *testing.T) {
	raw := map[string]string{"start": "0", "end": "1000", "res": "1000"}
	typed, err := interactionsOperation.coerceNumeric(raw)
	if err != nil {
		t.Fatalf("coerceNumeric failed: %v", err)
	}
	if typed["end"] != 1000 {
		t.Errorf("Wrong coerced value: got %d, want 1000", typed["end"])
	}

	raw["end"] = "10.5"
	if _, err := interactionsOperation.coerceNumeric(raw); err == nil {
		t.Error("coerceNumeric accepted a float string")
	}
}

func TestLimitRegion(t *testing.T) {
	testCases := []struct {
		name    string
		raw     map[string]string
		errName string
		region  bool
	}{
		{"absent", map[string]string{"file_id": "f"}, "", false},
		{"complete", map[string]string{
			"limit_chr": "chr2", "limit_start": "0", "limit_end": "5000"}, "", true},
		{"chr only", map[string]string{"limit_chr": "chr2"}, "MissingParameters", false},
		{"start only", map[string]string{"limit_start": "0"}, "MissingParameters", false},
		{"chr and end", map[string]string{
			"limit_chr": "chr2", "limit_end": "5000"}, "MissingParameters", false},
		{"bad start", map[string]string{
			"limit_chr": "chr2", "limit_start": "x", "limit_end": "5000"}, "IncorrectParameterType", false},
		{"bad end", map[string]string{
			"limit_chr": "chr2", "limit_start": "0", "limit_end": "x"}, "IncorrectParameterType", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			region, err := limitRegion(tc.raw)
			if tc.errName == "" {
				if err != nil {
					t.Fatalf("limitRegion failed: %v", err)
				}
				if (region != nil) != tc.region {
					t.Errorf("Wrong region presence: got %v", region)
				}
				return
			}

			var known *apiError
			if !errors.As(err, &known) {
				t.Fatalf("Expected an API error, got %v", err)
			}
			if known.name != tc.errName {
				t.Errorf("Wrong error: got %v, want %v", known.name, tc.errName)
			}
		})
	}
}

func TestParameterSpecSubset(t *testing.T) {
	specs := valueOperation.parameterSpecs()
	if len(specs) != len(valueOperation.relevant) {
		t.Fatalf("Wrong spec count: got %d, want %d", len(specs), len(valueOperation.relevant))
	}
	if specs["pos_x"].Type != typeInt || specs["pos_x"].Constraint != constraintRequired {
		t.Errorf("Wrong spec for pos_x: %+v", specs["pos_x"])
	}
}
