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

// Package genomics contains definitions related to genomic adjacency data.
package genomics

import "fmt"

// Chromosome describes a single chromosome of a dataset.
type Chromosome struct {
	Name   string `json:"chromosome"`
	Length int64  `json:"length"`
}

// Details describes one dataset: its chromosomes, in storage order, and the
// discrete set of resolutions at which the adjacency matrix was indexed.
type Details struct {
	Chromosomes []Chromosome
	Resolutions []int64
}

// SupportsResolution reports whether resolution is one of the resolutions the
// dataset was indexed at.
func (d Details) SupportsResolution(resolution int64) bool {
	for _, r := range d.Resolutions {
		if r == resolution {
			return true
		}
	}
	return false
}

// Region defines a chromosomal region of interest.  Start and End are base
// pair positions; End is inclusive.
type Region struct {
	Chromosome string
	Start, End int64
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chromosome, r.Start, r.End)
}

// RangeQuery selects all interactions anchored in Region, optionally
// restricted to interactions whose second anchor falls inside Limit.
type RangeQuery struct {
	Region Region
	Limit  *Region
}

// Interaction is a single cell of the adjacency matrix, located by the
// chromosome and start position of each of its two anchors.
type Interaction struct {
	ChrA   string `json:"chrA"`
	StartA int64  `json:"startA"`
	ChrB   string `json:"chrB"`
	StartB int64  `json:"startB"`
	Value  int64  `json:"value"`
}

// RangeResult is the outcome of a range query.  Log records recoverable
// anomalies encountered during the lookup (truncated sub-ranges, empty limit
// regions); it never causes the query itself to fail.
type RangeResult struct {
	Interactions []Interaction
	Log          []string
}
