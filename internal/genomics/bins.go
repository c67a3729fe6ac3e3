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

package genomics

import "fmt"

// BinIndex maps between base pair coordinates and the global bin numbering
// used by the adjacency matrix at a single resolution.  Bins are numbered
// consecutively across chromosomes in storage order, so every (chromosome,
// position) pair has exactly one global bin and vice versa.
type BinIndex struct {
	resolution  int64
	chromosomes []Chromosome
	offsets     []int64 // first global bin of each chromosome
	total       int64
}

// NewBinIndex builds a bin index over chromosomes at the given resolution.
func NewBinIndex(chromosomes []Chromosome, resolution int64) (*BinIndex, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid resolution %d", resolution)
	}
	index := &BinIndex{
		resolution:  resolution,
		chromosomes: chromosomes,
		offsets:     make([]int64, len(chromosomes)),
	}
	var next int64
	for i, chromosome := range chromosomes {
		index.offsets[i] = next
		next += (chromosome.Length + resolution - 1) / resolution
	}
	index.total = next
	return index, nil
}

// Bins returns the total number of bins across all chromosomes.
func (b *BinIndex) Bins() int64 {
	return b.total
}

// ChromosomeForBin returns the name of the chromosome containing the given
// global bin.
func (b *BinIndex) ChromosomeForBin(bin int64) (string, error) {
	name, _, err := b.Locate(bin)
	return name, err
}

// Locate returns the chromosome and base pair start position of a global bin.
func (b *BinIndex) Locate(bin int64) (string, int64, error) {
	if bin < 0 || bin >= b.total {
		return "", 0, fmt.Errorf("bin %d outside dataset (0-%d)", bin, b.total-1)
	}
	for i := len(b.chromosomes) - 1; i >= 0; i-- {
		if bin >= b.offsets[i] {
			return b.chromosomes[i].Name, (bin - b.offsets[i]) * b.resolution, nil
		}
	}
	return "", 0, fmt.Errorf("bin %d outside dataset", bin)
}

// BinSpan converts region to an inclusive global bin span.  Positions outside
// the chromosome are clamped to its bounds and each adjustment is recorded in
// the returned log.  An empty span is reported as lo > hi.
func (b *BinIndex) BinSpan(region Region) (lo, hi int64, log []string, err error) {
	index := -1
	for i, chromosome := range b.chromosomes {
		if chromosome.Name == region.Chromosome {
			index = i
			break
		}
	}
	if index < 0 {
		return 0, 0, nil, fmt.Errorf("unknown chromosome %q", region.Chromosome)
	}

	chromosome := b.chromosomes[index]
	start, end := region.Start, region.End
	if start < 0 {
		log = append(log, fmt.Sprintf("%s: start %d is before the chromosome, using 0", region, start))
		start = 0
	}
	if end >= chromosome.Length {
		log = append(log, fmt.Sprintf("%s: end %d is past the chromosome end, using %d", region, end, chromosome.Length-1))
		end = chromosome.Length - 1
	}
	if start > end {
		log = append(log, fmt.Sprintf("%s: region is empty", region))
		return 1, 0, log, nil
	}

	offset := b.offsets[index]
	return offset + start/b.resolution, offset + end/b.resolution, log, nil
}
