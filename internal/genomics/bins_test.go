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

import "testing"

// chr1 occupies bins 0-15, chr2 bins 16-30 at resolution 1000.
var testChromosomes = []Chromosome{
	{Name: "chr1", Length: 16000},
	{Name: "chr2", Length: 15000},
}

func TestChromosomeForBinBoundaries(t *testing.T) {
	bins, err := NewBinIndex(testChromosomes, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := bins.Bins(), int64(31); got != want {
		t.Fatalf("Wrong bin count: got %v, want %v", got, want)
	}

	testCases := []struct {
		bin  int64
		name string
	}{
		{0, "chr1"},
		{15, "chr1"},
		{16, "chr2"},
		{30, "chr2"},
	}
	for _, tc := range testCases {
		name, err := bins.ChromosomeForBin(tc.bin)
		if err != nil {
			t.Errorf("ChromosomeForBin(%d) failed: %v", tc.bin, err)
			continue
		}
		if name != tc.name {
			t.Errorf("ChromosomeForBin(%d): got %q, want %q", tc.bin, name, tc.name)
		}
	}

	for _, bin := range []int64{-1, 31} {
		if _, err := bins.ChromosomeForBin(bin); err == nil {
			t.Errorf("ChromosomeForBin(%d) accepted an out-of-range bin", bin)
		}
	}
}

func TestLocate(t *testing.T) {
	bins, err := NewBinIndex(testChromosomes, 1000)
	if err != nil {
		t.Fatal(err)
	}
	name, start, err := bins.Locate(17)
	if err != nil {
		t.Fatal(err)
	}
	if name != "chr2" || start != 1000 {
		t.Errorf("Locate(17): got (%q, %d), want (chr2, 1000)", name, start)
	}
}

func TestBinSpanClamping(t *testing.T) {
	bins, err := NewBinIndex(testChromosomes, 1000)
	if err != nil {
		t.Fatal(err)
	}

	lo, hi, log, err := bins.BinSpan(Region{Chromosome: "chr2", Start: -500, End: 99999})
	if err != nil {
		t.Fatal(err)
	}
	if lo != 16 || hi != 30 {
		t.Errorf("Wrong span: got (%d, %d), want (16, 30)", lo, hi)
	}
	if len(log) != 2 {
		t.Errorf("Expected two clamp log entries, got %v", log)
	}

	// In-bounds queries produce no log noise.
	_, _, log, err = bins.BinSpan(Region{Chromosome: "chr1", Start: 0, End: 15999})
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 0 {
		t.Errorf("Unexpected log entries: %v", log)
	}
}

func TestBinSpanUnknownChromosome(t *testing.T) {
	bins, err := NewBinIndex(testChromosomes, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := bins.BinSpan(Region{Chromosome: "chrX", Start: 0, End: 10}); err == nil {
		t.Error("BinSpan accepted an unknown chromosome")
	}
}

func TestBinSpanEmptyRegion(t *testing.T) {
	bins, err := NewBinIndex(testChromosomes, 1000)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi, log, err := bins.BinSpan(Region{Chromosome: "chr1", Start: 5000, End: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if lo <= hi {
		t.Errorf("Empty region produced a non-empty span (%d, %d)", lo, hi)
	}
	if len(log) == 0 {
		t.Error("Empty region produced no log entry")
	}
}

func TestNewBinIndexInvalidResolution(t *testing.T) {
	if _, err := NewBinIndex(testChromosomes, 0); err == nil {
		t.Error("NewBinIndex accepted resolution 0")
	}
}

func TestSupportsResolution(t *testing.T) {
	details := Details{Resolutions: []int64{1000, 5000}}
	if !details.SupportsResolution(1000) {
		t.Error("SupportsResolution rejected a listed resolution")
	}
	if details.SupportsResolution(999) {
		t.Error("SupportsResolution accepted an unlisted resolution")
	}
}
