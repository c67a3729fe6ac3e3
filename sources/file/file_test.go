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

package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

var testDataset = genomics.Details{
	Chromosomes: []genomics.Chromosome{
		{Name: "chr1", Length: 16000},
		{Name: "chr2", Length: 15000},
	},
	Resolutions: []int64{1000, 5000},
}

var testCells = map[int64][]Cell{
	1000: {
		{X: 10, Y: 20, Value: 42},
		{X: 0, Y: 16, Value: 5},
		{X: 2, Y: 3, Value: 7},
		{X: 0, Y: 20, Value: 3},
	},
	5000: {
		{X: 0, Y: 1, Value: 9},
	},
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "user-1"), 0700); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "user-1", "test_file.adjm"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := Write(f, testDataset, testCells); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return NewStore(dir, nil)
}

func TestDetails(t *testing.T) {
	store := newTestStore(t)
	details, err := store.Details(context.Background(), "user-1", "test_file")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if !reflect.DeepEqual(details, testDataset) {
		t.Errorf("Wrong details: got %+v, want %+v", details, testDataset)
	}
}

func TestDetailsMissingDataset(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Details(context.Background(), "user-1", "no_such_file"); err == nil {
		t.Error("Details succeeded for a missing dataset")
	}
	if _, err := store.Details(context.Background(), "other-user", "test_file"); err == nil {
		t.Error("Details succeeded for another user's path")
	}
}

func TestRange(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	result, err := handle.Range(context.Background(), genomics.RangeQuery{
		Region: genomics.Region{Chromosome: "chr1", Start: 0, End: 3999},
	})
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}

	// Cells sorted by (x, y): (0,16), (0,20), (2,3); bin 10 is outside.
	want := []genomics.Interaction{
		{ChrA: "chr1", StartA: 0, ChrB: "chr2", StartB: 0, Value: 5},
		{ChrA: "chr1", StartA: 0, ChrB: "chr2", StartB: 4000, Value: 3},
		{ChrA: "chr1", StartA: 2000, ChrB: "chr1", StartB: 3000, Value: 7},
	}
	if !reflect.DeepEqual(result.Interactions, want) {
		t.Errorf("Wrong interactions:\ngot  %+v\nwant %+v", result.Interactions, want)
	}
	if len(result.Log) != 0 {
		t.Errorf("Unexpected log entries: %v", result.Log)
	}
}

func TestRangeWithLimit(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	result, err := handle.Range(context.Background(), genomics.RangeQuery{
		Region: genomics.Region{Chromosome: "chr1", Start: 0, End: 15999},
		Limit:  &genomics.Region{Chromosome: "chr2", Start: 0, End: 14999},
	})
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if got, want := len(result.Interactions), 3; got != want {
		t.Fatalf("Wrong interaction count: got %v, want %v", got, want)
	}
	for _, interaction := range result.Interactions {
		if interaction.ChrB != "chr2" {
			t.Errorf("Interaction outside limit region: %+v", interaction)
		}
	}
}

func TestRangeTruncationLog(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	result, err := handle.Range(context.Background(), genomics.RangeQuery{
		Region: genomics.Region{Chromosome: "chr1", Start: -100, End: 99999},
	})
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(result.Log) != 2 {
		t.Errorf("Expected two truncation log entries, got %v", result.Log)
	}
	if got, want := len(result.Interactions), 4; got != want {
		t.Errorf("Wrong interaction count: got %v, want %v", got, want)
	}
}

func TestRangeEmptyLimitLogged(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	result, err := handle.Range(context.Background(), genomics.RangeQuery{
		Region: genomics.Region{Chromosome: "chr1", Start: 4000, End: 9999},
		Limit:  &genomics.Region{Chromosome: "chr2", Start: 10000, End: 14999},
	})
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(result.Interactions) != 0 {
		t.Fatalf("Expected no interactions, got %+v", result.Interactions)
	}
	if len(result.Log) == 0 {
		t.Error("Empty limited sub-query produced no log entry")
	}
}

func TestValue(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	value, err := handle.Value(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != 42 {
		t.Errorf("Wrong value: got %v, want 42", value)
	}

	// Cells absent from the file are zero.
	value, err = handle.Value(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != 0 {
		t.Errorf("Wrong value for an absent cell: got %v, want 0", value)
	}

	if _, err := handle.Value(context.Background(), 100, 0); err == nil {
		t.Error("Value accepted an out-of-range bin")
	}
}

func TestChromosomeForIndex(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	for _, tc := range []struct {
		index int64
		want  string
	}{{10, "chr1"}, {20, "chr2"}} {
		got, err := handle.ChromosomeForIndex(tc.index)
		if err != nil {
			t.Fatalf("ChromosomeForIndex(%d) failed: %v", tc.index, err)
		}
		if got != tc.want {
			t.Errorf("ChromosomeForIndex(%d): got %q, want %q", tc.index, got, tc.want)
		}
	}
}

func TestOpenUnknownResolution(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Open(context.Background(), "user-1", "test_file", 250); err == nil {
		t.Error("Open succeeded at a resolution the file does not contain")
	}
}

func TestWrongMagic(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "user-1"), 0700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "user-1", "bad.adjm")
	if err := os.WriteFile(path, []byte("NOTADJM challenge"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, nil)
	if _, err := store.Details(context.Background(), "user-1", "bad"); err == nil {
		t.Error("Details accepted a file with wrong magic bytes")
	}
}

func TestClosedHandle(t *testing.T) {
	store := newTestStore(t)
	handle, err := store.Open(context.Background(), "user-1", "test_file", 1000)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := handle.Range(context.Background(), genomics.RangeQuery{
		Region: genomics.Region{Chromosome: "chr1", Start: 0, End: 100},
	}); err == nil {
		t.Error("Range succeeded on a closed handle")
	}
	if _, err := handle.Value(context.Background(), 0, 0); err == nil {
		t.Error("Value succeeded on a closed handle")
	}
}
