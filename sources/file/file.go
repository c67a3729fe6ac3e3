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

// Package file provides an adjacency store backed by flat .adjm files.
//
// A .adjm file holds one dataset: a chromosome table, the set of resolutions
// the matrix was indexed at, and per resolution the non-zero cells of the
// matrix sorted by (x, y) global bin coordinates.  All values are little
// endian.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/multiscale-genomics/mg-rest-adjacency/api"
	abin "github.com/multiscale-genomics/mg-rest-adjacency/internal/binary"
	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

var magic = []byte("ADJM\x01")

// Cell is one non-zero entry of the adjacency matrix in global bin
// coordinates.
type Cell struct {
	X, Y, Value int64
}

// Store reads datasets laid out as <dir>/<user_id>/<file_id>.adjm.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore returns a Store rooted at dir.  A nil logger disables logging.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) datasetPath(userID, fileID string) string {
	return filepath.Join(s.dir, userID, fileID+".adjm")
}

// Details reads only the dataset header.
func (s *Store) Details(_ context.Context, userID, fileID string) (genomics.Details, error) {
	f, err := os.Open(s.datasetPath(userID, fileID))
	if err != nil {
		return genomics.Details{}, fmt.Errorf("opening dataset %q: %v", fileID, err)
	}
	defer f.Close()

	return readDetails(f)
}

// Open loads the cells of one resolution into memory and returns a handle
// over them.
func (s *Store) Open(_ context.Context, userID, fileID string, resolution int64) (api.DatasetHandle, error) {
	f, err := os.Open(s.datasetPath(userID, fileID))
	if err != nil {
		return nil, fmt.Errorf("opening dataset %q: %v", fileID, err)
	}
	defer f.Close()

	details, err := readDetails(f)
	if err != nil {
		return nil, err
	}
	cells, err := readCells(f, details, resolution)
	if err != nil {
		return nil, err
	}
	bins, err := genomics.NewBinIndex(details.Chromosomes, resolution)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dataset opened",
		zap.String("file_id", fileID),
		zap.Int64("resolution", resolution),
		zap.Int("cells", len(cells)))

	return &Handle{bins: bins, cells: cells}, nil
}

func readDetails(r io.Reader) (genomics.Details, error) {
	var details genomics.Details
	if err := abin.CheckMagic(r, magic); err != nil {
		return details, err
	}

	var chromosomes int32
	if err := abin.Read(r, &chromosomes); err != nil {
		return details, fmt.Errorf("reading chromosome count: %v", err)
	}
	for i := int32(0); i < chromosomes; i++ {
		name, err := abin.ReadString(r)
		if err != nil {
			return details, err
		}
		var length int64
		if err := abin.Read(r, &length); err != nil {
			return details, fmt.Errorf("reading chromosome length: %v", err)
		}
		details.Chromosomes = append(details.Chromosomes, genomics.Chromosome{Name: name, Length: length})
	}

	var resolutions int32
	if err := abin.Read(r, &resolutions); err != nil {
		return details, fmt.Errorf("reading resolution count: %v", err)
	}
	for i := int32(0); i < resolutions; i++ {
		var resolution int64
		if err := abin.Read(r, &resolution); err != nil {
			return details, fmt.Errorf("reading resolution: %v", err)
		}
		details.Resolutions = append(details.Resolutions, resolution)
	}

	return details, nil
}

// readCells scans the per-resolution blocks that follow the header, skipping
// every resolution except the requested one.
func readCells(r io.Reader, details genomics.Details, resolution int64) ([]Cell, error) {
	const cellSize = 3 * 8

	for _, blockResolution := range details.Resolutions {
		var count int64
		if err := abin.Read(r, &count); err != nil {
			return nil, fmt.Errorf("reading cell count: %v", err)
		}
		if blockResolution != resolution {
			if _, err := io.CopyN(io.Discard, r, count*cellSize); err != nil {
				return nil, fmt.Errorf("skipping resolution %d: %v", blockResolution, err)
			}
			continue
		}

		cells := make([]Cell, count)
		if err := abin.Read(r, cells); err != nil {
			return nil, fmt.Errorf("reading cells: %v", err)
		}
		return cells, nil
	}

	return nil, fmt.Errorf("resolution %d not present in dataset", resolution)
}

// Write serializes dataset to w in .adjm form.  Cells are sorted before
// writing so readers can binary search them.
func Write(w io.Writer, details genomics.Details, cells map[int64][]Cell) error {
	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("writing magic: %v", err)
	}

	if err := abin.Write(w, int32(len(details.Chromosomes))); err != nil {
		return err
	}
	for _, chromosome := range details.Chromosomes {
		if err := abin.WriteString(w, chromosome.Name); err != nil {
			return err
		}
		if err := abin.Write(w, chromosome.Length); err != nil {
			return err
		}
	}

	if err := abin.Write(w, int32(len(details.Resolutions))); err != nil {
		return err
	}
	for _, resolution := range details.Resolutions {
		if err := abin.Write(w, resolution); err != nil {
			return err
		}
	}

	for _, resolution := range details.Resolutions {
		block := append([]Cell(nil), cells[resolution]...)
		sort.Slice(block, func(i, j int) bool {
			if block[i].X != block[j].X {
				return block[i].X < block[j].X
			}
			return block[i].Y < block[j].Y
		})
		if err := abin.Write(w, int64(len(block))); err != nil {
			return err
		}
		if err := abin.Write(w, block); err != nil {
			return err
		}
	}

	return nil
}

// Handle is a single-resolution, in-memory view of one dataset.
type Handle struct {
	bins   *genomics.BinIndex
	cells  []Cell // sorted by (X, Y)
	closed bool
}

var errClosed = errors.New("dataset handle is closed")

// Range returns the interactions anchored in the queried region in cell
// storage order.
func (h *Handle) Range(_ context.Context, query genomics.RangeQuery) (*genomics.RangeResult, error) {
	if h.closed {
		return nil, errClosed
	}

	lo, hi, log, err := h.bins.BinSpan(query.Region)
	if err != nil {
		return nil, err
	}
	result := &genomics.RangeResult{Log: log}

	yLo, yHi := int64(0), h.bins.Bins()-1
	if query.Limit != nil {
		var limitLog []string
		yLo, yHi, limitLog, err = h.bins.BinSpan(*query.Limit)
		if err != nil {
			return nil, err
		}
		result.Log = append(result.Log, limitLog...)
	}

	first := sort.Search(len(h.cells), func(i int) bool { return h.cells[i].X >= lo })
	for i := first; i < len(h.cells) && h.cells[i].X <= hi; i++ {
		cell := h.cells[i]
		if cell.Y < yLo || cell.Y > yHi {
			continue
		}
		chrA, startA, err := h.bins.Locate(cell.X)
		if err != nil {
			return nil, err
		}
		chrB, startB, err := h.bins.Locate(cell.Y)
		if err != nil {
			return nil, err
		}
		result.Interactions = append(result.Interactions, genomics.Interaction{
			ChrA: chrA, StartA: startA,
			ChrB: chrB, StartB: startB,
			Value: cell.Value,
		})
	}

	if query.Limit != nil && len(result.Interactions) == 0 {
		result.Log = append(result.Log,
			fmt.Sprintf("no interactions between %s and %s", query.Region, *query.Limit))
	}

	return result, nil
}

// Value returns the matrix value at bin (x, y).  Cells not present in the
// file are zero.
func (h *Handle) Value(_ context.Context, x, y int64) (int64, error) {
	if h.closed {
		return 0, errClosed
	}
	if x < 0 || x >= h.bins.Bins() {
		return 0, fmt.Errorf("pos_x %d outside dataset (0-%d)", x, h.bins.Bins()-1)
	}
	if y < 0 || y >= h.bins.Bins() {
		return 0, fmt.Errorf("pos_y %d outside dataset (0-%d)", y, h.bins.Bins()-1)
	}

	i := sort.Search(len(h.cells), func(i int) bool {
		if h.cells[i].X != x {
			return h.cells[i].X > x
		}
		return h.cells[i].Y >= y
	})
	if i < len(h.cells) && h.cells[i].X == x && h.cells[i].Y == y {
		return h.cells[i].Value, nil
	}
	return 0, nil
}

// ChromosomeForIndex resolves a global bin index to its chromosome.
func (h *Handle) ChromosomeForIndex(index int64) (string, error) {
	if h.closed {
		return "", errClosed
	}
	return h.bins.ChromosomeForBin(index)
}

// Close releases the handle.
func (h *Handle) Close() error {
	h.cells = nil
	h.closed = true
	return nil
}
