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

// Package sqlite provides an adjacency store backed by SQLite dataset files.
//
// Each dataset is one database at <dir>/<user_id>/<file_id>.db with three
// tables:
//
//	chromosomes(ord INTEGER PRIMARY KEY, name TEXT, length INTEGER)
//	resolutions(resolution INTEGER PRIMARY KEY)
//	interactions(resolution INTEGER, x INTEGER, y INTEGER, value INTEGER)
//
// x and y are global bin indices at the row's resolution, numbered
// consecutively across chromosomes in ord order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/multiscale-genomics/mg-rest-adjacency/api"
	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

// Store reads datasets laid out as <dir>/<user_id>/<file_id>.db.
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

func (s *Store) openDatabase(userID, fileID string) (*sql.DB, error) {
	path := filepath.Join(s.dir, userID, fileID+".db")
	// sql.Open would silently create an empty database for a bad file_id.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening dataset %q: %v", fileID, err)
	}
	return sql.Open("sqlite", path)
}

// Details returns the chromosome listing and supported resolutions of a
// dataset.
func (s *Store) Details(ctx context.Context, userID, fileID string) (genomics.Details, error) {
	var details genomics.Details

	db, err := s.openDatabase(userID, fileID)
	if err != nil {
		return details, err
	}
	defer db.Close()

	return readDetails(ctx, db)
}

func readDetails(ctx context.Context, db *sql.DB) (genomics.Details, error) {
	var details genomics.Details

	rows, err := db.QueryContext(ctx, "SELECT name, length FROM chromosomes ORDER BY ord")
	if err != nil {
		return details, fmt.Errorf("listing chromosomes: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var chromosome genomics.Chromosome
		if err := rows.Scan(&chromosome.Name, &chromosome.Length); err != nil {
			return details, fmt.Errorf("scanning chromosome: %v", err)
		}
		details.Chromosomes = append(details.Chromosomes, chromosome)
	}
	if err := rows.Err(); err != nil {
		return details, err
	}

	resolutions, err := db.QueryContext(ctx, "SELECT resolution FROM resolutions ORDER BY resolution")
	if err != nil {
		return details, fmt.Errorf("listing resolutions: %v", err)
	}
	defer resolutions.Close()
	for resolutions.Next() {
		var resolution int64
		if err := resolutions.Scan(&resolution); err != nil {
			return details, fmt.Errorf("scanning resolution: %v", err)
		}
		details.Resolutions = append(details.Resolutions, resolution)
	}
	return details, resolutions.Err()
}

// Open returns a handle over the dataset at one resolution.  The underlying
// database connection is held until the handle is closed.
func (s *Store) Open(ctx context.Context, userID, fileID string, resolution int64) (api.DatasetHandle, error) {
	db, err := s.openDatabase(userID, fileID)
	if err != nil {
		return nil, err
	}

	details, err := readDetails(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !details.SupportsResolution(resolution) {
		db.Close()
		return nil, fmt.Errorf("resolution %d not present in dataset", resolution)
	}
	bins, err := genomics.NewBinIndex(details.Chromosomes, resolution)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("dataset opened",
		zap.String("file_id", fileID),
		zap.Int64("resolution", resolution))

	return &Handle{db: db, bins: bins, resolution: resolution}, nil
}

// Handle is a request-scoped view of one dataset at one resolution.
type Handle struct {
	db         *sql.DB
	bins       *genomics.BinIndex
	resolution int64
}

// Range returns the interactions anchored in the queried region, ordered by
// (x, y) bin coordinates.
func (h *Handle) Range(ctx context.Context, query genomics.RangeQuery) (*genomics.RangeResult, error) {
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

	rows, err := h.db.QueryContext(ctx,
		`SELECT x, y, value FROM interactions
		 WHERE resolution = ? AND x BETWEEN ? AND ? AND y BETWEEN ? AND ?
		 ORDER BY x, y`,
		h.resolution, lo, hi, yLo, yHi)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var x, y, value int64
		if err := rows.Scan(&x, &y, &value); err != nil {
			return nil, fmt.Errorf("scanning interaction: %v", err)
		}
		chrA, startA, err := h.bins.Locate(x)
		if err != nil {
			return nil, err
		}
		chrB, startB, err := h.bins.Locate(y)
		if err != nil {
			return nil, err
		}
		result.Interactions = append(result.Interactions, genomics.Interaction{
			ChrA: chrA, StartA: startA,
			ChrB: chrB, StartB: startB,
			Value: value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if query.Limit != nil && len(result.Interactions) == 0 {
		result.Log = append(result.Log,
			fmt.Sprintf("no interactions between %s and %s", query.Region, *query.Limit))
	}

	return result, nil
}

// Value returns the matrix value at bin (x, y).  Cells without a stored row
// are zero.
func (h *Handle) Value(ctx context.Context, x, y int64) (int64, error) {
	if x < 0 || x >= h.bins.Bins() {
		return 0, fmt.Errorf("pos_x %d outside dataset (0-%d)", x, h.bins.Bins()-1)
	}
	if y < 0 || y >= h.bins.Bins() {
		return 0, fmt.Errorf("pos_y %d outside dataset (0-%d)", y, h.bins.Bins()-1)
	}

	var value int64
	err := h.db.QueryRowContext(ctx,
		"SELECT value FROM interactions WHERE resolution = ? AND x = ? AND y = ?",
		h.resolution, x, y).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying value: %v", err)
	}
	return value, nil
}

// ChromosomeForIndex resolves a global bin index to its chromosome.
func (h *Handle) ChromosomeForIndex(index int64) (string, error) {
	return h.bins.ChromosomeForBin(index)
}

// Close releases the handle and its database connection.
func (h *Handle) Close() error {
	return h.db.Close()
}
