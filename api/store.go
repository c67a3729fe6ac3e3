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
	"context"

	"github.com/multiscale-genomics/mg-rest-adjacency/internal/genomics"
)

// Store is an interface to the adjacency matrix storage engine.
type Store interface {
	// Details returns the chromosome listing and the supported resolutions
	// of a dataset.  It does not open a handle, so the resolution of a
	// request can be validated before any handle exists.
	Details(ctx context.Context, userID, fileID string) (genomics.Details, error)

	// Open returns a handle bound to one (user, file, resolution) triple.
	// The caller must close the handle on every exit path.
	Open(ctx context.Context, userID, fileID string, resolution int64) (DatasetHandle, error)
}

// DatasetHandle is a request-scoped view of one dataset at one resolution.
// Handles are never shared between requests.
type DatasetHandle interface {
	// Range returns the interactions anchored in the queried region, in
	// storage order, together with a log of recoverable anomalies.
	Range(ctx context.Context, query genomics.RangeQuery) (*genomics.RangeResult, error)

	// Value returns the interaction frequency at bin (x, y).
	Value(ctx context.Context, x, y int64) (int64, error)

	// ChromosomeForIndex resolves a global bin index to its chromosome.
	ChromosomeForIndex(index int64) (string, error)

	// Close releases the handle.
	Close() error
}
