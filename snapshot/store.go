// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package snapshot publishes the loaded survey dataset to concurrent readers.
//
// A dataset is only published after it has been fully loaded and validated.
// Reloads build a new dataset and swap the pointer; readers never observe a
// partially built snapshot and a failed reload leaves the old one in place.
package snapshot

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/danielhkuo/political-dashboard/survey"
)

// ErrNotLoaded is returned by Require before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// LoaderFunc builds a dataset from its backing file.
type LoaderFunc func(ctx context.Context) (*survey.Dataset, error)

// Observer is called after every publish with the new dataset.
type Observer func(ctx context.Context, ds *survey.Dataset)

// Store holds the current dataset.
type Store struct {
	load    LoaderFunc
	current atomic.Pointer[survey.Dataset]

	mu        sync.Mutex // serializes reloads and observer registration
	observers []Observer
}

// NewStore returns an empty store that loads with fn.
func NewStore(fn LoaderFunc) *Store {
	return &Store{load: fn}
}

// FileLoader loads the workbook at path with the given options.
func FileLoader(path string, opts survey.LoadOptions) LoaderFunc {
	return func(ctx context.Context) (*survey.Dataset, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return survey.Load(path, opts)
	}
}

// OnPublish registers an observer. Observers run synchronously, in
// registration order, on the goroutine that published.
func (s *Store) OnPublish(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load builds a new dataset and publishes it. On error the previously
// published dataset, if any, stays current.
func (s *Store) Load(ctx context.Context) (*survey.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.publishLocked(ctx, ds)
	return ds, nil
}

// Publish makes ds current without calling the loader.
func (s *Store) Publish(ctx context.Context, ds *survey.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(ctx, ds)
}

func (s *Store) publishLocked(ctx context.Context, ds *survey.Dataset) {
	prev := s.current.Swap(ds)

	zap.S().Infow("dataset published",
		"path", ds.Source.Path,
		"checksum", shortSum(ds.Source.Checksum),
		"size", humanize.Bytes(uint64(ds.Source.Size)),
		"countries", len(ds.Countries()),
		"issues", ds.Problems.Len(),
		"orientations", ds.Orientation.Len(),
		"replaced", prev != nil,
	)

	for _, fn := range s.observers {
		fn(ctx, ds)
	}
}

// Current returns the published dataset or nil before the first load.
func (s *Store) Current() *survey.Dataset {
	return s.current.Load()
}

// Require returns the published dataset or ErrNotLoaded.
func (s *Store) Require() (*survey.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
