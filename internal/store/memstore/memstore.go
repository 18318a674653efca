// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memstore keeps expression records in memory. It backs tests and
// dry runs.
package memstore

import (
	"context"
	"sync"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// Op names a call made against the store, in call order.
type Op string

const (
	OpReset       Op = "reset"
	OpInsert      Op = "insert"
	OpCreateIndex Op = "create_index"
	OpClose       Op = "close"
)

// Store records every call and, unless discarding, every inserted record.
type Store struct {
	mu      sync.Mutex
	discard bool
	records []types.ExpressionRecord
	count   int
	batches []int
	ops     []Op
	indexed bool
	closed  bool

	// InsertErr, when set, is returned by every InsertMany call.
	InsertErr error
}

// New returns an empty Store. With discard set, inserted records are only
// counted.
func New(discard bool) *Store {
	return &Store{discard: discard}
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, OpReset)
	s.records = nil
	s.count = 0
	s.indexed = false
	return nil
}

func (s *Store) InsertMany(ctx context.Context, recs []types.ExpressionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.ops = append(s.ops, OpInsert)
	s.batches = append(s.batches, len(recs))
	s.count += len(recs)
	if !s.discard {
		s.records = append(s.records, recs...)
	}
	return nil
}

func (s *Store) CreateIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, OpCreateIndex)
	s.indexed = true
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, OpClose)
	s.closed = true
	return nil
}

// Records returns a copy of the stored records.
func (s *Store) Records() []types.ExpressionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ExpressionRecord(nil), s.records...)
}

// Count returns the number of records inserted since the last reset.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Batches returns the size of every InsertMany call.
func (s *Store) Batches() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.batches...)
}

// Ops returns the calls made so far.
func (s *Store) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Op(nil), s.ops...)
}

// Indexed reports whether CreateIndex was called after the last reset.
func (s *Store) Indexed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexed
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
