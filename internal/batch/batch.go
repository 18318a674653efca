// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch accumulates expression records and writes them to a store
// in bounded bulk inserts.
package batch

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// Inserter writes one batch in a single round trip. Implementations must
// not retain recs after returning; the Loader reuses the backing array.
type Inserter interface {
	InsertMany(ctx context.Context, recs []types.ExpressionRecord) error
}

// Source yields records in order, in the style of bufio.Scanner.
type Source interface {
	Next() bool
	Record() types.ExpressionRecord
	Err() error
}

// FlushFunc is called after every successful bulk insert with the batch
// sequence number (0-based within the Loader) and the batch size.
type FlushFunc func(seq, n int)

// Stats counts what a Loader has written.
type Stats struct {
	Records int `json:"records" yaml:"records"`
	Batches int `json:"batches" yaml:"batches"`
}

// Loader buffers records and flushes them to an Inserter every size records.
type Loader struct {
	ins     Inserter
	size    int
	buf     []types.ExpressionRecord
	stats   Stats
	onFlush FlushFunc
}

// New returns a Loader writing to ins. A size <= 0 selects
// types.DefaultBatchSize.
func New(ins Inserter, size int) *Loader {
	if size <= 0 {
		size = types.DefaultBatchSize
	}
	return &Loader{
		ins:  ins,
		size: size,
		buf:  make([]types.ExpressionRecord, 0, size),
	}
}

// OnFlush registers fn to be called after each bulk insert.
func (l *Loader) OnFlush(fn FlushFunc) { l.onFlush = fn }

// Size returns the batch threshold.
func (l *Loader) Size() int { return l.size }

// Pending returns the number of buffered, unwritten records.
func (l *Loader) Pending() int { return len(l.buf) }

// Stats returns counts of records and batches written so far.
func (l *Loader) Stats() Stats { return l.stats }

// Add appends rec and flushes once the batch reaches the threshold.
func (l *Loader) Add(ctx context.Context, rec types.ExpressionRecord) error {
	l.buf = append(l.buf, rec)
	if len(l.buf) >= l.size {
		return l.Flush(ctx)
	}
	return nil
}

// Flush writes any buffered records. Flushing an empty batch is a no-op.
func (l *Loader) Flush(ctx context.Context) error {
	if len(l.buf) == 0 {
		return nil
	}
	n := len(l.buf)
	if err := l.ins.InsertMany(ctx, l.buf); err != nil {
		return errors.Wrapf(err, "inserting batch %d (%d records)", l.stats.Batches, n)
	}
	seq := l.stats.Batches
	l.stats.Batches++
	l.stats.Records += n
	l.buf = l.buf[:0]
	if l.onFlush != nil {
		l.onFlush(seq, n)
	}
	return nil
}

// Load drains src into the Loader and flushes the remainder. It returns the
// stats accumulated during this call.
func (l *Loader) Load(ctx context.Context, src Source) (Stats, error) {
	before := l.stats
	for src.Next() {
		if err := l.Add(ctx, src.Record()); err != nil {
			return l.since(before), err
		}
	}
	if err := src.Err(); err != nil {
		return l.since(before), err
	}
	if err := l.Flush(ctx); err != nil {
		return l.since(before), err
	}
	return l.since(before), nil
}

func (l *Loader) since(before Stats) Stats {
	return Stats{
		Records: l.stats.Records - before.Records,
		Batches: l.stats.Batches - before.Batches,
	}
}
