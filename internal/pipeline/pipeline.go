// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"scaffold/internal/alignment"
	"scaffold/internal/contig"
	"scaffold/internal/linkage"
)

// Config controls one run.
type Config struct {
	QueueSize int // batches buffered between reader and aggregator (>=1)
	Reader    alignment.Options
	Linkage   linkage.Options // Grouping may be GroupAuto
}

// Result is everything the run produced.
type Result struct {
	Table       *linkage.Table
	Stats       linkage.Stats
	Skipped     int // malformed alignment records
	Format      alignment.Format
	Grouping    linkage.Grouping // after resolving GroupAuto
	MissingRefs int              // header references absent from the contig table
}

const batchSize = 256

// Run reads alnPath to the end and aggregates it against contigs.
// Open failures are returned before any goroutine starts.
func Run(ctx context.Context, cfg Config, alnPath string, contigs *contig.Table) (Result, error) {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	r, err := alignment.Open(alnPath, cfg.Reader)
	if err != nil {
		return Result{}, err
	}
	defer r.Close()

	res := Result{Format: r.Format()}
	for _, ref := range r.Header().Refs() {
		if _, ok := contigs.Lookup(ref.Name()); !ok {
			res.MissingRefs++
		}
	}
	lopts := cfg.Linkage
	lopts.Grouping = lopts.Grouping.Resolve(r.Header().SortOrder)
	res.Grouping = lopts.Grouping

	batches := make(chan []alignment.Record, cfg.QueueSize)
	g, gctx := errgroup.WithContext(ctx)

	// Producer
	g.Go(func() error {
		defer close(batches)
		batch := make([]alignment.Record, 0, batchSize)
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			batch = append(batch, rec)
			if len(batch) < batchSize {
				continue
			}
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
			batch = make([]alignment.Record, 0, batchSize)
		}
		if len(batch) > 0 {
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Consumer
	agg := linkage.NewAggregator(contigs, lopts)
	g.Go(func() error {
		for batch := range batches {
			for _, rec := range batch {
				agg.Add(rec)
			}
			if err := gctx.Err(); err != nil {
				// drain so the producer is never stuck on a full channel
				for range batches {
				}
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res.Table, res.Stats = agg.Finish()
	res.Skipped = r.Skipped()
	return res, nil
}
