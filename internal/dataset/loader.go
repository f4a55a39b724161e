package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dataset names used in logs, metrics and errors.
const (
	NameMaster    = "master"
	NameChangeLog = "change_log"
	NameEnriched  = "enriched"
)

// Sources locates the three datasets and describes how to read them.
type Sources struct {
	MasterPath    string
	ChangeLogPath string
	EnrichedPath  string
	Encoding      string
	DateLayout    string
	RegionColumns []string
}

// LoadObserver receives the outcome of every load attempt.
type LoadObserver interface {
	ObserveLoad(ctx context.Context, duration time.Duration, rows map[string]int, err error)
}

// Loader reads the three datasets. It has no state of its own; caching is
// the job of Cache.
type Loader struct {
	sources  Sources
	logger   *slog.Logger
	observer LoadObserver
}

// NewLoader creates a loader. observer may be nil.
func NewLoader(sources Sources, logger *slog.Logger, observer LoadObserver) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sources:  sources,
		logger:   logger.With(slog.String("component", "dataset_loader")),
		observer: observer,
	}
}

// Load reads all three files concurrently. If any one fails the whole load
// fails and no partial snapshot is returned.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	snap, err := l.load(ctx)
	elapsed := time.Since(start)

	var rows map[string]int
	if err != nil {
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed))
	} else {
		rows = snap.Rows()
		l.logger.InfoContext(ctx, "datasets loaded",
			slog.Int("master_rows", rows[NameMaster]),
			slog.Int("change_log_rows", rows[NameChangeLog]),
			slog.Int("enriched_rows", rows[NameEnriched]),
			slog.String("master_identifier", snap.Master.Identifier.String()),
			slog.String("change_log_identifier", snap.ChangeLog.Identifier.String()),
			slog.String("enriched_identifier", snap.Enriched.Identifier.String()),
			slog.Duration("duration", elapsed))
	}
	if l.observer != nil {
		l.observer.ObserveLoad(ctx, elapsed, rows, err)
	}
	return snap, err
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	enc, err := LookupEncoding(l.sources.Encoding)
	if err != nil {
		return nil, err
	}

	var master, changeLog, enriched *Table
	g, gctx := errgroup.WithContext(ctx)
	read := func(dst **Table, name, path string) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l.logger.DebugContext(gctx, "reading dataset",
				slog.String("dataset", name),
				slog.String("path", path))
			t, err := ReadTable(name, path, enc)
			if err != nil {
				return err
			}
			*dst = t
			return nil
		})
	}
	read(&master, NameMaster, l.sources.MasterPath)
	read(&changeLog, NameChangeLog, l.sources.ChangeLogPath)
	read(&enriched, NameEnriched, l.sources.EnrichedPath)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}

	snap := NewSnapshot(master, changeLog, enriched, l.sources.DateLayout, l.sources.RegionColumns)
	snap.LoadedAt = time.Now()
	return snap, nil
}
