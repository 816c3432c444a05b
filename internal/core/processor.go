package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pass2bw/constants"
	"pass2bw/internal/extract"
	"pass2bw/internal/gpg"
	"pass2bw/internal/ingest"
	"pass2bw/internal/manifest"
)

// Processor coordinates the stages: walk the store, decrypt each entry, run
// the field-extraction engine. Decryption runs with bounded parallelism;
// extraction runs sequentially in walk order so output order matches input
// order and diagnostics stay attributable to their entry.
type Processor struct {
	logger    *slog.Logger
	walker    *ingest.Walker
	decryptor *gpg.Decryptor
	engine    *extract.Engine
	manifest  *manifest.Store // nil disables the audit trail
	jobs      int
	timeout   time.Duration // per-entry decryption deadline; 0 disables
}

func NewProcessor(
	logger *slog.Logger,
	walker *ingest.Walker,
	decryptor *gpg.Decryptor,
	engine *extract.Engine,
	store *manifest.Store,
	jobs int,
	timeout time.Duration,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if jobs < 1 {
		jobs = 4
	}
	return &Processor{
		logger:    logger,
		walker:    walker,
		decryptor: decryptor,
		engine:    engine,
		manifest:  store,
		jobs:      jobs,
		timeout:   timeout,
	}
}

// RunStats aggregates one conversion run.
type RunStats struct {
	RunID    uuid.UUID // zero when no manifest is configured
	Scanned  uint32
	Matched  uint32
	Exported uint32
	Failed   uint32
}

// Run converts every entry under root into a record. Entries that fail to
// decrypt yield no record and are counted, never fatal; only traversal
// failures and cancellation abort the run.
func (p *Processor) Run(ctx context.Context, root string) ([]extract.Record, RunStats, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, RunStats{}, fmt.Errorf("resolve store root: %w", err)
	}

	files, dirStats, err := p.walker.Walk(ctx, absRoot)
	if err != nil {
		return nil, RunStats{}, fmt.Errorf("walk store: %w", err)
	}
	stats := RunStats{
		Scanned: dirStats.Scanned,
		Matched: dirStats.Matched,
		Failed:  dirStats.Failed,
	}

	if p.manifest != nil {
		stats.RunID, err = p.manifest.BeginRun(ctx, absRoot)
		if err != nil {
			return nil, stats, err
		}
	}

	texts := make([]string, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)
	for i, f := range files {
		i, f := i, f
		if f.Err != "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// The deadline governs the external gpg process, so a hung
			// pinentry cannot stall the whole run.
			dctx := gctx
			if p.timeout > 0 {
				var cancel context.CancelFunc
				dctx, cancel = context.WithTimeout(gctx, p.timeout)
				defer cancel()
			}
			text, err := p.decryptor.Decrypt(dctx, f.SourcePath)
			if err != nil {
				errs[i] = err // per-entry failure, not fatal
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	records := make([]extract.Record, 0, len(files))
	for i, f := range files {
		switch {
		case f.Err != "":
			p.recordEntry(ctx, stats.RunID, f, constants.EntryStatusUnreadable, f.Err)
		case errs[i] != nil:
			p.logger.Error("entry skipped", "path", f.SourcePath, "error", errs[i])
			stats.Failed++
			p.recordEntry(ctx, stats.RunID, f, constants.EntryStatusDecryptFailed, errs[i].Error())
		default:
			rec := p.engine.Extract(absRoot, extract.Entry{Path: f.EntryPath, Text: texts[i]})
			records = append(records, rec)
			stats.Exported++
			status := constants.EntryStatusParsed
			if texts[i] == "" {
				status = constants.EntryStatusEmpty
			}
			p.recordEntry(ctx, stats.RunID, f, status, "")
		}
	}

	p.logger.Info("conversion complete",
		"root", absRoot,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"exported", stats.Exported,
		"failed", stats.Failed,
	)
	return records, stats, nil
}

// Finish stamps the manifest run row, when a manifest is configured.
func (p *Processor) Finish(ctx context.Context, stats RunStats, outputPath string) error {
	if p.manifest == nil {
		return nil
	}
	return p.manifest.FinishRun(ctx, stats.RunID, manifest.RunSummary{
		Scanned:    stats.Scanned,
		Matched:    stats.Matched,
		Exported:   stats.Exported,
		Failed:     stats.Failed,
		OutputPath: outputPath,
	})
}

func (p *Processor) recordEntry(ctx context.Context, runID uuid.UUID, f ingest.File, status constants.EntryStatus, errMsg string) {
	if p.manifest == nil {
		return
	}
	if err := p.manifest.RecordEntry(ctx, runID, f.SourcePath, f.HashHex, status, errMsg); err != nil {
		p.logger.Warn("manifest write failed", "path", f.SourcePath, "error", err)
	}
}
