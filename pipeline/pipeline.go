// Package pipeline wires the parse, classify, enrich, link and merge stages
// into a single sequential batch run. A failure on one object never aborts
// the rest of the batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"advault/config"
	"advault/directory"
	"advault/enrich"
	"advault/link"
	"advault/store"
	"advault/vault"
)

// Source is one input stream. Forced set to anything but ClassUnknown
// asserts the stream is entirely that variant and bypasses classification,
// which lets minimal pre-partitioned dumps through without objectclass data.
type Source struct {
	Name   string
	Reader io.Reader
	Forced directory.Class
}

// Stats summarizes one run.
type Stats struct {
	Users     int
	Groups    int
	Computers int

	SkippedObjects int

	Created     int
	Overwritten int
	Appended    int
	Unchanged   int
	Skipped     int
}

// Pipeline runs ingestion batches against one document store. Now may be set
// before Run for a deterministic staleness clock; zero means wall clock.
type Pipeline struct {
	Now time.Time

	cfg    config.Config
	store  store.DocumentStore
	known  link.Index
	logger zerolog.Logger
	runID  uuid.UUID
}

func New(cfg config.Config, st store.DocumentStore, known link.Index, runID uuid.UUID, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		known:  known,
		logger: logger,
		runID:  runID,
	}
}

// RunID identifies this pipeline instance's ingestion run.
func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

// Run ingests all sources as one batch: every object is parsed and enriched
// before linking, because cross-references can only resolve against the
// complete batch. Documents are then reconciled and written sequentially.
func (p *Pipeline) Run(ctx context.Context, sources []Source) (Stats, error) {
	var stats Stats
	logger := p.logger.With().Stringer("run_id", p.runID).Logger()

	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	enrichCfg := enrich.Config{
		LogonCountThreshold: p.cfg.LogonCountThreshold,
		StaleLogonDays:      p.cfg.StaleLogonDays,
		Now:                 now,
	}

	var objects []*directory.Object
	for _, src := range sources {
		for _, res := range p.parseSource(src, enrichCfg, logger) {
			if res.Err != nil {
				stats.SkippedObjects++
				logger.Warn().
					Str("source", src.Name).
					Int("block", res.Block.Seq).
					Int("line", res.Block.Line).
					Err(res.Err).
					Msg("skipping object")
				continue
			}
			objects = append(objects, res.Object)
		}
	}

	batch := link.NewBatch(objects, p.known)
	batch.TagAdmins(p.cfg.PrivilegedGroups, logger)

	written := make(map[store.Ref]bool)
	for _, obj := range batch.Objects {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		switch obj.Class {
		case directory.ClassUser:
			stats.Users++
		case directory.ClassGroup:
			stats.Groups++
		case directory.ClassComputer:
			stats.Computers++
		}

		ref := store.Ref{Class: obj.Class, Name: obj.DisplayName}
		if err := p.writeObject(ctx, ref, obj, batch, written[ref], &stats, logger); err != nil {
			stats.SkippedObjects++
			logger.Error().Str("identity", obj.Identity).Err(err).Msg("document write failed")
			continue
		}
		written[ref] = true
	}

	logger.Info().
		Int("users", stats.Users).
		Int("groups", stats.Groups).
		Int("computers", stats.Computers).
		Int("created", stats.Created).
		Int("overwritten", stats.Overwritten).
		Int("appended", stats.Appended).
		Int("unchanged", stats.Unchanged).
		Int("skipped", stats.Skipped).
		Int("skipped_objects", stats.SkippedObjects).
		Msg("run complete")

	return stats, nil
}

func (p *Pipeline) parseSource(src Source, enrichCfg enrich.Config, logger zerolog.Logger) []*directory.ParseResult {
	var results []*directory.ParseResult
	opts := directory.SplitOptions{Separator: p.cfg.Separator}

	err := directory.EachBlock(src.Reader, opts, func(block directory.RawBlock) error {
		results = append(results, p.buildObject(block, src.Forced, enrichCfg, logger))
		return nil
	})
	if err != nil {
		logger.Error().Str("source", src.Name).Err(err).Msg("input truncated")
	}
	return results
}

// buildObject runs the pure per-object stages: record building,
// classification and enrichment.
func (p *Pipeline) buildObject(block directory.RawBlock, forced directory.Class, enrichCfg enrich.Config, logger zerolog.Logger) *directory.ParseResult {
	res := &directory.ParseResult{Block: block}

	rec, err := directory.BuildRecord(block, p.cfg.Delimiter, logger)
	if err != nil {
		res.Err = err
		return res
	}

	class := forced
	if class == directory.ClassUnknown {
		if class, err = directory.Classify(rec); err != nil {
			res.Err = err
			return res
		}
	}

	obj, err := directory.NewObject(rec, class, p.cfg.FilenameSeed)
	if err != nil {
		res.Err = err
		return res
	}

	enrich.Apply(obj, enrichCfg, logger)
	res.Object = obj
	return res
}

// writeObject reconciles one object's document against stored state.
// sameRun forces append semantics for an identity already written this run:
// colliding identities are the same logical entity and must merge, whatever
// the configured mode says about prior runs.
func (p *Pipeline) writeObject(ctx context.Context, ref store.Ref, obj *directory.Object, batch *link.Batch, sameRun bool, stats *Stats, logger zerolog.Logger) error {
	fresh := vault.FromObject(obj, batch.Display)

	existing, ok, err := p.store.Read(ctx, ref)
	if err != nil {
		return fmt.Errorf("reading existing document: %w", err)
	}

	mode := p.cfg.Mode
	if sameRun {
		mode = config.ModeAppend
	}

	switch {
	case !ok:
		if err := p.store.Write(ctx, ref, fresh.Render()); err != nil {
			return err
		}
		stats.Created++
	case mode == config.ModeAppend:
		merged := vault.Reconcile(existing, fresh, logger)
		if merged == existing {
			stats.Unchanged++
			return nil
		}
		if err := p.store.Write(ctx, ref, merged); err != nil {
			return err
		}
		stats.Appended++
	case mode == config.ModeOverwrite:
		if err := p.store.Write(ctx, ref, fresh.Render()); err != nil {
			return err
		}
		stats.Overwritten++
	default:
		logger.Debug().Str("identity", obj.Identity).Msg("document exists, skipping")
		stats.Skipped++
	}
	return nil
}
