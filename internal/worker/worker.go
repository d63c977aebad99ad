package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/youngOS1998/gameskill-data-process/internal/config"
	"github.com/youngOS1998/gameskill-data-process/internal/ffmpeg"
	"github.com/youngOS1998/gameskill-data-process/internal/jsonl"
	"github.com/youngOS1998/gameskill-data-process/internal/pipeline"

	"github.com/google/uuid"
)

// Run is the top-level orchestrator: read and shard the input, segment and
// filter clips, fan extraction out to the pool, write records in
// deterministic order, audit, and summarize.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	runID := uuid.NewString()[:8]
	log := slog.With("run_id", runID)

	stats := NewStats()

	records, err := readInput(cfg, stats, log)
	if err != nil {
		return err
	}

	clips := buildClips(cfg, records)
	log.Info("clips selected", "videos", len(records), "clips", len(clips))

	cut := !cfg.SkipVideoCut
	if cut && !ffmpeg.Available() {
		log.Warn("ffmpeg not found on PATH, generating data records only")
		cut = false
	}
	if cut {
		if err := os.MkdirAll(cfg.OutputVideoDir, 0o755); err != nil {
			return fmt.Errorf("create output video dir: %w", err)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	dataPath := cfg.DataPath
	if dataPath == "" {
		if abs, err := os.Getwd(); err == nil {
			dataPath = abs
		}
	}

	opts := poolOptions{
		Workers:        workers,
		SpawnRate:      cfg.SpawnRatePerMin,
		VideoDir:       cfg.VideoDir,
		OutputVideoDir: cfg.OutputVideoDir,
		DataPath:       dataPath,
		Cut:            cut,
	}
	if cut {
		opts.Cutter = ffmpeg.NewCutter(cfg.Encode, workers)
		log.Info("starting extraction pool",
			"workers", workers,
			"preset", cfg.Encode.Preset,
			"crf", cfg.Encode.CRF,
			"try_copy_first", cfg.Encode.TryCopyFirst)
	}

	outcomes := processClips(ctx, clips, opts)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeOutcomes(cfg.Output, outcomes, cut, stats, log); err != nil {
		return err
	}

	if cut {
		missing, err := auditOutput(cfg.Output, cfg.OutputVideoDir, log)
		if err != nil {
			log.Warn("output audit failed", "err", err)
		} else {
			stats.MissingFiles = missing
		}
	}

	stats.Elapsed = time.Since(start)
	log.Info("run complete",
		"clips", stats.ClipsEmitted,
		"extract_ok", stats.ExtractOK,
		"extract_failed", stats.ExtractFailed,
		"videos_extracted", len(stats.DistinctVideos))
	fmt.Println(stats.Summary(runID, cut))
	return nil
}

// readInput decodes the input stream and applies the shard selector and
// video cap. An unreadable input is the one fatal input condition;
// malformed lines are skipped inside the decoder.
func readInput(cfg *config.Config, stats *Stats, log *slog.Logger) ([]jsonl.SourceRecord, error) {
	index, total, err := config.ParsePart(cfg.Part)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, skipped, err := jsonl.DecodeRecords(f)
	if err != nil {
		return nil, err
	}
	stats.SkippedInput = skipped
	log.Info("input decoded", "records", len(records), "skipped", skipped)

	if total > 1 {
		var shard []jsonl.SourceRecord
		for i := index - 1; i < len(records); i += total {
			shard = append(shard, records[i])
		}
		records = shard
		log.Info("shard selected", "part", cfg.Part, "records", len(records))
	}

	if cfg.MaxVideos > 0 && len(records) > cfg.MaxVideos {
		records = records[:cfg.MaxVideos]
		log.Info("video cap applied", "max_videos", cfg.MaxVideos)
	}
	return records, nil
}

// buildClips runs the pure pipeline stages over every record: word stream,
// segmentation, density filtering, per-video cap.
func buildClips(cfg *config.Config, records []jsonl.SourceRecord) []pipeline.Clip {
	segmenter := pipeline.NewSegmenter(cfg.Clip)
	filter := pipeline.NewDensityFilter(cfg.Clip)

	var clips []pipeline.Clip
	for _, src := range records {
		rec := &pipeline.VideoRecord{
			VideoID:  src.VideoID,
			Title:    src.Title,
			Category: src.Category,
			Words:    pipeline.BuildWordStream(src.Subtitles),
		}

		kept := 0
		for _, clip := range segmenter.Segment(rec) {
			if !filter.Accept(&clip) {
				continue
			}
			if cfg.Clip.MaxClipsPerVideo > 0 && kept >= cfg.Clip.MaxClipsPerVideo {
				slog.Debug("per-video clip cap reached",
					"video", src.VideoID, "cap", cfg.Clip.MaxClipsPerVideo)
				break
			}
			clips = append(clips, clip)
			kept++
		}
	}
	return clips
}

// writeOutcomes streams one record per outcome, in original clip order,
// and merges the outcome counters. A clip whose extraction failed still
// yields a record; only outcomes without a record (per-clip faults) are
// logged and counted as failures.
func writeOutcomes(path string, outcomes []Outcome, cut bool, stats *Stats, log *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	w := jsonl.NewWriter(f)
	for i := range outcomes {
		o := &outcomes[i]
		if o.Record == nil {
			log.Warn("clip produced no record", "video", o.VideoID, "err", o.Err)
			stats.ExtractFailed++
			continue
		}
		if err := w.Write(o.Record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		stats.AddOutcome(o, cut)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	log.Info("records written", "path", path, "count", stats.ClipsEmitted)
	return nil
}
