package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/youngOS1998/gameskill-data-process/internal/ffmpeg"
	"github.com/youngOS1998/gameskill-data-process/internal/pipeline"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Extractor cuts one time-bounded sub-clip. Satisfied by *ffmpeg.Cutter;
// tests substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, src, dst string, start, end float64) (ffmpeg.Attempt, error)
}

// poolOptions configures one fan-out over the clip collection.
type poolOptions struct {
	Workers        int
	SpawnRate      int // ffmpeg launches per minute, 0 = unlimited
	VideoDir       string
	OutputVideoDir string
	DataPath       string
	Cut            bool
	Cutter         Extractor
}

// processClips fans the clips out to a bounded pool and returns one
// outcome per clip, sorted back into original clip order. Workers never
// fail the group: every per-clip fault is captured in its outcome, so one
// bad clip cannot abort the batch. Only context cancellation stops the run
// early.
func processClips(ctx context.Context, clips []pipeline.Clip, opts poolOptions) []Outcome {
	var limiter *rate.Limiter
	if opts.Cut && opts.SpawnRate > 0 {
		// Paces tool launches so a large batch does not stampede the
		// disk in its first seconds.
		limiter = rate.NewLimiter(rate.Limit(float64(opts.SpawnRate)/60.0), 1)
	}

	var (
		mu       sync.Mutex
		outcomes []Outcome
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range clips {
		i := i
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}

			outcome := processOneClip(gctx, &clips[i], i, opts)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Warn("clip processing interrupted", "err", err)
	}

	// Completion order is scheduling-dependent; output order must not be.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})
	return outcomes
}

// processOneClip is the bulkhead around one unit of work: format the
// record, then extract. A panic anywhere inside is converted into a failed
// outcome instead of propagating into the pool.
func processOneClip(ctx context.Context, clip *pipeline.Clip, index int, opts poolOptions) (outcome Outcome) {
	outcome = Outcome{Index: index, VideoID: clip.VideoID}

	defer func() {
		if r := recover(); r != nil {
			outcome.Extracted = false
			outcome.Err = fmt.Sprintf("panic: %v", r)
		}
	}()

	record, filename := FormatRecord(clip, opts.OutputVideoDir, opts.DataPath)
	outcome.Record = record
	outcome.VideoFilename = filename

	if !opts.Cut {
		return outcome
	}

	src := filepath.Join(opts.VideoDir, clip.VideoID+".mp4")
	dst := filepath.Join(opts.OutputVideoDir, filename)

	mode, err := opts.Cutter.Extract(ctx, src, dst, clip.StartTime(), clip.EndTime())
	if err != nil {
		outcome.Err = err.Error()
		slog.Debug("extraction failed",
			"video", clip.VideoID, "clip", filename, "err", err)
		return outcome
	}

	outcome.Extracted = true
	slog.Debug("extracted clip", "clip", filename, "mode", mode.String())
	return outcome
}
