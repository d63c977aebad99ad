package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/youngOS1998/gameskill-data-process/internal/config"
)

// Attempt identifies a step of the two-tier extraction progression.
type Attempt int

const (
	AttemptNone Attempt = iota
	// AttemptCopy is the fast path: container-level trimming with no
	// re-encode, near-instant when the source format cooperates.
	AttemptCopy
	// AttemptEncode is the fallback: full decode/re-encode.
	AttemptEncode
)

func (a Attempt) String() string {
	switch a {
	case AttemptCopy:
		return "copy"
	case AttemptEncode:
		return "encode"
	}
	return "none"
}

// Cutter extracts time-bounded sub-clips from source videos. Each attempt
// overwrites the output path explicitly, so retries are safe and
// deterministic.
type Cutter struct {
	Preset        string
	CRF           int
	TryCopyFirst  bool
	Threads       int
	CopyTimeout   time.Duration
	EncodeTimeout time.Duration

	runner   Runner
	hasProbe bool
}

// NewCutter builds a cutter from encode settings. workers is the extraction
// pool size; the per-process ffmpeg thread count is the machine's CPUs
// divided across the pool, clamped to [2,4] so concurrent extractions do
// not oversubscribe the machine.
func NewCutter(settings config.EncodeSettings, workers int) *Cutter {
	return &Cutter{
		Preset:        settings.Preset,
		CRF:           settings.CRF,
		TryCopyFirst:  settings.TryCopyFirst,
		Threads:       threadsPerWorker(runtime.NumCPU(), workers),
		CopyTimeout:   time.Duration(settings.CopyTimeoutSec) * time.Second,
		EncodeTimeout: time.Duration(settings.EncodeTimeoutSec) * time.Second,
		runner:        ExecRunner{},
		hasProbe:      ProbeAvailable(),
	}
}

func threadsPerWorker(cpus, workers int) int {
	if workers < 1 {
		workers = 1
	}
	threads := cpus / workers
	if threads < 2 {
		threads = 2
	}
	if threads > 4 {
		threads = 4
	}
	return threads
}

// Extract produces a playable sub-clip of src covering [start, end),
// written to dst. The stream-copy attempt runs first (when enabled); if the
// tool fails, times out, or the output does not verify, the re-encode
// fallback runs with its own longer timeout. Returns the attempt that
// produced the verified output.
func (c *Cutter) Extract(ctx context.Context, src, dst string, start, end float64) (Attempt, error) {
	if _, err := os.Stat(src); err != nil {
		return AttemptNone, fmt.Errorf("source video: %w", err)
	}

	var copyErr error
	if c.TryCopyFirst {
		copyErr = c.attempt(ctx, AttemptCopy, src, dst, start, end)
		if copyErr == nil {
			return AttemptCopy, nil
		}
		slog.Debug("stream-copy extraction failed, re-encoding",
			"output", filepath.Base(dst), "err", copyErr)
	}

	if err := c.attempt(ctx, AttemptEncode, src, dst, start, end); err != nil {
		if copyErr != nil {
			return AttemptEncode, fmt.Errorf("copy: %v; encode: %w", copyErr, err)
		}
		return AttemptEncode, err
	}
	return AttemptEncode, nil
}

// attempt runs one bounded tool invocation and verifies its output.
func (c *Cutter) attempt(ctx context.Context, mode Attempt, src, dst string, start, end float64) error {
	timeout := c.CopyTimeout
	args := c.copyArgs(src, dst, start, end)
	if mode == AttemptEncode {
		timeout = c.EncodeTimeout
		args = c.encodeArgs(src, dst, start, end)
	}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := c.runner.Run(actx, "ffmpeg", args...); err != nil {
		return err
	}
	return c.verifyOutput(ctx, dst)
}

// copyArgs builds the fast-path invocation: seek before input opening,
// stream copy, negative-timestamp correction, explicit overwrite.
func (c *Cutter) copyArgs(src, dst string, start, end float64) []string {
	return []string{
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(end - start),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y",
		"-loglevel", "error",
		dst,
	}
}

// encodeArgs builds the fallback invocation: libx264 with the configured
// preset and CRF, compatibility pixel format, fast-start container flag,
// reduced audio bitrate, and the clamped thread count.
func (c *Cutter) encodeArgs(src, dst string, start, end float64) []string {
	return []string{
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(end - start),
		"-c:v", "libx264",
		"-preset", c.Preset,
		"-crf", strconv.Itoa(c.CRF),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-c:a", "aac",
		"-b:a", "96k",
		"-threads", strconv.Itoa(c.Threads),
		"-avoid_negative_ts", "make_zero",
		"-y",
		"-loglevel", "error",
		dst,
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
