package worker

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

// Outcome is the per-clip result produced by the pool. Immutable once
// created; the orchestrator aggregates outcomes after all workers join.
type Outcome struct {
	Index         int
	VideoID       string
	Record        *TrainingRecord
	VideoFilename string
	Extracted     bool
	Err           string
}

// Stats accumulates one run's counters. It is only ever touched from the
// orchestrator goroutine, after the pool has joined — never shared between
// workers.
type Stats struct {
	ClipsEmitted   int
	ExtractOK      int
	ExtractFailed  int
	DistinctVideos map[string]struct{}
	SkippedInput   int
	MissingFiles   int
	Elapsed        time.Duration
}

// NewStats returns an empty accumulator.
func NewStats() *Stats {
	return &Stats{DistinctVideos: make(map[string]struct{})}
}

// AddOutcome merges one written outcome into the counters.
func (s *Stats) AddOutcome(o *Outcome, cutting bool) {
	s.ClipsEmitted++
	if !cutting {
		return
	}
	if o.Extracted {
		s.ExtractOK++
		if o.VideoID != "" {
			s.DistinctVideos[o.VideoID] = struct{}{}
		}
	} else {
		s.ExtractFailed++
	}
}

// Summary renders the end-of-run counters. On a terminal it draws a table;
// otherwise it falls back to a single plain line suitable for logs.
func (s *Stats) Summary(runID string, cutting bool) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Sprintf("run %s: clips=%d extract_ok=%d extract_failed=%d videos=%d missing=%d skipped_input=%d elapsed=%s",
			runID, s.ClipsEmitted, s.ExtractOK, s.ExtractFailed, len(s.DistinctVideos), s.MissingFiles, s.SkippedInput, s.Elapsed.Round(time.Second))
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"run " + runID, ""})
	tw.AppendRow(table.Row{"clips emitted", strconv.Itoa(s.ClipsEmitted)})
	if cutting {
		tw.AppendRow(table.Row{"extractions ok", strconv.Itoa(s.ExtractOK)})
		tw.AppendRow(table.Row{"extractions failed", strconv.Itoa(s.ExtractFailed)})
		tw.AppendRow(table.Row{"videos extracted", strconv.Itoa(len(s.DistinctVideos))})
		tw.AppendRow(table.Row{"missing clip files", strconv.Itoa(s.MissingFiles)})
	} else {
		tw.AppendRow(table.Row{"video cutting", "skipped"})
	}
	tw.AppendRow(table.Row{"skipped input lines", strconv.Itoa(s.SkippedInput)})
	tw.AppendRow(table.Row{"elapsed", s.Elapsed.Round(time.Second).String()})
	return tw.Render()
}
