package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// minOutputBytes is the weaker size heuristic used when ffprobe is not
// installed: any real clip is larger than 1KB.
const minOutputBytes = 1024

// probeTimeout bounds the read-only verification probe.
const probeTimeout = 5 * time.Second

// verifyOutput checks that an extraction produced a usable file: it must
// exist, be non-empty, and carry a decodable video stream. Without ffprobe
// the stream check degrades to a minimum-size heuristic.
func (c *Cutter) verifyOutput(ctx context.Context, path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("verify output: %w", err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("verify output: %s is empty", path)
	}

	if !c.hasProbe {
		if stat.Size() <= minOutputBytes {
			return fmt.Errorf("verify output: %s is %d bytes, below the plausible minimum", path, stat.Size())
		}
		return nil
	}

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := c.runner.Run(pctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	if err != nil {
		return fmt.Errorf("verify output: %w", err)
	}
	if !strings.Contains(string(out), "codec_name") {
		return fmt.Errorf("verify output: %s has no decodable video stream", path)
	}
	return nil
}
