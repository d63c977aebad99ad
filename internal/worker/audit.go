package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// maxMissingReported caps how many missing filenames the audit names
// individually.
const maxMissingReported = 5

// maxLineBytes matches the input decoder's line bound.
const maxLineBytes = 16 * 1024 * 1024

// auditOutput re-reads the written records and checks that every
// referenced clip file exists in the output video directory. Mismatches
// are reported, never fatal: the data record is still useful even when its
// clip went missing.
func auditOutput(outputPath, videoDir string, log *slog.Logger) (int, error) {
	f, err := os.Open(outputPath)
	if err != nil {
		return 0, fmt.Errorf("open output for audit: %w", err)
	}
	defer f.Close()

	type recordRef struct {
		Video string `json:"video"`
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	missing := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ref recordRef
		if err := json.Unmarshal(line, &ref); err != nil || ref.Video == "" {
			continue
		}

		name := filepath.Base(ref.Video)
		if _, err := os.Stat(filepath.Join(videoDir, name)); err != nil {
			missing++
			if missing <= maxMissingReported {
				log.Warn("referenced clip file missing", "file", name)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return missing, fmt.Errorf("scan output for audit: %w", err)
	}

	if missing == 0 {
		log.Info("audit passed, all referenced clip files exist")
	} else {
		log.Warn("audit found missing clip files", "missing", missing)
	}
	return missing, nil
}
