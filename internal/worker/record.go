package worker

import (
	"fmt"
	"path"
	"strings"

	"github.com/youngOS1998/gameskill-data-process/internal/pipeline"
)

// maxContextRunes bounds the prior-commentary context carried into a
// record's prompt.
const maxContextRunes = 500

// Turn is one side of a training conversation.
type Turn struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

// Metadata describes the clip a record was built from.
type Metadata struct {
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	VideoStart float64 `json:"video_start"`
	VideoEnd   float64 `json:"video_end"`
	Duration   float64 `json:"duration"`
	SourceFile string  `json:"source_file"`
}

// TrainingRecord is the serialized payload written for one clip.
type TrainingRecord struct {
	Video         string   `json:"video"`
	DataPath      string   `json:"data_path"`
	Conversations []Turn   `json:"conversations"`
	Metadata      Metadata `json:"metadata"`
}

// ClipFilename derives the deterministic output filename for a clip. The
// same (video, start, end) always maps to the same name, so re-runs
// overwrite rather than accumulate.
func ClipFilename(videoID string, start, end float64) string {
	return fmt.Sprintf("%s_%.2f-%.2f_2.0fps.mp4", videoID, start, end)
}

// FormatRecord builds the training record for a clip. Pure function of the
// clip and static configuration.
func FormatRecord(clip *pipeline.Clip, outputVideoDir, dataPath string) (*TrainingRecord, string) {
	filename := ClipFilename(clip.VideoID, clip.StartTime(), clip.EndTime())

	commentary := spanText(clip.Words)
	context := truncateContext(clip.PreviousText)

	var human strings.Builder
	fmt.Fprintf(&human, "<video>\nVideo title: %s\nCategory: %s", clip.Title, clip.Category)
	if context != "..." {
		fmt.Fprintf(&human, "\nPrior commentary: %s", context)
	}
	fmt.Fprintf(&human, "\nWatch the clip and provide commentary: %s", instructionFor(clip.Category))

	record := &TrainingRecord{
		Video:    path.Join(outputVideoDir, filename),
		DataPath: dataPath,
		Conversations: []Turn{
			{From: "human", Value: human.String()},
			{From: "gpt", Value: commentary},
		},
		Metadata: Metadata{
			Title:      clip.Title,
			Category:   clip.Category,
			VideoStart: clip.StartTime(),
			VideoEnd:   clip.EndTime(),
			Duration:   clip.EndTime() - clip.StartTime(),
			SourceFile: clip.VideoID + ".json",
		},
	}
	return record, filename
}

func spanText(words []pipeline.Word) string {
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = w.Token
	}
	return strings.Join(tokens, " ")
}

// truncateContext keeps the tail of the prior commentary, marking the cut
// with a leading ellipsis. Empty context becomes a bare ellipsis.
func truncateContext(prev string) string {
	if prev == "" {
		return "..."
	}
	runes := []rune(prev)
	if len(runes) <= maxContextRunes {
		return prev
	}
	return "..." + string(runes[len(runes)-maxContextRunes:])
}

func instructionFor(category string) string {
	lower := strings.ToLower(category)
	if strings.Contains(lower, "cs2") || strings.Contains(lower, "game") {
		return "Provide professional game commentary and analysis for this clip, covering tactics, mechanical skill, and key decisions."
	}
	return "Provide a commentary on the process shown in this clip, highlighting specific measurements and steps involved."
}
