package pipeline

import (
	"strings"

	"github.com/youngOS1998/gameskill-data-process/internal/config"
)

// Segmenter greedily partitions a word sequence into candidate clips
// bounded by duration and gap constraints.
type Segmenter struct {
	MinClipSec   float64
	MaxClipSec   float64
	MaxEmptySec  float64
	KeepTrailing bool
}

// NewSegmenter creates a segmenter from clip settings.
func NewSegmenter(settings config.ClipSettings) *Segmenter {
	return &Segmenter{
		MinClipSec:   settings.MinClipSec,
		MaxClipSec:   settings.MaxClipSec,
		MaxEmptySec:  settings.MaxEmptySec,
		KeepTrailing: settings.KeepTrailing,
	}
}

// Segment scans the record's words once, left to right, and cuts candidate
// clips. From each cursor position it extends the run until the span would
// exceed MaxClipSec or the end-to-end gap to the next word would exceed
// MaxEmptySec; the violating word is excluded and becomes the next cursor.
// A run is emitted only when its included span reaches MinClipSec. Word
// spans never overlap and clips are strictly ordered in time.
//
// A trailing run that reaches end-of-words without any violation is
// discarded unless KeepTrailing is set, in which case it is emitted when it
// still satisfies MinClipSec.
func (s *Segmenter) Segment(rec *VideoRecord) []Clip {
	words := rec.Words
	var clips []Clip

	i := 0
	for i < len(words) {
		stop := -1
		for j := i + 1; j < len(words); j++ {
			if words[j].End-words[i].End > s.MaxClipSec {
				stop = j
				break
			}
			if words[j].End-words[j-1].End > s.MaxEmptySec {
				stop = j
				break
			}
		}

		if stop < 0 {
			if s.KeepTrailing && words[len(words)-1].End-words[i].End >= s.MinClipSec {
				clips = append(clips, s.newClip(rec, i, len(words)))
			}
			break
		}

		if words[stop-1].End-words[i].End >= s.MinClipSec {
			clips = append(clips, s.newClip(rec, i, stop))
		}
		i = stop
	}

	return clips
}

func (s *Segmenter) newClip(rec *VideoRecord, lo, hi int) Clip {
	return Clip{
		VideoID:      rec.VideoID,
		Words:        rec.Words[lo:hi],
		PreviousText: joinTokens(rec.Words[:lo]),
		Title:        rec.Title,
		Category:     rec.Category,
	}
}

func joinTokens(words []Word) string {
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = w.Token
	}
	return strings.Join(tokens, " ")
}
