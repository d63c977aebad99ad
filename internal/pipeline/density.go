package pipeline

import "github.com/youngOS1998/gameskill-data-process/internal/config"

// DensityFilter accepts or rejects clips by speech rate. Too few words per
// second usually means silence or noise was swept into the span; too many
// means transcription artifacts.
type DensityFilter struct {
	MinWPS float64
	MaxWPS float64
}

// NewDensityFilter creates a filter from clip settings.
func NewDensityFilter(settings config.ClipSettings) *DensityFilter {
	return &DensityFilter{MinWPS: settings.MinWPS, MaxWPS: settings.MaxWPS}
}

// Accept reports whether the clip's words-per-second rate falls inside
// [MinWPS, MaxWPS]. The duration is measured end-to-end, matching the
// segmenter's bounds; empty or zero-duration spans are rejected outright.
func (f *DensityFilter) Accept(clip *Clip) bool {
	n := len(clip.Words)
	if n == 0 {
		return false
	}
	duration := clip.Words[n-1].End - clip.Words[0].End
	if duration <= 0 {
		return false
	}
	wps := float64(n) / duration
	return wps >= f.MinWPS && wps <= f.MaxWPS
}
