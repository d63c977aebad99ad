package pipeline

import (
	"testing"

	"github.com/youngOS1998/gameskill-data-process/internal/config"
)

func densityClip(words []Word) *Clip {
	return &Clip{VideoID: "v1", Words: words}
}

func evenWords(count int, step float64) []Word {
	words := make([]Word, count)
	for i := range words {
		words[i] = Word{
			Start: float64(i) * step,
			End:   float64(i+1) * step,
			Token: "w",
		}
	}
	return words
}

func TestDensityFilter_RejectsEmptySpan(t *testing.T) {
	f := NewDensityFilter(config.ClipSettings{MinWPS: 1, MaxWPS: 4})
	if f.Accept(densityClip(nil)) {
		t.Error("empty span must be rejected")
	}
}

func TestDensityFilter_RejectsZeroDuration(t *testing.T) {
	f := NewDensityFilter(config.ClipSettings{MinWPS: 1, MaxWPS: 4})
	clip := densityClip([]Word{{Start: 1, End: 2, Token: "a"}})
	if f.Accept(clip) {
		t.Error("single-word span has zero end-to-end duration and must be rejected")
	}
}

func TestDensityFilter_AcceptsInsideBounds(t *testing.T) {
	f := NewDensityFilter(config.ClipSettings{MinWPS: 1, MaxWPS: 4})
	// 10 words over a 4.5s end-to-end span: ~2.2 wps.
	if !f.Accept(densityClip(evenWords(10, 0.5))) {
		t.Error("clip inside density bounds must be accepted")
	}
}

func TestDensityFilter_BoundsAreInclusive(t *testing.T) {
	// 4 words with end-to-end span 3.0 → exactly 4/3 wps; bounds set to
	// hit both edges exactly.
	words := evenWords(4, 1.0) // span = 4.0 - 1.0 = 3.0
	wps := 4.0 / 3.0

	lower := NewDensityFilter(config.ClipSettings{MinWPS: wps, MaxWPS: 10})
	if !lower.Accept(densityClip(words)) {
		t.Error("exact lower bound must be accepted")
	}

	upper := NewDensityFilter(config.ClipSettings{MinWPS: 0.1, MaxWPS: wps})
	if !upper.Accept(densityClip(words)) {
		t.Error("exact upper bound must be accepted")
	}
}

func TestDensityFilter_RejectsOutsideBounds(t *testing.T) {
	// 3 words over a 10s end-to-end span: 0.3 wps, below min.
	sparse := []Word{
		{Start: 0, End: 1, Token: "a"},
		{Start: 5, End: 6, Token: "b"},
		{Start: 10, End: 11, Token: "c"},
	}
	// 6 words over a 1s end-to-end span: 6 wps, above max.
	dense := evenWords(6, 0.2)

	f := NewDensityFilter(config.ClipSettings{MinWPS: 1, MaxWPS: 4})
	if f.Accept(densityClip(sparse)) {
		t.Error("sparse clip must be rejected")
	}
	if f.Accept(densityClip(dense)) {
		t.Error("dense clip must be rejected")
	}
}
