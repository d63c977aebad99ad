package pipeline

import (
	"math"
	"strings"
)

// BuildWordStream converts timed subtitle intervals into a flat sequence of
// timed single words. Intervals containing bracket characters are dropped
// entirely (they mark non-speech annotations like [music]). Within one
// interval the text is split on single spaces, immediately-repeated tokens
// are collapsed, and the interval's duration is divided evenly across the
// surviving tokens, boundaries rounded to one decimal place.
func BuildWordStream(intervals []Interval) []Word {
	var words []Word
	for _, iv := range intervals {
		if strings.ContainsAny(iv.Text, "[]") {
			continue
		}

		var tokens []string
		for _, tok := range strings.Split(iv.Text, " ") {
			if tok == "" {
				continue
			}
			if len(tokens) > 0 && tokens[len(tokens)-1] == tok {
				continue
			}
			tokens = append(tokens, tok)
		}
		if len(tokens) == 0 {
			continue
		}

		durationPerWord := (iv.End - iv.Start) / float64(len(tokens))
		for i, tok := range tokens {
			words = append(words, Word{
				Start: round1(iv.Start + float64(i)*durationPerWord),
				End:   round1(iv.Start + float64(i+1)*durationPerWord),
				Token: tok,
			})
		}
	}
	return words
}

// round1 rounds to one decimal place of seconds.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
