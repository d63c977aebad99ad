package pipeline

// Interval is one timed subtitle line from the source video.
type Interval struct {
	Start float64
	End   float64
	Text  string
}

// Word is a single spoken token with its estimated timing.
type Word struct {
	Start float64
	End   float64
	Token string
}

// VideoRecord is one source video with its word-level timing, immutable
// once built.
type VideoRecord struct {
	VideoID  string
	Title    string
	Category string
	Words    []Word
}

// Clip is a contiguous, time-bounded run of words selected as one training
// example. PreviousText is the space-joined text of every word strictly
// before the span — a growing prefix of the whole video, not a window.
type Clip struct {
	VideoID      string
	Words        []Word
	PreviousText string
	Title        string
	Category     string
}

// StartTime is the start of the first word in the span.
func (c *Clip) StartTime() float64 {
	return c.Words[0].Start
}

// EndTime is the end of the last word in the span.
func (c *Clip) EndTime() float64 {
	return c.Words[len(c.Words)-1].End
}
