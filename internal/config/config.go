package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ClipSettings bounds the clip segmentation and density filtering.
type ClipSettings struct {
	MinClipSec  float64 `toml:"min_clip_sec"`
	MaxClipSec  float64 `toml:"max_clip_sec"`
	MaxEmptySec float64 `toml:"max_empty_sec"`
	MinWPS      float64 `toml:"min_wps"`
	MaxWPS      float64 `toml:"max_wps"`

	// KeepTrailing emits the trailing word run at end-of-video when it
	// still satisfies MinClipSec, instead of discarding it.
	KeepTrailing bool `toml:"keep_trailing"`

	// MaxClipsPerVideo caps the clips taken from one video. 0 = no cap.
	MaxClipsPerVideo int `toml:"max_clips_per_video"`
}

// EncodeSettings controls the re-encode fallback of the video cutter.
type EncodeSettings struct {
	Preset           string `toml:"preset"`
	CRF              int    `toml:"crf"`
	TryCopyFirst     bool   `toml:"try_copy_first"`
	CopyTimeoutSec   int    `toml:"copy_timeout_sec"`
	EncodeTimeoutSec int    `toml:"encode_timeout_sec"`
}

// Config holds the full application configuration.
type Config struct {
	Inputs         string `toml:"inputs"`
	Output         string `toml:"output"`
	VideoDir       string `toml:"video_dir"`
	OutputVideoDir string `toml:"output_video_dir"`
	DataPath       string `toml:"data_path"`

	// Part selects a shard of the input as "index/total".
	Part string `toml:"part"`

	// MaxVideos caps the records processed from the shard. 0 = no cap.
	MaxVideos int `toml:"max_videos"`

	// Workers is the extraction pool size. 0 = NumCPU-1, minimum 1.
	Workers int `toml:"workers"`

	// SpawnRatePerMin paces ffmpeg launches. 0 = unlimited.
	SpawnRatePerMin int `toml:"spawn_rate_per_min"`

	// SkipVideoCut generates data records without cutting any video.
	SkipVideoCut bool `toml:"skip_video_cut"`

	Clip   ClipSettings   `toml:"clip"`
	Encode EncodeSettings `toml:"encode"`
}

// Default returns a Config with defaults matching the reference dataset run.
func Default() *Config {
	return &Config{
		Inputs:         "fp_processed.jsonl",
		Output:         "gameskill_train.jsonl",
		VideoDir:       "processed_bilibili_cs2",
		OutputVideoDir: "videos_gameskill",
		Part:           "1/1",
		Clip: ClipSettings{
			MinClipSec:  5,
			MaxClipSec:  15,
			MaxEmptySec: 2,
			MinWPS:      1,
			MaxWPS:      4,
		},
		Encode: EncodeSettings{
			Preset:           "ultrafast",
			CRF:              28,
			TryCopyFirst:     true,
			CopyTimeoutSec:   300,
			EncodeTimeoutSec: 600,
		},
	}
}

// ParsePart splits a "index/total" shard selector.
func ParsePart(part string) (index, total int, err error) {
	lhs, rhs, ok := strings.Cut(part, "/")
	if !ok {
		return 0, 0, fmt.Errorf("part %q: want index/total", part)
	}
	index, err = strconv.Atoi(lhs)
	if err != nil {
		return 0, 0, fmt.Errorf("part %q: %w", part, err)
	}
	total, err = strconv.Atoi(rhs)
	if err != nil {
		return 0, 0, fmt.Errorf("part %q: %w", part, err)
	}
	if total < 1 || index < 1 || index > total {
		return 0, 0, fmt.Errorf("part %q: index must be in 1..total", part)
	}
	return index, total, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Inputs == "" {
		return fmt.Errorf("inputs path is empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is empty")
	}
	if _, _, err := ParsePart(c.Part); err != nil {
		return err
	}
	if c.Clip.MinClipSec <= 0 || c.Clip.MaxClipSec <= 0 {
		return fmt.Errorf("clip duration bounds must be positive")
	}
	if c.Clip.MinClipSec > c.Clip.MaxClipSec {
		return fmt.Errorf("min_clip_sec %.1f exceeds max_clip_sec %.1f", c.Clip.MinClipSec, c.Clip.MaxClipSec)
	}
	if c.Clip.MaxEmptySec <= 0 {
		return fmt.Errorf("max_empty_sec must be positive")
	}
	if c.Clip.MinWPS < 0 || c.Clip.MaxWPS <= 0 {
		return fmt.Errorf("words-per-second bounds must be positive")
	}
	if c.Clip.MinWPS > c.Clip.MaxWPS {
		return fmt.Errorf("min_wps %.1f exceeds max_wps %.1f", c.Clip.MinWPS, c.Clip.MaxWPS)
	}
	if c.Encode.CRF < 0 || c.Encode.CRF > 51 {
		return fmt.Errorf("crf %d outside 0..51", c.Encode.CRF)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}
