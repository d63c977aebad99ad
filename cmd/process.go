package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/youngOS1998/gameskill-data-process/internal/config"
	"github.com/youngOS1998/gameskill-data-process/internal/worker"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Segment subtitled videos into clips and extract the matching sub-clips",
	Long: `Process reads one JSON record per source video (id, title, category, timed
subtitle intervals), segments the per-word timing into bounded clips,
filters them by words-per-second density, cuts each clip from the source
video with ffmpeg, and writes one training record per clip to the output
JSONL file.`,
	RunE: runProcess,
}

var (
	configPath string

	inputs         string
	output         string
	videoDir       string
	outputVideoDir string
	dataPath       string
	part           string
	maxVideos      int
	workers        int
	spawnRate      int
	skipVideoCut   bool

	minClipSec       float64
	maxClipSec       float64
	maxEmptySec      float64
	minWPS           float64
	maxWPS           float64
	keepTrailing     bool
	maxClipsPerVideo int

	preset           string
	crf              int
	tryCopyFirst     bool
	copyTimeoutSec   int
	encodeTimeoutSec int
)

func init() {
	defaults := config.Default()

	processCmd.Flags().StringVar(&configPath, "config", "", "optional TOML config file")

	processCmd.Flags().StringVar(&inputs, "inputs", defaults.Inputs, "input JSONL of subtitled video records")
	processCmd.Flags().StringVarP(&output, "output", "o", defaults.Output, "output JSONL of training records")
	processCmd.Flags().StringVar(&videoDir, "video-dir", defaults.VideoDir, "directory holding source videos as <video_id>.mp4")
	processCmd.Flags().StringVar(&outputVideoDir, "output-video-dir", defaults.OutputVideoDir, "directory receiving extracted clips")
	processCmd.Flags().StringVar(&dataPath, "data-path", defaults.DataPath, "absolute dataset path recorded per clip (default: working directory)")
	processCmd.Flags().StringVar(&part, "part", defaults.Part, "shard of the input to process, as index/total")
	processCmd.Flags().IntVar(&maxVideos, "max-videos", defaults.MaxVideos, "cap on processed videos, 0 = no cap")
	processCmd.Flags().IntVarP(&workers, "workers", "j", defaults.Workers, "extraction pool size, 0 = CPUs-1")
	processCmd.Flags().IntVar(&spawnRate, "spawn-rate", defaults.SpawnRatePerMin, "ffmpeg launches per minute, 0 = unlimited")
	processCmd.Flags().BoolVar(&skipVideoCut, "skip-video-cut", defaults.SkipVideoCut, "generate data records without cutting video")

	processCmd.Flags().Float64Var(&minClipSec, "min-clip-sec", defaults.Clip.MinClipSec, "minimum clip duration in seconds")
	processCmd.Flags().Float64Var(&maxClipSec, "max-clip-sec", defaults.Clip.MaxClipSec, "maximum clip duration in seconds")
	processCmd.Flags().Float64Var(&maxEmptySec, "max-empty-sec", defaults.Clip.MaxEmptySec, "maximum silent gap inside a clip in seconds")
	processCmd.Flags().Float64Var(&minWPS, "min-wps", defaults.Clip.MinWPS, "minimum words per second")
	processCmd.Flags().Float64Var(&maxWPS, "max-wps", defaults.Clip.MaxWPS, "maximum words per second")
	processCmd.Flags().BoolVar(&keepTrailing, "keep-trailing", defaults.Clip.KeepTrailing, "emit the trailing word run when it meets the minimum duration")
	processCmd.Flags().IntVar(&maxClipsPerVideo, "max-clips-per-video", defaults.Clip.MaxClipsPerVideo, "cap on clips per video, 0 = no cap")

	processCmd.Flags().StringVar(&preset, "preset", defaults.Encode.Preset, "x264 preset for the re-encode fallback")
	processCmd.Flags().IntVar(&crf, "crf", defaults.Encode.CRF, "x264 CRF for the re-encode fallback (0-51)")
	processCmd.Flags().BoolVar(&tryCopyFirst, "try-copy-first", defaults.Encode.TryCopyFirst, "attempt a stream-copy extraction before re-encoding")
	processCmd.Flags().IntVar(&copyTimeoutSec, "copy-timeout-sec", defaults.Encode.CopyTimeoutSec, "timeout for one stream-copy attempt")
	processCmd.Flags().IntVar(&encodeTimeoutSec, "encode-timeout-sec", defaults.Encode.EncodeTimeoutSec, "timeout for one re-encode attempt")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx, cfg); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}

// applyFlagOverrides lets explicitly-set flags win over file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) || !hasConfigFile() {
			apply()
		}
	}

	set("inputs", func() { cfg.Inputs = inputs })
	set("output", func() { cfg.Output = output })
	set("video-dir", func() { cfg.VideoDir = videoDir })
	set("output-video-dir", func() { cfg.OutputVideoDir = outputVideoDir })
	set("data-path", func() { cfg.DataPath = dataPath })
	set("part", func() { cfg.Part = part })
	set("max-videos", func() { cfg.MaxVideos = maxVideos })
	set("workers", func() { cfg.Workers = workers })
	set("spawn-rate", func() { cfg.SpawnRatePerMin = spawnRate })
	set("skip-video-cut", func() { cfg.SkipVideoCut = skipVideoCut })

	set("min-clip-sec", func() { cfg.Clip.MinClipSec = minClipSec })
	set("max-clip-sec", func() { cfg.Clip.MaxClipSec = maxClipSec })
	set("max-empty-sec", func() { cfg.Clip.MaxEmptySec = maxEmptySec })
	set("min-wps", func() { cfg.Clip.MinWPS = minWPS })
	set("max-wps", func() { cfg.Clip.MaxWPS = maxWPS })
	set("keep-trailing", func() { cfg.Clip.KeepTrailing = keepTrailing })
	set("max-clips-per-video", func() { cfg.Clip.MaxClipsPerVideo = maxClipsPerVideo })

	set("preset", func() { cfg.Encode.Preset = preset })
	set("crf", func() { cfg.Encode.CRF = crf })
	set("try-copy-first", func() { cfg.Encode.TryCopyFirst = tryCopyFirst })
	set("copy-timeout-sec", func() { cfg.Encode.CopyTimeoutSec = copyTimeoutSec })
	set("encode-timeout-sec", func() { cfg.Encode.EncodeTimeoutSec = encodeTimeoutSec })
}

func hasConfigFile() bool {
	return configPath != ""
}
