package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestParsePart(t *testing.T) {
	cases := []struct {
		in           string
		index, total int
		wantErr      bool
	}{
		{"1/1", 1, 1, false},
		{"2/4", 2, 4, false},
		{"0/4", 0, 0, true},
		{"5/4", 0, 0, true},
		{"1", 0, 0, true},
		{"a/b", 0, 0, true},
	}
	for _, tc := range cases {
		index, total, err := ParsePart(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePart(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePart(%q): %v", tc.in, err)
			continue
		}
		if index != tc.index || total != tc.total {
			t.Errorf("ParsePart(%q) = %d/%d, want %d/%d", tc.in, index, total, tc.index, tc.total)
		}
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty inputs", func(c *Config) { c.Inputs = "" }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad part", func(c *Config) { c.Part = "3/2" }},
		{"min over max clip", func(c *Config) { c.Clip.MinClipSec = 20 }},
		{"zero max gap", func(c *Config) { c.Clip.MaxEmptySec = 0 }},
		{"min over max wps", func(c *Config) { c.Clip.MinWPS = 10 }},
		{"crf out of range", func(c *Config) { c.Encode.CRF = 99 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
inputs = "other.jsonl"
workers = 6

[clip]
max_clip_sec = 20.0
keep_trailing = true

[encode]
preset = "fast"
crf = 23
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Inputs != "other.jsonl" {
		t.Errorf("Inputs = %q", cfg.Inputs)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Clip.MaxClipSec != 20 || !cfg.Clip.KeepTrailing {
		t.Errorf("clip overlay not applied: %+v", cfg.Clip)
	}
	if cfg.Encode.Preset != "fast" || cfg.Encode.CRF != 23 {
		t.Errorf("encode overlay not applied: %+v", cfg.Encode)
	}

	// Unset keys keep their defaults.
	if cfg.Clip.MinClipSec != 5 {
		t.Errorf("MinClipSec = %v, want default 5", cfg.Clip.MinClipSec)
	}
	if cfg.Output != Default().Output {
		t.Errorf("Output = %q, want default", cfg.Output)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Inputs != Default().Inputs {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
