package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "Video"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			Tags:     map[string]string{"Creation_Time": "2024-05-01T10:00:00.000000Z"},
		},
	}
	if !result.Streams[0].IsVideo() || result.Streams[1].IsVideo() || !result.Streams[2].IsVideo() {
		t.Fatalf("unexpected video classification: %+v", result.Streams)
	}
	if !result.HasDuration() || result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if v, ok := result.Tag("creation_time"); !ok || v != "2024-05-01T10:00:00.000000Z" {
		t.Fatalf("expected case-insensitive tag lookup, got %q %v", v, ok)
	}
	if _, ok := result.Tag("location"); ok {
		t.Fatal("unexpected location tag")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.HasDuration() {
		t.Fatal("expected no usable duration")
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if (Result{}).HasDuration() {
		t.Fatal("empty duration should not be usable")
	}
}

func TestStreamRotation(t *testing.T) {
	ninety := -90.0
	tests := []struct {
		name   string
		stream Stream
		want   float64
		ok     bool
	}{
		{"side data", Stream{SideDataList: []SideData{{SideDataType: "Display Matrix", Rotation: &ninety}}, Tags: map[string]string{"rotate": "180"}}, -90, true},
		{"rotate tag", Stream{Tags: map[string]string{"rotate": "270"}}, 270, true},
		{"garbage tag", Stream{Tags: map[string]string{"rotate": "sideways"}}, 0, false},
		{"none", Stream{}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.stream.Rotation()
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Rotation() = %v, %v; want %v, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "hevc", "width": 1920, "height": 1080,
     "r_frame_rate": "30000/1001", "side_data_list": [{"side_data_type": "Display Matrix", "rotation": 90}]},
    {"index": 1, "codec_type": "audio", "codec_name": "aac"}
  ],
  "format": {
    "filename": "clip.mov", "duration": "3.003", "size": "482113",
    "tags": {"com.apple.quicktime.location.ISO6709": "+37.3349-122.0090+024.000/"}
  }
}`

func TestProberRunsBinary(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(payload, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Prober{Binary: stub, Timeout: 5 * time.Second}.Probe(context.Background(), "/media/clip.mov")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(result.Streams) != 2 || result.Streams[0].RFrameRate != "30000/1001" {
		t.Fatalf("unexpected streams: %+v", result.Streams)
	}
	if rot, ok := result.Streams[0].Rotation(); !ok || rot != 90 {
		t.Fatalf("unexpected rotation %v %v", rot, ok)
	}
	if _, ok := result.Tag("com.apple.quicktime.location.iso6709"); !ok {
		t.Fatal("expected ISO6709 tag")
	}
	if result.Streams[0].CodecName != "hevc" {
		t.Fatalf("unexpected codec %q", result.Streams[0].CodecName)
	}
}

func TestProberReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho 'Invalid data found when processing input' >&2\nexit 1\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	_, err := Prober{Binary: stub}.Probe(context.Background(), "/media/broken.mov")
	if err == nil {
		t.Fatal("expected probe failure")
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestVersionReturnsFirstLine(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\necho 'ffprobe version 6.1.1 Copyright (c) 2007-2023'\necho 'built with gcc'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	version, err := Version(context.Background(), stub)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "ffprobe version 6.1.1 Copyright (c) 2007-2023" {
		t.Fatalf("unexpected version %q", version)
	}
}
