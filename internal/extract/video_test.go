package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/extract"
	"mediameta/internal/location"
	"mediameta/internal/media/ffprobe"
	"mediameta/internal/services"
	"mediameta/internal/tags"
)

func probeResult(tagsByKey map[string]string, streams ...ffprobe.Stream) ffprobe.Result {
	return ffprobe.Result{
		Format:  ffprobe.Format{Duration: "3661.75", Size: "482113", Tags: tagsByKey},
		Streams: streams,
	}
}

func TestVideoExtractFullRecord(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "IMG_0010.MOV")
	ninety := 90.0
	e.prober.results[clip.OriginalPath] = probeResult(
		map[string]string{
			extract.TagCreationDate: "2023-07-04T11:29:59-0700",
			extract.TagCreationTime: "2023-07-04T18:30:10.000000Z",
			location.TagISO6709:     "+37.3349-122.0090+024.000/",
			extract.TagMake:         "Apple",
			extract.TagModel:        "iPhone 12 Pro",
		},
		ffprobe.Stream{CodecType: "video", Width: 640, Height: 480, RFrameRate: "25/1"},
		ffprobe.Stream{CodecType: "audio"},
		ffprobe.Stream{CodecType: "video", Width: 1920, Height: 1080, RFrameRate: "30000/1001",
			SideDataList: []ffprobe.SideData{{SideDataType: "Display Matrix", Rotation: &ninety}}},
	)

	res := e.videos().Extract(context.Background(), *clip, "IMG_0010.MOV")
	if res.Status() == extract.StatusFailed {
		t.Fatalf("unexpected failure: %v", res.Err())
	}

	m := e.record(t, clip.ID)
	if m.Duration == nil || *m.Duration != "1:01:01.000000" {
		t.Fatalf("unexpected duration %v", m.Duration)
	}
	if *m.Width != 1920 || *m.Height != 1080 || *m.Orientation != "90" || *m.FPS != 30 {
		t.Fatalf("last video stream should win: %d x %d rot=%s fps=%d", *m.Width, *m.Height, *m.Orientation, *m.FPS)
	}
	if *m.Latitude != 37.3349 || *m.Longitude != -122.009 {
		t.Fatalf("unexpected coordinates %v %v", *m.Latitude, *m.Longitude)
	}
	if m.City == nil || *m.City != "Cupertino" {
		t.Fatalf("expected place enrichment, got %v", m.City)
	}
	if *m.FileSizeInBytes != 482113 || *m.Make != "Apple" || *m.Model != "iPhone 12 Pro" {
		t.Fatalf("unexpected container fields: %+v", m)
	}

	stored := e.reload(t, clip.ID)
	want := time.Date(2023, 7, 4, 18, 29, 59, 0, time.UTC)
	if !stored.FileCreatedAt.Equal(want) {
		t.Fatalf("vendor creation date should win, got %v", stored.FileCreatedAt)
	}
	if stored.Duration != "1:01:01.000000" {
		t.Fatalf("asset duration not persisted: %q", stored.Duration)
	}
}

func TestVideoSkipsHiddenAsset(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "IMG_0011.MOV")
	clip.IsVisible = false

	res := e.videos().Extract(context.Background(), *clip, "IMG_0011.MOV")
	if res.Status() != extract.StatusSkipped {
		t.Fatalf("expected skipped, got %s", res.Status())
	}
	if e.prober.calls != 0 {
		t.Fatal("hidden assets must not be probed")
	}
	if e.record(t, clip.ID) != nil {
		t.Fatal("no record expected for hidden asset")
	}
}

func TestVideoProbeFailureWritesNothing(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "IMG_0012.MOV")
	e.prober.err = errors.New("Invalid data found when processing input")

	res := e.videos().Extract(context.Background(), *clip, "IMG_0012.MOV")
	if res.Status() != extract.StatusFailed {
		t.Fatalf("expected failed, got %s", res.Status())
	}
	if !errors.Is(res.Err(), services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", res.Err())
	}
	if e.record(t, clip.ID) != nil {
		t.Fatal("probe failure must not write a record")
	}
	if got := e.reload(t, clip.ID); !got.FileCreatedAt.Equal(clip.FileCreatedAt) {
		t.Fatal("probe failure must not touch the asset")
	}
}

func TestVideoKeepsStoredDurationAndCreationTime(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "IMG_0013.MP4")
	if err := e.store.SaveAsset(context.Background(), asset.Update{ID: clip.ID, Duration: ptr("0:00:59.000000")}); err != nil {
		t.Fatalf("seed duration: %v", err)
	}
	clip = e.reload(t, clip.ID)
	e.prober.results[clip.OriginalPath] = ffprobe.Result{
		Format:  ffprobe.Format{Tags: map[string]string{extract.TagCreationDate: "not a date"}},
		Streams: []ffprobe.Stream{{CodecType: "video", Width: 1280, Height: 720, RFrameRate: "30"}},
	}

	e.videos().Extract(context.Background(), *clip, "IMG_0013.MP4")

	m := e.record(t, clip.ID)
	if m.Duration == nil || *m.Duration != "0:00:59.000000" {
		t.Fatalf("expected stored duration, got %v", m.Duration)
	}
	if m.FPS != nil {
		t.Fatalf("rate without separator must leave fps unset, got %d", *m.FPS)
	}
	if m.Orientation != nil {
		t.Fatalf("no rotation expected, got %s", *m.Orientation)
	}
	if m.FileSizeInBytes == nil || *m.FileSizeInBytes != 1234 {
		t.Fatalf("expected stat fallback for size, got %v", m.FileSizeInBytes)
	}
	got := e.reload(t, clip.ID)
	if !got.FileCreatedAt.Equal(clip.FileCreatedAt) || got.Duration != "0:00:59.000000" {
		t.Fatalf("stored values should be kept: %+v", got)
	}
}

func TestVideoCreationTimeFallsBackToGenericTag(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0001.MP4")
	e.prober.results[clip.OriginalPath] = probeResult(map[string]string{"CREATION_TIME": "2022-12-24T20:15:00.000000Z"})

	e.videos().Extract(context.Background(), *clip, "VID_0001.MP4")
	want := time.Date(2022, 12, 24, 20, 15, 0, 0, time.UTC)
	if got := e.reload(t, clip.ID).FileCreatedAt; !got.Equal(want) {
		t.Fatalf("expected generic creation tag, got %v", got)
	}
}

func TestVideoLocationPrefersGenericTag(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0002.MP4")
	e.prober.results[clip.OriginalPath] = probeResult(map[string]string{
		location.TagLocation: "-33.8568+151.2153/",
		location.TagISO6709:  "+37.3349-122.0090+024.000/",
	})

	e.videos().Extract(context.Background(), *clip, "VID_0002.MP4")
	m := e.record(t, clip.ID)
	if *m.Latitude != -33.8568 || *m.Longitude != 151.2153 {
		t.Fatalf("generic location tag should win, got %v %v", *m.Latitude, *m.Longitude)
	}
}

func TestVideoMalformedLocationLeavesCoordinatesNull(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0003.MP4")
	e.prober.results[clip.OriginalPath] = probeResult(map[string]string{
		"location": "+37.3349-122.0090+024.000/",
	})

	e.videos().Extract(context.Background(), *clip, "VID_0003.MP4")
	m := e.record(t, clip.ID)
	if m.Latitude != nil || m.Longitude != nil || m.City != nil {
		t.Fatalf("no partial coordinates expected: %+v", m)
	}
}

func TestVideoMalformedGenericLocationDoesNotFallBackToISO6709(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0005.MP4")
	e.prober.results[clip.OriginalPath] = probeResult(map[string]string{
		location.TagLocation: "garbage/",
		location.TagISO6709:  "+37.3349-122.0090+024.000/",
	})

	res := e.videos().Extract(context.Background(), *clip, "VID_0005.MP4")
	if res.Status() == extract.StatusFailed {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	m := e.record(t, clip.ID)
	if m.Latitude != nil || m.Longitude != nil || m.City != nil {
		t.Fatalf("present generic tag must decide alone: %+v", m)
	}
}

func TestVideoMalformedFrameRateKeepsEarlierStream(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0006.MP4")
	e.prober.results[clip.OriginalPath] = probeResult(nil,
		ffprobe.Stream{CodecType: "video", Width: 640, Height: 480, RFrameRate: "25/1"},
		ffprobe.Stream{CodecType: "video", Width: 320, Height: 240, RFrameRate: "30"},
	)

	e.videos().Extract(context.Background(), *clip, "VID_0006.MP4")
	m := e.record(t, clip.ID)
	if m.Width == nil || *m.Width != 320 {
		t.Fatalf("expected last stream dimensions, got %v", m.Width)
	}
	if m.FPS == nil || *m.FPS != 25 {
		t.Fatalf("expected fps from the earlier stream, got %v", m.FPS)
	}
}

func TestVideoRecordDoesNotInheritPlace(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "VID_0004.MP4")
	if err := e.store.UpsertMetadata(context.Background(), &asset.Metadata{
		AssetID: clip.ID, Latitude: ptr(1.0), Longitude: ptr(2.0), City: ptr("Old"), FPS: ptr(60),
	}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	e.prober.results[clip.OriginalPath] = probeResult(nil)

	e.videos().Extract(context.Background(), *clip, "VID_0004.MP4")
	m := e.record(t, clip.ID)
	if m.Latitude != nil || m.City != nil || m.FPS != nil {
		t.Fatalf("place and fps must reset on every run: %+v", m)
	}
}

func TestVideoContentIdentifierFromEmbeddedTags(t *testing.T) {
	e := newEnv(t)
	clip := e.newFile(t, asset.TypeVideo, "IMG_0014.MOV")
	e.prober.results[clip.OriginalPath] = probeResult(map[string]string{extract.TagContentIdentifier: "FROM-CONTAINER"})
	e.tags.byPath[clip.OriginalPath] = &tags.Tags{ContentIdentifier: ptr("FROM-TAGS")}

	e.videos().Extract(context.Background(), *clip, "IMG_0014.MOV")
	if m := e.record(t, clip.ID); *m.ContentIdentifier != "FROM-TAGS" {
		t.Fatalf("embedded tag should win, got %s", *m.ContentIdentifier)
	}
}
