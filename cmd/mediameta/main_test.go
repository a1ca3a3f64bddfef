package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediameta/internal/asset"
	"mediameta/internal/store"
	"mediameta/internal/testsupport"
)

const probePayload = `{
  "streams": [
    {"index": 0, "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001",
     "side_data_list": [{"side_data_type": "Display Matrix", "rotation": -90}]},
    {"index": 1, "codec_type": "audio"}
  ],
  "format": {
    "duration": "3.003", "size": "2048",
    "tags": {
      "com.apple.quicktime.creationdate": "2023-07-04T11:29:59-0700",
      "com.apple.quicktime.location.ISO6709": "+37.3230-122.0322+024.000/",
      "com.apple.quicktime.make": "Apple"
    }
  }
}`

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
	geoDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		geoDir:     filepath.Join(base, "geodata"),
	}
	if err := os.MkdirAll(env.geoDir, 0o755); err != nil {
		t.Fatalf("mkdir geodata: %v", err)
	}
	city := strings.Join([]string{
		"5364226", "Cupertino", "Cupertino", "", "37.323", "-122.03218", "P", "PPL", "US", "",
		"CA", "085", "", "", "60170", "", "72", "America/Los_Angeles", "2024-01-01",
	}, "\t")
	writeFile(t, filepath.Join(env.geoDir, "cities500.txt"), city+"\n")
	writeFile(t, filepath.Join(env.geoDir, "admin1CodesASCII.txt"), "US.CA\tCalifornia\tCalifornia\t5332921\n")
	writeFile(t, filepath.Join(env.geoDir, "admin2Codes.txt"), "US.CA.085\tSanta Clara County\tSanta Clara County\t5393021\n")

	payload := filepath.Join(base, "probe.json")
	writeFile(t, payload, probePayload)
	ffprobe := testsupport.WriteStubBinary(t, filepath.Join(base, "bin"), "ffprobe",
		"if [ \"$1\" = \"-version\" ]; then echo 'ffprobe version 6.1.1'; exit 0; fi\ncat "+payload+"\n")

	config := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[reverse_geocoding]
enabled = true
precision = 3
data_dir = %q

[probe]
ffprobe_binary = %q

[logging]
format = "json"
level = "warn"
`, env.dataDir, filepath.Join(base, "logs"), env.geoDir, ffprobe)
	writeFile(t, env.configPath, config)
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func openTestStore(t *testing.T, env *cliTestEnv) *store.Store {
	t.Helper()
	st, err := store.OpenPath(filepath.Join(env.dataDir, "mediameta.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCLIAddExtractShow(t *testing.T) {
	env := setupCLITestEnv(t)
	clip := filepath.Join(env.baseDir, "library", "IMG_0001.MOV")
	writeFile(t, clip, "not really a movie")

	out, err := runCLI(t, []string{"add", clip}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.Fields(out)[0]
	if !strings.Contains(out, string(asset.TypeVideo)) {
		t.Fatalf("expected video type, got %q", out)
	}

	out, err = runCLI(t, []string{"extract", "--wait-geocoder"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "Processed 1 assets") {
		t.Fatalf("unexpected extract output: %q", out)
	}

	st := openTestStore(t, env)
	m, err := st.GetMetadata(context.Background(), id)
	if err != nil || m == nil {
		t.Fatalf("expected metadata record: %v", err)
	}
	if m.City == nil || *m.City != "Cupertino" {
		t.Fatalf("expected enriched city, got %v", m.City)
	}
	if m.FPS == nil || *m.FPS != 30 || *m.Orientation != "-90" {
		t.Fatalf("unexpected stream fields: fps=%v orientation=%v", m.FPS, m.Orientation)
	}

	out, err = runCLI(t, []string{"show", id}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"0:00:03.000000", "Santa Clara County, California", "United States"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIAddRejectsUnknownExtension(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := filepath.Join(env.baseDir, "notes.txt")
	writeFile(t, doc, "hello")

	if _, err := runCLI(t, []string{"add", doc}, env.configPath); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestCLIExtractRejectsUnknownType(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"extract", "--type", "audio"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown asset type") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestCLIGeocode(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, []string{"geocode", "37.33", "-122.03"}, env.configPath)
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !strings.Contains(out, "Cupertino") || !strings.Contains(out, "United States") {
		t.Fatalf("unexpected geocode output: %q", out)
	}

	if _, err := runCLI(t, []string{"geocode", "91", "0"}, env.configPath); err == nil {
		t.Fatal("expected latitude range error")
	}
}

func TestCLIGeocodeAcceptsNegativeCoordinates(t *testing.T) {
	env := setupCLITestEnv(t)
	cases := [][]string{
		{"geocode", "-33.8688", "151.2093"},
		{"geocode", "-33.8688", "-70.6693"},
		{"geocode", "--config", env.configPath, "-12.5", "-45"},
		{"geocode", "--", "-12.5", "-45"},
	}
	for _, args := range cases {
		out, err := runCLI(t, args, env.configPath)
		if err != nil {
			t.Fatalf("geocode %v: %v", args[1:], err)
		}
		if !strings.Contains(out, "Cupertino") {
			t.Fatalf("geocode %v: unexpected output %q", args[1:], out)
		}
	}

	if _, err := runCLI(t, []string{"geocode", "-95", "0"}, env.configPath); err == nil {
		t.Fatal("expected latitude range error")
	}
	if _, err := runCLI(t, []string{"geocode", "--verbose", "1", "2"}, env.configPath); err == nil {
		t.Fatal("expected unknown flag error")
	}
	if _, err := runCLI(t, []string{"geocode", "-1"}, env.configPath); err == nil {
		t.Fatal("expected argument count error")
	}
}

func TestParseGeocodeArgs(t *testing.T) {
	parsed, err := parseGeocodeArgs([]string{"-c", "/tmp/a.toml", "-1.5", "--config=/tmp/b.toml", "2"})
	if err != nil {
		t.Fatalf("parseGeocodeArgs: %v", err)
	}
	if parsed.configPath != "/tmp/b.toml" {
		t.Fatalf("unexpected config path %q", parsed.configPath)
	}
	if len(parsed.coords) != 2 || parsed.coords[0] != "-1.5" || parsed.coords[1] != "2" {
		t.Fatalf("unexpected coords %v", parsed.coords)
	}

	parsed, err = parseGeocodeArgs([]string{"--help"})
	if err != nil || !parsed.help {
		t.Fatalf("expected help, got %+v %v", parsed, err)
	}
	if _, err := parseGeocodeArgs([]string{"--config"}); err == nil {
		t.Fatal("expected missing value error")
	}
}

func TestCLIReverseGeocodeRecomputesPlaces(t *testing.T) {
	env := setupCLITestEnv(t)
	img := filepath.Join(env.baseDir, "library", "IMG_0002.JPG")
	writeFile(t, img, "jpeg")

	out, err := runCLI(t, []string{"add", img}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.Fields(out)[0]

	st := openTestStore(t, env)
	lat, lon := 37.32, -122.03
	if err := st.UpsertMetadata(context.Background(), &asset.Metadata{AssetID: id, Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("seed metadata: %v", err)
	}

	if _, err := runCLI(t, []string{"reverse-geocode", id}, env.configPath); err != nil {
		t.Fatalf("reverse-geocode: %v", err)
	}
	m, err := st.GetMetadata(context.Background(), id)
	if err != nil || m == nil || m.City == nil || *m.City != "Cupertino" {
		t.Fatalf("expected recomputed city, got %+v (%v)", m, err)
	}
}

func TestCLICheck(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	for _, want := range []string{"FFprobe", "6.1.1", "Gazetteer", "cities500.txt"} {
		if !strings.Contains(out, want) {
			t.Fatalf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	target := filepath.Join(base, "cfg", "config.toml")

	out, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}

	out, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output: %q", out)
	}
}

func TestShouldSkipConfigFollowsParents(t *testing.T) {
	root := newRootCommand()
	initCmd, _, err := root.Find([]string{"config", "init"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !shouldSkipConfig(initCmd) {
		t.Fatal("config init must skip config loading")
	}
	showCmd, _, err := root.Find([]string{"show"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if shouldSkipConfig(showCmd) {
		t.Fatal("show needs config")
	}
}
