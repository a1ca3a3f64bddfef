package extract

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		3661:       "1:01:01.000000",
		59:         "0:00:59.000000",
		59.999:     "0:00:59.000000",
		0:          "0:00:00.000000",
		-4:         "0:00:00.000000",
		36000 + 61: "10:01:01.000000",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatDuration(math.NaN()); got != "0:00:00.000000" {
		t.Errorf("NaN rendered as %q", got)
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := map[string]int{"25/1": 25, "30000/1001": 30, "24000/1001": 24, " 60/1 ": 60}
	for in, want := range cases {
		got := ParseFrameRate(in)
		if got == nil || *got != want {
			t.Errorf("ParseFrameRate(%q) = %v, want %d", in, got, want)
		}
	}
	for _, in := range []string{"30", "1/0", "", "a/b", "1/2/3", "29.97/1"} {
		if got := ParseFrameRate(in); got != nil {
			t.Errorf("ParseFrameRate(%q) = %d, want nil", in, *got)
		}
	}
}

func TestFirstOfStopsAtFirstValue(t *testing.T) {
	calls := 0
	counted := func(v *int) func() *int {
		return func() *int { calls++; return v }
	}
	one, two := 1, 2
	got := firstOf(counted(nil), counted(&one), counted(&two))
	if got == nil || *got != 1 || calls != 2 {
		t.Fatalf("firstOf = %v after %d calls", got, calls)
	}
	if firstOf[int]() != nil {
		t.Fatal("no attempts should yield nil")
	}
	if stored(time.Time{})() != nil {
		t.Fatal("zero time must count as absent")
	}
}

func TestImageName(t *testing.T) {
	cases := []struct{ file, path, want string }{
		{"IMG_0001.HEIC", "/lib/x.heic", "IMG_0001"},
		{"", "/lib/holiday.final.jpg", "holiday.final"},
		{"noext", "", "noext"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := imageName(tc.file, tc.path); got != tc.want {
			t.Errorf("imageName(%q, %q) = %q, want %q", tc.file, tc.path, got, tc.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	s := "4.25 mm"
	if got := parseDecimal(&s); got == nil || *got != 4.25 {
		t.Fatalf("parseDecimal(%q) = %v", s, got)
	}
	bad := "wide"
	if parseDecimal(&bad) != nil || parseDecimal(nil) != nil {
		t.Fatal("expected nil for unparsable input")
	}
}

func TestResultStatus(t *testing.T) {
	var r Result
	r.ok(StageTags, "")
	r.skip(StageLivePhoto, "no content identifier")
	if r.Status() != StatusOK {
		t.Fatalf("skips beside ok stages should stay ok, got %s", r.Status())
	}
	r.degrade(StageRaster, errors.New("unknown format"))
	if r.Status() != StatusDegraded {
		t.Fatalf("expected degraded, got %s", r.Status())
	}
	r.fail(StageUpsert, errors.New("disk full"))
	if r.Status() != StatusFailed || r.Err() == nil {
		t.Fatalf("expected failed with error, got %s", r.Status())
	}

	var skipped Result
	skipped.skip(StageVisibility, "asset hidden")
	if skipped.Status() != StatusSkipped {
		t.Fatalf("expected skipped, got %s", skipped.Status())
	}
}
