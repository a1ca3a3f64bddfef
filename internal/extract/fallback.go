package extract

import (
	"strconv"
	"strings"
	"time"
)

// firstOf evaluates attempts in order and returns the first non-nil value.
func firstOf[T any](attempts ...func() *T) *T {
	for _, attempt := range attempts {
		if v := attempt(); v != nil {
			return v
		}
	}
	return nil
}

// value wraps an already computed optional value as an attempt.
func value[T any](p *T) func() *T {
	return func() *T { return p }
}

// stored treats the zero time as absent.
func stored(t time.Time) func() *time.Time {
	return func() *time.Time {
		if t.IsZero() {
			return nil
		}
		return &t
	}
}

// parseDecimal reads a number that may carry a unit suffix, as in "4.25 mm".
func parseDecimal(text *string) *float64 {
	if text == nil {
		return nil
	}
	s := strings.TrimSpace(*text)
	s = strings.TrimSpace(strings.TrimSuffix(s, "mm"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
