package extract

import (
	"math"
	"strconv"
	"strings"
)

// ParseFrameRate converts a "numerator/denominator" rate into a rounded
// integer. Anything other than exactly two integer parts, or a zero
// denominator, yields nil.
func ParseFrameRate(rate string) *int {
	parts := strings.Split(strings.TrimSpace(rate), "/")
	if len(parts) != 2 {
		return nil
	}
	num, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil
	}
	den, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || den == 0 {
		return nil
	}
	fps := int(math.Round(float64(num) / float64(den)))
	return &fps
}
