package extract

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "H:MM:SS.000000". The fractional part is
// truncated; negative and NaN inputs render as zero.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d:%02d.000000", total/3600, total%3600/60, total%60)
}
