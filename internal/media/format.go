package media

import (
	"math"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatFileSize renders bytes in decimal (base 1000) units, rounded to
// precision digits with trailing zeros dropped: 1536 -> "1.54 KB".
// A precision below one falls back to 2.
func FormatFileSize(bytes int64, precision int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if precision < 1 {
		precision = 2
	}

	exp := int(math.Floor(math.Log(float64(bytes)) / math.Log(1000)))
	if exp >= len(sizeUnits) {
		exp = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1000, float64(exp))

	// FtoaWithDigits truncates, so round first.
	scale := math.Pow(10, float64(precision))
	value = math.Round(value*scale) / scale

	return humanize.FtoaWithDigits(value, precision) + " " + sizeUnits[exp]
}
